// Package printer provisions Epson TM-T88V and TM-T88VI receipt printers
// through their on-board web configuration API.
//
// # Firmware families
//
// The two families expose incompatible APIs:
//
//   - TM-T88VI serves one JSON resource over HTTPS with a self-signed
//     certificate. A partial update is one PUT of {"Setting": {...}}; the
//     printer must then be restarted.
//   - TM-T88V serves one form endpoint per settings group over HTTP. Groups
//     are written one after another and nothing is atomic.
//
// Both use HTTP Digest authentication with the fixed user "epson".
//
// # Usage
//
//	adapter, err := printer.New(printer.ModelT88VI, "192.168.1.50", "epson")
//	if err != nil {
//	    return err
//	}
//	adapter.SetServerDirectPrint(printer.EndpointGroup{
//	    Active:   printer.Bool(true),
//	    URL:      printer.String("https://example.com/sdp"),
//	    Interval: printer.Int(60),
//	})
//	result, err := adapter.Apply()
//	if printer.IsFatal(err) {
//	    // stop the run; earlier writes stay on the device
//	}
//
// # Unreliable connections
//
// The printers sometimes accept a connection and close it without a reply.
// Transport repeats such requests for up to six seconds before returning a
// ConnectionError. Tests drive the retry window and the 30 second restart
// settle delay through internal/clock.
package printer
