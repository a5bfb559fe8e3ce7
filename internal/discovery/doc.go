// Package discovery finds Epson receipt printers on the local network over
// mDNS.
//
// Printers advertise their Web Config under the "_http._tcp" service type.
// An advertisement is kept when its instance name, hostname or TXT record
// mentions Epson or a TM-T88. Discovery only lists addresses; the printer
// model is always supplied by the operator.
//
// # Usage Example
//
//	devices, err := discovery.ScanForPrinters(ctx, 5*time.Second)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for _, d := range devices {
//	    fmt.Println(d)
//	}
//
// # Network Requirements
//
// - Requires multicast support on the network interface
// - Printers must be on the same local network segment
// - Firewall must allow mDNS (UDP port 5353)
package discovery
