package printer

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"os"
	"strings"
	"syscall"
	"time"
)

// ErrorType represents the category of error that occurred
type ErrorType int

const (
	// ErrTypeConnection indicates the device produced no response within the retry window
	ErrTypeConnection ErrorType = iota
	// ErrTypeRejected indicates the device answered the update with a failure message
	ErrTypeRejected
	// ErrTypeVerification indicates the device accepted a write but echoes different values
	ErrTypeVerification
	// ErrTypeFatalEndpoint indicates a legacy per-field endpoint reported failure
	ErrTypeFatalEndpoint
	// ErrTypeRestart indicates the device did not confirm a restart request
	ErrTypeRestart
	// ErrTypeInvalidArgument indicates a caller contract violation (unknown model, endpoint, bad input)
	ErrTypeInvalidArgument
	// ErrTypeParse indicates the device returned a body that could not be decoded
	ErrTypeParse
)

// String returns a human-readable name for the error type
func (et ErrorType) String() string {
	switch et {
	case ErrTypeConnection:
		return "Connection Error"
	case ErrTypeRejected:
		return "Update Rejected"
	case ErrTypeVerification:
		return "Verification Mismatch"
	case ErrTypeFatalEndpoint:
		return "Fatal Endpoint Failure"
	case ErrTypeRestart:
		return "Restart Failed"
	case ErrTypeInvalidArgument:
		return "Invalid Argument"
	case ErrTypeParse:
		return "Parse Error"
	default:
		return fmt.Sprintf("ErrorType(%d)", et)
	}
}

// DeviceError represents an error that occurred while provisioning a printer
type DeviceError struct {
	Type      ErrorType     // Category of error
	Message   string        // Human-readable error message
	Endpoint  string        // Device endpoint involved (if any)
	Response  string        // Raw device response (if any)
	Issues    []string      // Verification issues, "<Group> -- <Field>"
	Err       error         // Underlying error (if any)
	DeviceIP  string        // Device address (for context)
	Retryable bool          // Whether the caller may retry the operation
	Attempts  int           // Transport attempts made (connection errors)
	Elapsed   time.Duration // Time spent retrying (connection errors)
}

// Error implements the error interface
func (e *DeviceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Type, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap returns the underlying error for error chain inspection
func (e *DeviceError) Unwrap() error {
	return e.Err
}

// errNoResponse marks an attempt where the device accepted the connection
// and sent an empty body.
var errNoResponse = errors.New("device closed the connection without a response")

// NewConnectionError creates an error for a transport call that never got a
// non-empty response within the retry window
func NewConnectionError(deviceIP, endpoint string, attempts int, elapsed time.Duration, last error) *DeviceError {
	msg := fmt.Sprintf("no response from %s after %d attempts in %s", endpoint, attempts, elapsed.Round(time.Millisecond))
	if cause := describeCause(last); cause != "" {
		msg += " (" + cause + ")"
	}
	return &DeviceError{
		Type:      ErrTypeConnection,
		Message:   msg,
		Endpoint:  endpoint,
		Err:       last,
		DeviceIP:  deviceIP,
		Retryable: true,
		Attempts:  attempts,
		Elapsed:   elapsed,
	}
}

// NewRejectedError creates an error for an update the device refused
func NewRejectedError(endpoint, message, response string) *DeviceError {
	return &DeviceError{
		Type:      ErrTypeRejected,
		Message:   message,
		Endpoint:  endpoint,
		Response:  response,
		Retryable: false,
	}
}

// NewVerificationError creates an error listing every readback mismatch
func NewVerificationError(issues []string) *DeviceError {
	return &DeviceError{
		Type:      ErrTypeVerification,
		Message:   fmt.Sprintf("device reported %d mismatched field(s): %s", len(issues), strings.Join(issues, ", ")),
		Issues:    issues,
		Retryable: true,
	}
}

// NewFatalEndpointError creates the non-recoverable error for a legacy endpoint
// that reported failure. Settings applied before it stay on the device.
func NewFatalEndpointError(endpoint, response string, err error) *DeviceError {
	return &DeviceError{
		Type:      ErrTypeFatalEndpoint,
		Message:   fmt.Sprintf("%s endpoint reported failure", endpoint),
		Endpoint:  endpoint,
		Response:  response,
		Err:       err,
		Retryable: false,
	}
}

// NewRestartError creates an error for a restart the device did not confirm
func NewRestartError(deviceIP string) *DeviceError {
	return &DeviceError{
		Type:      ErrTypeRestart,
		Message:   "device did not confirm the restart request",
		Endpoint:  ResetEndpoint,
		DeviceIP:  deviceIP,
		Retryable: true,
	}
}

// NewInvalidArgumentError creates an error for a caller contract violation
func NewInvalidArgumentError(message string) *DeviceError {
	return &DeviceError{
		Type:      ErrTypeInvalidArgument,
		Message:   message,
		Retryable: false,
	}
}

// NewParseError creates a new parse error
func NewParseError(endpoint, response string, err error) *DeviceError {
	return &DeviceError{
		Type:      ErrTypeParse,
		Message:   fmt.Sprintf("unexpected response from %s", endpoint),
		Endpoint:  endpoint,
		Response:  response,
		Err:       err,
		Retryable: false,
	}
}

func asDeviceError(err error) (*DeviceError, bool) {
	var de *DeviceError
	if errors.As(err, &de) {
		return de, true
	}
	return nil, false
}

func isType(err error, t ErrorType) bool {
	de, ok := asDeviceError(err)
	return ok && de.Type == t
}

// IsConnectionError checks if an error is a ConnectionError
func IsConnectionError(err error) bool {
	return isType(err, ErrTypeConnection)
}

// IsRejectedError checks if an error is an update rejection
func IsRejectedError(err error) bool {
	return isType(err, ErrTypeRejected)
}

// IsVerificationError checks if an error is a verification mismatch
func IsVerificationError(err error) bool {
	return isType(err, ErrTypeVerification)
}

// IsFatal checks if an error must terminate the current provisioning run
func IsFatal(err error) bool {
	return isType(err, ErrTypeFatalEndpoint)
}

// IsRestartError checks if an error is an unconfirmed restart
func IsRestartError(err error) bool {
	return isType(err, ErrTypeRestart)
}

// IsInvalidArgument checks if an error is a caller contract violation
func IsInvalidArgument(err error) bool {
	return isType(err, ErrTypeInvalidArgument)
}

// IsRetryable checks if an error is retryable
func IsRetryable(err error) bool {
	de, ok := asDeviceError(err)
	return ok && de.Retryable
}

// describeCause names the network failure behind a silent attempt
func describeCause(err error) string {
	if err == nil {
		return ""
	}
	if errors.Is(err, errNoResponse) {
		return "empty response"
	}
	if os.IsTimeout(err) {
		return "request timed out"
	}

	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return fmt.Sprintf("DNS resolution failed for %s", dnsErr.Name)
	}

	var opErr *net.OpError
	if errors.As(err, &opErr) {
		switch {
		case errors.Is(opErr.Err, syscall.ECONNREFUSED):
			return "connection refused"
		case errors.Is(opErr.Err, syscall.ECONNRESET):
			return "connection reset"
		case errors.Is(opErr.Err, syscall.EHOSTUNREACH):
			return "host unreachable"
		case errors.Is(opErr.Err, syscall.ENETUNREACH):
			return "network unreachable"
		}
	}

	var urlErr *url.Error
	if errors.As(err, &urlErr) && urlErr.Err != nil && urlErr.Err != err {
		if cause := describeCause(urlErr.Err); cause != "" {
			return cause
		}
	}

	return "connection closed"
}

// GetTroubleshootingHint returns a helpful hint based on the error type
func GetTroubleshootingHint(err error) string {
	de, ok := asDeviceError(err)
	if !ok {
		return ""
	}

	switch de.Type {
	case ErrTypeConnection:
		return strings.Join([]string{
			"Troubleshooting:",
			"  • Check the printer is powered on and its network LED is lit",
			"  • Print a status sheet (hold FEED at power-on) to confirm its IP address",
			"  • Make sure this computer is on the same network as the printer",
			"  • If the printer just restarted, wait 30 seconds and try again",
		}, "\n")

	case ErrTypeRejected:
		return strings.Join([]string{
			"Troubleshooting:",
			"  • Check the password: the printer rejects updates with wrong credentials",
			"  • Check the values being sent (URLs must be reachable, intervals numeric)",
			"  • Run 'epson-cfg show' to see the printer's current settings",
		}, "\n")

	case ErrTypeVerification:
		return strings.Join([]string{
			"Troubleshooting:",
			"  • The printer accepted the update but reports different values",
			"  • Run the command again; some firmware versions apply settings lazily",
			"  • Run 'epson-cfg show' to compare the stored values",
		}, "\n")

	case ErrTypeFatalEndpoint:
		return strings.Join([]string{
			"Troubleshooting:",
			"  • Settings applied before this step remain on the printer",
			"  • Confirm the model: TM-T88VI printers must use --model vi",
			"  • Open the printer's web configuration page and check the failing section",
		}, "\n")

	case ErrTypeRestart:
		return strings.Join([]string{
			"Troubleshooting:",
			"  • The new settings are stored but the printer did not restart",
			"  • Power-cycle the printer, or run 'epson-cfg reset'",
		}, "\n")

	case ErrTypeInvalidArgument:
		return "Check the command arguments (model must be v or vi, address must be an IPv4 address)"

	case ErrTypeParse:
		return strings.Join([]string{
			"Troubleshooting:",
			"  • The device answered with unexpected data",
			"  • Confirm the address belongs to an Epson TM-T88V or TM-T88VI",
			"  • Confirm the --model flag matches the printer",
		}, "\n")
	}

	return ""
}

// GetShortErrorMessage returns a concise error message suitable for display
func GetShortErrorMessage(err error) string {
	de, ok := asDeviceError(err)
	if !ok {
		if err == nil {
			return ""
		}
		return err.Error()
	}

	switch de.Type {
	case ErrTypeConnection:
		if de.DeviceIP != "" {
			return fmt.Sprintf("No response from printer at %s", de.DeviceIP)
		}
		return "No response from printer"
	case ErrTypeRejected:
		return fmt.Sprintf("Printer rejected the update: %s", de.Message)
	case ErrTypeVerification:
		return fmt.Sprintf("Printer reported %d mismatched setting(s)", len(de.Issues))
	case ErrTypeFatalEndpoint:
		return fmt.Sprintf("Printer %s endpoint failed", de.Endpoint)
	case ErrTypeRestart:
		return "Printer did not confirm the restart"
	case ErrTypeInvalidArgument:
		return de.Message
	case ErrTypeParse:
		return fmt.Sprintf("Unexpected response from %s", de.Endpoint)
	default:
		return de.Message
	}
}
