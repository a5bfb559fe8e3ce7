package admin

import (
	"errors"
	"fmt"
)

// ServiceError is returned when the administration service refuses a
// request or cannot be reached
type ServiceError struct {
	Endpoint   string // Service endpoint (e.g., "config_epson")
	Message    string // Message from the service, or a description of the failure
	StatusCode int    // HTTP status code (0 when the service answered with status 0)
	Err        error  // Underlying error (if any)
}

// Error implements the error interface
func (e *ServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("admin %s: %s (caused by: %v)", e.Endpoint, e.Message, e.Err)
	}
	if e.StatusCode != 0 {
		return fmt.Sprintf("admin %s: HTTP %d: %s", e.Endpoint, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("admin %s: %s", e.Endpoint, e.Message)
}

// Unwrap returns the underlying error for error chain inspection
func (e *ServiceError) Unwrap() error {
	return e.Err
}

// IsRefused reports whether the service answered with status 0, meaning the
// merchant is unknown, not set up for printers or already has one
func IsRefused(err error) bool {
	var se *ServiceError
	return errors.As(err, &se) && se.StatusCode == 0 && se.Err == nil
}
