package printer

import (
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"
)

func TestErrorType_String(t *testing.T) {
	tests := []struct {
		et   ErrorType
		want string
	}{
		{ErrTypeConnection, "Connection Error"},
		{ErrTypeRejected, "Update Rejected"},
		{ErrTypeVerification, "Verification Mismatch"},
		{ErrTypeFatalEndpoint, "Fatal Endpoint Failure"},
		{ErrTypeRestart, "Restart Failed"},
		{ErrTypeInvalidArgument, "Invalid Argument"},
		{ErrTypeParse, "Parse Error"},
		{ErrorType(99), "ErrorType(99)"},
	}

	for _, tt := range tests {
		if got := tt.et.String(); got != tt.want {
			t.Errorf("ErrorType(%d).String() = %q, want %q", int(tt.et), got, tt.want)
		}
	}
}

func TestDeviceError_Wrapping(t *testing.T) {
	cause := errors.New("EOF")
	err := NewConnectionError("10.0.0.5", ConfigEndpoint, 3, 6*time.Second, cause)
	wrapped := fmt.Errorf("provision: %w", err)

	if !IsConnectionError(wrapped) {
		t.Error("IsConnectionError() should see through wrapping")
	}
	if !IsRetryable(wrapped) {
		t.Error("connection errors are retryable")
	}
	if !errors.Is(wrapped, cause) {
		t.Error("errors.Is() should reach the cause")
	}
	if IsFatal(wrapped) || IsVerificationError(wrapped) || IsInvalidArgument(wrapped) {
		t.Error("connection error matched another type")
	}
	if !strings.Contains(err.Error(), "3 attempts") {
		t.Errorf("Error() = %q, want the attempt count", err)
	}
}

func TestIsHelpers(t *testing.T) {
	tests := []struct {
		name  string
		err   error
		check func(error) bool
	}{
		{"fatal", NewFatalEndpointError("administrator", `{}`, nil), IsFatal},
		{"verification", NewVerificationError([]string{"Administrator -- Location"}), IsVerificationError},
		{"rejected", NewRejectedError(ConfigEndpoint, "Fail", `{"message":"Fail"}`), IsRejectedError},
		{"restart", NewRestartError("10.0.0.5"), IsRestartError},
		{"invalid", NewInvalidArgumentError("bad"), IsInvalidArgument},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !tt.check(tt.err) {
				t.Errorf("check(%v) = false", tt.err)
			}
			if tt.check(errors.New("plain")) {
				t.Error("plain error matched")
			}
			if tt.check(nil) {
				t.Error("nil matched")
			}
		})
	}
}

func TestDescribeCause(t *testing.T) {
	if got := describeCause(errNoResponse); got != "empty response" {
		t.Errorf("describeCause(errNoResponse) = %q", got)
	}
	if got := describeCause(nil); got != "" {
		t.Errorf("describeCause(nil) = %q", got)
	}
	if got := describeCause(errors.New("EOF")); got != "connection closed" {
		t.Errorf("describeCause(EOF) = %q", got)
	}
}

func TestGetTroubleshootingHint(t *testing.T) {
	errs := []error{
		NewConnectionError("10.0.0.5", ConfigEndpoint, 1, time.Second, nil),
		NewRejectedError(ConfigEndpoint, "Fail", ""),
		NewVerificationError(nil),
		NewFatalEndpointError("administrator", "", nil),
		NewRestartError("10.0.0.5"),
		NewInvalidArgumentError("x"),
		NewParseError(ConfigEndpoint, "", nil),
	}
	for _, err := range errs {
		if GetTroubleshootingHint(err) == "" {
			t.Errorf("no hint for %v", err)
		}
	}
	if GetTroubleshootingHint(errors.New("plain")) != "" {
		t.Error("plain errors have no hint")
	}
}

func TestGetShortErrorMessage(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{NewConnectionError("10.0.0.5", ConfigEndpoint, 1, time.Second, nil), "No response from printer at 10.0.0.5"},
		{NewFatalEndpointError("administrator", "", nil), "Printer administrator endpoint failed"},
		{NewVerificationError([]string{"a", "b"}), "Printer reported 2 mismatched setting(s)"},
		{errors.New("plain"), "plain"},
		{nil, ""},
	}
	for _, tt := range tests {
		if got := GetShortErrorMessage(tt.err); got != tt.want {
			t.Errorf("GetShortErrorMessage(%v) = %q, want %q", tt.err, got, tt.want)
		}
	}
}
