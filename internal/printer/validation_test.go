package printer

import (
	"errors"
	"strings"
	"testing"
)

func TestValidateAddress(t *testing.T) {
	tests := []struct {
		address string
		wantErr bool
	}{
		{"192.168.1.50", false},
		{"10.0.0.1", false},
		{"1.255.0.254", false},
		{"0.1.2.3", true},
		{"192.168.1.0", true},
		{"192.168.1.255", true},
		{"255.1.1.1", true},
		{"192.168.256.1", true},
		{"192.168.1", true},
		{"192.168.1.50.1", true},
		{"192.168.one.50", true},
		{"192.168..50", true},
		{"-1.2.3.4", true},
		{"", true},
	}

	for _, tt := range tests {
		err := ValidateAddress(tt.address)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateAddress(%q) error = %v, wantErr %v", tt.address, err, tt.wantErr)
		}
		if err != nil && !IsInvalidArgument(err) {
			t.Errorf("ValidateAddress(%q) error type = %v", tt.address, err)
		}
	}
}

func TestValidateURL(t *testing.T) {
	tests := []struct {
		url     string
		wantErr bool
	}{
		{"https://admin.itson.me/sdp", false},
		{"http://10.0.0.5:8080/x?y=1", false},
		{"", true},
		{"ftp://x", true},
		{"https://", true},
		{"not a url", true},
	}

	for _, tt := range tests {
		if err := ValidateURL(tt.url); (err != nil) != tt.wantErr {
			t.Errorf("ValidateURL(%q) error = %v, wantErr %v", tt.url, err, tt.wantErr)
		}
	}
}

func TestValidateInterval(t *testing.T) {
	tests := []struct {
		in      string
		wantErr bool
	}{
		{"60", false},
		{" 30 ", false},
		{"0", true},
		{"-5", true},
		{"1.5", true},
		{"", true},
	}

	for _, tt := range tests {
		if err := ValidateInterval(tt.in); (err != nil) != tt.wantErr {
			t.Errorf("ValidateInterval(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
		}
	}
}

func TestFormatValidationErrors(t *testing.T) {
	if got := FormatValidationErrors(nil); got != "No validation errors" {
		t.Errorf("FormatValidationErrors(nil) = %q", got)
	}

	got := FormatValidationErrors([]error{
		NewInvalidArgumentError("Administrator Location cannot be blank"),
		errors.New("other"),
	})
	for _, want := range []string{"2 error(s)", "1. Administrator Location cannot be blank", "2. other"} {
		if !strings.Contains(got, want) {
			t.Errorf("FormatValidationErrors() = %q, want it to contain %q", got, want)
		}
	}
}
