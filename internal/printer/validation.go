package printer

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// ValidateAddress validates a printer IPv4 address. The first and last octets
// must be 1-254 and the middle octets 0-255, which rules out network,
// broadcast and unset addresses.
func ValidateAddress(address string) error {
	parts := strings.Split(strings.TrimSpace(address), ".")
	if len(parts) != 4 {
		return NewInvalidArgumentError(fmt.Sprintf("invalid printer address %q: want four dot-separated numbers", address))
	}

	for i, part := range parts {
		if part == "" || len(part) > 3 || strings.TrimLeft(part, "0123456789") != "" {
			return NewInvalidArgumentError(fmt.Sprintf("invalid printer address %q: octet %d is not a number", address, i+1))
		}
		n, _ := strconv.Atoi(part)
		lo, hi := 0, 255
		if i == 0 || i == 3 {
			lo, hi = 1, 254
		}
		if n < lo || n > hi {
			return NewInvalidArgumentError(fmt.Sprintf("invalid printer address %q: octet %d must be %d-%d", address, i+1, lo, hi))
		}
	}

	return nil
}

// ValidateURL validates an endpoint URL the printer will contact.
// The printer only speaks http and https.
func ValidateURL(raw string) error {
	if strings.TrimSpace(raw) == "" {
		return fmt.Errorf("cannot be blank")
	}
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("not a valid URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("scheme must be http or https, got %q", u.Scheme)
	}
	if u.Host == "" {
		return fmt.Errorf("missing host in %q", raw)
	}
	return nil
}

// ValidateInterval validates a polling interval in seconds
func ValidateInterval(raw string) error {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return fmt.Errorf("must be a whole number of seconds, got %q", raw)
	}
	if n <= 0 {
		return fmt.Errorf("must be positive, got %d", n)
	}
	return nil
}

// ValidatePassword validates a new device password
func ValidatePassword(password string) error {
	if strings.TrimSpace(password) == "" {
		return NewInvalidArgumentError("password cannot be blank")
	}
	return nil
}

func validateNotBlank(group, name string, value *string) []error {
	if value != nil && strings.TrimSpace(*value) == "" {
		return []error{NewInvalidArgumentError(fmt.Sprintf("%s %s cannot be blank", group, name))}
	}
	return nil
}

// FormatValidationErrors formats multiple validation errors into a readable message.
func FormatValidationErrors(errors []error) string {
	if len(errors) == 0 {
		return "No validation errors"
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("settings validation failed with %d error(s):\n", len(errors)))

	for i, err := range errors {
		msg := err.Error()
		if de, ok := asDeviceError(err); ok {
			msg = de.Message
		}
		sb.WriteString(fmt.Sprintf("  %d. %s\n", i+1, msg))
	}

	return sb.String()
}
