package admin

import (
	"fmt"
	"strings"
)

// ValidateMerchantID checks that id is a positive whole number
func ValidateMerchantID(id string) error {
	if id == "" {
		return fmt.Errorf("merchant id is required")
	}
	if strings.TrimLeft(id, "0123456789") != "" {
		return fmt.Errorf("merchant id %q must contain only digits", id)
	}
	if strings.TrimLeft(id, "0") == "" {
		return fmt.Errorf("merchant id cannot be zero")
	}
	return nil
}
