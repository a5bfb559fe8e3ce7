package discovery

import (
	"fmt"
	"time"
)

// Device represents a receipt printer found on the network
type Device struct {
	// Name is the mDNS instance name (e.g., "EPSON TM-T88VI")
	Name string

	// Hostname is the mDNS hostname (e.g., "EPSON1A2B3C.local.")
	Hostname string

	// IP is the IPv4 address (e.g., "192.168.1.50")
	IP string

	// Port is the advertised web port
	Port int

	// Metadata contains the mDNS TXT record data
	// Common fields: "ty=EPSON TM-T88VI", "product=(TM-T88VI)"
	Metadata map[string]string

	// DiscoveredAt is when the device was discovered
	DiscoveredAt time.Time
}

// String returns a human-readable string representation of the device
func (d *Device) String() string {
	return fmt.Sprintf("%q (%s) at %s:%d", d.Name, d.Hostname, d.IP, d.Port)
}

// GetMetadata retrieves a metadata value by key, or returns empty string if not found
func (d *Device) GetMetadata(key string) string {
	if d.Metadata == nil {
		return ""
	}
	return d.Metadata[key]
}
