package discovery

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/grandcat/zeroconf"
	"go.uber.org/zap"

	"github.com/itsonme/epson-cfg/internal/logging"
)

const (
	// ServiceType is the mDNS service type browsed for printers.
	// Epson TM printers advertise their Web Config as "_http._tcp".
	ServiceType = "_http._tcp"

	// ServiceDomain is the mDNS domain (typically "local.")
	ServiceDomain = "local."

	// DefaultScanTimeout is the default timeout for printer discovery
	DefaultScanTimeout = 5 * time.Second

	// DefaultPort is used when the advertisement carries no port
	DefaultPort = 80
)

// epsonPattern matches advertisements that belong to an Epson printer. It
// only filters: the operator still names the model.
var epsonPattern = regexp.MustCompile(`(?i)epson|tm-?t88`)

// Scanner handles mDNS printer discovery
type Scanner struct {
	// Timeout is the maximum time to wait for discovery
	Timeout time.Duration
}

// NewScanner creates a new mDNS scanner with default settings
func NewScanner() *Scanner {
	return &Scanner{
		Timeout: DefaultScanTimeout,
	}
}

// browse runs one mDNS browse and calls found for each printer until the
// timeout expires, ctx is cancelled or found returns false
func (s *Scanner) browse(ctx context.Context, found func(*Device) bool) error {
	ctx, cancel := context.WithTimeout(ctx, s.Timeout)
	defer cancel()

	resolver, err := zeroconf.NewResolver(nil)
	if err != nil {
		return fmt.Errorf("failed to create mDNS resolver: %w", err)
	}

	entries := make(chan *zeroconf.ServiceEntry)
	done := make(chan struct{})

	go func() {
		defer close(done)
		for {
			select {
			case entry, ok := <-entries:
				if !ok {
					return
				}
				device := parseServiceEntry(entry)
				if device == nil {
					continue
				}
				logging.Debug("Printer advertisement",
					zap.String("name", device.Name),
					zap.String("ip", device.IP))
				if !found(device) {
					cancel()
					return
				}
			case <-ctx.Done():
				return
			}
		}
	}()

	if err := resolver.Browse(ctx, ServiceType, ServiceDomain, entries); err != nil {
		return fmt.Errorf("failed to browse for mDNS services: %w", err)
	}

	<-ctx.Done()
	<-done
	return nil
}

// ScanForPrinters discovers Epson printers on the local network. Each IP is
// reported once.
func (s *Scanner) ScanForPrinters(ctx context.Context) ([]*Device, error) {
	var (
		mu      sync.Mutex
		devices []*Device
		seen    = make(map[string]bool)
	)

	err := s.browse(ctx, func(d *Device) bool {
		mu.Lock()
		defer mu.Unlock()
		if !seen[d.IP] {
			seen[d.IP] = true
			devices = append(devices, d)
		}
		return true
	})
	if err != nil {
		return nil, err
	}

	mu.Lock()
	defer mu.Unlock()
	return devices, nil
}

// WaitForPrinter waits until the printer at ip advertises itself
func (s *Scanner) WaitForPrinter(ctx context.Context, ip string) (*Device, error) {
	var match *Device
	err := s.browse(ctx, func(d *Device) bool {
		if d.IP == ip {
			match = d
			return false
		}
		return true
	})
	if err != nil {
		return nil, err
	}
	if match == nil {
		return nil, fmt.Errorf("printer at %s not found within %v", ip, s.Timeout)
	}
	return match, nil
}

// parseServiceEntry converts a zeroconf service entry to a Device.
// Returns nil if the entry is not an Epson printer.
func parseServiceEntry(entry *zeroconf.ServiceEntry) *Device {
	if entry == nil {
		return nil
	}

	metadata := make(map[string]string)
	for _, txt := range entry.Text {
		parts := strings.SplitN(txt, "=", 2)
		if len(parts) == 2 {
			metadata[parts[0]] = parts[1]
		} else {
			metadata[parts[0]] = ""
		}
	}

	// The vendor can be in the instance name, the hostname or the TXT record
	haystack := strings.Join(append([]string{entry.Instance, entry.HostName}, entry.Text...), " ")
	if !epsonPattern.MatchString(haystack) {
		return nil
	}

	var ip string
	if len(entry.AddrIPv4) > 0 {
		ip = entry.AddrIPv4[0].String()
	}
	if ip == "" {
		// The printer web API is only reachable through IPv4 literals
		return nil
	}

	port := entry.Port
	if port == 0 {
		port = DefaultPort
	}

	return &Device{
		Name:         entry.Instance,
		Hostname:     entry.HostName,
		IP:           ip,
		Port:         port,
		Metadata:     metadata,
		DiscoveredAt: time.Now(),
	}
}

// ScanForPrinters is a convenience function to scan with a custom timeout
func ScanForPrinters(ctx context.Context, timeout time.Duration) ([]*Device, error) {
	scanner := NewScanner()
	scanner.Timeout = timeout
	return scanner.ScanForPrinters(ctx)
}
