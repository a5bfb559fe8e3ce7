package admin

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/itsonme/epson-cfg/internal/printer"
)

// FlexString is a string that also accepts JSON numbers and null. The service
// sends ids and intervals either way.
type FlexString string

// UnmarshalJSON implements json.Unmarshaler
func (f *FlexString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*f = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = FlexString(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("expected a string or number, got %s", data)
	}
	*f = FlexString(n.String())
	return nil
}

// String returns the value
func (f FlexString) String() string {
	return string(f)
}

// ptr returns nil for an empty value. The printer cannot store blanks.
func (f FlexString) ptr() *string {
	if f == "" {
		return nil
	}
	return printer.String(string(f))
}

// Merchant is the answer of the validate_merchant endpoint
type Merchant struct {
	ID           FlexString `json:"id" yaml:"id"`
	MerchantName FlexString `json:"merchant_name" yaml:"merchant_name"`
	Location     FlexString `json:"location" yaml:"location"`
}

// MerchantConfig is the printer configuration of one merchant
type MerchantConfig struct {
	ID             FlexString `json:"id" yaml:"id"`
	Password       FlexString `json:"password" yaml:"-"`
	Administrator  FlexString `json:"administrator" yaml:"administrator"`
	Location       FlexString `json:"location" yaml:"location"`
	PrinterName    FlexString `json:"printer_name" yaml:"printer_name"`
	SDPURL         FlexString `json:"sdp_url" yaml:"sdp_url"`
	SDPInterval    FlexString `json:"sdp_interval" yaml:"sdp_interval"`
	StatusURL      FlexString `json:"status_url" yaml:"status_url"`
	StatusInterval FlexString `json:"status_interval" yaml:"status_interval"`
	MerchantName   FlexString `json:"merchant_name" yaml:"merchant_name"`
}

// Stager receives staged settings. printer.Adapter implements it.
type Stager interface {
	SetAdministrator(g printer.AdministratorGroup)
	SetServerDirectPrint(g printer.EndpointGroup)
	SetStatusNotification(g printer.EndpointGroup)
}

// Stage stages Server Direct Print, Status Notification and the
// administrator group. Both endpoints are enabled and named after the
// printer. Empty values are skipped. The password is not staged: the
// operator sets it on the printer before provisioning.
func (m *MerchantConfig) Stage(s Stager) {
	s.SetServerDirectPrint(printer.EndpointGroup{
		Active:   printer.Bool(true),
		URL:      m.SDPURL.ptr(),
		Interval: m.SDPInterval.ptr(),
		ID:       m.ID.ptr(),
		Name:     m.PrinterName.ptr(),
	})
	s.SetStatusNotification(printer.EndpointGroup{
		Active:   printer.Bool(true),
		URL:      m.StatusURL.ptr(),
		Interval: m.StatusInterval.ptr(),
		ID:       m.ID.ptr(),
		Name:     m.PrinterName.ptr(),
	})
	s.SetAdministrator(printer.AdministratorGroup{
		Administrator: m.Administrator.ptr(),
		Location:      m.Location.ptr(),
	})
}

// Settings returns the settings Stage would stage, for validation and display
func (m *MerchantConfig) Settings() *printer.Settings {
	s := printer.NewSettings()
	m.Stage(settingsStager{s})
	return s
}

type settingsStager struct{ s *printer.Settings }

func (w settingsStager) SetAdministrator(g printer.AdministratorGroup) {
	w.s.SetAdministrator(g)
}

func (w settingsStager) SetServerDirectPrint(g printer.EndpointGroup) {
	w.s.SetServerDirectPrint(g)
}

func (w settingsStager) SetStatusNotification(g printer.EndpointGroup) {
	w.s.SetStatusNotification(g)
}
