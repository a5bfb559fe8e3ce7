package printer

import (
	"strconv"
	"strings"
)

// Group names as the TM-T88VI API spells them. Verification issues use them.
const (
	GroupAdministrator      = "Administrator"
	GroupServerDirectPrint  = "ServerDirectPrint"
	GroupStatusNotification = "StatusNotification"
)

// AdministratorGroup holds the administrator contact settings. Nil fields are
// left untouched on the device.
type AdministratorGroup struct {
	Administrator *string
	Location      *string
}

// EndpointGroup holds the settings shared by Server Direct Print and Status
// Notification: a URL the printer contacts every Interval seconds. Nil fields
// are left untouched on the device.
type EndpointGroup struct {
	Active   *bool
	URL      *string
	Interval *string
	ID       *string
	Name     *string
}

// String returns a pointer to s, for building groups inline
func String(s string) *string { return &s }

// Bool returns a pointer to b, for building groups inline
func Bool(b bool) *bool { return &b }

// Int returns a pointer to the decimal string form of n. The printer stores
// intervals and IDs as strings.
func Int(n int) *string { return String(strconv.Itoa(n)) }

// Settings accumulates the configuration an operator wants applied. Setting a
// group merges the present fields into what was staged before; nothing is
// ever backfilled. Groups left nil are not sent to the device.
//
// Example usage:
//
//	s := NewSettings().
//	    SetServerDirectPrint(EndpointGroup{Active: Bool(true), URL: String("https://x/sdp")}).
//	    SetServerDirectPrint(EndpointGroup{Interval: Int(60)})
type Settings struct {
	Administrator      *AdministratorGroup
	ServerDirectPrint  *EndpointGroup
	StatusNotification *EndpointGroup
	NewPassword        *string
}

// NewSettings creates an empty Settings
func NewSettings() *Settings {
	return &Settings{}
}

// SetAdministrator merges g into the staged administrator group
func (s *Settings) SetAdministrator(g AdministratorGroup) *Settings {
	if s.Administrator == nil {
		s.Administrator = &AdministratorGroup{}
	}
	mergeString(&s.Administrator.Administrator, g.Administrator)
	mergeString(&s.Administrator.Location, g.Location)
	return s
}

// SetServerDirectPrint merges g into the staged Server Direct Print group
func (s *Settings) SetServerDirectPrint(g EndpointGroup) *Settings {
	if s.ServerDirectPrint == nil {
		s.ServerDirectPrint = &EndpointGroup{}
	}
	s.ServerDirectPrint.merge(g)
	return s
}

// SetStatusNotification merges g into the staged Status Notification group
func (s *Settings) SetStatusNotification(g EndpointGroup) *Settings {
	if s.StatusNotification == nil {
		s.StatusNotification = &EndpointGroup{}
	}
	s.StatusNotification.merge(g)
	return s
}

// SetPassword stages a new device password
func (s *Settings) SetPassword(password string) *Settings {
	s.NewPassword = String(password)
	return s
}

// HasGroups reports whether any configuration group is staged
func (s *Settings) HasGroups() bool {
	return s.Administrator != nil || s.ServerDirectPrint != nil || s.StatusNotification != nil
}

// HasChanges reports whether anything at all is staged
func (s *Settings) HasChanges() bool {
	return s.HasGroups() || s.NewPassword != nil
}

// Clone returns a deep copy
func (s *Settings) Clone() Settings {
	out := Settings{NewPassword: cloneString(s.NewPassword)}
	if s.Administrator != nil {
		out.Administrator = &AdministratorGroup{
			Administrator: cloneString(s.Administrator.Administrator),
			Location:      cloneString(s.Administrator.Location),
		}
	}
	if s.ServerDirectPrint != nil {
		g := s.ServerDirectPrint.clone()
		out.ServerDirectPrint = &g
	}
	if s.StatusNotification != nil {
		g := s.StatusNotification.clone()
		out.StatusNotification = &g
	}
	return out
}

// Validate checks every staged value. The printer cannot store blank values,
// so an explicitly staged empty string is rejected.
func (s *Settings) Validate() error {
	var errs []error
	if g := s.Administrator; g != nil {
		errs = append(errs, validateNotBlank(GroupAdministrator, "Administrator", g.Administrator)...)
		errs = append(errs, validateNotBlank(GroupAdministrator, "Location", g.Location)...)
	}
	if g := s.ServerDirectPrint; g != nil {
		errs = append(errs, g.validate(GroupServerDirectPrint)...)
	}
	if g := s.StatusNotification; g != nil {
		errs = append(errs, g.validate(GroupStatusNotification)...)
	}
	if s.NewPassword != nil {
		if err := ValidatePassword(*s.NewPassword); err != nil {
			errs = append(errs, err)
		}
	}
	if len(errs) == 0 {
		return nil
	}
	return NewInvalidArgumentError(strings.TrimRight(FormatValidationErrors(errs), "\n"))
}

func (g *EndpointGroup) merge(o EndpointGroup) {
	if o.Active != nil {
		g.Active = Bool(*o.Active)
	}
	mergeString(&g.URL, o.URL)
	mergeString(&g.Interval, o.Interval)
	mergeString(&g.ID, o.ID)
	mergeString(&g.Name, o.Name)
}

func (g *EndpointGroup) clone() EndpointGroup {
	out := EndpointGroup{
		URL:      cloneString(g.URL),
		Interval: cloneString(g.Interval),
		ID:       cloneString(g.ID),
		Name:     cloneString(g.Name),
	}
	if g.Active != nil {
		out.Active = Bool(*g.Active)
	}
	return out
}

func (g *EndpointGroup) validate(group string) []error {
	var errs []error
	if g.URL != nil {
		if err := ValidateURL(*g.URL); err != nil {
			errs = append(errs, NewInvalidArgumentError(group+" URL: "+err.Error()))
		}
	}
	if g.Interval != nil {
		if err := ValidateInterval(*g.Interval); err != nil {
			errs = append(errs, NewInvalidArgumentError(group+" Interval: "+err.Error()))
		}
	}
	errs = append(errs, validateNotBlank(group, "ID", g.ID)...)
	errs = append(errs, validateNotBlank(group, "Name", g.Name)...)
	return errs
}

func mergeString(dst **string, src *string) {
	if src != nil {
		*dst = String(*src)
	}
}

func cloneString(s *string) *string {
	if s == nil {
		return nil
	}
	return String(*s)
}

// field is one named value of a settings group
type field struct {
	name  string
	value *string
}

// settingGroup is a staged group with its wire field names
type settingGroup struct {
	name   string
	fields []field
}

func onOff(b *bool) *string {
	if b == nil {
		return nil
	}
	if *b {
		return String("ON")
	}
	return String("OFF")
}

func enableDisable(b *bool) *string {
	if b == nil {
		return nil
	}
	if *b {
		return String("Enable")
	}
	return String("Disable")
}

// t88viGroups returns the staged groups in document order with the field
// names the TM-T88VI API uses. Unstaged fields are omitted.
func (s *Settings) t88viGroups() []settingGroup {
	var groups []settingGroup
	if g := s.Administrator; g != nil {
		groups = append(groups, settingGroup{GroupAdministrator, staged([]field{
			{"Administrator", g.Administrator},
			{"Location", g.Location},
		})})
	}
	if g := s.ServerDirectPrint; g != nil {
		groups = append(groups, settingGroup{GroupServerDirectPrint, staged([]field{
			{"Active", onOff(g.Active)},
			{"Url1", g.URL},
			{"Interval1", g.Interval},
			{"ID", g.ID},
			{"Name", g.Name},
		})})
	}
	if g := s.StatusNotification; g != nil {
		groups = append(groups, settingGroup{GroupStatusNotification, staged([]field{
			{"Active", onOff(g.Active)},
			{"Url", g.URL},
			{"Interval", g.Interval},
			{"ID", g.ID},
			{"Name", g.Name},
		})})
	}
	return groups
}

// t88vFields returns the form fields for a legacy endpoint group
func (g *EndpointGroup) t88vFields() []field {
	return staged([]field{
		{"Use", enableDisable(g.Active)},
		{"URL1", g.URL},
		{"Interval1", g.Interval},
		{"Name", g.Name},
		{"ID", g.ID},
	})
}

func staged(fields []field) []field {
	out := fields[:0]
	for _, f := range fields {
		if f.value != nil {
			out = append(out, f)
		}
	}
	return out
}
