package printer

import (
	"fmt"
	"sort"
	"strings"
)

// Summary returns a one-line summary of the session
func (s Session) Summary() string {
	return fmt.Sprintf("%s @ %s (user: %s)", s.Model, s.Address, s.Username)
}

// FormatDetailed returns every group and field of the snapshot, one per line
func (s *Snapshot) FormatDetailed() string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("=== %s Configuration ===\n", s.Model))
	if len(s.Groups) == 0 {
		b.WriteString("(no settings reported)\n")
		return b.String()
	}

	for _, name := range s.GroupNames() {
		b.WriteString(fmt.Sprintf("\n[%s]\n", name))
		values := s.Groups[name]
		keys := sortedKeys(values)
		width := 0
		for _, k := range keys {
			if len(k)+1 > width {
				width = len(k) + 1
			}
		}
		for _, k := range keys {
			b.WriteString(fmt.Sprintf("  %-*s  %s\n", width, k+":", displayValue(values[k])))
		}
	}

	return b.String()
}

// FormatCompact returns the provisioning-relevant settings in a few lines
func (s *Snapshot) FormatCompact() string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("Model:  %s\n", s.Model))
	if s.Model == ModelT88VI {
		writeCompactLine(&b, "Admin", s, GroupAdministrator, "Administrator", "Location")
		writeCompactLine(&b, "SDP", s, GroupServerDirectPrint, "Active", "Url1", "Interval1", "ID")
		writeCompactLine(&b, "Status", s, GroupStatusNotification, "Active", "Url", "Interval", "ID")
	} else {
		writeCompactLine(&b, "Admin", s, EndpointAdministrator, "Administrator", "Location")
		writeCompactLine(&b, "SDP", s, EndpointServerDirectPrint, "Use", "URL1", "Interval1", "ID")
		writeCompactLine(&b, "Status", s, EndpointStatusNotification, "Use", "URL1", "Interval1", "ID")
	}

	return b.String()
}

func writeCompactLine(b *strings.Builder, label string, s *Snapshot, group string, fields ...string) {
	parts := make([]string, 0, len(fields))
	for _, f := range fields {
		v, ok := s.Value(group, f)
		if !ok {
			v = "-"
		}
		parts = append(parts, displayValue(v))
	}
	b.WriteString(fmt.Sprintf("%-7s %s\n", label+":", strings.Join(parts, " | ")))
}

// FormatSettings lists the staged settings, for confirmation before Apply
func FormatSettings(s Settings) string {
	var b strings.Builder

	if !s.HasChanges() {
		return "(nothing staged)\n"
	}
	for _, g := range s.t88viGroups() {
		b.WriteString(fmt.Sprintf("[%s]\n", g.name))
		for _, f := range g.fields {
			b.WriteString(fmt.Sprintf("  %s: %s\n", f.name, displayValue(*f.value)))
		}
	}
	if s.NewPassword != nil {
		b.WriteString("[Password]\n  NewPassword: ********\n")
	}

	return b.String()
}

// String returns a one-line description of the result
func (r *ApplyResult) String() string {
	if r == nil {
		return "no result"
	}
	var b strings.Builder
	b.WriteString(r.Status.String())
	if len(r.Applied) > 0 {
		b.WriteString(fmt.Sprintf(" [%s]", strings.Join(r.Applied, ", ")))
	}
	if r.Restarted {
		b.WriteString(", restarted")
	}
	if r.PasswordRotated {
		b.WriteString(", password rotated")
	}
	if r.PasswordSkipped {
		b.WriteString(", password not sent")
	}
	if len(r.Issues) > 0 && !r.Success() {
		b.WriteString(": " + strings.Join(r.Issues, "; "))
	}
	return b.String()
}

func displayValue(v string) string {
	if v == "" {
		return "(empty)"
	}
	return v
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
