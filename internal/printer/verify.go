package printer

import (
	"fmt"
	"strings"
)

// MissingValue is the observed value reported for a field the device did not return
const MissingValue = "<missing>"

// Mismatch is one staged field whose readback differs from what was sent
type Mismatch struct {
	Group    string
	Field    string
	Expected string
	Observed string
}

// Issue renders the mismatch as "<Group> -- <Field>"
func (m Mismatch) Issue() string {
	return m.Group + " -- " + m.Field
}

// VerificationReport lists every mismatch found in one pass, in document order.
// An empty report means the device accepted the update.
type VerificationReport struct {
	Mismatches []Mismatch
}

// OK reports whether there are no mismatches
func (r VerificationReport) OK() bool {
	return len(r.Mismatches) == 0
}

// Issues returns the mismatches as issue strings
func (r VerificationReport) Issues() []string {
	issues := make([]string, 0, len(r.Mismatches))
	for _, m := range r.Mismatches {
		issues = append(issues, m.Issue())
	}
	return issues
}

// String formats the report for display
func (r VerificationReport) String() string {
	if r.OK() {
		return "all staged settings verified"
	}
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%d mismatch(es):", len(r.Mismatches)))
	for _, m := range r.Mismatches {
		sb.WriteString(fmt.Sprintf("\n  - %s: expected %q, got %q", m.Issue(), m.Expected, m.Observed))
	}
	return sb.String()
}

// Verify compares every staged field of every staged group with the device
// readback. Unstaged fields are never checked. A field absent from the
// snapshot is a mismatch with Observed set to MissingValue.
func Verify(staged Settings, snap *Snapshot) VerificationReport {
	var report VerificationReport
	for _, g := range staged.t88viGroups() {
		for _, f := range g.fields {
			want := *f.value
			got, ok := snap.Value(g.name, f.name)
			if !ok {
				got = MissingValue
			}
			if !ok || got != want {
				report.Mismatches = append(report.Mismatches, Mismatch{
					Group:    g.name,
					Field:    f.name,
					Expected: want,
					Observed: got,
				})
			}
		}
	}
	return report
}
