package printer

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/itsonme/epson-cfg/internal/logging"
)

// ConfigEndpoint is the single configuration resource of a TM-T88VI
const ConfigEndpoint = "/webconfig/api/v1/webconfig.cgi"

// restartIssue is reported when a verified update is not followed by a confirmed restart
const restartIssue = "Reset -- restart not confirmed"

// t88vi applies settings with one atomic JSON update, verifies the readback
// and restarts the printer.
type t88vi struct {
	*base
	resetter *ResetSequencer
}

func (a *t88vi) TestConnection() bool {
	return a.probe(ConfigEndpoint)
}

func (a *t88vi) Reset() bool {
	return a.resetter.Reset()
}

func (a *t88vi) Configuration() (*Snapshot, error) {
	body, err := a.transport.Get(ConfigEndpoint)
	if err != nil {
		return nil, err
	}
	return ParseT88VISnapshot(body)
}

func (a *t88vi) Apply() (*ApplyResult, error) {
	staged := a.consume()
	model := a.session.Model.String()
	sendPassword := a.opts.rotatePassword && staged.NewPassword != nil

	if !staged.HasGroups() && !sendPassword {
		logging.LogApplyStep(model, "build", "nothing to do")
		return nothingToDo(), nil
	}

	doc := buildT88VIDocument(&staged, sendPassword)
	body, err := a.transport.PutJSON(ConfigEndpoint, doc)
	if err != nil {
		logging.LogApplyStep(model, "update", "no response")
		return failedResult(StatusConnectionFailed, err), err
	}

	msg, err := parseMessage(ConfigEndpoint, body)
	if err == nil && !strings.HasPrefix(msg, "Success") {
		err = NewRejectedError(ConfigEndpoint, fmt.Sprintf("device answered %q", msg), body)
	}
	if err != nil {
		logging.LogApplyStep(model, "update", "rejected")
		return failedResult(StatusRejected, err), err
	}
	logging.LogApplyStep(model, "update", "accepted")

	snap, err := a.Configuration()
	if err != nil {
		logging.LogApplyStep(model, "verify", "readback failed")
		return failedResult(statusForError(err), err), err
	}

	report := Verify(staged, snap)
	if !report.OK() {
		logging.LogApplyStep(model, "verify", "mismatch")
		issues := report.Issues()
		return &ApplyResult{Status: StatusMismatch, Issues: issues, Report: report}, NewVerificationError(issues)
	}
	logging.LogApplyStep(model, "verify", "ok")

	result := &ApplyResult{Status: StatusApplied, Report: report}
	for _, g := range staged.t88viGroups() {
		result.Applied = append(result.Applied, g.name)
	}

	if !a.resetter.Reset() {
		logging.LogApplyStep(model, "restart", "not confirmed")
		result.Status = StatusRestartFailed
		result.Issues = []string{restartIssue}
		return result, NewRestartError(a.session.Address)
	}
	result.Restarted = true
	logging.LogApplyStep(model, "restart", "ok")

	if staged.NewPassword != nil {
		if sendPassword {
			a.rotatePassword(*staged.NewPassword)
			result.PasswordRotated = true
			logging.LogApplyStep(model, "password", "rotated")
		} else {
			result.PasswordSkipped = true
			logging.Warn("Password change staged but not transmitted to the printer",
				zap.String("address", a.session.Address))
		}
	}

	return result, nil
}

// buildT88VIDocument builds the {"Setting": {...}} update holding exactly the
// staged groups and fields
func buildT88VIDocument(s *Settings, withPassword bool) map[string]any {
	setting := make(map[string]any)
	for _, g := range s.t88viGroups() {
		values := make(map[string]string, len(g.fields))
		for _, f := range g.fields {
			values[f.name] = *f.value
		}
		setting[g.name] = values
	}
	if withPassword && s.NewPassword != nil {
		setting["NewPassword"] = *s.NewPassword
	}
	return map[string]any{"Setting": setting}
}
