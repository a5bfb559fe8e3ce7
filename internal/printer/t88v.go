package printer

import (
	"encoding/json"
	"fmt"
	"net/url"

	"github.com/itsonme/epson-cfg/internal/logging"
)

// Legacy endpoint names, in the order Apply writes them
const (
	EndpointPassword           = "password"
	EndpointAdministrator      = "administrator"
	EndpointServerDirectPrint  = "server_direct_print"
	EndpointStatusNotification = "status_notification"
)

var t88vEndpoints = map[string]bool{
	EndpointPassword:           true,
	EndpointAdministrator:      true,
	EndpointServerDirectPrint:  true,
	EndpointStatusNotification: true,
}

// T88VEndpoint returns the path of a legacy endpoint. kind is "set" or "config".
func T88VEndpoint(kind, name string) (string, error) {
	if kind != "set" && kind != "config" {
		return "", NewInvalidArgumentError(fmt.Sprintf("unknown endpoint kind %q", kind))
	}
	if !t88vEndpoints[name] {
		return "", NewInvalidArgumentError(fmt.Sprintf("unknown TM-T88V endpoint %q", name))
	}
	return fmt.Sprintf("/webconfig/%s_%s.cgi?format=json", kind, name), nil
}

// t88v applies settings through one form endpoint per group. Nothing is
// atomic: a failing endpoint halts the run and earlier writes stay applied.
type t88v struct {
	*base
}

// t88vStep is one form POST of a legacy apply run
type t88vStep struct {
	endpoint string
	form     url.Values
	password *string
}

func (a *t88v) TestConnection() bool {
	endpoint, _ := T88VEndpoint("config", EndpointServerDirectPrint)
	return a.probe(endpoint)
}

// Reset is not available through the TM-T88V API
func (a *t88v) Reset() bool {
	return false
}

func (a *t88v) Configuration() (*Snapshot, error) {
	snap := &Snapshot{Model: ModelT88V, Groups: make(map[string]map[string]string)}
	for _, name := range []string{EndpointAdministrator, EndpointServerDirectPrint, EndpointStatusNotification} {
		endpoint, err := T88VEndpoint("config", name)
		if err != nil {
			return nil, err
		}
		body, err := a.transport.Get(endpoint)
		if err != nil {
			return nil, err
		}
		values, err := parseT88VGroup(endpoint, body)
		if err != nil {
			return nil, err
		}
		snap.Groups[name] = values
	}
	return snap, nil
}

// Apply posts the staged endpoints in order. The session switches to a new
// password as soon as the printer confirms it, not after a verified restart;
// the remaining posts log in with it.
func (a *t88v) Apply() (*ApplyResult, error) {
	staged := a.consume()
	model := a.session.Model.String()

	steps := planT88V(&staged)
	if len(steps) == 0 {
		logging.LogApplyStep(model, "build", "nothing to do")
		return nothingToDo(), nil
	}

	result := &ApplyResult{Status: StatusApplied}
	for _, step := range steps {
		endpoint, err := T88VEndpoint("set", step.endpoint)
		if err != nil {
			return failedResult(StatusRejected, err), err
		}

		body, err := a.transport.PostForm(endpoint, step.form)
		if err != nil {
			logging.LogApplyStep(model, step.endpoint, "no response")
			result.Status = StatusConnectionFailed
			result.Issues = []string{step.endpoint + " -- no response"}
			return result, err
		}

		if err := checkT88VSuccess(step.endpoint, body); err != nil {
			logging.LogApplyStep(model, step.endpoint, "failed")
			result.Status = StatusFatal
			result.Issues = []string{step.endpoint + " -- device reported failure"}
			return result, err
		}
		logging.LogApplyStep(model, step.endpoint, "ok")
		result.Applied = append(result.Applied, step.endpoint)

		if step.password != nil {
			a.rotatePassword(*step.password)
			result.PasswordRotated = true
		}
	}

	return result, nil
}

// planT88V orders the staged groups password, administrator, server direct
// print, status notification
func planT88V(s *Settings) []t88vStep {
	var steps []t88vStep
	if s.NewPassword != nil {
		steps = append(steps, t88vStep{
			endpoint: EndpointPassword,
			form:     url.Values{"NewPassword": {*s.NewPassword}},
			password: s.NewPassword,
		})
	}
	if g := s.Administrator; g != nil {
		steps = append(steps, t88vStep{
			endpoint: EndpointAdministrator,
			form: formValues(staged([]field{
				{"Administrator", g.Administrator},
				{"Location", g.Location},
			})),
		})
	}
	if g := s.ServerDirectPrint; g != nil {
		steps = append(steps, t88vStep{endpoint: EndpointServerDirectPrint, form: formValues(g.t88vFields())})
	}
	if g := s.StatusNotification; g != nil {
		steps = append(steps, t88vStep{endpoint: EndpointStatusNotification, form: formValues(g.t88vFields())})
	}
	return steps
}

func formValues(fields []field) url.Values {
	form := url.Values{}
	for _, f := range fields {
		form.Set(f.name, *f.value)
	}
	return form
}

// t88vReply is the reply of a legacy set_<endpoint>.cgi call
type t88vReply struct {
	Response struct {
		Success any `json:"success"`
	} `json:"response"`
}

// checkT88VSuccess requires response.success to be the string "true".
// Anything else is a fatal endpoint failure.
func checkT88VSuccess(endpoint, body string) error {
	var reply t88vReply
	if err := json.Unmarshal([]byte(body), &reply); err != nil {
		return NewFatalEndpointError(endpoint, body, NewParseError(endpoint, body, err))
	}
	if flag, ok := reply.Response.Success.(string); ok && flag == "true" {
		return nil
	}
	return NewFatalEndpointError(endpoint, body, nil)
}
