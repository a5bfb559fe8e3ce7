package main

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/itsonme/epson-cfg/internal/config"
	"github.com/itsonme/epson-cfg/internal/printer"
)

func changedSet(names ...string) func(string) bool {
	set := make(map[string]bool)
	for _, n := range names {
		set[n] = true
	}
	return func(name string) bool { return set[name] }
}

func TestStagedFromFlags(t *testing.T) {
	sdpActive = false
	sdpURL = "https://print.example/42"
	sdpInterval = "10"
	adminName = "Front Desk"
	location = "ignored because unchanged"
	newPassword = "s3cret"

	s := stagedFromFlags(changedSet("sdp-active", "sdp-url", "sdp-interval", "admin", "new-password"))

	if s.ServerDirectPrint == nil {
		t.Fatal("ServerDirectPrint should be staged")
	}
	if s.ServerDirectPrint.Active == nil || *s.ServerDirectPrint.Active {
		t.Error("--sdp-active=false should stage Active false")
	}
	if *s.ServerDirectPrint.URL != "https://print.example/42" || *s.ServerDirectPrint.Interval != "10" {
		t.Errorf("ServerDirectPrint = %+v", s.ServerDirectPrint)
	}
	if s.ServerDirectPrint.ID != nil || s.ServerDirectPrint.Name != nil {
		t.Error("unchanged flags must not be staged")
	}

	if s.Administrator == nil || *s.Administrator.Administrator != "Front Desk" {
		t.Errorf("Administrator = %+v", s.Administrator)
	}
	if s.Administrator.Location != nil {
		t.Error("Location was not passed and must not be staged")
	}

	if s.StatusNotification != nil {
		t.Error("StatusNotification should not be staged")
	}
	if s.NewPassword == nil || *s.NewPassword != "s3cret" {
		t.Error("NewPassword should be staged")
	}
}

func TestStagedFromFlags_Nothing(t *testing.T) {
	s := stagedFromFlags(changedSet())
	if s.HasChanges() {
		t.Errorf("no flags should stage nothing, got %+v", s)
	}
}

func TestExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"fatal endpoint", printer.NewFatalEndpointError("/webconfig/set_password.cgi", `{"response":{"success":"false"}}`, nil), 2},
		{"wrapped fatal", errors.Join(errors.New("apply"), printer.NewFatalEndpointError("x", "", nil)), 2},
		{"connection", printer.NewConnectionError("192.168.1.50", "/x", 3, 0, nil), 1},
		{"plain", errors.New("boom"), 1},
	}

	for _, tt := range tests {
		if got := exitCode(tt.err); got != tt.want {
			t.Errorf("%s: exitCode() = %d, want %d", tt.name, got, tt.want)
		}
	}
}

func TestFormatSnapshot(t *testing.T) {
	snap := &printer.Snapshot{
		Model: printer.ModelT88VI,
		Groups: map[string]map[string]string{
			printer.GroupServerDirectPrint: {"Active": "ON", "Url1": "https://print.example"},
		},
	}

	for _, format := range []string{"detailed", "compact", "json", "yaml", ""} {
		out, err := formatSnapshot(snap, format)
		if err != nil {
			t.Errorf("formatSnapshot(%q) error = %v", format, err)
			continue
		}
		if !strings.Contains(out, "https://print.example") {
			t.Errorf("formatSnapshot(%q) = %q, want the URL", format, out)
		}
	}

	out, _ := formatSnapshot(snap, "json")
	var decoded map[string]any
	if err := json.Unmarshal([]byte(out), &decoded); err != nil {
		t.Errorf("json output does not parse: %v", err)
	}

	if _, err := formatSnapshot(snap, "xml"); err == nil {
		t.Error("formatSnapshot(xml) should fail")
	}
}

func TestResolveModel(t *testing.T) {
	defer func() { modelName = ""; loadedCfg = nil }()

	loadedCfg = config.Default()

	modelName = "v"
	if m, err := resolveModel(); err != nil || m != printer.ModelT88V {
		t.Errorf("flag should win: got %v, %v", m, err)
	}

	modelName = ""
	if m, err := resolveModel(); err != nil || m != printer.ModelT88VI {
		t.Errorf("config default: got %v, %v", m, err)
	}

	loadedCfg.Defaults.Model = ""
	if _, err := resolveModel(); !printer.IsInvalidArgument(err) {
		t.Errorf("no model anywhere: error = %v, want invalid argument", err)
	}

	loadedCfg = nil
	if _, err := resolveModel(); !printer.IsInvalidArgument(err) {
		t.Errorf("no config and no flag: error = %v, want invalid argument", err)
	}
}
