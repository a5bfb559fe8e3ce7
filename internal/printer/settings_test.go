package printer

import (
	"encoding/json"
	"reflect"
	"strings"
	"testing"
)

func TestSettings_MergeKeepsEarlierFields(t *testing.T) {
	s := NewSettings().
		SetServerDirectPrint(EndpointGroup{Active: Bool(true), URL: String("https://a.example/sdp")}).
		SetServerDirectPrint(EndpointGroup{Interval: Int(60)}).
		SetServerDirectPrint(EndpointGroup{URL: String("https://b.example/sdp")})

	g := s.ServerDirectPrint
	if g == nil {
		t.Fatal("ServerDirectPrint not staged")
	}
	if g.Active == nil || !*g.Active {
		t.Errorf("Active = %v, want true", g.Active)
	}
	if g.URL == nil || *g.URL != "https://b.example/sdp" {
		t.Errorf("URL = %v, want the later value", g.URL)
	}
	if g.Interval == nil || *g.Interval != "60" {
		t.Errorf("Interval = %v, want 60", g.Interval)
	}
	if g.ID != nil || g.Name != nil {
		t.Errorf("unstaged fields were backfilled: ID=%v Name=%v", g.ID, g.Name)
	}
	if s.Administrator != nil || s.StatusNotification != nil || s.NewPassword != nil {
		t.Error("unstaged groups must stay nil")
	}
}

func TestSettings_MergeDoesNotAliasCallerValues(t *testing.T) {
	url := "https://a.example"
	g := EndpointGroup{URL: &url}
	s := NewSettings().SetStatusNotification(g)

	url = "https://changed.example"
	if *s.StatusNotification.URL != "https://a.example" {
		t.Errorf("staged URL changed with the caller's variable: %q", *s.StatusNotification.URL)
	}
}

func TestBuildT88VIDocument_ContainsExactlyStagedFields(t *testing.T) {
	tests := []struct {
		name  string
		stage func(s *Settings)
		want  string
	}{
		{
			name:  "nothing",
			stage: func(s *Settings) {},
			want:  `{"Setting":{}}`,
		},
		{
			name: "administrator location only",
			stage: func(s *Settings) {
				s.SetAdministrator(AdministratorGroup{Location: String("Front Bar")})
			},
			want: `{"Setting":{"Administrator":{"Location":"Front Bar"}}}`,
		},
		{
			name: "server direct print merged across calls",
			stage: func(s *Settings) {
				s.SetServerDirectPrint(EndpointGroup{Active: Bool(true), URL: String("http://x")})
				s.SetServerDirectPrint(EndpointGroup{Interval: Int(60), ID: String("42"), Name: String("N")})
			},
			want: `{"Setting":{"ServerDirectPrint":{"Active":"ON","ID":"42","Interval1":"60","Name":"N","Url1":"http://x"}}}`,
		},
		{
			name: "status notification disabled",
			stage: func(s *Settings) {
				s.SetStatusNotification(EndpointGroup{Active: Bool(false)})
			},
			want: `{"Setting":{"StatusNotification":{"Active":"OFF"}}}`,
		},
		{
			name: "password is not part of the document by default",
			stage: func(s *Settings) {
				s.SetPassword("n3w")
				s.SetStatusNotification(EndpointGroup{Interval: Int(30)})
			},
			want: `{"Setting":{"StatusNotification":{"Interval":"30"}}}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewSettings()
			tt.stage(s)
			data, err := json.Marshal(buildT88VIDocument(s, false))
			if err != nil {
				t.Fatalf("Marshal() error = %v", err)
			}
			if string(data) != tt.want {
				t.Errorf("document = %s\nwant       %s", data, tt.want)
			}
		})
	}
}

func TestBuildT88VIDocument_WithPassword(t *testing.T) {
	s := NewSettings().SetPassword("n3w")
	doc := buildT88VIDocument(s, true)
	setting := doc["Setting"].(map[string]any)
	if setting["NewPassword"] != "n3w" {
		t.Errorf("NewPassword = %v, want n3w", setting["NewPassword"])
	}
}

func TestSettings_Clone(t *testing.T) {
	s := NewSettings().
		SetAdministrator(AdministratorGroup{Administrator: String("Ops")}).
		SetServerDirectPrint(EndpointGroup{Active: Bool(true)}).
		SetPassword("pw")

	c := s.Clone()
	*c.Administrator.Administrator = "Changed"
	*c.ServerDirectPrint.Active = false
	*c.NewPassword = "other"

	if *s.Administrator.Administrator != "Ops" || !*s.ServerDirectPrint.Active || *s.NewPassword != "pw" {
		t.Error("Clone() shares memory with the original")
	}
	if !reflect.DeepEqual(NewSettings().Clone(), Settings{}) {
		t.Error("Clone() of empty settings should be empty")
	}
}

func TestSettings_HasChanges(t *testing.T) {
	s := NewSettings()
	if s.HasChanges() || s.HasGroups() {
		t.Error("new settings should be empty")
	}
	s.SetPassword("pw")
	if !s.HasChanges() || s.HasGroups() {
		t.Error("password alone is a change but not a group")
	}
	s.SetAdministrator(AdministratorGroup{})
	if !s.HasGroups() {
		t.Error("administrator should count as a group")
	}
}

func TestSettings_Validate(t *testing.T) {
	tests := []struct {
		name    string
		s       *Settings
		wantErr string
	}{
		{
			name: "valid",
			s: NewSettings().
				SetAdministrator(AdministratorGroup{Administrator: String("Ops"), Location: String("Bar")}).
				SetServerDirectPrint(EndpointGroup{URL: String("https://x.example/sdp"), Interval: Int(30), ID: String("7")}),
		},
		{
			name:    "blank location",
			s:       NewSettings().SetAdministrator(AdministratorGroup{Location: String("  ")}),
			wantErr: "Administrator Location cannot be blank",
		},
		{
			name:    "bad url scheme",
			s:       NewSettings().SetStatusNotification(EndpointGroup{URL: String("ftp://x.example")}),
			wantErr: "StatusNotification URL",
		},
		{
			name:    "interval not numeric",
			s:       NewSettings().SetServerDirectPrint(EndpointGroup{Interval: String("soon")}),
			wantErr: "ServerDirectPrint Interval",
		},
		{
			name:    "blank password",
			s:       NewSettings().SetPassword(""),
			wantErr: "password cannot be blank",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.s.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("Validate() error = %v", err)
				}
				return
			}
			if !IsInvalidArgument(err) {
				t.Fatalf("Validate() error = %v, want InvalidArgument", err)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() error = %q, want it to contain %q", err, tt.wantErr)
			}
		})
	}
}
