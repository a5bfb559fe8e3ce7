package config

import (
	"testing"

	"github.com/itsonme/epson-cfg/internal/printer"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if err := cfg.Validate(); err != nil {
		t.Fatalf("Default().Validate() error = %v", err)
	}

	tests := []struct {
		env      string
		adminURL string
		tokenEnv string
	}{
		{"qa", "https://qaadmin.itson.me", "EPSONCFG_QA_TOKEN"},
		{"production", "https://admin.itson.me", "EPSONCFG_PRODUCTION_TOKEN"},
	}
	for _, tt := range tests {
		env, err := cfg.Environment(tt.env)
		if err != nil {
			t.Errorf("Environment(%q) error = %v", tt.env, err)
			continue
		}
		if env.AdminURL != tt.adminURL {
			t.Errorf("%s AdminURL = %v, want %v", tt.env, env.AdminURL, tt.adminURL)
		}
		if env.TokenEnv != tt.tokenEnv {
			t.Errorf("%s TokenEnv = %v, want %v", tt.env, env.TokenEnv, tt.tokenEnv)
		}
	}

	if cfg.Defaults.RetryWindow != printer.DefaultRetryWindow {
		t.Errorf("RetryWindow = %v, want %v", cfg.Defaults.RetryWindow, printer.DefaultRetryWindow)
	}
}

func TestConfig_Environment(t *testing.T) {
	cfg := Default()

	env, err := cfg.Environment("")
	if err != nil {
		t.Fatalf("Environment(\"\") error = %v", err)
	}
	if env.AdminURL != "https://qaadmin.itson.me" {
		t.Errorf("empty name should select the default environment, got %v", env.AdminURL)
	}

	if _, err := cfg.Environment("staging"); err == nil {
		t.Error("Environment(staging) should fail")
	}

	cfg.Defaults = nil
	if _, err := cfg.Environment(""); err == nil {
		t.Error("Environment(\"\") without defaults should fail")
	}
}

func TestConfig_Model(t *testing.T) {
	cfg := Default()
	m, err := cfg.Model()
	if err != nil || m != printer.ModelT88VI {
		t.Errorf("Model() = %v, %v, want TM-T88VI", m, err)
	}

	cfg.Defaults.Model = "t88x"
	if err := cfg.Validate(); err == nil {
		t.Error("Validate() should reject an unknown model")
	}

	cfg.Defaults.Model = ""
	if m, err := cfg.Model(); err != nil || m != 0 {
		t.Errorf("Model() = %v, %v, want zero", m, err)
	}
}

func TestEnvironment_Token(t *testing.T) {
	env := &Environment{AdminURL: "https://qaadmin.itson.me", TokenEnv: "EPSONCFG_TEST_TOKEN"}

	t.Setenv("EPSONCFG_TEST_TOKEN", "")
	if _, err := env.Token(); err == nil {
		t.Error("Token() should fail when the variable is empty")
	}

	t.Setenv("EPSONCFG_TEST_TOKEN", "secret")
	token, err := env.Token()
	if err != nil || token != "secret" {
		t.Errorf("Token() = %q, %v, want secret", token, err)
	}
}

func TestConfig_ValidateNegativeDuration(t *testing.T) {
	cfg := Default()
	cfg.Defaults.SettleDelay = -1
	if err := cfg.Validate(); err == nil {
		t.Error("Validate() should reject a negative settle delay")
	}
}
