package config

import (
	"fmt"
	"net/url"
	"os"
	"sort"
	"time"

	"github.com/itsonme/epson-cfg/internal/printer"
)

// CurrentVersion is the only configuration file version understood
const CurrentVersion = 1

// Config represents the entire user configuration file.
type Config struct {
	Version      int                     `yaml:"version"`
	Defaults     *Defaults               `yaml:"defaults,omitempty"`
	Environments map[string]*Environment `yaml:"environments,omitempty"` // Keyed by environment name
}

// Defaults are used when the matching command-line flag is not given.
type Defaults struct {
	Environment    string        `yaml:"environment"`               // Admin service environment name
	Model          string        `yaml:"model,omitempty"`           // Printer model ("v" or "vi")
	RetryWindow    time.Duration `yaml:"retry_window,omitempty"`    // Transport retry window (e.g., "6s")
	SettleDelay    time.Duration `yaml:"settle_delay,omitempty"`    // Wait after a printer restart
	RequestTimeout time.Duration `yaml:"request_timeout,omitempty"` // Per-request HTTP timeout
}

// Environment is one deployment of the merchant administration service.
// Note: the token itself is NEVER stored, only the variable that holds it.
type Environment struct {
	AdminURL string `yaml:"admin_url"` // Service root (e.g., "https://admin.itson.me")
	TokenEnv string `yaml:"token_env"` // Environment variable carrying the service token
}

// Default creates a Config with the QA and production environments.
func Default() *Config {
	return &Config{
		Version: CurrentVersion,
		Defaults: &Defaults{
			Environment:    "qa",
			Model:          "vi",
			RetryWindow:    printer.DefaultRetryWindow,
			SettleDelay:    printer.DefaultSettleDelay,
			RequestTimeout: printer.DefaultRequestTimeout,
		},
		Environments: map[string]*Environment{
			"qa": {
				AdminURL: "https://qaadmin.itson.me",
				TokenEnv: "EPSONCFG_QA_TOKEN",
			},
			"production": {
				AdminURL: "https://admin.itson.me",
				TokenEnv: "EPSONCFG_PRODUCTION_TOKEN",
			},
		},
	}
}

// Environment returns the named environment. An empty name selects the
// default environment.
func (c *Config) Environment(name string) (*Environment, error) {
	if name == "" && c.Defaults != nil {
		name = c.Defaults.Environment
	}
	if name == "" {
		return nil, fmt.Errorf("no environment selected and no default configured")
	}
	env, ok := c.Environments[name]
	if !ok {
		return nil, fmt.Errorf("unknown environment %q (configured: %v)", name, c.EnvironmentNames())
	}
	return env, nil
}

// EnvironmentNames returns the configured environment names in sorted order.
func (c *Config) EnvironmentNames() []string {
	names := make([]string, 0, len(c.Environments))
	for name := range c.Environments {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Model returns the default printer model, or zero when none is configured.
func (c *Config) Model() (printer.Model, error) {
	if c.Defaults == nil || c.Defaults.Model == "" {
		return 0, nil
	}
	return printer.ParseModel(c.Defaults.Model)
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if c.Version != CurrentVersion {
		return fmt.Errorf("unsupported config version: %d (expected %d)", c.Version, CurrentVersion)
	}
	if len(c.Environments) == 0 {
		return fmt.Errorf("no environments configured")
	}

	for _, name := range c.EnvironmentNames() {
		if err := c.Environments[name].validate(); err != nil {
			return fmt.Errorf("environment %q: %w", name, err)
		}
	}

	if c.Defaults == nil {
		return nil
	}
	if c.Defaults.Environment != "" {
		if _, ok := c.Environments[c.Defaults.Environment]; !ok {
			return fmt.Errorf("default environment %q is not configured", c.Defaults.Environment)
		}
	}
	if _, err := c.Model(); err != nil {
		return fmt.Errorf("default model: %w", err)
	}
	if c.Defaults.RetryWindow < 0 || c.Defaults.SettleDelay < 0 || c.Defaults.RequestTimeout < 0 {
		return fmt.Errorf("durations cannot be negative")
	}
	return nil
}

func (e *Environment) validate() error {
	if e == nil {
		return fmt.Errorf("empty entry")
	}
	u, err := url.Parse(e.AdminURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("admin_url %q must be an http or https URL", e.AdminURL)
	}
	if e.TokenEnv == "" {
		return fmt.Errorf("token_env is required")
	}
	return nil
}

// Token reads the service token from the environment.
func (e *Environment) Token() (string, error) {
	token := os.Getenv(e.TokenEnv)
	if token == "" {
		return "", fmt.Errorf("service token not set: export %s", e.TokenEnv)
	}
	return token, nil
}
