package config

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"
)

func TestGetConfigDir(t *testing.T) {
	configDir, err := GetConfigDir()
	if err != nil {
		t.Fatalf("GetConfigDir() error = %v", err)
	}

	if !strings.Contains(configDir, "epson-cfg") {
		t.Errorf("GetConfigDir() = %v, should contain 'epson-cfg'", configDir)
	}

	t.Logf("Config directory: %s", configDir)
}

func TestGetConfigDir_XDG(t *testing.T) {
	if runtime.GOOS == "windows" || runtime.GOOS == "darwin" {
		t.Skip("XDG_CONFIG_HOME is only honoured on Linux")
	}
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)

	got, err := GetConfigDir()
	if err != nil {
		t.Fatalf("GetConfigDir() error = %v", err)
	}
	if want := filepath.Join(dir, "epson-cfg"); got != want {
		t.Errorf("GetConfigDir() = %v, want %v", got, want)
	}
}

func TestGetConfigPath(t *testing.T) {
	configPath, err := GetConfigPath()
	if err != nil {
		t.Fatalf("GetConfigPath() error = %v", err)
	}

	if filepath.Base(configPath) != "config.yaml" {
		t.Errorf("GetConfigPath() should end with 'config.yaml', got: %v", configPath)
	}
}

func TestLoad_MissingFileReturnsDefault(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nope.yaml")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Version != CurrentVersion {
		t.Errorf("Version = %d, want %d", cfg.Version, CurrentVersion)
	}
	if _, err := cfg.Environment("production"); err != nil {
		t.Errorf("default config should carry production: %v", err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("Load() must not create the file")
	}
}

func TestSaveAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	cfg := Default()
	cfg.Defaults.Environment = "production"
	cfg.Defaults.RetryWindow = 9 * time.Second
	cfg.Environments["staging"] = &Environment{AdminURL: "https://staging.example", TokenEnv: "STAGING_TOKEN"}

	if err := cfg.Save(path); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	if _, err := os.Stat(path + ".tmp"); !os.IsNotExist(err) {
		t.Error("temporary file should be renamed away")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	if !strings.Contains(string(data), "retry_window: 9s") {
		t.Errorf("durations should be written as text, got:\n%s", data)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if loaded.Defaults.Environment != "production" {
		t.Errorf("Defaults.Environment = %q, want production", loaded.Defaults.Environment)
	}
	if loaded.Defaults.RetryWindow != 9*time.Second {
		t.Errorf("RetryWindow = %v, want 9s", loaded.Defaults.RetryWindow)
	}
	if env, err := loaded.Environment("staging"); err != nil || env.TokenEnv != "STAGING_TOKEN" {
		t.Errorf("Environment(staging) = %+v, %v", env, err)
	}
}

func TestLoad_PartialFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("version: 1\n"), 0600); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Defaults == nil || len(cfg.Environments) != 2 {
		t.Errorf("missing sections should be filled with defaults, got %+v", cfg)
	}
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{"bad yaml", "version: [", "failed to parse"},
		{"wrong version", "version: 2\n", "unsupported config version"},
		{"bad duration", "version: 1\ndefaults:\n  retry_window: soon\n", "failed to parse"},
		{"bad url", "version: 1\nenvironments:\n  qa:\n    admin_url: ftp://x\n    token_env: T\n", "admin_url"},
		{"unknown default", "version: 1\ndefaults:\n  environment: dev\n", "default environment"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.yaml")
			if err := os.WriteFile(path, []byte(tt.content), 0600); err != nil {
				t.Fatal(err)
			}
			_, err := Load(path)
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Load() error = %v, want it to contain %q", err, tt.wantErr)
			}
		})
	}
}
