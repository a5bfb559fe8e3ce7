package logging

import (
	"errors"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    zapcore.Level
		wantErr bool
	}{
		{"debug", zapcore.DebugLevel, false},
		{"INFO", zapcore.InfoLevel, false},
		{" warn ", zapcore.WarnLevel, false},
		{"warning", zapcore.WarnLevel, false},
		{"error", zapcore.ErrorLevel, false},
		{"verbose", zapcore.InfoLevel, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseLevel(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseLevel(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestInitialize_SilentByDefault(t *testing.T) {
	t.Setenv(LogLevelEnvVar, "")

	if err := Initialize(""); err != nil {
		t.Fatalf("Initialize() error = %v", err)
	}
	if GetLogger().Core().Enabled(zapcore.ErrorLevel) {
		t.Error("logger should be a no-op when no level is configured")
	}
}

func TestInitialize_FromEnv(t *testing.T) {
	t.Setenv(LogLevelEnvVar, "debug")
	defer SetLogger(nil)

	if err := InitializeFromEnv(); err != nil {
		t.Fatalf("InitializeFromEnv() error = %v", err)
	}
	if !GetLogger().Core().Enabled(zapcore.DebugLevel) {
		t.Error("debug level should be enabled")
	}
}

func TestInitialize_RejectsUnknownLevel(t *testing.T) {
	if err := Initialize("chatty"); err == nil {
		t.Error("Initialize(\"chatty\") should fail")
	}
}

func TestDeviceHelpers(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	SetLogger(zap.New(core))
	defer SetLogger(nil)

	LogDeviceRequest("PUT", "https://10.0.0.5/webconfig/api/v1/webconfig.cgi", 1, 42)
	LogDeviceResponse("PUT", "https://10.0.0.5/webconfig/api/v1/webconfig.cgi", 200, strings.Repeat("x", 600))
	LogRetry("GET", "https://10.0.0.5/webconfig/api/v1/reset.cgi", 2, 150*time.Millisecond, errors.New("EOF"))
	LogApplyStep("TM-T88VI", "verify", "ok")

	entries := logs.AllUntimed()
	if len(entries) != 4 {
		t.Fatalf("logged %d entries, want 4", len(entries))
	}

	body := entries[1].ContextMap()["body"].(string)
	if !strings.HasSuffix(body, "...") || len(body) != maxBodyLog+3 {
		t.Errorf("response body not truncated: len=%d", len(body))
	}

	retry := entries[2].ContextMap()
	if retry["attempt"] != int64(2) {
		t.Errorf("retry attempt = %v, want 2", retry["attempt"])
	}
	if retry["error"] != "EOF" {
		t.Errorf("retry error = %v, want EOF", retry["error"])
	}

	if entries[3].Level != zapcore.InfoLevel {
		t.Errorf("apply step level = %v, want info", entries[3].Level)
	}
}
