package config

import (
	"testing"
	"time"
)

func TestNewDefaults(t *testing.T) {
	cfg := New()

	if cfg.ListenAddr != ":8080" {
		t.Fatalf("listen addr default mismatch: %q", cfg.ListenAddr)
	}
	if cfg.DBPath != "expenses.db" {
		t.Fatalf("db path default mismatch: %q", cfg.DBPath)
	}
	if cfg.LogFormat != LogJSON {
		t.Fatalf("log format default mismatch: %q", cfg.LogFormat)
	}
	if cfg.CloudBackend != CloudNone {
		t.Fatalf("cloud backend default mismatch: %q", cfg.CloudBackend)
	}
	if cfg.PollInterval != 30*time.Second {
		t.Fatalf("poll interval default mismatch: %v", cfg.PollInterval)
	}
}

func TestLogFormatFromEnv(t *testing.T) {
	tests := []struct {
		value string
		want  LogFormat
	}{
		{"console", LogConsole},
		{"json", LogJSON},
		{"", LogJSON},
		{"garbage", LogJSON},
	}
	for _, tt := range tests {
		t.Setenv("LOGFORMAT", tt.value)
		if got := New().LogFormat; got != tt.want {
			t.Fatalf("LOGFORMAT=%q: got %q, want %q", tt.value, got, tt.want)
		}
	}
}

func TestCloudBackendFromEnv(t *testing.T) {
	t.Setenv("CLOUDBACKEND", "supabase")
	if got := New().CloudBackend; got != CloudSupabase {
		t.Fatalf("backend mismatch: %q", got)
	}
	t.Setenv("CLOUDBACKEND", "unknown")
	if got := New().CloudBackend; got != CloudNone {
		t.Fatalf("unknown backend not defaulted: %q", got)
	}
}
