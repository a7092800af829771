package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultsValidate(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("defaults should validate: %v", err)
	}
	if cfg.Quota.MaxRequests != 2 || cfg.Quota.WindowHours != 24 {
		t.Fatalf("unexpected quota defaults: %+v", cfg.Quota)
	}
	if cfg.Quota.StorageKey != "scout_search_quota" {
		t.Fatalf("unexpected storage key: %q", cfg.Quota.StorageKey)
	}
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if cfg.Server.URL != "http://localhost:8080" {
		t.Fatalf("unexpected default URL: %q", cfg.Server.URL)
	}
}

func TestLoadFileAndEnvOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scout.yaml")
	data := []byte("server:\n  url: http://filehost:9000\nquota:\n  max_requests: 5\n")
	if err := os.WriteFile(path, data, 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("SCOUT_SERVER_URL", "http://envhost:7000")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if cfg.Server.URL != "http://envhost:7000" {
		t.Fatalf("env should win over file: %q", cfg.Server.URL)
	}
	if cfg.Quota.MaxRequests != 5 {
		t.Fatalf("file value lost: %d", cfg.Quota.MaxRequests)
	}
}

func TestValidateRejectsAndDefaults(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Server.URL = ""
	if err := cfg.Validate(); err != ErrMissingServerURL {
		t.Fatalf("expected ErrMissingServerURL, got %v", err)
	}

	cfg = DefaultConfig()
	cfg.Quota.MaxRequests = 0
	if err := cfg.Validate(); err != ErrInvalidQuota {
		t.Fatalf("expected ErrInvalidQuota, got %v", err)
	}

	cfg = DefaultConfig()
	cfg.Quota.WindowHours = -1
	cfg.Server.RequestTimeout = 0
	cfg.Tracing.SampleRatio = 7
	if err := cfg.Validate(); err != nil {
		t.Fatalf("validate failed: %v", err)
	}
	if cfg.Quota.WindowHours != 24 || cfg.Server.RequestTimeout != 15 || cfg.Tracing.SampleRatio != 1 {
		t.Fatalf("defaulting did not apply: %+v", cfg)
	}
}
