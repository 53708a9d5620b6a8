package files

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadCreatesDefaultConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.json")
	cm := NewConfigManagerAt(path)

	if err := cm.Load(); err != nil {
		t.Fatalf("load with missing file: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("expected config file to be created: %v", err)
	}
	if cm.Config().Trigger != "!menu" {
		t.Fatalf("expected default trigger, got %q", cm.Config().Trigger)
	}
}

func TestLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte(`{"trigger":"!open","format_mode":"plain"}`), 0o644); err != nil {
		t.Fatalf("seed config: %v", err)
	}

	cm := NewConfigManagerAt(path)
	if err := cm.Load(); err != nil {
		t.Fatalf("load: %v", err)
	}

	cfg := cm.Config()
	if cfg.Trigger != "!open" || cfg.FormatMode != "plain" {
		t.Fatalf("unexpected config: %+v", cfg)
	}
	// Unset fields keep their defaults.
	if cfg.DatabasePath == "" {
		t.Fatalf("expected default database path to survive partial config")
	}
}

func TestLoadRejectsMalformedConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte(`{not json`), 0o644); err != nil {
		t.Fatalf("seed config: %v", err)
	}

	cm := NewConfigManagerAt(path)
	if err := cm.Load(); err == nil {
		t.Fatalf("expected error for malformed config")
	}
}
