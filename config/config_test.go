package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("CONFIG_PATH", filepath.Join(t.TempDir(), "missing.yaml"))

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Addr != ":8501" {
		t.Fatalf("unexpected addr default: %q", cfg.Addr)
	}
	if cfg.PreviewRows != 5 || cfg.Bins != 0 {
		t.Fatalf("unexpected defaults: preview=%d bins=%d", cfg.PreviewRows, cfg.Bins)
	}
	if cfg.ShutdownTimeout() != 5*time.Second {
		t.Fatalf("unexpected shutdown timeout: %v", cfg.ShutdownTimeout())
	}
}

func TestLoadYAMLAndEnvOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "irisdash.yaml")
	content := `
addr: ":9000"
title: "YAML Title"
preview_rows: 10
bins: 12
chart_width: 800
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	t.Setenv("IRISDASH_TITLE", "Env Title")
	t.Setenv("IRISDASH_BINS", "20")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Addr != ":9000" {
		t.Fatalf("expected addr from yaml, got %q", cfg.Addr)
	}
	if cfg.Title != "Env Title" {
		t.Fatalf("expected title from env override, got %q", cfg.Title)
	}
	if cfg.PreviewRows != 10 {
		t.Fatalf("expected preview rows from yaml, got %d", cfg.PreviewRows)
	}
	if cfg.Bins != 20 {
		t.Fatalf("expected bins from env override, got %d", cfg.Bins)
	}
	if cfg.ChartWidth != 800 || cfg.ChartHeight != 420 {
		t.Fatalf("expected yaml width and default height, got %dx%d", cfg.ChartWidth, cfg.ChartHeight)
	}
}

func TestLoadInvalid(t *testing.T) {
	t.Setenv("CONFIG_PATH", filepath.Join(t.TempDir(), "missing.yaml"))

	t.Setenv("IRISDASH_PREVIEW_ROWS", "many")
	if _, err := Load(""); !errors.Is(err, ErrInvalid) {
		t.Fatalf("expected ErrInvalid for non-numeric env, got %v", err)
	}

	t.Setenv("IRISDASH_PREVIEW_ROWS", "0")
	if _, err := Load(""); !errors.Is(err, ErrInvalid) {
		t.Fatalf("expected ErrInvalid for zero preview rows, got %v", err)
	}
}

func TestLoadMalformedYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("addr: [unterminated"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestValidate(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("defaults should be valid: %v", err)
	}

	cfg.Bins = -1
	if err := cfg.Validate(); !errors.Is(err, ErrInvalid) {
		t.Fatalf("expected ErrInvalid, got %v", err)
	}

	cfg = Default()
	cfg.ChartHeight = 10
	if err := cfg.Validate(); !errors.Is(err, ErrInvalid) {
		t.Fatalf("expected ErrInvalid, got %v", err)
	}
}
