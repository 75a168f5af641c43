package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// unsetEnv clears key for the test and restores it afterwards
func unsetEnv(t *testing.T, key string) {
	t.Helper()
	t.Setenv(key, "")
	os.Unsetenv(key)
}

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{"DOTRENDER_WIDTH", "DOTRENDER_HEIGHT", "DOTRENDER_LAYOUT", "DOTRENDER_ADDR", "DOTRENDER_LOG_LEVEL"} {
		unsetEnv(t, key)
	}

	cfg, err := Load(t.TempDir())
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.Width != 800 || cfg.Height != 600 {
		t.Errorf("box = %gx%g, want 800x600", cfg.Width, cfg.Height)
	}
	if cfg.Layout != "dot" {
		t.Errorf("layout = %q, want dot", cfg.Layout)
	}
	if cfg.Serve.Addr != "localhost:5180" {
		t.Errorf("addr = %q", cfg.Serve.Addr)
	}
	if !cfg.TUIEnabled() {
		t.Error("TUI should be enabled by default")
	}
}

func TestLoad_FileAndEnv(t *testing.T) {
	for _, key := range []string{"DOTRENDER_WIDTH", "DOTRENDER_HEIGHT", "DOTRENDER_LAYOUT", "DOTRENDER_ADDR", "DOTRENDER_LOG_LEVEL"} {
		unsetEnv(t, key)
	}

	dir := t.TempDir()
	writeFile(t, dir, FileName, `
width: 320
layout: neato
serve:
  debounce: 250ms
  tui: false
log:
  format: json
`)
	writeFile(t, dir, ".env", "DOTRENDER_HEIGHT=240\nDOTRENDER_ADDR=:9000\n")
	t.Setenv("DOTRENDER_LAYOUT", "circo")

	cfg, err := Load(dir)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.Width != 320 {
		t.Errorf("width = %g, want 320 from file", cfg.Width)
	}
	if cfg.Height != 240 {
		t.Errorf("height = %g, want 240 from .env", cfg.Height)
	}
	if cfg.Layout != "circo" {
		t.Errorf("layout = %q, want circo from environment", cfg.Layout)
	}
	if cfg.Serve.Addr != ":9000" {
		t.Errorf("addr = %q, want :9000", cfg.Serve.Addr)
	}
	if cfg.Serve.Debounce != 250*time.Millisecond {
		t.Errorf("debounce = %v, want 250ms", cfg.Serve.Debounce)
	}
	if cfg.TUIEnabled() {
		t.Error("TUI should be disabled by file")
	}
	if cfg.Log.Level != "info" || cfg.Log.Format != "json" {
		t.Errorf("log = %+v", cfg.Log)
	}
}

func TestLoadFile_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{name: "bad yaml", content: "width: [", wantErr: "failed to parse"},
		{name: "negative box", content: "width: -1", wantErr: "must not be negative"},
		{name: "bad log format", content: "log:\n  format: xml", wantErr: "unknown log format"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			writeFile(t, dir, FileName, tt.content)

			_, err := LoadFile(filepath.Join(dir, FileName))
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("LoadFile() error = %v, want %q", err, tt.wantErr)
			}
		})
	}
}

func TestLoad_BadEnv(t *testing.T) {
	unsetEnv(t, "DOTRENDER_HEIGHT")
	t.Setenv("DOTRENDER_WIDTH", "wide")

	if _, err := Load(t.TempDir()); err == nil || !strings.Contains(err.Error(), "DOTRENDER_WIDTH") {
		t.Errorf("expected DOTRENDER_WIDTH error, got %v", err)
	}
}
