// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// isolate points the home directory at a temp dir and clears overrides.
func isolate(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("USERPROFILE", home)
	for _, k := range []string{
		"CEREBRUM_BACKEND_URL", "CEREBRUM_TIMEOUT_SECS", "CEREBRUM_LOG_LEVEL",
		"CEREBRUM_LOG_PATH", "CEREBRUM_POLL_INTERVAL_SECS", "CEREBRUM_RECONCILE",
	} {
		t.Setenv(k, "")
	}
	return home
}

func TestDefault_IsValid(t *testing.T) {
	isolate(t)
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
	if cfg.Backend.Timeout() != 30*time.Second {
		t.Errorf("Timeout() = %v, want 30s", cfg.Backend.Timeout())
	}
	if cfg.Backend.UploadTimeout() != 5*time.Minute {
		t.Errorf("UploadTimeout() = %v, want 5m", cfg.Backend.UploadTimeout())
	}
	if cfg.Notes.DefaultTitle != "Untitled Note" || cfg.Notes.DefaultContent != "# Untitled Note\n\n" {
		t.Errorf("unexpected default draft %q / %q", cfg.Notes.DefaultTitle, cfg.Notes.DefaultContent)
	}
}

func TestLoad_NoFileUsesDefaults(t *testing.T) {
	isolate(t)
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Backend.BaseURL != "http://localhost:8000" {
		t.Errorf("BaseURL = %q", cfg.Backend.BaseURL)
	}
	if cfg.Files.PollInterval() != 5*time.Second {
		t.Errorf("PollInterval() = %v", cfg.Files.PollInterval())
	}
}

func TestLoad_TOMLOverridesSomeKeys(t *testing.T) {
	home := isolate(t)
	dir := filepath.Join(home, ".cerebrum")
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatal(err)
	}
	data := `
[backend]
base_url = "http://study.local:9000/"
timeout_secs = 10

[notes]
reconcile = "refetch"

[ui]
render_markdown = false
`
	if err := os.WriteFile(filepath.Join(dir, "config.toml"), []byte(data), 0600); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Backend.BaseURL != "http://study.local:9000" {
		t.Errorf("BaseURL = %q, want trailing slash trimmed", cfg.Backend.BaseURL)
	}
	if cfg.Backend.TimeoutSecs != 10 {
		t.Errorf("TimeoutSecs = %d", cfg.Backend.TimeoutSecs)
	}
	if cfg.Backend.UploadTimeoutSecs != 300 {
		t.Errorf("UploadTimeoutSecs = %d, want default 300", cfg.Backend.UploadTimeoutSecs)
	}
	if cfg.Notes.Reconcile != "refetch" {
		t.Errorf("Reconcile = %q", cfg.Notes.Reconcile)
	}
	if cfg.UI.RenderMarkdown {
		t.Error("RenderMarkdown should be false")
	}
}

func TestLoad_JSONFallback(t *testing.T) {
	home := isolate(t)
	dir := filepath.Join(home, ".cerebrum")
	os.MkdirAll(dir, 0755)
	os.WriteFile(filepath.Join(dir, "config.json"), []byte(`{"files":{"poll_interval_secs":0}}`), 0600)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Files.PollIntervalSecs != 0 {
		t.Errorf("PollIntervalSecs = %d, want 0 (disabled)", cfg.Files.PollIntervalSecs)
	}
}

func TestLoad_InvalidFileFallsBackWithError(t *testing.T) {
	home := isolate(t)
	dir := filepath.Join(home, ".cerebrum")
	os.MkdirAll(dir, 0755)
	os.WriteFile(filepath.Join(dir, "config.toml"), []byte(`[notes]
reconcile = "versioned"
`), 0600)

	cfg, err := Load()
	if err == nil {
		t.Fatal("expected error for invalid reconcile policy")
	}
	var verrs ValidateErrors
	if !errors.As(err, &verrs) {
		t.Fatalf("error %v is not ValidateErrors", err)
	}
	if cfg == nil || cfg.Notes.Reconcile != "none" {
		t.Errorf("expected defaults alongside the error, got %+v", cfg)
	}
}

func TestApplyEnvOverrides(t *testing.T) {
	isolate(t)
	t.Setenv("CEREBRUM_BACKEND_URL", "https://api.example.com")
	t.Setenv("CEREBRUM_TIMEOUT_SECS", "12")
	t.Setenv("CEREBRUM_LOG_LEVEL", "debug")
	t.Setenv("CEREBRUM_POLL_INTERVAL_SECS", "not-a-number")
	t.Setenv("CEREBRUM_RECONCILE", "dirty")

	cfg := Default()
	cfg.ApplyEnvOverrides()

	if cfg.Backend.BaseURL != "https://api.example.com" {
		t.Errorf("BaseURL = %q", cfg.Backend.BaseURL)
	}
	if cfg.Backend.TimeoutSecs != 12 {
		t.Errorf("TimeoutSecs = %d", cfg.Backend.TimeoutSecs)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("Level = %q", cfg.Logging.Level)
	}
	if cfg.Files.PollIntervalSecs != 5 {
		t.Errorf("unparseable override should be ignored, got %d", cfg.Files.PollIntervalSecs)
	}
	if cfg.Notes.Reconcile != "dirty" {
		t.Errorf("Reconcile = %q", cfg.Notes.Reconcile)
	}
}

func TestLoadDotEnv(t *testing.T) {
	isolate(t)
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	os.WriteFile(path, []byte("CEREBRUM_BACKEND_URL=http://from-dotenv:8000\n"), 0600)
	os.Unsetenv("CEREBRUM_BACKEND_URL")
	t.Cleanup(func() { os.Unsetenv("CEREBRUM_BACKEND_URL") })

	if err := LoadDotEnv(path); err != nil {
		t.Fatalf("LoadDotEnv() error = %v", err)
	}
	if got := os.Getenv("CEREBRUM_BACKEND_URL"); got != "http://from-dotenv:8000" {
		t.Errorf("CEREBRUM_BACKEND_URL = %q", got)
	}
	if err := LoadDotEnv(filepath.Join(dir, "missing.env")); err != nil {
		t.Errorf("missing file should be ignored, got %v", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		field  string
	}{
		{"bad url", func(c *Config) { c.Backend.BaseURL = "not a url" }, "backend.base_url"},
		{"bad scheme", func(c *Config) { c.Backend.BaseURL = "ftp://host" }, "backend.base_url"},
		{"zero timeout", func(c *Config) { c.Backend.TimeoutSecs = 0 }, "backend.timeout_secs"},
		{"negative rps", func(c *Config) { c.Backend.RequestsPerSecond = -1 }, "backend.requests_per_second"},
		{"bad reconcile", func(c *Config) { c.Notes.Reconcile = "merge" }, "notes.reconcile"},
		{"negative poll", func(c *Config) { c.Files.PollIntervalSecs = -1 }, "files.poll_interval_secs"},
		{"bad level", func(c *Config) { c.Logging.Level = "trace" }, "logging.level"},
		{"bad style", func(c *Config) { c.UI.GlamourStyle = "neon" }, "ui.glamour_style"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tt.field) {
				t.Errorf("error %q does not mention %s", err, tt.field)
			}
		})
	}
}

func TestSaveAndLoadRoundTrip(t *testing.T) {
	home := isolate(t)
	cfg := Default()
	cfg.Backend.BaseURL = "http://saved:1234"
	cfg.Notes.Reconcile = "dirty"

	if err := Save(cfg); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	info, err := os.Stat(filepath.Join(home, ".cerebrum", "config.toml"))
	if err != nil {
		t.Fatal(err)
	}
	if info.Mode().Perm() != 0600 {
		t.Errorf("config permissions = %o, want 600", info.Mode().Perm())
	}

	loaded, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if loaded.Backend.BaseURL != "http://saved:1234" || loaded.Notes.Reconcile != "dirty" {
		t.Errorf("round trip lost values: %+v", loaded.Backend)
	}
}

func TestGetSet(t *testing.T) {
	cfg := Default()

	if err := cfg.Set("backend.timeout_secs", "45"); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	if err := cfg.Set("ui.render-markdown", "false"); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	if err := cfg.Set("backend.requests_per_second", "2.5"); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	v, err := cfg.Get("backend.timeout_secs")
	if err != nil || v.(int) != 45 {
		t.Errorf("Get(timeout_secs) = %v, %v", v, err)
	}
	if cfg.UI.RenderMarkdown {
		t.Error("render_markdown should be false")
	}
	if cfg.Backend.RequestsPerSecond != 2.5 {
		t.Errorf("RequestsPerSecond = %v", cfg.Backend.RequestsPerSecond)
	}

	for _, key := range []string{"", "nope", "backend", "backend.nope", "version.x"} {
		if _, err := cfg.Get(key); err == nil {
			t.Errorf("Get(%q) should fail", key)
		}
	}
	if err := cfg.Set("backend.timeout_secs", "abc"); err == nil {
		t.Error("Set with bad int should fail")
	}
}

func TestGetAllKeysResolve(t *testing.T) {
	cfg := Default()
	for _, key := range GetAllKeys() {
		if _, err := cfg.Get(key); err != nil {
			t.Errorf("Get(%q) error = %v", key, err)
		}
	}
}
