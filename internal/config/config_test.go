package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"deskbell/internal/kit"
)

func writeConfig(t *testing.T, name, content string) *Manager {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return NewManager(path)
}

func TestParseMissingFileYieldsDefaults(t *testing.T) {
	t.Parallel()
	m := NewManager(filepath.Join(t.TempDir(), "nope.yaml"))
	cfg, err := m.Parse()
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	if cfg.App.Name != "deskbell" {
		t.Fatalf("default app name = %q", cfg.App.Name)
	}
	if cfg.Logging.Level != "info" {
		t.Fatalf("default log level = %q", cfg.Logging.Level)
	}
	if !cfg.Logging.ConsoleEnabled() {
		t.Fatal("console not enabled by default")
	}
}

func TestParseYAML(t *testing.T) {
	t.Parallel()
	m := writeConfig(t, "config.yaml", `
app:
  name: myapp
icon:
  path: /icons/app.png
  path16: /icons/app-16.png
defaults:
  timeout: 5s
drivers:
  disable:
    - tray
logging:
  level: debug
  console: false
dispatch:
  workers: 4
  rate_per_sec: 2
  dedup_window: 30s
`)
	cfg, err := m.Parse()
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	if cfg.App.Name != "myapp" {
		t.Fatalf("app name = %q", cfg.App.Name)
	}
	if got := cfg.DefaultTimeout(); got != 5*time.Second {
		t.Fatalf("DefaultTimeout = %v", got)
	}
	if got := cfg.DefaultIcon().Small(); got != "/icons/app-16.png" {
		t.Fatalf("small icon = %q", got)
	}
	disabled, err := cfg.DisabledVariants()
	if err != nil {
		t.Fatalf("DisabledVariants error: %v", err)
	}
	if len(disabled) != 1 || disabled[0] != kit.VariantTray {
		t.Fatalf("disabled = %v", disabled)
	}
	if cfg.Logging.ConsoleEnabled() {
		t.Fatal("console: false not honored")
	}
	if cfg.Dispatch.Workers != 4 || cfg.Dispatch.RatePerSec != 2 {
		t.Fatalf("dispatch = %+v", cfg.Dispatch)
	}
}

func TestParseJSON(t *testing.T) {
	t.Parallel()
	m := writeConfig(t, "config.json", `{"app":{"name":"jay"}}`)
	cfg, err := m.Parse()
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	if cfg.App.Name != "jay" {
		t.Fatalf("app name = %q", cfg.App.Name)
	}
}

func TestParseRejectsUnknownFields(t *testing.T) {
	t.Parallel()
	m := writeConfig(t, "config.yaml", "app:\n  naem: typo\n")
	if _, err := m.Parse(); err == nil {
		t.Fatal("expected error for unknown field")
	}
}

func TestParseRejectsTrailingData(t *testing.T) {
	t.Parallel()
	m := writeConfig(t, "config.json", `{"app":{"name":"a"}}{"app":{"name":"b"}}`)
	if _, err := m.Parse(); err == nil {
		t.Fatal("expected error for trailing data")
	}
}

func TestParseRejectsBadDuration(t *testing.T) {
	t.Parallel()
	m := writeConfig(t, "config.yaml", "defaults:\n  timeout: five-ish\n")
	_, err := m.Parse()
	if err == nil {
		t.Fatal("expected error for invalid duration")
	}
	if !strings.Contains(err.Error(), "defaults.timeout") {
		t.Fatalf("error does not name the field: %v", err)
	}
}

func TestParseRejectsUnknownVariant(t *testing.T) {
	t.Parallel()
	m := writeConfig(t, "config.yaml", "drivers:\n  disable:\n    - growl\n")
	if _, err := m.Parse(); err == nil {
		t.Fatal("expected error for unknown variant name")
	}
}

func TestValidateNegativeDispatch(t *testing.T) {
	t.Parallel()
	cfg := Default()
	cfg.Dispatch.Workers = -1
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for negative workers")
	}
}

func TestParseDurationField(t *testing.T) {
	t.Parallel()
	tests := []struct {
		raw     string
		want    time.Duration
		wantErr bool
	}{
		{"", 0, false},
		{"  ", 0, false},
		{"500ms", 500 * time.Millisecond, false},
		{"2h30m", 2*time.Hour + 30*time.Minute, false},
		{"-5s", 0, true},
		{"nope", 0, true},
	}
	for _, tt := range tests {
		got, err := ParseDurationField("x", tt.raw)
		if tt.wantErr {
			if err == nil {
				t.Fatalf("ParseDurationField(%q): expected error", tt.raw)
			}
			continue
		}
		if err != nil {
			t.Fatalf("ParseDurationField(%q) error: %v", tt.raw, err)
		}
		if got != tt.want {
			t.Fatalf("ParseDurationField(%q) = %v, want %v", tt.raw, got, tt.want)
		}
	}
}

func TestParseDurationOrDefault(t *testing.T) {
	t.Parallel()
	got, err := ParseDurationOrDefault("x", "", time.Minute)
	if err != nil || got != time.Minute {
		t.Fatalf("empty = %v, %v; want 1m, nil", got, err)
	}
	got, err = ParseDurationOrDefault("x", "10s", time.Minute)
	if err != nil || got != 10*time.Second {
		t.Fatalf("explicit = %v, %v; want 10s, nil", got, err)
	}
}

func TestLoadCommitsAndGetReturns(t *testing.T) {
	t.Parallel()
	m := writeConfig(t, "config.yaml", "app:\n  name: committed\n")
	if _, err := m.Load(); err != nil {
		t.Fatalf("Load error: %v", err)
	}
	cfg := m.Get()
	if cfg == nil || cfg.App.Name != "committed" {
		t.Fatalf("Get = %+v", cfg)
	}
}

func TestSubscribePublishUnsubscribe(t *testing.T) {
	t.Parallel()
	m := NewManager(filepath.Join(t.TempDir(), "c.yaml"))
	sub := m.Subscribe(1)

	cfg := Default()
	m.publish(cfg)
	select {
	case got := <-sub:
		if got != cfg {
			t.Fatal("subscriber received a different config")
		}
	case <-time.After(time.Second):
		t.Fatal("publish not delivered")
	}

	m.Unsubscribe(sub)
	if _, ok := <-sub; ok {
		t.Fatal("channel open after Unsubscribe")
	}
	m.Unsubscribe(sub) // second call is a no-op
}

func TestPublishPrefersLatest(t *testing.T) {
	t.Parallel()
	m := NewManager(filepath.Join(t.TempDir(), "c.yaml"))
	sub := m.Subscribe(1)
	defer m.Unsubscribe(sub)

	old := Default()
	newer := Default()
	newer.App.Name = "newer"
	m.publish(old)
	m.publish(newer)

	got := <-sub
	if got.App.Name != "newer" {
		t.Fatalf("subscriber got %q, want the latest config", got.App.Name)
	}
}

func TestCoerceToJSONBytesPassthrough(t *testing.T) {
	t.Parallel()
	in := []byte(`{"a":1}`)
	out, err := coerceToJSONBytes("config.json", in)
	if err != nil {
		t.Fatalf("coerce error: %v", err)
	}
	if string(out) != string(in) {
		t.Fatalf("json input was rewritten: %s", out)
	}
}

func TestCoerceToJSONBytesYAML(t *testing.T) {
	t.Parallel()
	out, err := coerceToJSONBytes("config.yaml", []byte("app:\n  name: x\n"))
	if err != nil {
		t.Fatalf("coerce error: %v", err)
	}
	if !strings.Contains(string(out), `"name":"x"`) {
		t.Fatalf("unexpected coercion result: %s", out)
	}
}
