package config_test

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"golang.org/x/text/language"

	"github.com/goliatone/go-bookingform/pkg/config"
)

func writeFile(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "booking.yaml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := config.Load("", config.WithEnvironment(map[string]string{}))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if diff := cmp.Diff(config.Default(), cfg); diff != "" {
		t.Fatalf("defaults mismatch (-want +got):\n%s", diff)
	}
}

func TestLoad_FileThenEnv(t *testing.T) {
	path := writeFile(t, `
server:
  addr: ":9090"
  session_ttl: 5m
  max_sessions: 10
log:
  level: debug
  format: json
form:
  locale: en-GB
  timezone: Europe/London
  header: "<h1>Book</h1>"
theme:
  variant: dark
  tokens:
    error: form-error
metrics:
  enabled: false
`)

	cfg, err := config.Load(path, config.WithEnvironment(map[string]string{
		"BOOKING_SERVER_ADDR":     ":7070",
		"BOOKING_THEME_TOKENS":    "root=booking-root,error=booking-error",
		"BOOKING_ALLOWED_ORIGINS": "https://a.example,https://b.example",
	}))
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if cfg.Server.Addr != ":7070" {
		t.Fatalf("env should override file, got %q", cfg.Server.Addr)
	}
	if cfg.Server.SessionTTL != 5*time.Minute || cfg.Server.MaxSessions != 10 {
		t.Fatalf("unexpected server config %+v", cfg.Server)
	}
	if diff := cmp.Diff([]string{"https://a.example", "https://b.example"}, cfg.Server.AllowedOrigins); diff != "" {
		t.Fatalf("origins mismatch (-want +got):\n%s", diff)
	}
	if cfg.Server.ShutdownTimeout != 10*time.Second {
		t.Fatalf("unset keys keep defaults, got %s", cfg.Server.ShutdownTimeout)
	}
	if cfg.Log.Format != config.FormatJSON {
		t.Fatalf("unexpected log format %q", cfg.Log.Format)
	}
	level, err := cfg.Log.SlogLevel()
	if err != nil || level != slog.LevelDebug {
		t.Fatalf("unexpected level %v (%v)", level, err)
	}
	tag, err := cfg.Form.Language()
	if err != nil || tag != language.BritishEnglish {
		t.Fatalf("unexpected language %v (%v)", tag, err)
	}
	loc, err := cfg.Form.Location()
	if err != nil || loc.String() != "Europe/London" {
		t.Fatalf("unexpected location %v (%v)", loc, err)
	}
	if cfg.Theme.Variant != "dark" || cfg.Theme.Tokens["root"] != "booking-root" {
		t.Fatalf("unexpected theme %+v", cfg.Theme)
	}
	if cfg.Metrics.Enabled {
		t.Fatalf("metrics should be disabled by file")
	}
	if cfg.Form.Title != "Booking" {
		t.Fatalf("title default lost: %q", cfg.Form.Title)
	}
}

func TestLoad_RejectsUnknownKeys(t *testing.T) {
	path := writeFile(t, "server:\n  port: 80\n")
	if _, err := config.Load(path, config.WithEnvironment(map[string]string{})); err == nil {
		t.Fatalf("expected unknown key error")
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := config.Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatalf("expected read error")
	}
}

func TestValidate_CollectsErrors(t *testing.T) {
	cfg := config.Default()
	cfg.Server.MaxSessions = 0
	cfg.Log.Level = "loud"
	cfg.Log.Format = "xml"
	cfg.Form.Locale = "??"
	cfg.Form.Timezone = "Mars/Olympus"
	cfg.Metrics.Path = "metrics"

	err := cfg.Validate()
	if err == nil {
		t.Fatalf("expected validation error")
	}
	for _, want := range []string{"max_sessions", "log.level", "log.format", "form.locale", "form.timezone", "metrics.path"} {
		if !strings.Contains(err.Error(), want) {
			t.Fatalf("error %q missing %q", err.Error(), want)
		}
	}
}

func TestLoad_EnvValidation(t *testing.T) {
	_, err := config.Load("", config.WithEnvironment(map[string]string{"BOOKING_MAX_SESSIONS": "-1"}))
	if err == nil || !strings.Contains(err.Error(), "max_sessions") {
		t.Fatalf("expected max_sessions error, got %v", err)
	}
}
