// Package config loads runtime settings: defaults in code, then an optional
// YAML file, then BOOKING_* environment variables.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"
)

// Config is the complete runtime configuration.
type Config struct {
	Server  Server  `yaml:"server"`
	Log     Log     `yaml:"log"`
	Form    Form    `yaml:"form"`
	Theme   Theme   `yaml:"theme"`
	Metrics Metrics `yaml:"metrics"`
}

// Server configures the HTTP surface and the session store.
type Server struct {
	Addr              string        `yaml:"addr" env:"BOOKING_SERVER_ADDR"`
	SessionTTL        time.Duration `yaml:"session_ttl" env:"BOOKING_SESSION_TTL"`
	MaxSessions       int           `yaml:"max_sessions" env:"BOOKING_MAX_SESSIONS"`
	ReadHeaderTimeout time.Duration `yaml:"read_header_timeout" env:"BOOKING_READ_HEADER_TIMEOUT"`
	ShutdownTimeout   time.Duration `yaml:"shutdown_timeout" env:"BOOKING_SHUTDOWN_TIMEOUT"`
	AllowedOrigins    []string      `yaml:"allowed_origins" env:"BOOKING_ALLOWED_ORIGINS" envSeparator:","`
}

// Log configures the process logger.
type Log struct {
	Level  string `yaml:"level" env:"BOOKING_LOG_LEVEL"`
	Format string `yaml:"format" env:"BOOKING_LOG_FORMAT"`
}

// Form configures presentation of the booking form.
type Form struct {
	Title    string `yaml:"title" env:"BOOKING_TITLE"`
	Locale   string `yaml:"locale" env:"BOOKING_LOCALE"`
	Timezone string `yaml:"timezone" env:"BOOKING_TIMEZONE"`
	Header   string `yaml:"header" env:"BOOKING_HEADER"`
	// Placeholders overrides input placeholders by field name.
	Placeholders map[string]string `yaml:"placeholders" env:"BOOKING_PLACEHOLDERS" envSeparator:"," envKeyValSeparator:"="`
}

// Theme selects the styling manifest and token overrides.
type Theme struct {
	Name    string            `yaml:"name" env:"BOOKING_THEME"`
	Variant string            `yaml:"variant" env:"BOOKING_THEME_VARIANT"`
	Tokens  map[string]string `yaml:"tokens" env:"BOOKING_THEME_TOKENS" envSeparator:"," envKeyValSeparator:"="`
}

// Metrics configures the Prometheus endpoint.
type Metrics struct {
	Enabled   bool   `yaml:"enabled" env:"BOOKING_METRICS_ENABLED"`
	Path      string `yaml:"path" env:"BOOKING_METRICS_PATH"`
	Namespace string `yaml:"namespace" env:"BOOKING_METRICS_NAMESPACE"`
}

// Log formats.
const (
	FormatText = "text"
	FormatJSON = "json"
)

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Server: Server{
			Addr:              ":8080",
			SessionTTL:        30 * time.Minute,
			MaxSessions:       1000,
			ReadHeaderTimeout: 5 * time.Second,
			ShutdownTimeout:   10 * time.Second,
		},
		Log: Log{
			Level:  "info",
			Format: FormatText,
		},
		Form: Form{
			Title:  "Booking",
			Locale: "en-US",
		},
		Theme: Theme{
			Name: "booking",
		},
		Metrics: Metrics{
			Enabled:   true,
			Path:      "/metrics",
			Namespace: "booking",
		},
	}
}

// Option adjusts how Load resolves sources.
type Option func(*loader)

type loader struct {
	environment map[string]string
}

// WithEnvironment replaces the process environment, mainly for tests.
func WithEnvironment(environment map[string]string) Option {
	return func(l *loader) {
		l.environment = environment
	}
}

// Load resolves configuration from defaults, the YAML file at path (skipped
// when empty) and the environment, then validates it.
func Load(path string, options ...Option) (Config, error) {
	l := &loader{}
	for _, opt := range options {
		if opt != nil {
			opt(l)
		}
	}

	cfg := Default()
	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("config: read %s: %w", path, err)
		}
		if err := decodeYAML(raw, &cfg); err != nil {
			return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
		}
	}

	opts := env.Options{}
	if l.environment != nil {
		opts.Environment = l.environment
	}
	if err := env.ParseWithOptions(&cfg, opts); err != nil {
		return Config{}, fmt.Errorf("config: parse env: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func decodeYAML(raw []byte, cfg *Config) error {
	decoder := yaml.NewDecoder(bytes.NewReader(raw))
	decoder.KnownFields(true)
	if err := decoder.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

// Validate reports every invalid setting at once.
func (c Config) Validate() error {
	var errs []error
	if strings.TrimSpace(c.Server.Addr) == "" {
		errs = append(errs, errors.New("server.addr is required"))
	}
	if c.Server.SessionTTL <= 0 {
		errs = append(errs, errors.New("server.session_ttl must be positive"))
	}
	if c.Server.MaxSessions <= 0 {
		errs = append(errs, errors.New("server.max_sessions must be positive"))
	}
	if _, err := c.Log.SlogLevel(); err != nil {
		errs = append(errs, err)
	}
	switch c.Log.Format {
	case FormatText, FormatJSON:
	default:
		errs = append(errs, fmt.Errorf("log.format %q must be text or json", c.Log.Format))
	}
	if _, err := c.Form.Language(); err != nil {
		errs = append(errs, err)
	}
	if _, err := c.Form.Location(); err != nil {
		errs = append(errs, err)
	}
	if c.Metrics.Enabled && !strings.HasPrefix(c.Metrics.Path, "/") {
		errs = append(errs, fmt.Errorf("metrics.path %q must start with /", c.Metrics.Path))
	}
	if len(errs) == 0 {
		return nil
	}
	return fmt.Errorf("config: %w", errors.Join(errs...))
}

// SlogLevel parses the configured level name.
func (l Log) SlogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(l.Level))); err != nil {
		return slog.LevelInfo, fmt.Errorf("log.level %q: %w", l.Level, err)
	}
	return level, nil
}

// Language parses the configured BCP 47 locale.
func (f Form) Language() (language.Tag, error) {
	if strings.TrimSpace(f.Locale) == "" {
		return language.AmericanEnglish, nil
	}
	tag, err := language.Parse(f.Locale)
	if err != nil {
		return language.Und, fmt.Errorf("form.locale %q: %w", f.Locale, err)
	}
	return tag, nil
}

// Location resolves the configured IANA timezone. Empty means the process
// local zone.
func (f Form) Location() (*time.Location, error) {
	name := strings.TrimSpace(f.Timezone)
	if name == "" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("form.timezone %q: %w", f.Timezone, err)
	}
	return loc, nil
}
