// Package config loads server configuration.
//
// Values are layered, later sources overriding earlier ones:
//
//  1. built-in defaults
//  2. a YAML file named by --config or CONFIG_FILE
//  3. environment variables, after loading an optional .env file
//  4. command-line flags that were set explicitly
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"
)

// Config is the server configuration.
type Config struct {
	// Addr is the listen address, e.g. ":8080".
	Addr string `yaml:"addr"`

	// DBPath is the SQLite database file.
	DBPath string `yaml:"db_path"`

	// JWTSecret signs session tokens. Required.
	JWTSecret string `yaml:"jwt_secret"`

	// TokenTTL is how long issued tokens remain valid.
	TokenTTL time.Duration `yaml:"token_ttl"`

	// DueAfter is the offset from creation to the due date of new settlements.
	DueAfter time.Duration `yaml:"due_after"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `yaml:"log_level"`

	// LogFormat is "text" (colored) or "json".
	LogFormat string `yaml:"log_format"`

	// MetricsPath is where Prometheus metrics are served. Empty disables them.
	MetricsPath string `yaml:"metrics_path"`

	// AllowedOrigin is sent as Access-Control-Allow-Origin.
	AllowedOrigin string `yaml:"allowed_origin"`
}

// Default returns the built-in configuration. JWTSecret is left empty.
func Default() *Config {
	return &Config{
		Addr:          ":8080",
		DBPath:        "./data/backoffice.db",
		TokenTTL:      24 * time.Hour,
		DueAfter:      30 * 24 * time.Hour,
		LogLevel:      "info",
		LogFormat:     "text",
		MetricsPath:   "/metrics",
		AllowedOrigin: "*",
	}
}

// envVars maps environment variables to the fields they set.
var envVars = []struct {
	name string
	set  func(c *Config, v string) error
}{
	{"ADDR", func(c *Config, v string) error { c.Addr = v; return nil }},
	{"DB_PATH", func(c *Config, v string) error { c.DBPath = v; return nil }},
	{"JWT_SECRET", func(c *Config, v string) error { c.JWTSecret = v; return nil }},
	{"TOKEN_TTL", func(c *Config, v string) error { return parseDuration(&c.TokenTTL, "TOKEN_TTL", v) }},
	{"SETTLEMENT_DUE_AFTER", func(c *Config, v string) error { return parseDuration(&c.DueAfter, "SETTLEMENT_DUE_AFTER", v) }},
	{"LOG_LEVEL", func(c *Config, v string) error { c.LogLevel = v; return nil }},
	{"LOG_FORMAT", func(c *Config, v string) error { c.LogFormat = v; return nil }},
	{"METRICS_PATH", func(c *Config, v string) error { c.MetricsPath = v; return nil }},
	{"ALLOWED_ORIGIN", func(c *Config, v string) error { c.AllowedOrigin = v; return nil }},
}

func parseDuration(dst *time.Duration, name, v string) error {
	d, err := time.ParseDuration(v)
	if err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	*dst = d
	return nil
}

// Load builds the configuration from args (without the program name), the
// environment and an optional YAML file. pflag.ErrHelp is returned unchanged
// when -h/--help is passed.
func Load(args []string) (*Config, error) {
	defaults := Default()
	flags := pflag.NewFlagSet("server", pflag.ContinueOnError)

	configFile := flags.String("config", "", "YAML configuration file (env CONFIG_FILE)")
	envFile := flags.String("env-file", ".env", "dotenv file loaded into the environment if present")
	addr := flags.String("addr", defaults.Addr, "listen address")
	dbPath := flags.String("db", defaults.DBPath, "SQLite database path")
	tokenTTL := flags.Duration("token-ttl", defaults.TokenTTL, "session token lifetime")
	dueAfter := flags.Duration("due-after", defaults.DueAfter, "due date offset for new settlements")
	logLevel := flags.String("log-level", defaults.LogLevel, "log level: debug, info, warn, error")
	logFormat := flags.String("log-format", defaults.LogFormat, "log format: text or json")
	metricsPath := flags.String("metrics-path", defaults.MetricsPath, "Prometheus metrics path; empty disables")
	allowedOrigin := flags.String("allowed-origin", defaults.AllowedOrigin, "CORS allowed origin")

	if err := flags.Parse(args); err != nil {
		return nil, err
	}

	if err := godotenv.Load(*envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load %s: %w", *envFile, err)
	}

	cfg := Default()

	path := *configFile
	if path == "" {
		path = os.Getenv("CONFIG_FILE")
	}
	if path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, err
		}
	}

	for _, ev := range envVars {
		if v, ok := os.LookupEnv(ev.name); ok && v != "" {
			if err := ev.set(cfg, v); err != nil {
				return nil, fmt.Errorf("invalid environment: %w", err)
			}
		}
	}

	if flags.Changed("addr") {
		cfg.Addr = *addr
	}
	if flags.Changed("db") {
		cfg.DBPath = *dbPath
	}
	if flags.Changed("token-ttl") {
		cfg.TokenTTL = *tokenTTL
	}
	if flags.Changed("due-after") {
		cfg.DueAfter = *dueAfter
	}
	if flags.Changed("log-level") {
		cfg.LogLevel = *logLevel
	}
	if flags.Changed("log-format") {
		cfg.LogFormat = *logFormat
	}
	if flags.Changed("metrics-path") {
		cfg.MetricsPath = *metricsPath
	}
	if flags.Changed("allowed-origin") {
		cfg.AllowedOrigin = *allowedOrigin
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(c); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return nil
}

// Validate reports the first unusable setting.
func (c *Config) Validate() error {
	if c.JWTSecret == "" {
		return errors.New("JWT secret is required (set JWT_SECRET or jwt_secret)")
	}
	if c.Addr == "" {
		return errors.New("listen address is required")
	}
	if c.DBPath == "" {
		return errors.New("database path is required")
	}
	if c.TokenTTL <= 0 {
		return fmt.Errorf("token TTL must be positive, got %s", c.TokenTTL)
	}
	if c.DueAfter < 0 {
		return fmt.Errorf("settlement due offset must not be negative, got %s", c.DueAfter)
	}
	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("unknown log level %q", c.LogLevel)
	}
	switch strings.ToLower(c.LogFormat) {
	case "text", "json":
	default:
		return fmt.Errorf("unknown log format %q", c.LogFormat)
	}
	if c.MetricsPath != "" && !strings.HasPrefix(c.MetricsPath, "/") {
		return fmt.Errorf("metrics path must start with /, got %q", c.MetricsPath)
	}
	return nil
}
