// Package config loads kidcalc settings from $KIDCALC_HOME/config.toml,
// .env and the process environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

// Config holds all settings.
type Config struct {
	Server    ServerConfig    `toml:"server"`
	Storage   StorageConfig   `toml:"storage"`
	Timing    TimingConfig    `toml:"timing"`
	Logging   LoggingConfig   `toml:"logging"`
	Telemetry TelemetryConfig `toml:"telemetry"`
}

// ServerConfig controls the HTTP API.
type ServerConfig struct {
	Addr        string   `toml:"addr"`
	CORSOrigins []string `toml:"cors_origins"`
}

// StorageConfig locates the database.
type StorageConfig struct {
	Dir string `toml:"dir"`
}

// TimingConfig holds the interactive input policy, in milliseconds.
type TimingConfig struct {
	DigitDebounceMS  int    `toml:"digit_debounce_ms"`
	EqualsThrottleMS int    `toml:"equals_throttle_ms"`
	NaNResetMS       int    `toml:"nan_reset_ms"`
	DebounceMode     string `toml:"debounce_mode"`
}

func (t TimingConfig) DigitDebounce() time.Duration {
	return time.Duration(t.DigitDebounceMS) * time.Millisecond
}

func (t TimingConfig) EqualsThrottle() time.Duration {
	return time.Duration(t.EqualsThrottleMS) * time.Millisecond
}

func (t TimingConfig) NaNReset() time.Duration {
	return time.Duration(t.NaNResetMS) * time.Millisecond
}

type LoggingConfig struct {
	Level string `toml:"level"`
}

// TelemetryConfig switches the OTLP exporters on. Endpoints come from the
// standard OTEL_EXPORTER_OTLP_* variables.
type TelemetryConfig struct {
	Enabled    bool `toml:"enabled"`
	ExportLogs bool `toml:"export_logs"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Server: ServerConfig{
			Addr:        ":8080",
			CORSOrigins: []string{"*"},
		},
		Storage: StorageConfig{
			Dir: filepath.Join(Home(), "data"),
		},
		Timing: TimingConfig{
			DigitDebounceMS:  50,
			EqualsThrottleMS: 100,
			NaNResetMS:       1500,
			DebounceMode:     "latest",
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Home returns $KIDCALC_HOME, or ~/.kidcalc.
func Home() string {
	if env := os.Getenv("KIDCALC_HOME"); env != "" {
		return env
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".kidcalc")
}

// DefaultPath is the config file read when no path is given.
func DefaultPath() string {
	return filepath.Join(Home(), "config.toml")
}

// Load reads path (DefaultPath when empty), falling back to defaults when
// the file does not exist, then applies environment overrides and
// validates the result.
func Load(path string) (Config, error) {
	if err := loadDotEnv(); err != nil {
		return Config{}, err
	}

	cfg := Default()
	if path == "" {
		path = DefaultPath()
	}

	if _, err := os.Stat(path); err == nil {
		if _, err := toml.DecodeFile(path, &cfg); err != nil {
			return cfg, fmt.Errorf("parse config: %w", err)
		}
	} else if !errors.Is(err, os.ErrNotExist) {
		return cfg, fmt.Errorf("stat config: %w", err)
	}

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Save writes cfg as TOML to path.
func Save(path string, cfg Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return toml.NewEncoder(f).Encode(cfg)
}

func (c *Config) applyEnv() {
	if v := os.Getenv("KIDCALC_ADDR"); v != "" {
		c.Server.Addr = v
	}
	if v := os.Getenv("KIDCALC_DATA_DIR"); v != "" {
		c.Storage.Dir = v
	}
	if v := os.Getenv("KIDCALC_LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
}

// Validate rejects settings the server cannot run with.
func (c Config) Validate() error {
	var errs []error
	if c.Server.Addr == "" {
		errs = append(errs, errors.New("server.addr is empty"))
	}
	if c.Storage.Dir == "" {
		errs = append(errs, errors.New("storage.dir is empty"))
	}
	if c.Timing.DigitDebounceMS <= 0 {
		errs = append(errs, fmt.Errorf("timing.digit_debounce_ms must be positive, got %d", c.Timing.DigitDebounceMS))
	}
	if c.Timing.EqualsThrottleMS <= 0 {
		errs = append(errs, fmt.Errorf("timing.equals_throttle_ms must be positive, got %d", c.Timing.EqualsThrottleMS))
	}
	if c.Timing.NaNResetMS <= 0 {
		errs = append(errs, fmt.Errorf("timing.nan_reset_ms must be positive, got %d", c.Timing.NaNResetMS))
	}
	switch c.Timing.DebounceMode {
	case "", "latest", "buffered":
	default:
		errs = append(errs, fmt.Errorf("timing.debounce_mode %q is not latest or buffered", c.Timing.DebounceMode))
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// loadDotEnv loads .env from the working directory when present. Existing
// process environment variables are not overridden.
func loadDotEnv() error {
	err := godotenv.Load()
	if err == nil || errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return fmt.Errorf("load .env: %w", err)
}
