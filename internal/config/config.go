// Package config loads server settings from defaults, an optional TOML file,
// TASKS_* environment variables and command-line flags, in that order.
package config

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

// EnvPrefix prefixes every environment variable read by Load.
const EnvPrefix = "TASKS_"

// Duration wraps time.Duration so it can be written as "30s" in TOML.
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// Config holds all server settings.
type Config struct {
	Addr            string   `toml:"addr"`
	DBPath          string   `toml:"db_path"`
	LogLevel        string   `toml:"log_level"`
	LogFormat       string   `toml:"log_format"`
	GinMode         string   `toml:"gin_mode"`
	ShutdownTimeout Duration `toml:"shutdown_timeout"`

	// ConfigFile is the TOML file that was loaded, if any.
	ConfigFile string `toml:"-"`
	// PrintVersion is set by -version.
	PrintVersion bool `toml:"-"`
}

// Default returns the built-in settings.
func Default() *Config {
	return &Config{
		Addr:            ":8080",
		DBPath:          "tasks.db",
		LogLevel:        "info",
		LogFormat:       "text",
		GinMode:         "release",
		ShutdownTimeout: Duration{30 * time.Second},
	}
}

// Load builds the configuration. fs receives the flag definitions and parses args.
func Load(fs *flag.FlagSet, args []string) (*Config, error) {
	cfg := Default()

	path := configPath(args)
	if path != "" {
		if err := loadFile(cfg, path); err != nil {
			return nil, fmt.Errorf("loading config file %s: %w", path, err)
		}
		cfg.ConfigFile = path
	}

	if err := loadFromEnv(cfg); err != nil {
		return nil, err
	}

	if err := parseFlags(cfg, fs, args); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the values that cannot be defaulted.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Addr) == "" {
		return errors.New("addr must not be empty")
	}
	if strings.TrimSpace(c.DBPath) == "" {
		return errors.New("db_path must not be empty")
	}
	if c.ShutdownTimeout.Duration <= 0 {
		return errors.New("shutdown_timeout must be positive")
	}
	switch c.GinMode {
	case "debug", "release", "test":
	default:
		return fmt.Errorf("gin_mode must be debug, release or test, got %q", c.GinMode)
	}
	return nil
}

// configPath finds the TOML file from -config in args or TASKS_CONFIG.
// It runs before flag parsing so the file can sit under the flags.
func configPath(args []string) string {
	for i, arg := range args {
		name, value, hasValue := strings.Cut(strings.TrimLeft(arg, "-"), "=")
		if !strings.HasPrefix(arg, "-") || name != "config" {
			continue
		}
		if hasValue {
			return value
		}
		if i+1 < len(args) {
			return args[i+1]
		}
	}
	return os.Getenv(EnvPrefix + "CONFIG")
}

func loadFile(cfg *Config, path string) error {
	meta, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return err
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, 0, len(undecoded))
		for _, k := range undecoded {
			keys = append(keys, k.String())
		}
		return fmt.Errorf("unknown keys: %s", strings.Join(keys, ", "))
	}
	return nil
}

func loadFromEnv(cfg *Config) error {
	if v := os.Getenv(EnvPrefix + "ADDR"); v != "" {
		cfg.Addr = v
	}
	if v := os.Getenv(EnvPrefix + "DB_PATH"); v != "" {
		cfg.DBPath = v
	}
	if v := os.Getenv(EnvPrefix + "LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv(EnvPrefix + "LOG_FORMAT"); v != "" {
		cfg.LogFormat = v
	}
	if v := os.Getenv(EnvPrefix + "GIN_MODE"); v != "" {
		cfg.GinMode = v
	}
	if v := os.Getenv(EnvPrefix + "SHUTDOWN_TIMEOUT"); v != "" {
		if err := cfg.ShutdownTimeout.UnmarshalText([]byte(v)); err != nil {
			return fmt.Errorf("parsing %sSHUTDOWN_TIMEOUT: %w", EnvPrefix, err)
		}
	}
	return nil
}

func parseFlags(cfg *Config, fs *flag.FlagSet, args []string) error {
	fs.String("config", cfg.ConfigFile, "Path to a TOML config file.")
	fs.StringVar(&cfg.Addr, "addr", cfg.Addr, "HTTP listen address.")
	fs.StringVar(&cfg.DBPath, "db", cfg.DBPath, "SQLite database file.")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "Log level (debug | info | warn | error).")
	fs.StringVar(&cfg.LogFormat, "log-format", cfg.LogFormat, "Log format (text | json | logfmt).")
	fs.StringVar(&cfg.GinMode, "gin-mode", cfg.GinMode, "Gin mode (debug | release | test).")
	fs.DurationVar(&cfg.ShutdownTimeout.Duration, "shutdown-timeout", cfg.ShutdownTimeout.Duration, "Graceful shutdown timeout.")
	fs.BoolVar(&cfg.PrintVersion, "version", false, "Show version.")
	return fs.Parse(args)
}
