// Package config handles application configuration and environment loading.
package config

import (
	"bufio"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Supported database drivers.
const (
	DriverMySQL  = "mysql"
	DriverSQLite = "sqlite"
)

// DBProfile holds the connection settings for one named store.
type DBProfile struct {
	Driver   string `yaml:"driver,omitempty"` // "mysql" (default) or "sqlite"
	Host     string `yaml:"host,omitempty"`
	Name     string `yaml:"name,omitempty"`
	User     string `yaml:"user,omitempty"`
	Password string `yaml:"password,omitempty"`
	Path     string `yaml:"path,omitempty"` // sqlite file path
}

// Validate checks that the profile names everything its driver needs.
func (p *DBProfile) Validate(label string) error {
	switch p.Driver {
	case DriverMySQL:
		if p.Host == "" || p.Name == "" || p.User == "" {
			return fmt.Errorf("%s: host, name, and user are required for the mysql driver", label)
		}
	case DriverSQLite:
		if p.Path == "" {
			return fmt.Errorf("%s: path is required for the sqlite driver", label)
		}
	default:
		return fmt.Errorf("%s: unknown driver %q", label, p.Driver)
	}
	return nil
}

// Config holds the configuration for a groupsync run.
type Config struct {
	Admin       DBProfile `yaml:"admin_db"`
	Permissions DBProfile `yaml:"permissions_db"`
	ActorName   string    `yaml:"actor_name,omitempty"` // audit actor display name
	LogLevel    string    `yaml:"log_level,omitempty"`  // debug, info, warn, error
	Schedule    string    `yaml:"schedule,omitempty"`   // cron expression for daemon mode

	// Warnings collects non-fatal warnings generated during config loading.
	// These are logged by the caller after the logger is initialised.
	Warnings []string `yaml:"-"`
}

// SlogLevel maps the LogLevel string to an slog.Level.
func (c *Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Load reads configuration from an optional YAML file, applies environment
// variable overrides, fills defaults, and validates the result. A missing
// file is not an error when path is empty; a named file must exist.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	if path != "" {
		data, err := os.ReadFile(path) //nolint:gosec // path is caller-controlled
		if err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	applyEnv(&cfg.Admin, "ADMIN_DB")
	applyEnv(&cfg.Permissions, "PERMS_DB")
	if v := os.Getenv("ACTOR_NAME"); v != "" {
		cfg.ActorName = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv("SYNC_SCHEDULE"); v != "" {
		cfg.Schedule = v
	}

	// Defaults
	if cfg.Admin.Driver == "" {
		cfg.Admin.Driver = DriverMySQL
	}
	if cfg.Permissions.Driver == "" {
		cfg.Permissions.Driver = DriverMySQL
	}
	if cfg.ActorName == "" {
		cfg.ActorName = "GroupSync@bot"
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
	if cfg.Schedule == "" {
		cfg.Schedule = "@every 5m"
		cfg.Warnings = append(cfg.Warnings, "SYNC_SCHEDULE not set — daemon mode defaults to @every 5m")
	}

	if err := cfg.Admin.Validate("admin_db"); err != nil {
		return nil, err
	}
	if err := cfg.Permissions.Validate("permissions_db"); err != nil {
		return nil, err
	}

	return cfg, nil
}

// applyEnv overrides profile fields from <prefix>_DRIVER, <prefix>_HOST, etc.
func applyEnv(p *DBProfile, prefix string) {
	if v := os.Getenv(prefix + "_DRIVER"); v != "" {
		p.Driver = v
	}
	if v := os.Getenv(prefix + "_HOST"); v != "" {
		p.Host = v
	}
	if v := os.Getenv(prefix + "_NAME"); v != "" {
		p.Name = v
	}
	if v := os.Getenv(prefix + "_USER"); v != "" {
		p.User = v
	}
	if v := os.Getenv(prefix + "_PASSWORD"); v != "" {
		p.Password = v
	}
	if v := os.Getenv(prefix + "_PATH"); v != "" {
		p.Path = v
	}
}

// LoadDotEnv loads KEY=VALUE pairs from a dotenv file into the process
// environment. Variables already set win; comments and malformed lines are
// skipped. A missing file is not an error so the default ".env" path works
// in environments that configure everything through real env vars.
func LoadDotEnv(path string) error {
	f, err := os.Open(path) //nolint:gosec // path is caller-controlled
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close() //nolint:errcheck

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		key, value, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		key = strings.TrimSpace(key)
		if key == "" || os.Getenv(key) != "" {
			continue
		}
		if err := os.Setenv(key, unquote(strings.TrimSpace(value))); err != nil {
			return fmt.Errorf("setenv %s: %w", key, err)
		}
	}
	return scanner.Err()
}

// unquote strips one matching pair of surrounding single or double quotes.
func unquote(s string) string {
	if len(s) >= 2 && s[0] == s[len(s)-1] && (s[0] == '"' || s[0] == '\'') {
		return s[1 : len(s)-1]
	}
	return s
}
