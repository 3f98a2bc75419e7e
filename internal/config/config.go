// Package config loads runtime configuration for the portfolio server.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix prefixes every environment override. Nested keys use a double
// underscore: PORTFOLIO_SERVER__PORT sets server.port.
const EnvPrefix = "PORTFOLIO_"

// Config aggregates runtime configuration.
type Config struct {
	Server    ServerConfig    `koanf:"server"`
	Log       LogConfig       `koanf:"log"`
	Content   ContentConfig   `koanf:"content"`
	ScrollSpy ScrollSpyConfig `koanf:"scrollspy"`
	Analytics AnalyticsConfig `koanf:"analytics"`
	Admin     AdminConfig     `koanf:"admin"`
}

// ServerConfig controls the HTTP listener.
type ServerConfig struct {
	Host string `koanf:"host"`
	Port string `koanf:"port"`
	// Mode is the gin mode: debug, release or test.
	Mode    string        `koanf:"mode"`
	ViewTTL time.Duration `koanf:"view_ttl"`
}

// LogConfig configures logging behavior.
type LogConfig struct {
	Level string `koanf:"level"`
}

// ContentConfig points at the portfolio content file. An empty path serves
// the built-in content.
type ContentConfig struct {
	Path  string `koanf:"path"`
	Watch bool   `koanf:"watch"`
}

// ScrollSpyConfig tunes section visibility tracking.
type ScrollSpyConfig struct {
	Threshold    float64 `koanf:"threshold"`
	FollowScroll bool    `koanf:"follow_scroll"`
}

// AnalyticsConfig controls visitor and section-event recording.
type AnalyticsConfig struct {
	Enabled       bool   `koanf:"enabled"`
	DBPath        string `koanf:"db_path"`
	RetentionDays int    `koanf:"retention_days"`
}

// AdminConfig holds the admin dashboard credentials.
type AdminConfig struct {
	Username string `koanf:"username"`
	Password string `koanf:"password"`
}

// DefaultConfig returns the configuration used when nothing overrides it.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:    "0.0.0.0",
			Port:    "8080",
			Mode:    "release",
			ViewTTL: 30 * time.Minute,
		},
		Log: LogConfig{Level: "info"},
		ScrollSpy: ScrollSpyConfig{
			Threshold:    0.3,
			FollowScroll: true,
		},
		Analytics: AnalyticsConfig{
			Enabled:       true,
			DBPath:        "data/portfolio.db",
			RetentionDays: 365,
		},
		Admin: AdminConfig{
			Username: "admin",
			Password: "admin123",
		},
	}
}

// UsesDefaultPassword reports whether the admin password was never changed.
func (a AdminConfig) UsesDefaultPassword() bool {
	return a.Password == DefaultConfig().Admin.Password
}

// Load reads .env, then the YAML file at path if it exists, then PORTFOLIO_
// environment overrides. The bare PORT, GIN_MODE, ADMIN_USERNAME and
// ADMIN_PASSWORD variables are honored when the prefixed forms are unset.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	k := koanf.New(".")
	cfg := DefaultConfig()

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
				return nil, fmt.Errorf("reading config %s: %w", path, err)
			}
		} else if !os.IsNotExist(err) {
			return nil, fmt.Errorf("accessing config %s: %w", path, err)
		}
	}

	legacy := map[string]string{
		"PORT":           "server.port",
		"GIN_MODE":       "server.mode",
		"ADMIN_USERNAME": "admin.username",
		"ADMIN_PASSWORD": "admin.password",
	}
	for envKey, key := range legacy {
		if v := os.Getenv(envKey); v != "" {
			if err := k.Set(key, v); err != nil {
				return nil, fmt.Errorf("applying %s: %w", envKey, err)
			}
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		return strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(s, EnvPrefix)), "__", ".")
	}), nil); err != nil {
		return nil, fmt.Errorf("loading env overrides: %w", err)
	}

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}
	return cfg, nil
}

var validLevels = map[string]bool{"debug": true, "info": true, "warn": true, "error": true}

var validModes = map[string]bool{"debug": true, "release": true, "test": true}

// Validate checks that the configuration contains usable values.
func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("server.port is required")
	}
	if !validModes[c.Server.Mode] {
		return fmt.Errorf("invalid server.mode %q: must be one of debug, release, test", c.Server.Mode)
	}
	if c.Server.ViewTTL < 0 {
		return fmt.Errorf("server.view_ttl must be non-negative")
	}
	if !validLevels[strings.ToLower(c.Log.Level)] {
		return fmt.Errorf("invalid log.level %q", c.Log.Level)
	}
	if !(c.ScrollSpy.Threshold > 0 && c.ScrollSpy.Threshold <= 1) {
		return fmt.Errorf("scrollspy.threshold must be in (0, 1], got %v", c.ScrollSpy.Threshold)
	}
	if c.Analytics.Enabled && c.Analytics.DBPath == "" {
		return fmt.Errorf("analytics.db_path is required when analytics is enabled")
	}
	if c.Analytics.RetentionDays < 0 {
		return fmt.Errorf("analytics.retention_days must be non-negative")
	}
	return nil
}

// Addr returns the HTTP bind address.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%s", s.Host, s.Port)
}

// Retention returns how long analytics rows are kept. Zero keeps them forever.
func (a AnalyticsConfig) Retention() time.Duration {
	return time.Duration(a.RetentionDays) * 24 * time.Hour
}
