package config

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"salesboard/internal/errors"
)

// Config represents the complete application configuration
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Data      DataConfig      `mapstructure:"data"`
	Dashboard DashboardConfig `mapstructure:"dashboard"`
	Logging   LoggingConfig   `mapstructure:"logging"`
}

// ServerConfig holds web server settings
type ServerConfig struct {
	Port    string `mapstructure:"port"`
	GinMode string `mapstructure:"gin_mode"`
}

// DataConfig describes where the sales dataset is loaded from.
type DataConfig struct {
	Driver       string        `mapstructure:"driver"` // http, file, postgres, mysql
	URL          string        `mapstructure:"url"`
	DSN          string        `mapstructure:"dsn"`
	Table        string        `mapstructure:"table"`
	FetchTimeout time.Duration `mapstructure:"fetch_timeout"`
	CacheTTL     time.Duration `mapstructure:"cache_ttl"` // 0 re-fetches on every run
}

// DashboardConfig holds the initial control values of the dashboard.
type DashboardConfig struct {
	DefaultTopN    int    `mapstructure:"default_top_n"`
	DefaultPalette string `mapstructure:"default_palette"`
}

// LoggingConfig represents logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`  // debug, info, warn, error
	Format string `mapstructure:"format"` // json or text
	Output string `mapstructure:"output"` // stdout, stderr, or file path
}

// Supported data drivers
const (
	DriverHTTP     = "http"
	DriverFile     = "file"
	DriverPostgres = "postgres"
	DriverMySQL    = "mysql"
)

// DefaultSourceURL is the published superstore extract the dashboard reads by default.
const DefaultSourceURL = "https://raw.githubusercontent.com/ANAMA14-14/MKT/main/superstore.csv"

// Top-N slider bounds and the selectable colour schemes.
const (
	MinTopN = 5
	MaxTopN = 50
)

var Palettes = []string{"category10", "tableau10", "dark2", "set1"}

var tableNamePattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*(\.[A-Za-z_][A-Za-z0-9_]*)?$`)

// DefaultConfig returns a Config with sensible default values.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:    "8080",
			GinMode: "release",
		},
		Data: DataConfig{
			Driver:       DriverHTTP,
			URL:          DefaultSourceURL,
			Table:        "sales",
			FetchTimeout: 30 * time.Second,
		},
		Dashboard: DashboardConfig{
			DefaultTopN:    10,
			DefaultPalette: "category10",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
			Output: "stdout",
		},
	}
}

// IsPalette reports whether name is one of the selectable colour schemes.
func IsPalette(name string) bool {
	for _, p := range Palettes {
		if p == name {
			return true
		}
	}
	return false
}

// Validate checks the configuration for values the application cannot run with.
func (c *Config) Validate() error {
	switch c.Data.Driver {
	case DriverHTTP, DriverFile:
		if strings.TrimSpace(c.Data.URL) == "" {
			return errors.ConfigInvalid("data.url is required for the " + c.Data.Driver + " driver")
		}
	case DriverPostgres, DriverMySQL:
		if strings.TrimSpace(c.Data.DSN) == "" {
			return errors.ConfigInvalid("data.dsn is required for the " + c.Data.Driver + " driver")
		}
		if !tableNamePattern.MatchString(c.Data.Table) {
			return errors.ConfigInvalid(fmt.Sprintf("data.table %q is not a valid table name", c.Data.Table))
		}
	default:
		return errors.ConfigInvalid(fmt.Sprintf("unknown data.driver %q", c.Data.Driver))
	}

	if c.Data.FetchTimeout < 0 || c.Data.CacheTTL < 0 {
		return errors.ConfigInvalid("data timeouts must not be negative")
	}
	if c.Dashboard.DefaultTopN < MinTopN || c.Dashboard.DefaultTopN > MaxTopN {
		return errors.ConfigInvalid(fmt.Sprintf("dashboard.default_top_n must be between %d and %d", MinTopN, MaxTopN))
	}
	if !IsPalette(c.Dashboard.DefaultPalette) {
		return errors.ConfigInvalid(fmt.Sprintf("unknown dashboard.default_palette %q", c.Dashboard.DefaultPalette))
	}
	if c.Server.Port == "" {
		return errors.ConfigInvalid("server.port is required")
	}
	return nil
}

// ApplyOverrides applies CLI flag overrides. Only non-empty values are applied.
// A source starting with postgres:// or mysql: is treated as a DSN, anything else as a URL or path.
func (c *Config) ApplyOverrides(logLevel, logFormat, source string) {
	if logLevel != "" {
		c.Logging.Level = logLevel
	}
	if logFormat != "" {
		c.Logging.Format = logFormat
	}
	if source == "" {
		return
	}

	switch {
	case strings.HasPrefix(source, "postgres://"), strings.HasPrefix(source, "postgresql://"):
		c.Data.Driver = DriverPostgres
		c.Data.DSN = source
	case strings.HasPrefix(source, "mysql:"):
		c.Data.Driver = DriverMySQL
		c.Data.DSN = strings.TrimPrefix(source, "mysql:")
	case strings.HasPrefix(source, "http://"), strings.HasPrefix(source, "https://"):
		c.Data.Driver = DriverHTTP
		c.Data.URL = source
	default:
		c.Data.Driver = DriverFile
		c.Data.URL = source
	}
}
