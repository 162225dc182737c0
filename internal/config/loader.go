package config

import (
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"salesboard/internal/errors"
)

// EnvPrefix is prepended to every environment variable the loader reads.
const EnvPrefix = "SALESBOARD"

// Load reads configuration from .env, an optional YAML file and the environment.
// Callers apply flag overrides and then call Validate.
// Environment variables take the form SALESBOARD_DATA_URL for the key data.url.
func Load(configPath string) (*Config, error) {
	// .env is optional; system environment variables still apply without it
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	// PORT is what most hosting platforms inject
	if err := v.BindEnv("server.port", EnvPrefix+"_SERVER_PORT", "PORT"); err != nil {
		return nil, errors.Wrap(err, "failed to bind server port")
	}

	if configPath != "" {
		v.SetConfigFile(configPath)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.WithCode(errors.CodeConfigInvalid, errors.Wrapf(err, "failed to read config file %s", configPath))
		}
	}

	return LoadFromViper(v)
}

// LoadFromViper creates a Config from an existing Viper instance.
func LoadFromViper(v *viper.Viper) (*Config, error) {
	cfg := DefaultConfig()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, errors.WithCode(errors.CodeConfigInvalid, errors.Wrap(err, "failed to unmarshal config"))
	}
	return cfg, nil
}

// setDefaults registers every key so AutomaticEnv can resolve it during Unmarshal.
func setDefaults(v *viper.Viper) {
	d := DefaultConfig()
	v.SetDefault("server.port", d.Server.Port)
	v.SetDefault("server.gin_mode", d.Server.GinMode)
	v.SetDefault("data.driver", d.Data.Driver)
	v.SetDefault("data.url", d.Data.URL)
	v.SetDefault("data.dsn", d.Data.DSN)
	v.SetDefault("data.table", d.Data.Table)
	v.SetDefault("data.fetch_timeout", d.Data.FetchTimeout)
	v.SetDefault("data.cache_ttl", d.Data.CacheTTL)
	v.SetDefault("dashboard.default_top_n", d.Dashboard.DefaultTopN)
	v.SetDefault("dashboard.default_palette", d.Dashboard.DefaultPalette)
	v.SetDefault("logging.level", d.Logging.Level)
	v.SetDefault("logging.format", d.Logging.Format)
	v.SetDefault("logging.output", d.Logging.Output)
}
