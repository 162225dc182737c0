package source

import (
	"strings"

	"salesboard/adapters/sqlsource"
	"salesboard/internal/config"
	"salesboard/internal/errors"
	"salesboard/internal/logger"
	"salesboard/ports"
)

// New builds the configured source, wrapped in a cache when data.cache_ttl is set.
func New(cfg config.DataConfig, log *logger.Logger) (ports.SalesSource, error) {
	var inner ports.SalesSource

	switch cfg.Driver {
	case config.DriverHTTP:
		if strings.HasPrefix(cfg.URL, "file://") {
			inner = NewFileSource(cfg.URL, log)
		} else {
			inner = NewHTTPSource(cfg.URL, cfg.FetchTimeout, log)
		}
	case config.DriverFile:
		inner = NewFileSource(cfg.URL, log)
	case config.DriverPostgres, config.DriverMySQL:
		src, err := sqlsource.Open(cfg.Driver, cfg.DSN, cfg.Table, log)
		if err != nil {
			return nil, err
		}
		inner = src
	default:
		return nil, errors.ConfigInvalid("unknown data driver: " + cfg.Driver)
	}

	log.WithSource(inner.Describe()).Debugw("data source configured", "cache_ttl", cfg.CacheTTL)
	if cfg.CacheTTL > 0 {
		return NewCachedSource(inner, cfg.CacheTTL), nil
	}
	return inner, nil
}
