// Package cli wires configuration, logging and the dashboard service behind cobra commands.
package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"salesboard/adapters/source"
	"salesboard/app"
	"salesboard/internal/config"
	"salesboard/internal/dashboard"
	"salesboard/internal/logger"
)

// Version information (set via ldflags at build time)
var (
	Version = "0.1.0-dev"
	Commit  = "unknown"
)

// CLI flags that override config file values
var (
	cfgFile   string
	logLevel  string
	logFormat string
	sourceArg string
)

var rootCmd = &cobra.Command{
	Use:   "salesboard",
	Short: "Sales storytelling dashboard",
	Long: `Salesboard loads a sales dataset, filters it by country, category and
top-N sales, and tells its story as three charts and three insights.

Data sources:
  - CSV or XLSX over HTTP(S) (default: the published superstore extract)
  - Local CSV or XLSX files
  - A PostgreSQL or MySQL table`,
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "",
		"Path to a YAML configuration file")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "",
		"Override log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "",
		"Override log format (json, text)")
	rootCmd.PersistentFlags().StringVarP(&sourceArg, "source", "s", "",
		"Override the data source: URL, file path, postgres:// DSN or mysql:<dsn>")
}

// deps bundles what every command needs.
type deps struct {
	cfg     *config.Config
	log     *logger.Logger
	service *app.DashboardService
	closer  io.Closer
}

func (r *deps) Close() {
	if r.closer != nil {
		if err := r.closer.Close(); err != nil {
			r.log.Warnw("failed to close data source", "error", err)
		}
	}
	_ = r.log.Sync()
}

// bootstrap loads configuration, applies flag overrides and builds the service.
// Commands that print to stdout pass logToStderr so logs do not interleave with output.
func bootstrap(logToStderr bool) (*deps, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	cfg.ApplyOverrides(logLevel, logFormat, sourceArg)
	if logToStderr && cfg.Logging.Output == "stdout" {
		cfg.Logging.Output = "stderr"
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	log, err := logger.New(&cfg.Logging)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	src, err := source.New(cfg.Data, log)
	if err != nil {
		return nil, fmt.Errorf("failed to configure data source: %w", err)
	}

	rt := &deps{
		cfg:     cfg,
		log:     log,
		service: app.NewDashboardService(src, dashboard.DefaultsFrom(cfg.Dashboard), log),
	}
	if c, ok := src.(io.Closer); ok {
		rt.closer = c
	}
	return rt, nil
}
