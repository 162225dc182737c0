package cli

import (
	"context"
	"net"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"salesboard/ui"
)

var (
	servePort string
	serveHost string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the dashboard over HTTP",
	Long: `Serve starts the web dashboard. Every page view is one run: the dataset is
loaded, validated, filtered and rendered from scratch.

Routes:
  GET  /                  dashboard page
  GET  /api/dashboard     the same run as JSON
  GET  /api/export.csv    filtered rows as CSV
  GET  /api/export.xlsx   filtered rows as XLSX
  POST /api/reload        drop the cached dataset
  GET  /healthz           liveness

Example:
  salesboard serve --port 8080 --source ./superstore.csv`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVarP(&servePort, "port", "p", "", "Override server port")
	serveCmd.Flags().StringVar(&serveHost, "host", "", "Interface to listen on (default all)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	rt, err := bootstrap(false)
	if err != nil {
		return err
	}
	defer rt.Close()

	if servePort != "" {
		rt.cfg.Server.Port = servePort
	}

	server, err := ui.NewServer(rt.cfg.Server, rt.service, rt.log)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return server.Start(ctx, net.JoinHostPort(serveHost, rt.cfg.Server.Port))
}
