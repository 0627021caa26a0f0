// Package cmd - serve command
package cmd

import (
	"fmt"
	"net/http"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"fence-bom/api"
	"fence-bom/core/engine"
	"fence-bom/internal/config"
	"fence-bom/internal/logging"
)

var (
	serveAddr   string
	serveDBPath string
)

// serveCmd runs the HTTP API server
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API server",
	Long: `Serve the calculation and administration API over HTTP.

Examples:
  fence-bom serve
  fence-bom serve --addr :9090 --db ./config.db`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVarP(&serveAddr, "addr", "a", "", "listen address (default from config)")
	serveCmd.Flags().StringVar(&serveDBPath, "db", "", "path to the configuration database")
}

func runServe(cmd *cobra.Command, args []string) error {
	calcDBPath = serveDBPath
	st, err := openStore()
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer st.Close()

	addr := serveAddr
	if addr == "" {
		addr = config.Get().Server.Addr
	}

	srv := api.NewServer(engine.New(st, nil), st, "0.1.0")
	logging.Info("Starting server", zap.String("addr", addr))
	return http.ListenAndServe(addr, srv)
}
