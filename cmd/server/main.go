// Package main - entry point for the fence-bom API server
package main

import (
	"flag"
	"fmt"
	"net/http"
	"os"

	"go.uber.org/zap"

	"fence-bom/api"
	"fence-bom/core/engine"
	"fence-bom/internal/config"
	"fence-bom/internal/logging"
	"fence-bom/store/sqlite"
)

const version = "0.1.0"

func main() {
	cfgPath := flag.String("config", "", "path to config file")
	addr := flag.String("addr", "", "listen address (overrides config)")
	dbPath := flag.String("db", "", "path to the configuration database (overrides config)")
	flag.Parse()

	if *cfgPath != "" {
		cfg, err := config.Load(*cfgPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
			os.Exit(1)
		}
		config.Set(cfg)
	}
	cfg := config.Get()

	if err := logging.Initialize(cfg.Logging); err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing logging: %v\n", err)
	}
	defer logging.Sync()

	if *addr != "" {
		cfg.Server.Addr = *addr
	}
	if *dbPath != "" {
		cfg.Store.DatabasePath = *dbPath
	}

	st, err := sqlite.Open(cfg.Store.DatabasePath)
	if err != nil {
		logging.Fatal("open store", zap.Error(err))
	}
	defer st.Close()

	srv := api.NewServer(engine.New(st, nil), st, version)

	logging.Info("Starting fence-bom server",
		zap.String("version", version),
		zap.String("addr", cfg.Server.Addr),
		zap.String("database", cfg.Store.DatabasePath))

	if err := http.ListenAndServe(cfg.Server.Addr, srv); err != nil {
		logging.Fatal("server exited", zap.Error(err))
	}
}
