// Package main - Entry point for the pricing API server
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"creative-pricing/api"
	"creative-pricing/core/pricing"
	"creative-pricing/internal/config"
	"creative-pricing/internal/logging"
)

const version = "1.0.0"

func main() {
	cfgFile := flag.String("config", "", "config file (yaml, json or toml)")
	addr := flag.String("addr", "", "listen address (overrides config)")
	tablePath := flag.String("table", "", "HCL pricing table (overrides config)")
	flag.Parse()

	_ = godotenv.Load()

	cfg, err := config.Load(*cfgFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
	if *addr != "" {
		cfg.Server.Addr = *addr
	}
	if *tablePath != "" {
		cfg.Pricing.TablePath = *tablePath
	}

	if err := logging.Initialize(cfg.Logging); err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing logging: %v\n", err)
	}
	defer logging.Sync()

	if err := run(cfg); err != nil {
		logging.Error("server stopped", zap.Error(err))
		logging.Sync()
		os.Exit(1)
	}
}

func run(cfg *config.Config) error {
	table := pricing.Default()
	if cfg.Pricing.TablePath != "" {
		loaded, err := pricing.LoadFile(cfg.Pricing.TablePath)
		if err != nil {
			return err
		}
		table = loaded
	}
	logging.Info("pricing table ready",
		zap.String("version", table.Version()),
		zap.String("fingerprint", table.Fingerprint().Short()),
	)

	gin.SetMode(cfg.Server.Mode)
	server := api.NewServer(table, api.Options{Version: version, Metrics: cfg.Server.Metrics})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	return server.Run(ctx, cfg.Server.Addr)
}
