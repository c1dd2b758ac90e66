package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/sunnysdady/orderpulse/internal/core/config"
	"github.com/sunnysdady/orderpulse/internal/dataset"
	"github.com/sunnysdady/orderpulse/internal/export"
	"github.com/sunnysdady/orderpulse/internal/ingestion"
	"github.com/sunnysdady/orderpulse/internal/projection"
	"github.com/sunnysdady/orderpulse/internal/server"
)

func main() {
	configPath := flag.String("config", "", "Path to configuration file")
	flag.Parse()

	// 0. Initialize Logger
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	// 1. Load Configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("Failed to load config", "error", err)
		os.Exit(1)
	}
	slog.Info("Loaded config",
		"addr", fmtAddr(cfg.Server.Host, cfg.Server.Port),
		"max_upload_mb", cfg.Upload.MaxSizeMB,
		"anomaly_threshold_pct", cfg.Analytics.AnomalyThresholdPct,
	)

	// 2. Initialize the session-scoped dataset store
	store := dataset.NewStore()

	// 3. Initialize Ingestion (upload → snapshot)
	ingestionSvc := ingestion.NewService(store, cfg.ColumnAliases, cfg.Upload.PreviewRows, cfg.Upload.MaxSizeMB)

	// 4. Initialize Projection (query API)
	projectionSvc := projection.NewService(store, cfg.Analytics.AnomalyThresholdPct)

	// 5. Initialize Export (CSV downloads)
	exportSvc := export.NewService(projectionSvc)

	// 6. Initialize Server
	srv := server.New(fmtAddr(cfg.Server.Host, cfg.Server.Port), store, cfg.Server.Mode)
	ingestionSvc.RegisterRoutes(srv.Engine)
	projectionSvc.RegisterRoutes(srv.Engine)
	exportSvc.RegisterRoutes(srv.Engine)

	// 7. Start Services
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Signal handler → triggers the shutdown sequence below.
	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
		<-quit
		slog.Info("Signal received, shutting down...")
		cancel()
	}()

	// HTTP server blocks until ctx is cancelled.
	if err := srv.Run(ctx); err != nil {
		slog.Error("Server stopped with error", "error", err)
	}

	slog.Info("Shutdown complete")
}

func fmtAddr(host string, port int) string {
	return fmt.Sprintf("%s:%d", host, port)
}
