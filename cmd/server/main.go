package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/damon-houk/cbr-currency-exporter/internal/application/service"
	"github.com/damon-houk/cbr-currency-exporter/internal/bootstrap"
	"github.com/damon-houk/cbr-currency-exporter/internal/config"
	"github.com/damon-houk/cbr-currency-exporter/internal/infrastructure/handler"
	"github.com/damon-houk/cbr-currency-exporter/internal/infrastructure/logger"
	"github.com/damon-houk/cbr-currency-exporter/internal/infrastructure/telemetry"
)

const shutdownTimeout = 10 * time.Second

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := run(ctx, os.Args[1:], os.Stderr)
	stop()

	if err != nil {
		logger.Error("Server exited", map[string]interface{}{"error": err.Error()})
		os.Exit(1)
	}
}

// run serves until ctx is cancelled or the listener fails. Every resource it
// opens is released before it returns.
func run(ctx context.Context, args []string, stderr io.Writer) error {
	flags := flag.NewFlagSet("currency-server", flag.ContinueOnError)
	flags.SetOutput(stderr)
	configPath := flags.String("config", "", "path to config yaml file")
	if err := flags.Parse(args); err != nil {
		return err
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	log := bootstrap.NewLogger("currency-server", cfg.Log, stderr)
	log.Info("Starting currency exporter server", map[string]interface{}{
		"addr":   cfg.Server.Addr,
		"source": cfg.Source.URL,
	})

	repo, badgerDB, err := bootstrap.OpenArchive(cfg.Archive)
	if err != nil {
		return fmt.Errorf("failed to open archive: %w", err)
	}
	defer func() {
		if err := badgerDB.Close(); err != nil {
			log.Error("Error closing BadgerDB", map[string]interface{}{"error": err.Error()})
		}
	}()

	provider := bootstrap.NewProvider(cfg.Source, log)
	snapshots := service.NewSnapshotService(provider, repo, cfg.Source.URL, log)

	routerCfg := handler.RouterConfig{
		Export:         handler.NewExportHandler(provider, log),
		Snapshots:      handler.NewSnapshotHandler(snapshots, log),
		AllowedOrigins: cfg.Server.AllowedOrigins,
		Logger:         log,
	}
	if cfg.Metrics.Enabled {
		tel, err := telemetry.Setup()
		if err != nil {
			return fmt.Errorf("failed to set up telemetry: %w", err)
		}
		routerCfg.Metrics = tel.Handler()
	}

	server := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           handler.NewRouter(routerCfg),
		ReadHeaderTimeout: 10 * time.Second,
	}

	shutdownDone := make(chan struct{})
	go func() {
		defer close(shutdownDone)
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Error("Error shutting down server", map[string]interface{}{"error": err.Error()})
		}
	}()

	log.Info("Server listening", map[string]interface{}{"addr": cfg.Server.Addr})
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server stopped: %w", err)
	}

	<-shutdownDone
	log.Info("Server stopped", nil)
	return nil
}
