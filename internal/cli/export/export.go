// Package cliexport is the command that fetches the rates and writes them out
package cliexport

import (
	"context"
	"fmt"

	"github.com/damon-houk/cbr-currency-exporter/internal/application/service"
	"github.com/damon-houk/cbr-currency-exporter/internal/bootstrap"
	"github.com/damon-houk/cbr-currency-exporter/internal/infrastructure/logger"
	"github.com/damon-houk/cbr-currency-exporter/internal/infrastructure/middleware"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

// GetExportCommand returns the export command
func GetExportCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "fetches the daily rates and writes them as yaml, json and csv",
	}
	Bind(cmd)

	return cmd
}

// Bind attaches the export flags and behaviour to cmd. The root command uses
// it so a bare invocation runs an export.
func Bind(cmd *cobra.Command) {
	params := &exportParams{}
	params.setFlags(cmd)

	cmd.Args = cobra.NoArgs
	cmd.PreRunE = func(cmd *cobra.Command, _ []string) error {
		return params.validateFlags(cmd)
	}
	cmd.RunE = func(cmd *cobra.Command, _ []string) error {
		return params.Execute(cmd.Context(), cmd)
	}
}

func (ep *exportParams) Execute(ctx context.Context, cmd *cobra.Command) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx = middleware.WithRequestID(ctx, uuid.New().String())

	cfg := ep.cfg
	log := bootstrap.NewLogger("currency-exporter", cfg.Log, cmd.ErrOrStderr())

	provider := bootstrap.NewProvider(cfg.Source, log)

	adapters, err := bootstrap.NewAdapters(cfg.Export.Formats, provider, log)
	if err != nil {
		return err
	}

	exporter := service.NewExportService(adapters, service.ExportOptions{
		OutDir:       cfg.Export.OutDir,
		BaseName:     cfg.Export.BaseName,
		SampleFormat: cfg.Export.SampleFormat,
		SampleChars:  cfg.Export.SampleChars,
	}, cmd.OutOrStdout(), log)

	if err := exporter.Run(ctx); err != nil {
		return err
	}

	if ep.archive {
		return archive(ctx, ep, log)
	}
	return nil
}

func archive(ctx context.Context, ep *exportParams, log logger.Logger) error {
	repo, badgerDB, err := bootstrap.OpenArchive(ep.cfg.Archive)
	if err != nil {
		return err
	}
	defer func() {
		if err := badgerDB.Close(); err != nil {
			log.Warn("Error closing archive", map[string]interface{}{"error": err.Error()})
		}
	}()

	snapshots := service.NewSnapshotService(bootstrap.NewProvider(ep.cfg.Source, log), repo, ep.cfg.Source.URL, log)
	if _, err := snapshots.Capture(ctx); err != nil {
		return fmt.Errorf("failed to archive snapshot: %w", err)
	}
	return nil
}
