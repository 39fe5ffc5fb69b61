// Package clisnapshots holds the commands that work on the snapshot archive
package clisnapshots

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/damon-houk/cbr-currency-exporter/internal/application/service"
	"github.com/damon-houk/cbr-currency-exporter/internal/bootstrap"
	"github.com/damon-houk/cbr-currency-exporter/internal/infrastructure/format"
	"github.com/damon-houk/cbr-currency-exporter/internal/infrastructure/logger"
	"github.com/ryanuber/columnize"
	"github.com/spf13/cobra"
)

// GetSnapshotsCommand returns the snapshots command and its subcommands
func GetSnapshotsCommand() *cobra.Command {
	params := &snapshotParams{}

	cmd := &cobra.Command{
		Use:   "snapshots",
		Short: "manages the archive of fetched rates",
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return params.validateFlags(cmd)
		},
	}
	params.setFlags(cmd)

	list := &cobra.Command{
		Use:   "list",
		Short: "lists stored snapshots, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return params.withService(cmd, func(ctx context.Context, s *service.SnapshotService) error {
				return runList(ctx, s, cmd.OutOrStdout())
			})
		},
	}

	capture := &cobra.Command{
		Use:   "capture",
		Short: "fetches the rates and stores them as a new snapshot",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return params.withService(cmd, func(ctx context.Context, s *service.SnapshotService) error {
				snapshot, err := s.Capture(ctx)
				if err != nil {
					return err
				}
				_, err = fmt.Fprintln(cmd.OutOrStdout(), snapshot.ID)
				return err
			})
		},
	}
	capture.Flags().StringVar(&params.url, urlFlag, "", urlFlagDesc)

	show := &cobra.Command{
		Use:   "show <id>",
		Short: "prints a stored snapshot",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return params.withService(cmd, func(ctx context.Context, s *service.SnapshotService) error {
				return runShow(ctx, s, args[0], params.format, cmd.OutOrStdout())
			})
		},
	}
	show.Flags().StringVar(&params.format, formatFlag, "yaml", formatFlagDesc)

	cmd.AddCommand(list, capture, show)

	return cmd
}

// withService opens the archive for the duration of fn
func (sp *snapshotParams) withService(cmd *cobra.Command, fn func(context.Context, *service.SnapshotService) error) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	log := bootstrap.NewLogger("currency-exporter", sp.cfg.Log, cmd.ErrOrStderr())

	repo, badgerDB, err := bootstrap.OpenArchive(sp.cfg.Archive)
	if err != nil {
		return err
	}
	defer func() {
		if err := badgerDB.Close(); err != nil {
			log.Warn("Error closing archive", map[string]interface{}{"error": err.Error()})
		}
	}()

	provider := bootstrap.NewProvider(sp.cfg.Source, log)
	return fn(ctx, service.NewSnapshotService(provider, repo, sp.cfg.Source.URL, log))
}

func runList(ctx context.Context, s *service.SnapshotService, out io.Writer) error {
	summaries, err := s.List(ctx)
	if err != nil {
		return err
	}

	rows := make([]string, 0, len(summaries)+1)
	rows = append(rows, "ID | FETCHED AT | RECORDS | SOURCE")
	for _, summary := range summaries {
		rows = append(rows, fmt.Sprintf("%s | %s | %d | %s",
			summary.ID, summary.FetchedAt.Format(time.RFC3339), summary.RecordCount, summary.Source))
	}

	_, err = fmt.Fprintln(out, columnize.SimpleFormat(rows))
	return err
}

func runShow(ctx context.Context, s *service.SnapshotService, id, name string, out io.Writer) error {
	snapshot, err := s.Get(ctx, id)
	if err != nil {
		return err
	}

	a, err := format.New(name, snapshot, logger.NewNullLogger())
	if err != nil {
		return err
	}

	switch r := a.(type) {
	case format.TextRenderer:
		text, err := r.Render(ctx)
		if err != nil {
			return err
		}
		if !strings.HasSuffix(text, "\n") {
			text += "\n"
		}
		_, err = io.WriteString(out, text)
		return err
	case *format.CSVAdapter:
		return format.Encode(out, r.Render(ctx))
	default:
		return fmt.Errorf("%w %q", format.ErrUnknownFormat, name)
	}
}
