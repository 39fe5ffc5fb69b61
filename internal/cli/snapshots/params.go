package clisnapshots

import (
	"github.com/damon-houk/cbr-currency-exporter/internal/config"
	"github.com/spf13/cobra"
)

const (
	configFlag  = "config"
	archiveFlag = "archive"
	urlFlag     = "url"
	formatFlag  = "format"

	configFlagDesc  = "path to config yaml file"
	archiveFlagDesc = "archive directory"
	urlFlagDesc     = "rates endpoint"
	formatFlagDesc  = "output format: yaml, json or csv"
)

type snapshotParams struct {
	config  string
	archive string
	url     string
	format  string

	cfg config.Config
}

func (sp *snapshotParams) setFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().StringVar(
		&sp.config,
		configFlag,
		"",
		configFlagDesc,
	)
	cmd.PersistentFlags().StringVar(
		&sp.archive,
		archiveFlag,
		"",
		archiveFlagDesc,
	)
}

func (sp *snapshotParams) validateFlags(cmd *cobra.Command) error {
	cfg, err := config.Load(sp.config)
	if err != nil {
		return err
	}

	if cmd.Flags().Changed(archiveFlag) {
		cfg.Archive.Path = sp.archive
	}
	if f := cmd.Flags().Lookup(urlFlag); f != nil && f.Changed {
		cfg.Source.URL = sp.url
	}

	sp.cfg = cfg
	return nil
}
