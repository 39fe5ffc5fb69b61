package cliexport

import (
	"fmt"

	"github.com/damon-houk/cbr-currency-exporter/internal/config"
	"github.com/damon-houk/cbr-currency-exporter/internal/infrastructure/format"
	"github.com/spf13/cobra"
)

const (
	configFlag      = "config"
	urlFlag         = "url"
	outDirFlag      = "out-dir"
	formatsFlag     = "formats"
	sampleCharsFlag = "sample-chars"
	archiveFlag     = "archive"

	configFlagDesc      = "path to config yaml file"
	urlFlagDesc         = "rates endpoint"
	outDirFlagDesc      = "directory the files are written to"
	formatsFlagDesc     = "formats to write, in order"
	sampleCharsFlagDesc = "characters of the yaml sample printed before writing (0 disables it)"
	archiveFlagDesc     = "also store a snapshot in the archive after the export"
)

type exportParams struct {
	config      string
	url         string
	outDir      string
	formats     []string
	sampleChars int
	archive     bool

	cfg config.Config
}

func (ep *exportParams) setFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(
		&ep.config,
		configFlag,
		"",
		configFlagDesc,
	)
	cmd.Flags().StringVar(
		&ep.url,
		urlFlag,
		"",
		urlFlagDesc,
	)
	cmd.Flags().StringVar(
		&ep.outDir,
		outDirFlag,
		"",
		outDirFlagDesc,
	)
	cmd.Flags().StringSliceVar(
		&ep.formats,
		formatsFlag,
		nil,
		formatsFlagDesc,
	)
	cmd.Flags().IntVar(
		&ep.sampleChars,
		sampleCharsFlag,
		0,
		sampleCharsFlagDesc,
	)
	cmd.Flags().BoolVar(
		&ep.archive,
		archiveFlag,
		false,
		archiveFlagDesc,
	)
}

// validateFlags loads the config and lays the flags that were set over it
func (ep *exportParams) validateFlags(cmd *cobra.Command) error {
	cfg, err := config.Load(ep.config)
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	if flags.Changed(urlFlag) {
		cfg.Source.URL = ep.url
	}
	if flags.Changed(outDirFlag) {
		cfg.Export.OutDir = ep.outDir
	}
	if flags.Changed(formatsFlag) {
		cfg.Export.Formats = ep.formats
	}
	if flags.Changed(sampleCharsFlag) {
		if ep.sampleChars < 0 {
			return fmt.Errorf("invalid --%s: %d", sampleCharsFlag, ep.sampleChars)
		}
		cfg.Export.SampleChars = ep.sampleChars
	}

	for _, name := range cfg.Export.Formats {
		if _, err := format.New(name, nil, nil); err != nil {
			return err
		}
	}

	ep.cfg = cfg
	return nil
}
