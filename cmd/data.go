package cmd

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	cfgpkg "github.com/KaramelBytes/hospiviz-cli/internal/config"
	"github.com/KaramelBytes/hospiviz-cli/internal/dataset"
	"github.com/KaramelBytes/hospiviz-cli/internal/pipeline"
)

// Dataset flags shared by every command that runs the pipeline.
var (
	flagInput      string
	flagSeed       uint64
	flagNameColumn string
	flagDelimiter  string
	flagDecimal    string
	flagThousands  string
	flagSheet      string
	flagOutDir     string
)

func addDataFlags(c *cobra.Command) {
	f := c.Flags()
	f.StringVarP(&flagInput, "input", "i", "", "dataset path or http(s) URL (overrides data_url)")
	f.Uint64Var(&flagSeed, "seed", 0, "seed for synthesized attributes (overrides config)")
	f.StringVar(&flagNameColumn, "name-column", "", "column holding facility names when Hospital_Name is absent")
	f.StringVar(&flagDelimiter, "delimiter", "", "CSV delimiter (default: tab for .tsv, comma otherwise)")
	f.StringVar(&flagDecimal, "decimal", "", "decimal separator for numeric cells")
	f.StringVar(&flagThousands, "thousands", "", "thousands separator for numeric cells")
	f.StringVar(&flagSheet, "sheet", "", "XLSX sheet name (default: first sheet)")
}

func addOutDirFlag(c *cobra.Command) {
	c.Flags().StringVarP(&flagOutDir, "out", "o", "", "output directory (overrides output_dir)")
}

// effectiveConfig returns the loaded config with the command's data flags applied.
func effectiveConfig(cmd *cobra.Command) (*cfgpkg.Global, error) {
	c, err := requireConfig()
	if err != nil {
		return nil, err
	}
	f := cmd.Flags()
	changed := func(name string) bool {
		fl := f.Lookup(name)
		return fl != nil && fl.Changed
	}
	if changed("input") {
		c.DataURL = flagInput
	}
	if changed("seed") {
		c.Seed = flagSeed
	}
	if changed("name-column") {
		c.NameColumn = flagNameColumn
	}
	if changed("delimiter") {
		c.Delimiter = flagDelimiter
	}
	if changed("decimal") {
		c.Decimal = flagDecimal
	}
	if changed("thousands") {
		c.Thousands = flagThousands
	}
	if changed("sheet") {
		c.Sheet = flagSheet
	}
	if changed("out") {
		c.OutputDir = flagOutDir
	}
	return c, nil
}

func newLoader(c *cfgpkg.Global) (*dataset.Loader, error) {
	delim, err := c.DelimiterRune()
	if err != nil {
		return nil, err
	}
	nf, err := c.NumberFormat()
	if err != nil {
		return nil, err
	}
	fetcher := dataset.NewFetcher(
		time.Duration(c.HTTPTimeoutSec)*time.Second,
		c.RetryMaxAttempts,
		time.Duration(c.RetryBaseDelayMs)*time.Millisecond,
		time.Duration(c.RetryMaxDelayMs)*time.Millisecond,
	)
	fetcher.Log = logger
	return &dataset.Loader{
		Fetcher: fetcher,
		CSV:     dataset.CSVOptions{Delimiter: delim},
		XLSX:    dataset.XLSXOptions{Sheet: c.Sheet},
		Format:  nf,
	}, nil
}

// runPipeline loads the configured dataset and resolves it into facility records.
func runPipeline(cmd *cobra.Command) (*pipeline.Result, *cfgpkg.Global, error) {
	c, err := effectiveConfig(cmd)
	if err != nil {
		return nil, nil, err
	}
	loader, err := newLoader(c)
	if err != nil {
		return nil, nil, err
	}
	logger.Debugf("loading %s", c.DataURL)
	ds, err := loader.Load(cmd.Context(), c.DataURL)
	if err != nil {
		return nil, nil, fmt.Errorf("load dataset: %w", err)
	}
	res, err := pipeline.Run(ds, pipeline.Options{
		Seed:     c.Seed,
		NameHint: c.NameColumn,
		Log:      logger,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("prepare dataset: %w", err)
	}
	logger.Debugf("run %s: %d facilities from %s", res.Report.RunID, len(res.Facilities), res.Report.Source)
	return res, c, nil
}

func outputPath(c *cfgpkg.Global, name string) string {
	if c.OutputDir == "" {
		return name
	}
	return filepath.Join(c.OutputDir, name)
}
