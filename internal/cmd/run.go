package cmd

import (
	"fmt"
	"io"
	"os"

	appconfig "github.com/ChadFarrow/greatesthits/internal/config"
	"github.com/ChadFarrow/greatesthits/internal/errors"
	"github.com/ChadFarrow/greatesthits/internal/logging"
	"github.com/ChadFarrow/greatesthits/internal/pipeline"
	"github.com/ChadFarrow/greatesthits/internal/report"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// loadConfig returns the validated configuration for this invocation.
func loadConfig() (*appconfig.Config, error) {
	if configReadErr != nil {
		return nil, fmt.Errorf("failed to read config file: %w", configReadErr)
	}
	cfg, err := appconfig.Load()
	if err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// isTerminal reports whether w is a terminal.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// runOptions selects how a command drives the pipeline.
type runOptions struct {
	dryRun bool
	// quietProgress sends progress lines to stderr so stdout carries only
	// the statistics.
	quietProgress bool
}

func runPipeline(cmd *cobra.Command, ro runOptions) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	logger, err := logging.New(cfg.LoggingOptions())
	if err != nil {
		return err
	}
	defer logger.Close()

	format, err := report.ParseFormat(cfg.Report.Format)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	diag := out
	if ro.quietProgress || format != report.FormatText {
		diag = cmd.ErrOrStderr()
	}
	console := report.NewConsole(report.ConsoleOptions{
		Out:    out,
		Diag:   diag,
		Format: format,
		Styled: cfg.Report.Color && isTerminal(out),
	})

	_, err = pipeline.Run(cmd.Context(), cfg,
		pipeline.WithConsole(console),
		pipeline.WithLogger(logger),
		pipeline.WithDryRun(ro.dryRun),
	)
	if errors.Is(err, errors.ErrNoSongs) {
		return nil
	}
	return err
}
