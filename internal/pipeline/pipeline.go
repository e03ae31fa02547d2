package pipeline

import (
	"context"
	"fmt"

	"github.com/ChadFarrow/greatesthits/internal/config"
	"github.com/ChadFarrow/greatesthits/internal/errors"
	"github.com/ChadFarrow/greatesthits/internal/logging"
	"github.com/ChadFarrow/greatesthits/internal/metrics"
	"github.com/ChadFarrow/greatesthits/internal/playlist"
	"github.com/ChadFarrow/greatesthits/internal/report"
	"github.com/ChadFarrow/greatesthits/internal/source"
)

// Result describes a completed run.
type Result struct {
	// ID is the podcast:guid of the generated playlist.
	ID      string
	Sources []playlist.SourceResult
	Table   *playlist.FrequencyTable
	Groups  playlist.FrequencyGroups
	Stats   report.Stats
	// OutputPath is where the playlist was (or, on a dry run, would be) written.
	OutputPath string
	Written    bool
}

// Run performs one generation with cfg. On ErrNoSongs the partial Result is
// still returned so callers can inspect the sources.
func Run(ctx context.Context, cfg *config.Config, opts ...Option) (*Result, error) {
	if cfg == nil {
		return nil, fmt.Errorf("%w: nil config", errors.ErrInvalidInput)
	}

	rc := defaultRunConfig()
	for _, opt := range opts {
		opt(&rc)
	}
	if rc.console == nil {
		rc.console = report.NewConsole(report.ConsoleOptions{})
	}
	if rc.logger == nil {
		rc.logger = logging.NopLogger()
	}

	id := rc.newID()
	log := rc.logger.WithRun(id)
	res := &Result{ID: id, OutputPath: cfg.Output.Path}

	paths, err := source.Resolve(cfg.SourceSpec(), cfg.Output.Path)
	if err != nil {
		return nil, err
	}
	log.Info("sources resolved", "count", len(paths), "dir", cfg.Sources.Dir)

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	rc.console.Processing(len(paths))
	pairs, results := playlist.NewReader(rc.console, log).ReadAll(paths)
	res.Sources = results

	res.Table = playlist.Count(pairs)
	if res.Table.Len() == 0 {
		log.Warn("no songs found", "sources", len(paths))
		rc.console.NoSongs(cfg.Sources.Dir)
		return res, errors.ErrNoSongs
	}

	res.Groups = playlist.Group(res.Table, cfg.MinPlays)
	res.Stats = report.Compute(res.Sources, res.Table, res.Groups, cfg.MinPlays)
	log.Info("songs counted",
		"references", res.Stats.TotalReferences,
		"unique", res.Stats.UniqueSongs,
		"filtered", res.Stats.FilteredSongs,
	)

	if err := rc.console.Stats(res.Stats); err != nil {
		return nil, fmt.Errorf("failed to print statistics: %w", err)
	}

	if rc.dryRun {
		rc.console.DryRun(cfg.Output.Path)
		return res, nil
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	w := playlist.NewWriter(cfg.PlaylistChannel())
	w.Clock = rc.clock
	w.NewID = func() string { return id }
	if err := w.WriteFile(cfg.Output.Path, res.Groups); err != nil {
		log.Error("output failed", "path", cfg.Output.Path, "error", err.Error())
		return nil, err
	}
	res.Written = true
	log.Info("playlist written", "path", cfg.Output.Path, "levels", len(res.Groups))
	rc.console.Generated(cfg.Output.Path)

	if cfg.Metrics.Textfile != "" {
		exportMetrics(cfg.Metrics.Textfile, res.Stats, rc, log)
	}

	rc.console.Complete()
	return res, nil
}

// exportMetrics writes the textfile. The playlist is already in place, so a
// failure here is only logged.
func exportMetrics(path string, stats report.Stats, rc runConfig, log *logging.Logger) {
	c := metrics.NewCollector()
	c.Record(stats, rc.clock.Now())
	if err := c.WriteTextfile(path); err != nil {
		log.Warn("metrics export failed", "path", path, "error", err.Error())
		return
	}
	log.Debug("metrics exported", "path", path)
}
