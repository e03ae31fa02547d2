package pipeline

import (
	"github.com/ChadFarrow/greatesthits/internal/logging"
	"github.com/ChadFarrow/greatesthits/internal/report"
	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
)

// Option configures a Run.
type Option func(*runConfig)

type runConfig struct {
	console *report.Console
	logger  *logging.Logger
	clock   clockwork.Clock
	newID   func() string
	dryRun  bool
}

func defaultRunConfig() runConfig {
	return runConfig{
		clock: clockwork.NewRealClock(),
		newID: uuid.NewString,
	}
}

// WithConsole sets the console receiving progress lines and statistics.
// Without it the run is silent.
func WithConsole(c *report.Console) Option {
	return func(rc *runConfig) {
		rc.console = c
	}
}

// WithLogger sets the structured logger.
func WithLogger(l *logging.Logger) Option {
	return func(rc *runConfig) {
		rc.logger = l
	}
}

// WithClock sets the clock used for the playlist dates and the metrics
// timestamp.
func WithClock(c clockwork.Clock) Option {
	return func(rc *runConfig) {
		rc.clock = c
	}
}

// WithIDFunc sets the generator of the playlist GUID, which also serves as
// the run ID in logs.
func WithIDFunc(fn func() string) Option {
	return func(rc *runConfig) {
		rc.newID = fn
	}
}

// WithDryRun skips writing the output playlist and the metrics textfile.
func WithDryRun(dryRun bool) Option {
	return func(rc *runConfig) {
		rc.dryRun = dryRun
	}
}
