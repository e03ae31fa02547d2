// Package logging provides structured logging for greatesthits runs.
//
// This package wraps Go's log/slog to emit JSON-formatted logs with
// persistent context attributes, so a run can be analyzed after the fact
// (which sources were skipped, why, and what was written).
//
// Structured logs are separate from the progress lines printed to stdout:
// the console shows "✓ name: N songs" style diagnostics, while the log sink
// records the same events as filterable JSON.
//
// # Basic Usage
//
//	logger, err := logging.New(logging.Options{Level: "info"})
//	if err != nil {
//	    return err
//	}
//	defer logger.Close()
//
//	logger.Info("playlist read", "songs", 42)
//
// # Context Propagation
//
//	runLogger := logger.WithRun("7d1e…")
//	srcLogger := runLogger.WithSource("docs/LT-music-playlist.xml")
//	srcLogger.Warn("source skipped", "error", err)
//
// Output:
//
//	{"time":"...","level":"WARN","msg":"source skipped","run_id":"7d1e…","source":"docs/LT-music-playlist.xml","error":"..."}
//
// # Log Rotation
//
// When Options.File is set, logs are appended to that file through a
// [RotatingWriter]. Rotated files are named greatesthits.log.1,
// greatesthits.log.2, etc., where .1 is the most recent backup.
//
// # Testing
//
// Use [NopLogger] to discard all output, or [NewWithWriter] to capture it.
package logging
