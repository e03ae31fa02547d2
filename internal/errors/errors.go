// Package errors provides centralized error definitions and error handling utilities
// for greatesthits. It defines the sentinel errors of the generation pipeline,
// typed errors carrying file context, and small classification helpers.
//
// # Error Taxonomy
//
// The pipeline distinguishes three failure classes:
//
//   - Source errors: a playlist file is missing or malformed. They are
//     recovered locally by skipping the file and logging a diagnostic.
//   - Empty result: no remote items were found in any source. This is a
//     soft stop: the run ends with a message and no output is written.
//   - Output errors: the generated playlist could not be written. These are
//     fatal and terminate the process with a non-zero exit status.
//
// # Usage
//
//	err := errors.NewSourceError("parse", "docs/MMM-music-playlist.xml", errors.ErrSourceMalformed)
//
//	if errors.Is(err, errors.ErrSourceMalformed) { ... }
//
//	var srcErr *errors.SourceError
//	if errors.As(err, &srcErr) { fmt.Println(srcErr.Path) }
//
//	if errors.IsFatal(err) { os.Exit(1) }
package errors

import (
	"errors"
	"fmt"
)

// Re-export standard library functions for convenience.
// This allows callers to import only this package for all error handling.
var (
	Is     = errors.Is
	As     = errors.As
	Unwrap = errors.Unwrap
	New    = errors.New
	Join   = errors.Join
)

// Severity represents the severity level of an error.
type Severity int

const (
	// SeverityWarning is for errors that are recovered locally.
	SeverityWarning Severity = iota
	// SeverityError is for errors that abort the run.
	SeverityError
)

// String returns the string representation of the severity level.
func (s Severity) String() string {
	switch s {
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	default:
		return "unknown"
	}
}

// -----------------------------------------------------------------------------
// Sentinel Errors
// -----------------------------------------------------------------------------

// Source-related sentinel errors
var (
	// ErrSourceNotFound indicates that a playlist file does not exist.
	ErrSourceNotFound = New("file not found")
	// ErrSourceMalformed indicates that a playlist file could not be parsed.
	ErrSourceMalformed = New("malformed playlist")
)

// Pipeline sentinel errors
var (
	// ErrNoSongs indicates that no remote items were found across all sources.
	ErrNoSongs = New("no songs found")
	// ErrOutputWrite indicates that the generated playlist could not be written.
	ErrOutputWrite = New("failed to write output")
	// ErrInvalidInput indicates that input validation failed.
	ErrInvalidInput = New("invalid input")
)

// -----------------------------------------------------------------------------
// Typed Errors
// -----------------------------------------------------------------------------

// SourceError describes a failure to read one playlist file.
//
// Example:
//
//	err := errors.NewSourceError("open", "docs/LT-music-playlist.xml", errors.ErrSourceNotFound)
//	fmt.Println(err) // "open docs/LT-music-playlist.xml: file not found"
type SourceError struct {
	Op   string // "open" or "parse"
	Path string
	Err  error
}

// NewSourceError creates a new SourceError.
func NewSourceError(op, path string, err error) *SourceError {
	return &SourceError{Op: op, Path: path, Err: err}
}

// Error returns the formatted error message.
func (e *SourceError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

// Unwrap returns the underlying error.
func (e *SourceError) Unwrap() error {
	return e.Err
}

// Severity reports that source errors are always recovered.
func (e *SourceError) Severity() Severity {
	return SeverityWarning
}

// OutputError describes a failure to write the generated playlist.
type OutputError struct {
	Path string
	Err  error
}

// NewOutputError creates a new OutputError.
func NewOutputError(path string, err error) *OutputError {
	return &OutputError{Path: path, Err: err}
}

// Error returns the formatted error message.
func (e *OutputError) Error() string {
	return fmt.Sprintf("%v %s: %v", ErrOutputWrite, e.Path, e.Err)
}

// Unwrap returns both the sentinel and the cause so errors.Is matches either.
func (e *OutputError) Unwrap() []error {
	return []error{ErrOutputWrite, e.Err}
}

// Severity reports that output errors abort the run.
func (e *OutputError) Severity() Severity {
	return SeverityError
}

// -----------------------------------------------------------------------------
// Classification
// -----------------------------------------------------------------------------

// IsSourceError reports whether err is a recoverable per-file failure.
func IsSourceError(err error) bool {
	var srcErr *SourceError
	return As(err, &srcErr)
}

// IsFatal reports whether err should terminate the process with a failure
// status. A nil error and the empty-result condition are not fatal.
func IsFatal(err error) bool {
	if err == nil {
		return false
	}
	if Is(err, ErrNoSongs) || IsSourceError(err) {
		return false
	}
	return true
}

// GetSeverity returns the severity of err, defaulting to SeverityError for
// errors that do not carry one.
func GetSeverity(err error) Severity {
	var s interface{ Severity() Severity }
	if As(err, &s) {
		return s.Severity()
	}
	if Is(err, ErrNoSongs) {
		return SeverityWarning
	}
	return SeverityError
}
