package config

import (
	"fmt"
	"slices"
	"strings"

	"github.com/ChadFarrow/greatesthits/internal/report"
	"github.com/ChadFarrow/greatesthits/internal/source"
)

// ValidationError represents a single validation failure
type ValidationError struct {
	Field   string // The config field path (e.g., "logging.level")
	Value   any    // The invalid value
	Message string // Human-readable error description
}

// Error implements the error interface for ValidationError
func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s (got: %v)", e.Field, e.Message, e.Value)
}

// ValidationErrors is a collection of validation errors
type ValidationErrors []ValidationError

// Error implements the error interface for ValidationErrors
func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return ""
	}
	if len(e) == 1 {
		return e[0].Error()
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%d validation errors:\n", len(e)))
	for i, err := range e {
		sb.WriteString(fmt.Sprintf("  %d. %s\n", i+1, err.Error()))
	}
	return sb.String()
}

// ValidLogLevels returns the list of valid log levels
func ValidLogLevels() []string {
	return []string{"debug", "info", "warn", "error"}
}

// Validate checks the Config for invalid values and returns all validation errors found
func (c *Config) Validate() []ValidationError {
	var errors []ValidationError

	errors = append(errors, c.validateSources()...)
	errors = append(errors, c.validateOutput()...)
	errors = append(errors, c.validateChannel()...)
	errors = append(errors, c.validateReport()...)
	errors = append(errors, c.validateLogging()...)

	return errors
}

func (c *Config) validateSources() []ValidationError {
	var errors []ValidationError

	if len(c.Sources.Files) == 0 && len(c.Sources.Patterns) == 0 {
		errors = append(errors, ValidationError{
			Field:   "sources",
			Value:   "",
			Message: "at least one file or pattern is required",
		})
	}

	for i, name := range c.Sources.Files {
		if strings.TrimSpace(name) == "" {
			errors = append(errors, ValidationError{
				Field:   fmt.Sprintf("sources.files[%d]", i),
				Value:   name,
				Message: "must not be empty",
			})
		}
	}

	for i, pattern := range c.Sources.Patterns {
		if _, err := source.CompilePatterns([]string{pattern}); err != nil {
			errors = append(errors, ValidationError{
				Field:   fmt.Sprintf("sources.patterns[%d]", i),
				Value:   pattern,
				Message: "invalid glob pattern",
			})
		}
	}

	return errors
}

func (c *Config) validateOutput() []ValidationError {
	var errors []ValidationError

	if c.Output.Path == "" {
		errors = append(errors, ValidationError{
			Field:   "output.path",
			Value:   c.Output.Path,
			Message: "must not be empty",
		})
	} else if strings.ContainsRune(c.Output.Path, '\x00') {
		errors = append(errors, ValidationError{
			Field:   "output.path",
			Value:   c.Output.Path,
			Message: "contains invalid null character",
		})
	}

	if c.MinPlays < 1 {
		errors = append(errors, ValidationError{
			Field:   "min_plays",
			Value:   c.MinPlays,
			Message: "must be at least 1",
		})
	}

	return errors
}

func (c *Config) validateChannel() []ValidationError {
	var errors []ValidationError

	if strings.TrimSpace(c.Channel.Title) == "" {
		errors = append(errors, ValidationError{
			Field:   "channel.title",
			Value:   c.Channel.Title,
			Message: "must not be empty",
		})
	}

	return errors
}

func (c *Config) validateReport() []ValidationError {
	var errors []ValidationError

	if _, err := report.ParseFormat(c.Report.Format); err != nil {
		errors = append(errors, ValidationError{
			Field:   "report.format",
			Value:   c.Report.Format,
			Message: fmt.Sprintf("must be one of: %s", strings.Join(report.ValidFormats(), ", ")),
		})
	}

	return errors
}

// validateLogging validates the LoggingConfig
func (c *Config) validateLogging() []ValidationError {
	var errors []ValidationError

	if c.Logging.Level != "" && !slices.Contains(ValidLogLevels(), strings.ToLower(c.Logging.Level)) {
		errors = append(errors, ValidationError{
			Field:   "logging.level",
			Value:   c.Logging.Level,
			Message: fmt.Sprintf("must be one of: %s", strings.Join(ValidLogLevels(), ", ")),
		})
	}

	if c.Logging.MaxSizeMB < 0 {
		errors = append(errors, ValidationError{
			Field:   "logging.max_size_mb",
			Value:   c.Logging.MaxSizeMB,
			Message: "must be non-negative",
		})
	}

	const maxLogSizeMB = 1000
	if c.Logging.MaxSizeMB > maxLogSizeMB {
		errors = append(errors, ValidationError{
			Field:   "logging.max_size_mb",
			Value:   c.Logging.MaxSizeMB,
			Message: fmt.Sprintf("exceeds maximum of %dMB", maxLogSizeMB),
		})
	}

	if c.Logging.MaxBackups < 0 {
		errors = append(errors, ValidationError{
			Field:   "logging.max_backups",
			Value:   c.Logging.MaxBackups,
			Message: "must be non-negative",
		})
	}

	return errors
}
