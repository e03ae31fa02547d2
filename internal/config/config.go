package config

import (
	"os"
	"path/filepath"

	"github.com/ChadFarrow/greatesthits/internal/logging"
	"github.com/ChadFarrow/greatesthits/internal/playlist"
	"github.com/ChadFarrow/greatesthits/internal/source"
	"github.com/spf13/viper"
)

// Config represents the complete greatesthits configuration
type Config struct {
	Sources  SourcesConfig `mapstructure:"sources" yaml:"sources"`
	Output   OutputConfig  `mapstructure:"output" yaml:"output"`
	MinPlays int           `mapstructure:"min_plays" yaml:"min_plays"`
	Channel  ChannelConfig `mapstructure:"channel" yaml:"channel"`
	Report   ReportConfig  `mapstructure:"report" yaml:"report"`
	Logging  LoggingConfig `mapstructure:"logging" yaml:"logging"`
	Metrics  MetricsConfig `mapstructure:"metrics" yaml:"metrics"`
}

// SourcesConfig lists the playlists to aggregate
type SourcesConfig struct {
	// Dir is the directory holding the source playlists (default: "docs")
	Dir string `mapstructure:"dir" yaml:"dir"`
	// Files are the hand-maintained playlist file names, relative to Dir
	Files []string `mapstructure:"files" yaml:"files"`
	// Patterns are optional glob patterns matched against file names in Dir,
	// e.g. "*-music-playlist.xml". The output file is never matched.
	Patterns []string `mapstructure:"patterns" yaml:"patterns"`
}

// OutputConfig controls where the generated playlist is written
type OutputConfig struct {
	// Path of the generated playlist (default: "docs/Greatest-Hits-music-playlist.xml")
	Path string `mapstructure:"path" yaml:"path"`
}

// ChannelConfig holds the fixed metadata of the generated playlist
type ChannelConfig struct {
	Author      string `mapstructure:"author" yaml:"author"`
	Title       string `mapstructure:"title" yaml:"title"`
	Description string `mapstructure:"description" yaml:"description"`
	Link        string `mapstructure:"link" yaml:"link"`
	// SourceFeed defaults to Link when empty
	SourceFeed string `mapstructure:"source_feed" yaml:"source_feed"`
	Language   string `mapstructure:"language" yaml:"language"`
	ImageURL   string `mapstructure:"image_url" yaml:"image_url"`
	Medium     string `mapstructure:"medium" yaml:"medium"`
}

// ReportConfig controls the statistics printed after a run
type ReportConfig struct {
	// Format is "text", "json" or "yaml" (default: "text")
	Format string `mapstructure:"format" yaml:"format"`
	// Color enables styled output when stdout is a terminal (default: true)
	Color bool `mapstructure:"color" yaml:"color"`
}

// LoggingConfig controls structured logging
type LoggingConfig struct {
	// Level is the log level: "debug", "info", "warn", "error" (default: "warn")
	Level string `mapstructure:"level" yaml:"level"`
	// File is the log file path; empty logs to stderr
	File string `mapstructure:"file" yaml:"file"`
	// MaxSizeMB is the maximum log file size in megabytes before rotation (default: 10)
	MaxSizeMB int `mapstructure:"max_size_mb" yaml:"max_size_mb"`
	// MaxBackups is the number of backup log files to keep (default: 3)
	MaxBackups int `mapstructure:"max_backups" yaml:"max_backups"`
}

// MetricsConfig controls the Prometheus textfile export
type MetricsConfig struct {
	// Textfile is the .prom file to write after each run; empty disables export
	Textfile string `mapstructure:"textfile" yaml:"textfile"`
}

// DefaultSourceFiles is the hand-maintained list of musicL playlists.
var DefaultSourceFiles = []string{
	"b4ts-music-playlist.xml",
	"flowgnar-music-playlist.xml",
	"HGH-music-playlist.xml",
	"IAM-music-playlist.xml",
	"ITDV-music-playlist.xml",
	"LT-music-playlist.xml",
	"MMM-music-playlist.xml",
	"MMT-muic-playlist.xml",
	"SAS-music-playlist.xml",
	"upbeats-music-playlist.xml",
}

// Default returns a Config with sensible default values
func Default() *Config {
	return &Config{
		Sources: SourcesConfig{
			Dir:      "docs",
			Files:    append([]string(nil), DefaultSourceFiles...),
			Patterns: []string{},
		},
		Output: OutputConfig{
			Path: filepath.Join("docs", "Greatest-Hits-music-playlist.xml"),
		},
		MinPlays: playlist.DefaultMinPlays,
		Channel: ChannelConfig{
			Author: "ChadF",
			Title:  "ChadF's Greatest Hits Music Playlist",
			Description: "Most frequently played tracks across all ChadF musicL playlists - " +
				"songs appearing 2+ times, organized by play count",
			Link:     "https://github.com/ChadFarrow/chadf-musicl-playlists",
			Language: "en",
			ImageURL: "https://raw.githubusercontent.com/ChadFarrow/chadf-musicl-playlists/" +
				"main/docs/Greatest-Hits-music-playlist.png",
			Medium: "musicL",
		},
		Report: ReportConfig{
			Format: "text",
			Color:  true,
		},
		Logging: LoggingConfig{
			Level:      "warn",
			MaxSizeMB:  10,
			MaxBackups: 3,
		},
	}
}

// SetDefaults registers default values with viper
func SetDefaults() {
	defaults := Default()

	viper.SetDefault("sources.dir", defaults.Sources.Dir)
	viper.SetDefault("sources.files", defaults.Sources.Files)
	viper.SetDefault("sources.patterns", defaults.Sources.Patterns)

	viper.SetDefault("output.path", defaults.Output.Path)
	viper.SetDefault("min_plays", defaults.MinPlays)

	viper.SetDefault("channel.author", defaults.Channel.Author)
	viper.SetDefault("channel.title", defaults.Channel.Title)
	viper.SetDefault("channel.description", defaults.Channel.Description)
	viper.SetDefault("channel.link", defaults.Channel.Link)
	viper.SetDefault("channel.source_feed", defaults.Channel.SourceFeed)
	viper.SetDefault("channel.language", defaults.Channel.Language)
	viper.SetDefault("channel.image_url", defaults.Channel.ImageURL)
	viper.SetDefault("channel.medium", defaults.Channel.Medium)

	viper.SetDefault("report.format", defaults.Report.Format)
	viper.SetDefault("report.color", defaults.Report.Color)

	viper.SetDefault("logging.level", defaults.Logging.Level)
	viper.SetDefault("logging.file", defaults.Logging.File)
	viper.SetDefault("logging.max_size_mb", defaults.Logging.MaxSizeMB)
	viper.SetDefault("logging.max_backups", defaults.Logging.MaxBackups)

	viper.SetDefault("metrics.textfile", defaults.Metrics.Textfile)
}

// Load reads the configuration from viper into a Config struct and validates it
func Load() (*Config, error) {
	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	if errs := cfg.Validate(); len(errs) > 0 {
		return nil, ValidationErrors(errs)
	}

	return &cfg, nil
}

// SourceSpec returns the source resolution settings.
func (c *Config) SourceSpec() source.Spec {
	return source.Spec{
		Dir:      c.Sources.Dir,
		Files:    c.Sources.Files,
		Patterns: c.Sources.Patterns,
	}
}

// PlaylistChannel returns the channel metadata for the playlist writer.
func (c *Config) PlaylistChannel() playlist.Channel {
	return playlist.Channel{
		Author:      c.Channel.Author,
		Title:       c.Channel.Title,
		Description: c.Channel.Description,
		Link:        c.Channel.Link,
		SourceFeed:  c.Channel.SourceFeed,
		Language:    c.Channel.Language,
		ImageURL:    c.Channel.ImageURL,
		Medium:      c.Channel.Medium,
	}
}

// LoggingOptions returns the logger settings.
func (c *Config) LoggingOptions() logging.Options {
	return logging.Options{
		Level: c.Logging.Level,
		File:  c.Logging.File,
		Rotation: logging.RotationConfig{
			MaxSizeMB:  c.Logging.MaxSizeMB,
			MaxBackups: c.Logging.MaxBackups,
		},
	}
}

// ConfigDir returns the path to the user's config directory
func ConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "greatesthits")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".greatesthits"
	}
	return filepath.Join(home, ".config", "greatesthits")
}

// ConfigFile returns the path to the user config file
func ConfigFile() string {
	return filepath.Join(ConfigDir(), "config.yaml")
}
