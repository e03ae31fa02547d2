// Package config provides CLI commands for managing greatesthits configuration.
package config

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	appconfig "github.com/ChadFarrow/greatesthits/internal/config"
	"github.com/ChadFarrow/greatesthits/internal/report"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Wrapper functions for exec to allow testing
var execLookPath = exec.LookPath
var execCommand = exec.Command

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "View or modify greatesthits configuration",
	Long: `View or modify greatesthits configuration.

Without arguments, displays the effective configuration.
Use subcommands to modify settings or create a config file.`,
	RunE: runConfigShow,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the effective configuration as YAML",
	RunE:  runConfigShow,
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a configuration value",
	Long: `Set a configuration value in the active config file.

Keys use dot notation, e.g.:
  greatesthits config set min_plays 3
  greatesthits config set output.path public/hits.xml
  greatesthits config set report.format json

Valid keys:
  sources.dir          - Directory holding the source playlists
  output.path          - Path of the generated playlist
  min_plays            - Minimum play count (>= 1)
  channel.author       - Channel author
  channel.title        - Channel title
  channel.description  - Channel description
  channel.link         - Channel link
  channel.source_feed  - podcast:txt source-feed value (defaults to channel.link)
  channel.language     - Channel language
  channel.image_url    - Channel image URL
  channel.medium       - podcast:medium value
  report.format        - Statistics format: text, json, yaml
  report.color         - Color statistics on terminals (true/false)
  logging.level        - Log level: debug, info, warn, error
  logging.file         - Log file path (empty for stderr)
  logging.max_size_mb  - Log size before rotation, in MB
  logging.max_backups  - Rotated log files to keep
  metrics.textfile     - Prometheus textfile path (empty disables)`,
	Args: cobra.ExactArgs(2),
	RunE: runConfigSet,
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a default config file",
	Long: `Create a default config file with all available options.

The file is written to ~/.config/greatesthits/config.yaml, or to
./greatesthits.yaml with --local.`,
	RunE: runConfigInit,
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Show the config file path",
	RunE:  runConfigPath,
}

var configEditCmd = &cobra.Command{
	Use:   "edit",
	Short: "Open config file in your editor",
	Long: `Open the config file in your preferred editor.

Uses $EDITOR environment variable, or falls back to common editors (vim, nano, vi).
If no config file exists, creates one with default values first.`,
	RunE: runConfigEdit,
}

var configResetCmd = &cobra.Command{
	Use:   "reset [key]",
	Short: "Reset configuration to defaults",
	Long: `Reset configuration values to their defaults.

Without arguments, resets all configuration to defaults.
With a key argument, resets only that specific key.

Examples:
  greatesthits config reset            # Reset all to defaults
  greatesthits config reset min_plays  # Reset only min_plays to default`,
	Args: cobra.MaximumNArgs(1),
	RunE: runConfigReset,
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configPathCmd)
	configCmd.AddCommand(configEditCmd)
	configCmd.AddCommand(configResetCmd)

	configInitCmd.Flags().Bool("local", false, "write ./greatesthits.yaml instead of the user config file")
}

// Register adds all config-related commands to the given parent command.
func Register(parent *cobra.Command) {
	parent.AddCommand(configCmd)
}

// localConfigFile mirrors the file name the root command looks for.
const localConfigFile = "greatesthits.yaml"

// activeConfigFile is the file set and reset write to.
func activeConfigFile() string {
	if used := viper.ConfigFileUsed(); used != "" {
		return used
	}
	return appconfig.ConfigFile()
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	cfg, err := appconfig.Load()
	if err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	out := cmd.OutOrStdout()
	if viper.ConfigFileUsed() != "" {
		fmt.Fprintf(out, "# Config file: %s\n", viper.ConfigFileUsed())
	} else {
		fmt.Fprintln(out, "# Config file: (none - using defaults)")
	}

	enc := yaml.NewEncoder(out)
	enc.SetIndent(2)
	if err := enc.Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode configuration: %w", err)
	}
	return enc.Close()
}

// settableKeys maps each settable key to the kind of value it takes.
var settableKeys = map[string]string{
	"sources.dir":         "string",
	"output.path":         "string",
	"min_plays":           "plays",
	"channel.author":      "string",
	"channel.title":       "string",
	"channel.description": "string",
	"channel.link":        "string",
	"channel.source_feed": "string",
	"channel.language":    "string",
	"channel.image_url":   "string",
	"channel.medium":      "string",
	"report.format":       "format",
	"report.color":        "bool",
	"logging.level":       "level",
	"logging.file":        "string",
	"logging.max_size_mb": "int",
	"logging.max_backups": "int",
	"metrics.textfile":    "string",
}

// parseValue converts value to the type key expects.
func parseValue(key, value string) (any, error) {
	keyType, ok := settableKeys[key]
	if !ok {
		return nil, fmt.Errorf("unknown configuration key: %s\nRun 'greatesthits config set --help' to see valid keys", key)
	}

	switch keyType {
	case "format":
		if _, err := report.ParseFormat(value); err != nil {
			return nil, fmt.Errorf("invalid value for %s: %s\nValid options: %s",
				key, value, strings.Join(report.ValidFormats(), ", "))
		}
		return strings.ToLower(value), nil
	case "level":
		if !slices.Contains(appconfig.ValidLogLevels(), strings.ToLower(value)) {
			return nil, fmt.Errorf("invalid value for %s: %s\nValid options: %s",
				key, value, strings.Join(appconfig.ValidLogLevels(), ", "))
		}
		return strings.ToLower(value), nil
	case "bool":
		if value != "true" && value != "false" {
			return nil, fmt.Errorf("invalid value for %s: expected true or false", key)
		}
		return value == "true", nil
	case "int", "plays":
		intVal, err := strconv.Atoi(value)
		if err != nil {
			return nil, fmt.Errorf("invalid value for %s: expected integer", key)
		}
		if keyType == "plays" && intVal < 1 {
			return nil, fmt.Errorf("invalid value for %s: must be at least 1", key)
		}
		if intVal < 0 {
			return nil, fmt.Errorf("invalid value for %s: must be non-negative", key)
		}
		return intVal, nil
	default:
		return value, nil
	}
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	key := args[0]
	typedValue, err := parseValue(key, args[1])
	if err != nil {
		return err
	}

	configFile := activeConfigFile()
	if err := ensureDir(configFile); err != nil {
		return err
	}

	viper.Set(key, typedValue)
	if err := viper.WriteConfigAs(configFile); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Set %s = %v\n", key, typedValue)
	fmt.Fprintf(out, "Config saved to %s\n", configFile)
	return nil
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	configFile := appconfig.ConfigFile()
	if local, _ := cmd.Flags().GetBool("local"); local {
		configFile = localConfigFile
	}

	// Check if config file already exists
	if _, err := os.Stat(configFile); err == nil {
		return fmt.Errorf("config file already exists at %s\nUse 'greatesthits config set' to modify values", configFile)
	}

	if err := ensureDir(configFile); err != nil {
		return err
	}

	if err := os.WriteFile(configFile, []byte(defaultConfigYAML()), 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Created config file at %s\n", configFile)
	fmt.Fprintln(out, "Edit this file to customize the generated playlist.")
	return nil
}

// defaultConfigYAML renders the default configuration with comments.
func defaultConfigYAML() string {
	d := appconfig.Default()

	var files strings.Builder
	for _, f := range d.Sources.Files {
		fmt.Fprintf(&files, "    - %s\n", f)
	}

	return fmt.Sprintf(`# greatesthits configuration
# See: https://github.com/ChadFarrow/chadf-musicl-playlists

# Source musicL playlists
sources:
  # Directory the file names and patterns are resolved against
  dir: %s
  # Hand-maintained playlists, read in this order
  files:
%s  # Optional glob patterns matched against file names in dir,
  # e.g. "*-music-playlist.xml". The output file is never read.
  patterns: []

# Generated playlist
output:
  path: %s

# Songs must appear at least this many times to be included
min_plays: %d

# Channel metadata of the generated playlist
channel:
  author: %q
  title: %q
  description: %q
  link: %q
  # podcast:txt purpose="source-feed"; defaults to link when empty
  source_feed: ""
  language: %q
  image_url: %q
  medium: %q

# Statistics printed after each run
report:
  # text, json or yaml
  format: %s
  # Color output on terminals
  color: %t

# Structured logging
logging:
  # debug, info, warn or error
  level: %s
  # Log file path; empty logs to stderr
  file: ""
  # Rotate the log file after this many megabytes
  max_size_mb: %d
  # Rotated log files to keep
  max_backups: %d

# Prometheus textfile export for node_exporter; empty disables it
metrics:
  textfile: ""
`,
		d.Sources.Dir, files.String(), d.Output.Path, d.MinPlays,
		d.Channel.Author, d.Channel.Title, d.Channel.Description, d.Channel.Link,
		d.Channel.Language, d.Channel.ImageURL, d.Channel.Medium,
		d.Report.Format, d.Report.Color,
		d.Logging.Level, d.Logging.MaxSizeMB, d.Logging.MaxBackups,
	)
}

func runConfigPath(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	if viper.ConfigFileUsed() != "" {
		fmt.Fprintf(out, "Active config: %s\n", viper.ConfigFileUsed())
	} else {
		fmt.Fprintf(out, "Default path: %s (not created)\n", appconfig.ConfigFile())
	}

	// Also show config search paths
	fmt.Fprintln(out, "\nSearch paths:")
	fmt.Fprintf(out, "  1. ./%s (current directory)\n", localConfigFile)
	fmt.Fprintf(out, "  2. %s\n", appconfig.ConfigFile())
	fmt.Fprintln(out, "\nEnvironment variables: GREATESTHITS_* (e.g., GREATESTHITS_MIN_PLAYS, GREATESTHITS_OUTPUT_PATH)")
	return nil
}

func runConfigEdit(cmd *cobra.Command, args []string) error {
	configFile := activeConfigFile()

	// Check if config file exists, if not create it
	if _, err := os.Stat(configFile); os.IsNotExist(err) {
		fmt.Fprintln(cmd.OutOrStdout(), "Config file doesn't exist, creating with defaults...")
		if err := ensureDir(configFile); err != nil {
			return err
		}
		if err := os.WriteFile(configFile, []byte(defaultConfigYAML()), 0644); err != nil {
			return fmt.Errorf("failed to write config file: %w", err)
		}
	}

	editor := findEditor()
	if editor == "" {
		return fmt.Errorf("no editor found. Set $EDITOR environment variable")
	}

	editorCmd := execCommand(editor, configFile)
	editorCmd.Stdin = os.Stdin
	editorCmd.Stdout = os.Stdout
	editorCmd.Stderr = os.Stderr

	if err := editorCmd.Run(); err != nil {
		return fmt.Errorf("editor exited with error: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Config file saved: %s\n", configFile)
	return nil
}

func findEditor() string {
	for _, env := range []string{"EDITOR", "VISUAL"} {
		if editor := os.Getenv(env); editor != "" {
			return editor
		}
	}
	for _, e := range []string{"vim", "nano", "vi"} {
		if _, err := execLookPath(e); err == nil {
			return e
		}
	}
	return ""
}

// defaultValues returns the default of every settable key.
func defaultValues() map[string]any {
	d := appconfig.Default()
	return map[string]any{
		"sources.dir":         d.Sources.Dir,
		"output.path":         d.Output.Path,
		"min_plays":           d.MinPlays,
		"channel.author":      d.Channel.Author,
		"channel.title":       d.Channel.Title,
		"channel.description": d.Channel.Description,
		"channel.link":        d.Channel.Link,
		"channel.source_feed": d.Channel.SourceFeed,
		"channel.language":    d.Channel.Language,
		"channel.image_url":   d.Channel.ImageURL,
		"channel.medium":      d.Channel.Medium,
		"report.format":       d.Report.Format,
		"report.color":        d.Report.Color,
		"logging.level":       d.Logging.Level,
		"logging.file":        d.Logging.File,
		"logging.max_size_mb": d.Logging.MaxSizeMB,
		"logging.max_backups": d.Logging.MaxBackups,
		"metrics.textfile":    d.Metrics.Textfile,
	}
}

func runConfigReset(cmd *cobra.Command, args []string) error {
	defaults := defaultValues()
	out := cmd.OutOrStdout()

	if len(args) == 0 {
		for key, value := range defaults {
			viper.Set(key, value)
		}
		viper.Set("sources.files", appconfig.Default().Sources.Files)
		fmt.Fprintln(out, "Reset all configuration to defaults.")
	} else {
		key := args[0]
		value, ok := defaults[key]
		if !ok {
			return fmt.Errorf("unknown configuration key: %s\nRun 'greatesthits config set --help' to see valid keys", key)
		}
		viper.Set(key, value)
		fmt.Fprintf(out, "Reset %s to default: %v\n", key, value)
	}

	configFile := activeConfigFile()
	if err := ensureDir(configFile); err != nil {
		return err
	}
	if err := viper.WriteConfigAs(configFile); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	fmt.Fprintf(out, "Config saved to %s\n", configFile)
	return nil
}

// ensureDir creates the directory that will hold file.
func ensureDir(file string) error {
	if err := os.MkdirAll(filepath.Dir(file), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	return nil
}
