package cmd

import (
	"context"
	"os"
	"strings"

	"github.com/ChadFarrow/greatesthits/internal/cmd/config"
	appconfig "github.com/ChadFarrow/greatesthits/internal/config"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// localConfigFile is picked up from the working directory before the user
// config directory is searched.
const localConfigFile = "greatesthits.yaml"

var rootCmd = &cobra.Command{
	Use:   "greatesthits",
	Short: "Generate the Greatest Hits musicL playlist",
	Long: `Greatesthits reads a set of musicL playlists, counts how often every
podcast:remoteItem (feedGuid, itemGuid) pair appears across them, and writes
the songs played at least min_plays times to a new playlist, grouped by play
count from most to least played.

Running without a subcommand is the same as 'greatesthits generate'.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	Args:          cobra.NoArgs,
	RunE:          runGenerate,
}

// Execute runs the root command
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

// configReadErr holds a config file read failure other than "not found".
var configReadErr error

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	flags := rootCmd.PersistentFlags()
	flags.StringP("config", "c", "", "config file (default is ./greatesthits.yaml, then $HOME/.config/greatesthits/config.yaml)")
	flags.Int("min-plays", 0, "minimum play count for a song to be included (default 2)")
	flags.StringP("output", "o", "", "output playlist path")
	flags.String("dir", "", "directory holding the source playlists")
	flags.String("format", "", "statistics format: text, json or yaml")
	flags.String("log-level", "", "log level: debug, info, warn or error")

	addRunFlags(rootCmd)
	config.Register(rootCmd)
}

// flagKeys maps persistent flags to the config keys they override.
var flagKeys = map[string]string{
	"config":    "config",
	"min-plays": "min_plays",
	"output":    "output.path",
	"dir":       "sources.dir",
	"format":    "report.format",
	"log-level": "logging.level",
}

func initConfig() {
	// Set defaults first so they're available even without a config file
	appconfig.SetDefaults()

	// Bind here rather than in init so tests can viper.Reset between runs.
	for flag, key := range flagKeys {
		_ = viper.BindPFlag(key, rootCmd.PersistentFlags().Lookup(flag))
	}

	configReadErr = nil
	if cfgFile := viper.GetString("config"); cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else if _, err := os.Stat(localConfigFile); err == nil {
		viper.SetConfigFile(localConfigFile)
	} else {
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(appconfig.ConfigDir())
	}

	viper.SetEnvPrefix("GREATESTHITS")
	// Replace dots with underscores for nested keys in env vars
	// e.g., GREATESTHITS_OUTPUT_PATH for output.path
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		if _, notFound := err.(viper.ConfigFileNotFoundError); !notFound {
			configReadErr = err
		}
	}
}
