package cmd

import (
	"github.com/spf13/cobra"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show play count statistics without writing the playlist",
	Long: `Read the source playlists and print play count statistics only.

Progress lines go to stderr, so stdout can be piped, e.g.:
  greatesthits stats --format json | jq .filtered_songs`,
	Args: cobra.NoArgs,
	RunE: runStats,
}

func init() {
	rootCmd.AddCommand(statsCmd)
}

func runStats(cmd *cobra.Command, args []string) error {
	return runPipeline(cmd, runOptions{dryRun: true, quietProgress: true})
}
