package cmd

import (
	"github.com/spf13/cobra"
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate the Greatest Hits playlist",
	Long: `Read every configured source playlist, count remote item plays and write
the Greatest Hits playlist.

Missing or malformed source playlists are reported and skipped. When no songs
are found at all, nothing is written and the command still succeeds.`,
	Args: cobra.NoArgs,
	RunE: runGenerate,
}

func init() {
	rootCmd.AddCommand(generateCmd)
	addRunFlags(generateCmd)
}

func addRunFlags(cmd *cobra.Command) {
	cmd.Flags().Bool("dry-run", false, "print statistics without writing the playlist")
}

func runGenerate(cmd *cobra.Command, args []string) error {
	dryRun, _ := cmd.Flags().GetBool("dry-run")
	return runPipeline(cmd, runOptions{dryRun: dryRun})
}
