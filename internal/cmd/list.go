package cmd

import (
	"fmt"

	"github.com/ChadFarrow/greatesthits/internal/errors"
	"github.com/ChadFarrow/greatesthits/internal/playlist"
	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:   "list <file>",
	Short: "List the remote items of a playlist",
	Long: `Print every podcast:remoteItem of one playlist in document order.

With --count, print each distinct (feedGuid, itemGuid) pair once with the
number of times it occurs, most played first.`,
	Args: cobra.ExactArgs(1),
	RunE: runList,
}

func init() {
	rootCmd.AddCommand(listCmd)
	listCmd.Flags().Bool("count", false, "group repeated items and show their counts")
}

func runList(cmd *cobra.Command, args []string) error {
	pairs, err := playlist.ReadFile(args[0])
	if err != nil {
		// The file is the whole job here, so a source error is not skippable.
		var srcErr *errors.SourceError
		if errors.As(err, &srcErr) {
			return fmt.Errorf("failed to list %s: %w", args[0], srcErr.Err)
		}
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s: %d songs\n", args[0], len(pairs))

	if counted, _ := cmd.Flags().GetBool("count"); counted {
		groups := playlist.Group(playlist.Count(pairs), 1)
		for _, level := range groups.Levels() {
			for _, p := range groups[level] {
				fmt.Fprintf(out, "%4dx  feedGuid=%s itemGuid=%s\n", level, p.FeedGUID, p.ItemGUID)
			}
		}
		return nil
	}

	for i, p := range pairs {
		fmt.Fprintf(out, "%4d. feedGuid=%s itemGuid=%s\n", i+1, p.FeedGUID, p.ItemGUID)
	}
	return nil
}
