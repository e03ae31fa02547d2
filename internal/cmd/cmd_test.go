package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ChadFarrow/greatesthits/internal/errors"
	"github.com/ChadFarrow/greatesthits/internal/report"
	"github.com/ChadFarrow/greatesthits/internal/testutil"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/require"
)

// executeCommand runs the root command with args and returns captured
// stdout and stderr.
func executeCommand(t *testing.T, args ...string) (stdout, stderr string, err error) {
	t.Helper()

	viper.Reset()
	resetFlags(rootCmd)
	t.Cleanup(viper.Reset)

	var outBuf, errBuf bytes.Buffer
	rootCmd.SetOut(&outBuf)
	rootCmd.SetErr(&errBuf)
	if args == nil {
		// cobra falls back to os.Args for nil
		args = []string{}
	}
	rootCmd.SetArgs(args)
	err = rootCmd.ExecuteContext(context.Background())
	return outBuf.String(), errBuf.String(), err
}

// resetFlags restores every flag of cmd and its children to its default so
// values do not leak between runs of the shared command tree.
func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, c := range cmd.Commands() {
		resetFlags(c)
	}
}

// setupProject creates a docs directory with three source playlists and
// makes it the working directory.
func setupProject(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(root, "xdg"))
	testutil.Chdir(t, root)

	docs := filepath.Join(root, "docs")
	testutil.WritePlaylist(t, docs, "one.xml",
		testutil.Item("feedA", "itemA"), testutil.Item("feedB", "itemB"), testutil.Item("solo", "1"))
	testutil.WritePlaylist(t, docs, "two.xml",
		testutil.Item("feedA", "itemA"), testutil.Item("feedB", "itemB"))
	testutil.WritePlaylist(t, docs, "three.xml",
		testutil.Item("feedB", "itemB"))

	testutil.WriteFile(t, root, localConfigFile, `sources:
  dir: docs
  files:
    - one.xml
    - two.xml
    - three.xml
    - missing.xml
output:
  path: docs/hits.xml
`)
	return root
}

func TestRootCommand(t *testing.T) {
	require.Equal(t, "greatesthits", rootCmd.Use)

	cmdMap := make(map[string]bool)
	for _, c := range rootCmd.Commands() {
		cmdMap[c.Name()] = true
	}
	for _, expected := range []string{"generate", "stats", "list", "config"} {
		require.True(t, cmdMap[expected], "expected subcommand %q", expected)
	}
}

func TestGenerate(t *testing.T) {
	for _, args := range [][]string{nil, {"generate"}} {
		t.Run(strings.Join(append([]string{"root"}, args...), " "), func(t *testing.T) {
			root := setupProject(t)

			stdout, _, err := executeCommand(t, args...)
			require.NoError(t, err)
			require.Contains(t, stdout, "Processing 4 musicL playlists...")
			require.Contains(t, stdout, "✗ missing.xml: File not found")
			require.Contains(t, stdout, "Songs with 2+ plays: 2")
			require.Contains(t, stdout, "Greatest Hits playlist generation complete!")

			data, err := os.ReadFile(filepath.Join(root, "docs", "hits.xml"))
			require.NoError(t, err)
			require.Contains(t, string(data), `<podcast:txt purpose="playcount">3 plays</podcast:txt>`)
			require.NotContains(t, string(data), `feedGuid="solo"`)
		})
	}
}

func TestGenerate_FlagsOverrideConfig(t *testing.T) {
	root := setupProject(t)

	_, _, err := executeCommand(t, "generate", "--min-plays", "3", "--output", "out/top.xml")
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(root, "out", "top.xml"))
	require.NoError(t, err)
	require.Contains(t, string(data), `feedGuid="feedB"`)
	require.NotContains(t, string(data), `feedGuid="feedA"`)

	_, statErr := os.Stat(filepath.Join(root, "docs", "hits.xml"))
	require.True(t, os.IsNotExist(statErr), "configured output must not be written")
}

func TestGenerate_EnvOverridesConfig(t *testing.T) {
	root := setupProject(t)
	t.Setenv("GREATESTHITS_OUTPUT_PATH", "env.xml")

	_, _, err := executeCommand(t)
	require.NoError(t, err)
	require.FileExists(t, filepath.Join(root, "env.xml"))
}

func TestGenerate_DryRun(t *testing.T) {
	root := setupProject(t)

	stdout, _, err := executeCommand(t, "generate", "--dry-run")
	require.NoError(t, err)
	require.Contains(t, stdout, "dry run")
	require.NoFileExists(t, filepath.Join(root, "docs", "hits.xml"))
}

func TestGenerate_NoSongsSucceeds(t *testing.T) {
	root := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(root, "xdg"))
	testutil.Chdir(t, root)

	stdout, _, err := executeCommand(t, "--dir", "empty")
	require.NoError(t, err)
	require.Contains(t, stdout, "No songs found. Check that playlist files exist in empty directory.")
	require.NoFileExists(t, filepath.Join(root, "docs", "Greatest-Hits-music-playlist.xml"))
}

func TestGenerate_OutputFailure(t *testing.T) {
	root := setupProject(t)
	blocker := testutil.WriteFile(t, root, "blocker", "file")

	_, _, err := executeCommand(t, "--output", filepath.Join(blocker, "hits.xml"))
	require.Error(t, err)
	require.True(t, errors.Is(err, errors.ErrOutputWrite))
	require.True(t, errors.IsFatal(err))
}

func TestGenerate_InvalidConfig(t *testing.T) {
	setupProject(t)

	_, _, err := executeCommand(t, "--min-plays", "0")
	require.Error(t, err)
	require.Contains(t, err.Error(), "min_plays")
}

func TestGenerate_UnreadableConfigFile(t *testing.T) {
	root := setupProject(t)
	bad := testutil.WriteFile(t, root, "bad.yaml", "sources: [unclosed")

	_, _, err := executeCommand(t, "--config", bad)
	require.Error(t, err)
	require.Contains(t, err.Error(), "failed to read config file")
}

func TestStats_JSON(t *testing.T) {
	root := setupProject(t)

	stdout, stderr, err := executeCommand(t, "stats", "--format", "json")
	require.NoError(t, err)
	require.Contains(t, stderr, "Processing 4 musicL playlists...")

	var stats report.Stats
	require.NoError(t, json.Unmarshal([]byte(stdout), &stats), stdout)
	require.Equal(t, 4, stats.SourcesTotal)
	require.Equal(t, 1, stats.SourcesFailed)
	require.Equal(t, 6, stats.TotalReferences)
	require.Equal(t, 3, stats.UniqueSongs)
	require.Equal(t, 2, stats.FilteredSongs)
	require.Equal(t, 3, stats.MaxCount)

	require.NoFileExists(t, filepath.Join(root, "docs", "hits.xml"))
}

func TestList(t *testing.T) {
	root := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(root, "xdg"))
	path := testutil.WritePlaylist(t, root, "mix.xml",
		testutil.Item("f1", "i1"), testutil.Item("f2", "i2"), testutil.Item("f1", "i1"))

	t.Run("items", func(t *testing.T) {
		stdout, _, err := executeCommand(t, "list", path)
		require.NoError(t, err)
		require.Contains(t, stdout, path+": 3 songs")
		require.Contains(t, stdout, "   1. feedGuid=f1 itemGuid=i1")
		require.Contains(t, stdout, "   3. feedGuid=f1 itemGuid=i1")
	})

	t.Run("counted", func(t *testing.T) {
		stdout, _, err := executeCommand(t, "list", "--count", path)
		require.NoError(t, err)
		lines := strings.Split(strings.TrimSpace(stdout), "\n")
		require.Equal(t, []string{
			path + ": 3 songs",
			"   2x  feedGuid=f1 itemGuid=i1",
			"   1x  feedGuid=f2 itemGuid=i2",
		}, lines)
	})

	t.Run("missing file", func(t *testing.T) {
		_, _, err := executeCommand(t, "list", filepath.Join(root, "nope.xml"))
		require.Error(t, err)
		require.True(t, errors.Is(err, errors.ErrSourceNotFound))
		require.False(t, errors.IsSourceError(err))
		require.True(t, errors.IsFatal(err), "a failed list must exit non-zero")
	})

	t.Run("malformed file", func(t *testing.T) {
		path := testutil.WriteFile(t, root, "broken.xml", "<rss><channel></rss>")
		_, _, err := executeCommand(t, "list", path)
		require.Error(t, err)
		require.True(t, errors.Is(err, errors.ErrSourceMalformed))
		require.True(t, errors.IsFatal(err))
	})
}
