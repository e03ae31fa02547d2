package pipeline

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/ChadFarrow/greatesthits/internal/config"
	"github.com/ChadFarrow/greatesthits/internal/errors"
	"github.com/ChadFarrow/greatesthits/internal/logging"
	"github.com/ChadFarrow/greatesthits/internal/playlist"
	"github.com/ChadFarrow/greatesthits/internal/report"
	"github.com/ChadFarrow/greatesthits/internal/testutil"
	"github.com/google/go-cmp/cmp"
	"github.com/jonboulle/clockwork"
)

const testID = "11111111-2222-4333-8444-555555555555"

func testConfig(t *testing.T, files ...string) *config.Config {
	t.Helper()
	dir := t.TempDir()
	cfg := config.Default()
	cfg.Sources.Dir = dir
	cfg.Sources.Files = files
	cfg.Output.Path = filepath.Join(dir, "Greatest-Hits-music-playlist.xml")
	return cfg
}

func testOptions(out *bytes.Buffer) []Option {
	return []Option{
		WithConsole(report.NewConsole(report.ConsoleOptions{Out: out})),
		WithClock(clockwork.NewFakeClockAt(time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC))),
		WithIDFunc(func() string { return testID }),
	}
}

func TestRun_CountsAcrossSources(t *testing.T) {
	cfg := testConfig(t, "one.xml", "two.xml", "three.xml")
	dir := cfg.Sources.Dir
	testutil.WritePlaylist(t, dir, "one.xml",
		testutil.Item("feedA", "itemA"), testutil.Item("feedB", "itemB"), testutil.Item("solo", "1"))
	testutil.WritePlaylist(t, dir, "two.xml",
		testutil.Item("feedA", "itemA"), testutil.Item("feedB", "itemB"), testutil.Item("solo", "2"))
	testutil.WritePlaylist(t, dir, "three.xml",
		testutil.Item("feedB", "itemB"), testutil.Item("solo", "3"))

	var out bytes.Buffer
	res, err := Run(context.Background(), cfg, testOptions(&out)...)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	want := playlist.FrequencyGroups{
		3: {{FeedGUID: "feedB", ItemGUID: "itemB"}},
		2: {{FeedGUID: "feedA", ItemGUID: "itemA"}},
	}
	if diff := cmp.Diff(want, res.Groups); diff != "" {
		t.Errorf("Groups mismatch (-want +got):\n%s", diff)
	}
	if !res.Written {
		t.Error("Written = false, want true")
	}
	if res.ID != testID {
		t.Errorf("ID = %q, want %q", res.ID, testID)
	}

	data, err := os.ReadFile(cfg.Output.Path)
	if err != nil {
		t.Fatalf("output not written: %v", err)
	}
	body := string(data)
	for _, s := range []string{
		`<podcast:txt purpose="playcount">3 plays</podcast:txt>`,
		`<podcast:remoteItem feedGuid="feedB" itemGuid="itemB"></podcast:remoteItem>`,
		`<podcast:guid>` + testID + `</podcast:guid>`,
		`<pubDate>Tue, 02 Jan 2024 03:04:05 +0000</pubDate>`,
	} {
		if !strings.Contains(body, s) {
			t.Errorf("output missing %q", s)
		}
	}
	if strings.Contains(body, `feedGuid="solo"`) {
		t.Error("singleton pairs must not be written")
	}
	if strings.Index(body, `feedGuid="feedB"`) > strings.Index(body, `feedGuid="feedA"`) {
		t.Error("higher play counts must come first")
	}

	console := out.String()
	for _, s := range []string{
		"Processing 3 musicL playlists...",
		"✓ one.xml: 3 songs",
		"✓ three.xml: 2 songs",
		"Songs with 2+ plays: 2",
		"Generated: " + cfg.Output.Path,
		"Greatest Hits playlist generation complete!",
	} {
		if !strings.Contains(console, s) {
			t.Errorf("console missing %q:\n%s", s, console)
		}
	}
}

func TestRun_MissingSourceContinues(t *testing.T) {
	cfg := testConfig(t, "present.xml", "missing.xml", "other.xml")
	testutil.WritePlaylist(t, cfg.Sources.Dir, "present.xml", testutil.Item("f", "i"))
	testutil.WritePlaylist(t, cfg.Sources.Dir, "other.xml", testutil.Item("f", "i"))

	var out bytes.Buffer
	res, err := Run(context.Background(), cfg, testOptions(&out)...)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if res.Stats.SourcesFailed != 1 || res.Stats.SourcesRead != 2 {
		t.Errorf("sources read/failed = %d/%d, want 2/1", res.Stats.SourcesRead, res.Stats.SourcesFailed)
	}
	if !errors.Is(res.Sources[1].Err, errors.ErrSourceNotFound) {
		t.Errorf("Sources[1].Err = %v, want ErrSourceNotFound", res.Sources[1].Err)
	}
	if got := res.Table.Count(playlist.Pair{FeedGUID: "f", ItemGUID: "i"}); got != 2 {
		t.Errorf("Count = %d, want 2", got)
	}
	if !strings.Contains(out.String(), "✗ missing.xml: File not found") {
		t.Errorf("missing source not reported:\n%s", out.String())
	}
}

func TestRun_MalformedSourceContinues(t *testing.T) {
	cfg := testConfig(t, "bad.xml", "good.xml")
	testutil.WriteFile(t, cfg.Sources.Dir, "bad.xml", "<rss><channel>")
	testutil.WritePlaylist(t, cfg.Sources.Dir, "good.xml", testutil.Item("f", "i"), testutil.Item("f", "i"))

	var out bytes.Buffer
	res, err := Run(context.Background(), cfg, testOptions(&out)...)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if !errors.Is(res.Sources[0].Err, errors.ErrSourceMalformed) {
		t.Errorf("Sources[0].Err = %v, want ErrSourceMalformed", res.Sources[0].Err)
	}
	if res.Groups.Len() != 1 {
		t.Errorf("Groups.Len() = %d, want 1", res.Groups.Len())
	}
	if !strings.Contains(out.String(), "✗ Error parsing bad.xml") {
		t.Errorf("malformed source not reported:\n%s", out.String())
	}
}

func TestRun_NoSongs(t *testing.T) {
	cfg := testConfig(t, "empty.xml", "missing.xml")
	testutil.WritePlaylist(t, cfg.Sources.Dir, "empty.xml")

	var out bytes.Buffer
	res, err := Run(context.Background(), cfg, testOptions(&out)...)
	if !errors.Is(err, errors.ErrNoSongs) {
		t.Fatalf("Run() error = %v, want ErrNoSongs", err)
	}
	if errors.IsFatal(err) {
		t.Error("ErrNoSongs must not be fatal")
	}
	if res == nil || len(res.Sources) != 2 {
		t.Fatalf("partial result missing sources: %+v", res)
	}
	if _, statErr := os.Stat(cfg.Output.Path); !os.IsNotExist(statErr) {
		t.Errorf("output must not be written, stat error = %v", statErr)
	}
	if !strings.Contains(out.String(), "No songs found") {
		t.Errorf("no-songs diagnostic missing:\n%s", out.String())
	}
}

func TestRun_NothingAboveThresholdStillWrites(t *testing.T) {
	cfg := testConfig(t, "one.xml")
	testutil.WritePlaylist(t, cfg.Sources.Dir, "one.xml", testutil.Item("a", "1"), testutil.Item("b", "2"))

	var out bytes.Buffer
	res, err := Run(context.Background(), cfg, testOptions(&out)...)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if res.Groups.Len() != 0 {
		t.Errorf("Groups.Len() = %d, want 0", res.Groups.Len())
	}

	data, err := os.ReadFile(cfg.Output.Path)
	if err != nil {
		t.Fatalf("output not written: %v", err)
	}
	if strings.Contains(string(data), "remoteItem") {
		t.Errorf("empty playlist contains remote items:\n%s", data)
	}
}

func TestRun_DryRun(t *testing.T) {
	cfg := testConfig(t, "one.xml")
	testutil.WritePlaylist(t, cfg.Sources.Dir, "one.xml", testutil.Item("a", "1"), testutil.Item("a", "1"))
	cfg.Metrics.Textfile = filepath.Join(cfg.Sources.Dir, "metrics.prom")

	var out bytes.Buffer
	res, err := Run(context.Background(), cfg, append(testOptions(&out), WithDryRun(true))...)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if res.Written {
		t.Error("Written = true on dry run")
	}
	if res.Stats.FilteredSongs != 1 {
		t.Errorf("FilteredSongs = %d, want 1", res.Stats.FilteredSongs)
	}
	for _, path := range []string{cfg.Output.Path, cfg.Metrics.Textfile} {
		if _, err := os.Stat(path); !os.IsNotExist(err) {
			t.Errorf("%s must not exist after a dry run", path)
		}
	}
}

func TestRun_PatternsExcludeOutput(t *testing.T) {
	cfg := testConfig(t)
	cfg.Sources.Patterns = []string{"*-music-playlist.xml"}
	dir := cfg.Sources.Dir
	testutil.WritePlaylist(t, dir, "a-music-playlist.xml", testutil.Item("f", "i"))
	testutil.WritePlaylist(t, dir, "b-music-playlist.xml", testutil.Item("f", "i"))
	// A previous output must not feed back into the counts.
	testutil.WritePlaylist(t, dir, "Greatest-Hits-music-playlist.xml",
		testutil.Item("f", "i"), testutil.Item("f", "i"), testutil.Item("f", "i"))

	var out bytes.Buffer
	res, err := Run(context.Background(), cfg, testOptions(&out)...)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if len(res.Sources) != 2 {
		t.Errorf("read %d sources, want 2", len(res.Sources))
	}
	if got := res.Table.Count(playlist.Pair{FeedGUID: "f", ItemGUID: "i"}); got != 2 {
		t.Errorf("Count = %d, want 2", got)
	}
}

func TestRun_OutputFailureIsFatal(t *testing.T) {
	cfg := testConfig(t, "one.xml")
	testutil.WritePlaylist(t, cfg.Sources.Dir, "one.xml", testutil.Item("a", "1"))
	blocker := testutil.WriteFile(t, cfg.Sources.Dir, "blocker", "not a directory")
	cfg.Output.Path = filepath.Join(blocker, "out.xml")

	var out bytes.Buffer
	_, err := Run(context.Background(), cfg, testOptions(&out)...)
	if err == nil {
		t.Fatal("Run() error = nil, want output error")
	}
	if !errors.Is(err, errors.ErrOutputWrite) {
		t.Errorf("error = %v, want ErrOutputWrite", err)
	}
	if !errors.IsFatal(err) {
		t.Error("output errors must be fatal")
	}
}

func TestRun_WritesMetrics(t *testing.T) {
	cfg := testConfig(t, "one.xml")
	testutil.WritePlaylist(t, cfg.Sources.Dir, "one.xml", testutil.Item("a", "1"), testutil.Item("a", "1"))
	cfg.Metrics.Textfile = filepath.Join(cfg.Sources.Dir, "metrics", "greatesthits.prom")

	var out bytes.Buffer
	if _, err := Run(context.Background(), cfg, testOptions(&out)...); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	data, err := os.ReadFile(cfg.Metrics.Textfile)
	if err != nil {
		t.Fatalf("metrics textfile not written: %v", err)
	}
	if !strings.Contains(string(data), "greatesthits_filtered_pairs 1") {
		t.Errorf("unexpected metrics:\n%s", data)
	}
}

func TestRun_LogsWithRunID(t *testing.T) {
	cfg := testConfig(t, "one.xml")
	testutil.WritePlaylist(t, cfg.Sources.Dir, "one.xml", testutil.Item("a", "1"))

	var out, logs bytes.Buffer
	opts := append(testOptions(&out), WithLogger(logging.NewWithWriter(&logs, "debug")))
	if _, err := Run(context.Background(), cfg, opts...); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if !strings.Contains(logs.String(), `"run_id":"`+testID+`"`) {
		t.Errorf("logs missing run_id:\n%s", logs.String())
	}
	if !strings.Contains(logs.String(), `"msg":"playlist written"`) {
		t.Errorf("logs missing write entry:\n%s", logs.String())
	}
}

func TestRun_CanceledContext(t *testing.T) {
	cfg := testConfig(t, "one.xml")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var out bytes.Buffer
	if _, err := Run(ctx, cfg, testOptions(&out)...); !errors.Is(err, context.Canceled) {
		t.Errorf("Run() error = %v, want context.Canceled", err)
	}
}

func TestRun_NilConfig(t *testing.T) {
	if _, err := Run(context.Background(), nil); !errors.Is(err, errors.ErrInvalidInput) {
		t.Errorf("Run(nil) error = %v, want ErrInvalidInput", err)
	}
}

func TestRun_AbsoluteOutputWithRelativeDir(t *testing.T) {
	root := t.TempDir()
	testutil.Chdir(t, root)
	testutil.WritePlaylist(t, "docs", "a-music-playlist.xml", testutil.Item("f", "i"))
	testutil.WritePlaylist(t, "docs", "b-music-playlist.xml", testutil.Item("f", "i"))

	cfg := config.Default()
	cfg.Sources.Dir = "docs"
	cfg.Sources.Files = nil
	cfg.Sources.Patterns = []string{"*-music-playlist.xml"}
	cfg.Output.Path = filepath.Join(root, "docs", "Greatest-Hits-music-playlist.xml")

	for run := 1; run <= 2; run++ {
		var out bytes.Buffer
		res, err := Run(context.Background(), cfg, testOptions(&out)...)
		if err != nil {
			t.Fatalf("run %d: Run() error = %v", run, err)
		}
		if len(res.Sources) != 2 {
			t.Errorf("run %d: read %d sources, want 2", run, len(res.Sources))
		}
		if got := res.Table.Count(playlist.Pair{FeedGUID: "f", ItemGUID: "i"}); got != 2 {
			t.Errorf("run %d: Count = %d, want 2", run, got)
		}
	}
}
