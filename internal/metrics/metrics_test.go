package metrics

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/ChadFarrow/greatesthits/internal/report"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func sampleStats() report.Stats {
	return report.Stats{
		SourcesTotal:    3,
		SourcesRead:     2,
		SourcesFailed:   1,
		TotalReferences: 40,
		UniqueSongs:     30,
		MinPlays:        2,
		FilteredSongs:   5,
		Distribution: []report.Bucket{
			{Label: "10+", Songs: 1},
			{Label: "2", Songs: 4},
		},
	}
}

func TestCollector_Record(t *testing.T) {
	c := NewCollector()
	c.Record(sampleStats(), time.Unix(1700000000, 0))

	if got := testutil.ToFloat64(c.references); got != 40 {
		t.Errorf("references_total = %v, want 40", got)
	}
	if got := testutil.ToFloat64(c.sources.WithLabelValues("failed")); got != 1 {
		t.Errorf("sources{status=failed} = %v, want 1", got)
	}
	if got := testutil.ToFloat64(c.playCounts.WithLabelValues("2")); got != 4 {
		t.Errorf("songs_by_plays{range=2} = %v, want 4", got)
	}

	expected := `
# HELP greatesthits_filtered_pairs Pairs written to the Greatest Hits playlist.
# TYPE greatesthits_filtered_pairs gauge
greatesthits_filtered_pairs 5
`
	if err := testutil.GatherAndCompare(c.Gatherer(), strings.NewReader(expected), "greatesthits_filtered_pairs"); err != nil {
		t.Errorf("GatherAndCompare: %v", err)
	}
}

func TestCollector_WriteTextfile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "textfile", "greatesthits.prom")

	c := NewCollector()
	c.Record(sampleStats(), time.Unix(1700000000, 0))
	if err := c.WriteTextfile(path); err != nil {
		t.Fatalf("WriteTextfile() error = %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read textfile: %v", err)
	}
	for _, want := range []string{
		"greatesthits_references_total 40",
		"greatesthits_unique_pairs 30",
		`greatesthits_sources{status="read"} 2`,
		`greatesthits_songs_by_plays{range="10+"} 1`,
		"greatesthits_last_run_timestamp_seconds 1.7e+09",
	} {
		if !strings.Contains(string(data), want) {
			t.Errorf("textfile missing %q:\n%s", want, data)
		}
	}
}
