// Package metrics exports the statistics of a generator run in the
// Prometheus text format, for pickup by a node_exporter textfile collector.
package metrics

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/ChadFarrow/greatesthits/internal/report"
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "greatesthits"

// Collector holds the gauges of one run on a private registry.
type Collector struct {
	registry *prometheus.Registry

	references prometheus.Gauge
	unique     prometheus.Gauge
	filtered   prometheus.Gauge
	minPlays   prometheus.Gauge
	sources    *prometheus.GaugeVec
	playCounts *prometheus.GaugeVec
	lastRun    prometheus.Gauge
}

// NewCollector registers the run gauges on a fresh registry.
func NewCollector() *Collector {
	c := &Collector{
		registry: prometheus.NewRegistry(),
		references: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "references_total",
			Help:      "Remote item references found across all source playlists.",
		}),
		unique: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "unique_pairs",
			Help:      "Distinct (feedGuid, itemGuid) pairs found.",
		}),
		filtered: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "filtered_pairs",
			Help:      "Pairs written to the Greatest Hits playlist.",
		}),
		minPlays: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "min_plays",
			Help:      "Play count threshold of the run.",
		}),
		sources: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "sources",
			Help:      "Source playlists by read status.",
		}, []string{"status"}),
		playCounts: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "songs_by_plays",
			Help:      "Songs in each play-count range.",
		}, []string{"range"}),
		lastRun: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_run_timestamp_seconds",
			Help:      "Unix time the statistics were recorded.",
		}),
	}

	c.registry.MustRegister(c.references, c.unique, c.filtered, c.minPlays, c.sources, c.playCounts, c.lastRun)
	return c
}

// Record sets every gauge from s.
func (c *Collector) Record(s report.Stats, at time.Time) {
	c.references.Set(float64(s.TotalReferences))
	c.unique.Set(float64(s.UniqueSongs))
	c.filtered.Set(float64(s.FilteredSongs))
	c.minPlays.Set(float64(s.MinPlays))
	c.sources.WithLabelValues("read").Set(float64(s.SourcesRead))
	c.sources.WithLabelValues("failed").Set(float64(s.SourcesFailed))
	for _, b := range s.Distribution {
		c.playCounts.WithLabelValues(b.Label).Set(float64(b.Songs))
	}
	c.lastRun.Set(float64(at.Unix()))
}

// Gatherer exposes the registry, mainly for tests.
func (c *Collector) Gatherer() prometheus.Gatherer {
	return c.registry
}

// WriteTextfile writes the gathered metrics to path, creating its directory.
func (c *Collector) WriteTextfile(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create metrics directory: %w", err)
	}
	if err := prometheus.WriteToTextfile(path, c.registry); err != nil {
		return fmt.Errorf("failed to write metrics textfile: %w", err)
	}
	return nil
}
