// Package report computes and prints run statistics for the Greatest Hits
// generator. Nothing downstream consumes its output.
package report

import (
	"github.com/ChadFarrow/greatesthits/internal/playlist"
)

// Bucket is one row of the play-count distribution.
type Bucket struct {
	Label string `json:"label" yaml:"label"`
	Min   int    `json:"min" yaml:"min"`
	// Max is -1 for an open-ended bucket.
	Max   int `json:"max" yaml:"max"`
	Songs int `json:"songs" yaml:"songs"`
}

// distribution lists the reported play-count ranges, highest first.
var distribution = []Bucket{
	{Label: "10+", Min: 10, Max: -1},
	{Label: "5-9", Min: 5, Max: 9},
	{Label: "3-4", Min: 3, Max: 4},
	{Label: "2", Min: 2, Max: 2},
}

// Stats summarizes one run.
type Stats struct {
	SourcesTotal    int      `json:"sources_total" yaml:"sources_total"`
	SourcesRead     int      `json:"sources_read" yaml:"sources_read"`
	SourcesFailed   int      `json:"sources_failed" yaml:"sources_failed"`
	TotalReferences int      `json:"total_references" yaml:"total_references"`
	UniqueSongs     int      `json:"unique_songs" yaml:"unique_songs"`
	MinPlays        int      `json:"min_plays" yaml:"min_plays"`
	FilteredSongs   int      `json:"filtered_songs" yaml:"filtered_songs"`
	MinCount        int      `json:"min_count,omitempty" yaml:"min_count,omitempty"`
	MaxCount        int      `json:"max_count,omitempty" yaml:"max_count,omitempty"`
	Distribution    []Bucket `json:"distribution" yaml:"distribution"`
}

// Compute derives Stats from the outcome of a run.
func Compute(sources []playlist.SourceResult, table *playlist.FrequencyTable, groups playlist.FrequencyGroups, minPlays int) Stats {
	s := Stats{
		SourcesTotal:  len(sources),
		MinPlays:      max(minPlays, 1),
		FilteredSongs: groups.Len(),
		Distribution:  make([]Bucket, 0, len(distribution)),
	}
	for _, src := range sources {
		if src.OK() {
			s.SourcesRead++
		} else {
			s.SourcesFailed++
		}
	}
	if table != nil {
		s.TotalReferences = table.Total()
		s.UniqueSongs = table.Len()
	}

	if levels := groups.Levels(); len(levels) > 0 {
		s.MaxCount = levels[0]
		s.MinCount = levels[len(levels)-1]
	}

	for _, b := range distribution {
		b.Songs = groups.CountBetween(b.Min, b.Max)
		s.Distribution = append(s.Distribution, b)
	}
	return s
}
