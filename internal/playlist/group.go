package playlist

import (
	"maps"
	"slices"
)

// DefaultMinPlays is the recurrence threshold for the Greatest Hits playlist.
const DefaultMinPlays = 2

// FrequencyGroups maps a play count to the pairs seen exactly that many
// times. Each bucket is sorted with Compare.
type FrequencyGroups map[int][]Pair

// Group keeps the pairs of t seen at least minPlays times and buckets them
// by count. A minPlays below 1 is treated as 1.
func Group(t *FrequencyTable, minPlays int) FrequencyGroups {
	minPlays = max(minPlays, 1)

	groups := make(FrequencyGroups)
	for p, count := range t.counts {
		if count < minPlays {
			continue
		}
		groups[count] = append(groups[count], p)
	}

	for _, bucket := range groups {
		slices.SortFunc(bucket, Compare)
	}
	return groups
}

// Levels returns the play counts present, highest first.
func (g FrequencyGroups) Levels() []int {
	levels := slices.Sorted(maps.Keys(g))
	slices.Reverse(levels)
	return levels
}

// Len returns the number of pairs across all buckets.
func (g FrequencyGroups) Len() int {
	n := 0
	for _, bucket := range g {
		n += len(bucket)
	}
	return n
}

// Pairs returns every pair in output order: by count descending, then by
// Compare within a count.
func (g FrequencyGroups) Pairs() []Pair {
	out := make([]Pair, 0, g.Len())
	for _, level := range g.Levels() {
		out = append(out, g[level]...)
	}
	return out
}

// CountBetween returns the number of pairs whose count is in [lo, hi].
// A hi below 0 means no upper bound.
func (g FrequencyGroups) CountBetween(lo, hi int) int {
	n := 0
	for count, bucket := range g {
		if count < lo || (hi >= 0 && count > hi) {
			continue
		}
		n += len(bucket)
	}
	return n
}
