package playlist

import (
	"maps"
	"slices"
)

// FrequencyTable maps each pair to the number of times it was seen.
// It is immutable once built by Count.
type FrequencyTable struct {
	counts map[Pair]int
	total  int
}

// Count tallies pairs. Every occurrence counts, including repeats within a
// single source, so the result does not depend on the order of pairs.
func Count(pairs []Pair) *FrequencyTable {
	counts := make(map[Pair]int)
	for _, p := range pairs {
		counts[p]++
	}
	return &FrequencyTable{counts: counts, total: len(pairs)}
}

// Count returns how many times p was seen.
func (t *FrequencyTable) Count(p Pair) int {
	return t.counts[p]
}

// Len returns the number of distinct pairs.
func (t *FrequencyTable) Len() int {
	return len(t.counts)
}

// Total returns the number of references counted, duplicates included.
func (t *FrequencyTable) Total() int {
	return t.total
}

// Pairs returns the distinct pairs sorted with Compare.
func (t *FrequencyTable) Pairs() []Pair {
	return slices.SortedFunc(maps.Keys(t.counts), Compare)
}

// Each calls fn for every distinct pair in Compare order.
func (t *FrequencyTable) Each(fn func(p Pair, count int)) {
	for _, p := range t.Pairs() {
		fn(p, t.counts[p])
	}
}
