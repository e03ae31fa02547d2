// Package playlist reads musicL playlists, counts how often each remote item
// recurs across them and writes the aggregated "Greatest Hits" playlist.
//
// A musicL playlist is an RSS 2.0 document whose channel lists
// podcast:remoteItem elements. Each remote item is identified by a [Pair]:
// the GUID of the feed it belongs to and the GUID of the item in that feed.
//
// The flow is linear:
//
//	pairs, results := reader.ReadAll(paths)   // ReadFile per source
//	table := playlist.Count(pairs)            // FrequencyTable
//	groups := playlist.Group(table, 2)        // FrequencyGroups
//	err := writer.WriteFile(out, groups)      // Greatest Hits XML
//
// Only the GUID and timestamp fields of the output vary between runs; the
// item section is fully determined by the inputs and the threshold.
package playlist
