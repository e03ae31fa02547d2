package playlist

import "cmp"

// Pair identifies a remote item: the feed it belongs to and the item within it.
type Pair struct {
	FeedGUID string
	ItemGUID string
}

// Valid reports whether both identifiers are present.
func (p Pair) Valid() bool {
	return p.FeedGUID != "" && p.ItemGUID != ""
}

// String returns "feedGuid/itemGuid".
func (p Pair) String() string {
	return p.FeedGUID + "/" + p.ItemGUID
}

// Compare orders pairs by feed GUID, then item GUID.
func Compare(a, b Pair) int {
	if c := cmp.Compare(a.FeedGUID, b.FeedGUID); c != 0 {
		return c
	}
	return cmp.Compare(a.ItemGUID, b.ItemGUID)
}
