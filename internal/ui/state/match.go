package state

import (
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"
)

// FilterItems returns the items matching query. Fuzzy matches on the label
// come first; when there are none, a plain substring match over label and
// href is used.
func FilterItems(items []Item, query string) []Item {
	trimmed := strings.TrimSpace(query)
	if trimmed == "" {
		return cloneItems(items)
	}
	ranks := fuzzy.RankFindNormalizedFold(trimmed, labels(items))
	if len(ranks) > 0 {
		keep := make(map[int]bool, len(ranks))
		for _, rank := range ranks {
			keep[rank.OriginalIndex] = true
		}
		out := make([]Item, 0, len(keep))
		for i, item := range items {
			if keep[i] {
				out = append(out, item)
			}
		}
		return out
	}
	lower := strings.ToLower(trimmed)
	out := make([]Item, 0, len(items))
	for _, item := range items {
		if strings.Contains(strings.ToLower(item.Label), lower) || strings.Contains(strings.ToLower(item.ID), lower) {
			out = append(out, item)
		}
	}
	return out
}

// BestMatchIndex picks the item the cursor should land on for query: an
// exact label or href, then a label prefix, then an href prefix, then the
// closest fuzzy match.
func BestMatchIndex(items []Item, query string) int {
	if len(items) == 0 {
		return -1
	}
	trimmed := strings.TrimSpace(query)
	if trimmed == "" {
		return 0
	}
	lower := strings.ToLower(trimmed)
	tiers := []func(Item) bool{
		func(it Item) bool { return strings.EqualFold(it.Label, trimmed) || strings.EqualFold(it.ID, trimmed) },
		func(it Item) bool { return strings.HasPrefix(strings.ToLower(it.Label), lower) },
		func(it Item) bool { return strings.HasPrefix(strings.ToLower(it.ID), lower) },
		func(it Item) bool { return strings.Contains(strings.ToLower(it.Label), lower) },
		func(it Item) bool { return strings.Contains(strings.ToLower(it.ID), lower) },
	}
	for _, match := range tiers {
		for i, item := range items {
			if match(item) {
				return i
			}
		}
	}
	ranks := fuzzy.RankFindNormalizedFold(trimmed, labels(items))
	if len(ranks) == 0 {
		return 0
	}
	best := ranks[0]
	for _, rank := range ranks[1:] {
		if rank.Distance < best.Distance ||
			(rank.Distance == best.Distance && rank.OriginalIndex < best.OriginalIndex) {
			best = rank
		}
	}
	return best.OriginalIndex
}

func labels(items []Item) []string {
	out := make([]string, len(items))
	for i, item := range items {
		out[i] = item.Label
	}
	return out
}
