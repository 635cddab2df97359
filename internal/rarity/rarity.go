// Package rarity splits a frequency distribution of distinct items into a
// common majority and a rare minority by looking for a sharp drop in the
// descending-count ranking.
package rarity

import "sort"

// Item is one distinct value with its occurrence count.
type Item struct {
	Value string
	Count int
}

// Rank counts distinct values in first-seen order. The returned slice is a
// deterministic frequency ranking input for Partition; it is NOT yet sorted
// by count.
func Rank(values []string) []Item {
	index := make(map[string]int, len(values))
	items := make([]Item, 0, 16)
	for _, v := range values {
		if i, ok := index[v]; ok {
			items[i].Count++
			continue
		}
		index[v] = len(items)
		items = append(items, Item{Value: v, Count: 1})
	}
	return items
}

// Result is the outcome of a partition.
//
// The zero value means "no partition found": the distribution had no sharp
// drop (or too few distinct items), so everything is treated as uniformly
// common and nothing is reported.
type Result struct {
	// Ratio is sum(rare counts) / sum(common counts). Zero when no partition
	// was found.
	Ratio float64

	// Common and Rare together account for every distinct input item exactly
	// once, ordered by descending count (ties keep first-seen order).
	Common []string
	Rare   []string
}

// Found reports whether a partition exists.
func (r Result) Found() bool { return len(r.Common) > 0 }

// Partition looks for a sudden drop in prevalence and splits items into
// common and rare sets.
//
// Walking the distinct items by descending count, the first adjacent pair
// where curr < threshold*prev marks the boundary: everything up to and
// including prev is common, everything from curr onward is rare.
//
// Edge cases:
//   - The empty-string item is dropped before ranking (an artifact of fully
//     ignored or fully matched values).
//   - Fewer than 2 distinct items, or no sharp drop, yields the zero Result.
//   - threshold 0 never triggers; threshold >= 1 triggers on any strict
//     decrease.
//   - Ties in count are not specially handled: the first strict inequality
//     in scan order wins, and tied items keep their first-seen order.
func Partition(items []Item, threshold float64) Result {
	ranked := make([]Item, 0, len(items))
	for _, it := range items {
		if it.Value == "" {
			continue
		}
		ranked = append(ranked, it)
	}
	if len(ranked) < 2 {
		return Result{}
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Count > ranked[j].Count
	})

	boundary := -1
	for i := 1; i < len(ranked); i++ {
		if float64(ranked[i].Count) < threshold*float64(ranked[i-1].Count) {
			boundary = i
			break
		}
	}
	if boundary < 0 {
		return Result{}
	}

	var commonSum, rareSum int
	common := make([]string, 0, boundary)
	rare := make([]string, 0, len(ranked)-boundary)
	for i, it := range ranked {
		if i < boundary {
			common = append(common, it.Value)
			commonSum += it.Count
		} else {
			rare = append(rare, it.Value)
			rareSum += it.Count
		}
	}

	return Result{
		Ratio:  float64(rareSum) / float64(commonSum),
		Common: common,
		Rare:   rare,
	}
}
