package rarity

import (
	"reflect"
	"testing"
)

func TestRank(t *testing.T) {
	t.Parallel()

	got := Rank([]string{"b", "a", "b", "c", "a", "b"})
	want := []Item{
		{Value: "b", Count: 3},
		{Value: "a", Count: 2},
		{Value: "c", Count: 1},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Rank()=%v, want %v", got, want)
	}
}

func TestPartition(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		items     []Item
		threshold float64
		want      Result
	}{
		{
			name: "sharp_drop_splits",
			items: []Item{
				{Value: "a", Count: 50},
				{Value: "b", Count: 45},
				{Value: "c", Count: 2},
				{Value: "d", Count: 1},
			},
			threshold: 0.05,
			want: Result{
				Ratio:  3.0 / 95.0,
				Common: []string{"a", "b"},
				Rare:   []string{"c", "d"},
			},
		},
		{
			name: "no_drop_yields_zero",
			items: []Item{
				{Value: "a", Count: 10},
				{Value: "b", Count: 9},
				{Value: "c", Count: 8},
			},
			threshold: 0.05,
			want:      Result{},
		},
		{
			name: "single_distinct_yields_zero",
			items: []Item{
				{Value: "a", Count: 100},
			},
			threshold: 0.05,
			want:      Result{},
		},
		{
			name:      "empty_yields_zero",
			items:     nil,
			threshold: 0.05,
			want:      Result{},
		},
		{
			name: "empty_string_item_dropped",
			items: []Item{
				{Value: "", Count: 80},
				{Value: "a", Count: 100},
			},
			threshold: 0.05,
			want:      Result{},
		},
		{
			name: "threshold_zero_never_triggers",
			items: []Item{
				{Value: "a", Count: 1000},
				{Value: "b", Count: 1},
			},
			threshold: 0,
			want:      Result{},
		},
		{
			name: "threshold_one_triggers_on_any_decrease",
			items: []Item{
				{Value: "a", Count: 10},
				{Value: "b", Count: 9},
			},
			threshold: 1,
			want: Result{
				Ratio:  9.0 / 10.0,
				Common: []string{"a"},
				Rare:   []string{"b"},
			},
		},
		{
			name: "unsorted_input_ranked_by_count",
			items: []Item{
				{Value: "rare", Count: 1},
				{Value: "top", Count: 60},
				{Value: "mid", Count: 40},
			},
			threshold: 0.05,
			want: Result{
				Ratio:  1.0 / 100.0,
				Common: []string{"top", "mid"},
				Rare:   []string{"rare"},
			},
		},
		{
			name: "tied_counts_do_not_trigger",
			items: []Item{
				{Value: "a", Count: 5},
				{Value: "b", Count: 5},
			},
			threshold: 1,
			want:      Result{},
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			got := Partition(tc.items, tc.threshold)
			if !reflect.DeepEqual(got, tc.want) {
				t.Fatalf("Partition()=%+v, want %+v", got, tc.want)
			}
			if got.Found() != (len(tc.want.Common) > 0) {
				t.Fatalf("Found()=%t inconsistent with result", got.Found())
			}
		})
	}
}

// TestPartition_ThresholdMonotonicity verifies that raising the threshold
// only moves items from common toward rare: the rare set at a lower
// threshold is a subset of the rare set at any higher threshold, and the
// distinct-item total never changes while a partition exists.
func TestPartition_ThresholdMonotonicity(t *testing.T) {
	t.Parallel()

	items := []Item{
		{Value: "a", Count: 100},
		{Value: "b", Count: 40},
		{Value: "c", Count: 8},
		{Value: "d", Count: 1},
	}

	steps := []struct {
		threshold float64
		wantRare  int
	}{
		{threshold: 0.1, wantRare: 0}, // no drop sharp enough
		{threshold: 0.2, wantRare: 1}, // 1 < 0.2*8
		{threshold: 0.3, wantRare: 2}, // 8 < 0.3*40
		{threshold: 0.5, wantRare: 3}, // 40 < 0.5*100
	}

	var prevRare map[string]bool
	for _, step := range steps {
		got := Partition(items, step.threshold)

		if len(got.Rare) != step.wantRare {
			t.Fatalf("threshold %v: rare=%v, want %d items", step.threshold, got.Rare, step.wantRare)
		}
		if got.Found() && len(got.Common)+len(got.Rare) != len(items) {
			t.Fatalf("threshold %v: split covers %d items, want %d", step.threshold, len(got.Common)+len(got.Rare), len(items))
		}

		rare := make(map[string]bool, len(got.Rare))
		for _, v := range got.Rare {
			rare[v] = true
		}
		for v := range prevRare {
			if !rare[v] {
				t.Fatalf("threshold %v: %q left the rare set as the threshold rose", step.threshold, v)
			}
		}
		prevRare = rare
	}
}

// TestPartition_Totality verifies every distinct non-empty item lands in
// exactly one side of the split.
func TestPartition_Totality(t *testing.T) {
	t.Parallel()

	items := []Item{
		{Value: "", Count: 3},
		{Value: "a", Count: 70},
		{Value: "b", Count: 20},
		{Value: "c", Count: 1},
		{Value: "d", Count: 1},
	}
	got := Partition(items, 0.1)
	if !got.Found() {
		t.Fatalf("expected a partition")
	}

	all := make(map[string]int)
	for _, v := range got.Common {
		all[v]++
	}
	for _, v := range got.Rare {
		all[v]++
	}
	for _, it := range items {
		if it.Value == "" {
			if all[it.Value] != 0 {
				t.Fatalf("empty-string item was not dropped")
			}
			continue
		}
		if all[it.Value] != 1 {
			t.Fatalf("item %q appears %d times across the split", it.Value, all[it.Value])
		}
	}
}
