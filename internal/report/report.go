// Package report renders analysis results as human-readable text.
//
// The JSON rendition of results is just encoding/json over
// analyzer.Results; this package only covers the text form meant for
// terminals and log files.
package report

import (
	"fmt"
	"sort"
	"strings"

	"formatcheck/internal/analyzer"
)

// Text renders results as a deterministic plain-text report.
//
// Columns appear in the order given by columnOrder; columns absent from
// results are skipped. Patterns within a column sort by descending rarity
// ratio, then by pattern name so equal ratios render stably.
//
// Edge cases:
//   - nil/empty results return a single "no rare formats detected" line.
//   - columnOrder entries not present in results are ignored, and results
//     columns missing from columnOrder are appended in sorted order.
func Text(results analyzer.Results, columnOrder []string) string {
	cols := orderedColumns(results, columnOrder)
	if len(cols) == 0 {
		return "rare formats:\tno rare formats detected"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "rare formats:\tcolumns_flagged=%d\n", len(cols))

	for _, col := range cols {
		findings := results[col]

		names := make([]string, 0, len(findings))
		for name := range findings {
			names = append(names, name)
		}
		sort.SliceStable(names, func(i, j int) bool {
			ri, rj := findings[names[i]].RarityRatio, findings[names[j]].RarityRatio
			if ri == rj {
				return names[i] < names[j]
			}
			return ri > rj
		})

		fmt.Fprintf(&b, "\ncolumn %q:\n", col)
		fmt.Fprintf(&b, "  %-28s\t%-7s\t%-7s\tcommon formats\n", "pattern", "ratio", "rare")
		for _, name := range names {
			f := findings[name]
			fmt.Fprintf(
				&b,
				"  %-28s\t%.2f%%\t%-7d\t%s\n",
				name,
				f.RarityRatio*100,
				len(f.RareValues),
				strings.Join(f.CommonFormats, ", "),
			)
		}
		for _, name := range names {
			f := findings[name]
			fmt.Fprintf(&b, "  %s: rare values: %s\n", name, strings.Join(quoteAll(f.RareValues), ", "))
		}
	}

	return strings.TrimRight(b.String(), "\n")
}

func orderedColumns(results analyzer.Results, columnOrder []string) []string {
	if len(results) == 0 {
		return nil
	}

	seen := make(map[string]bool, len(results))
	out := make([]string, 0, len(results))
	for _, col := range columnOrder {
		if len(results[col]) == 0 || seen[col] {
			continue
		}
		seen[col] = true
		out = append(out, col)
	}

	var rest []string
	for col := range results {
		if len(results[col]) == 0 || seen[col] {
			continue
		}
		rest = append(rest, col)
	}
	sort.Strings(rest)
	return append(out, rest...)
}

func quoteAll(vals []string) []string {
	out := make([]string, len(vals))
	for i, v := range vals {
		out[i] = fmt.Sprintf("%q", v)
	}
	return out
}
