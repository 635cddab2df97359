// Package dataset provides the named-column container the rare-format check
// runs over, plus loaders for the sampled inputs we care about: CSV, JSON,
// and HTML tables. SQL-backed sources live in dataset/source.
//
// All values are carried as strings. Loaders stringify scalars on the way
// in; a SQL NULL or an absent JSON field becomes the empty string, which
// means a missing value and its textual representation are indistinguishable
// to the engine. That is a documented approximation, not a bug.
package dataset

import (
	"fmt"
	"strconv"
	"strings"
)

// Dataset is an ordered set of named columns of string values.
//
// Columns keep their insertion order so analysis output and reports are
// deterministic. Column lengths may differ (loader rows with missing cells
// are skipped, matching the best-effort sampling behavior of the loaders).
type Dataset struct {
	names []string
	cols  map[string][]string
}

// New returns an empty dataset with the given column order. Duplicate names
// are collapsed to the first occurrence.
func New(names []string) *Dataset {
	d := &Dataset{cols: make(map[string][]string, len(names))}
	for _, n := range names {
		if _, ok := d.cols[n]; ok {
			continue
		}
		d.names = append(d.names, n)
		d.cols[n] = nil
	}
	return d
}

// Columns returns the column names in insertion order. The returned slice is
// a copy.
func (d *Dataset) Columns() []string {
	return append([]string(nil), d.names...)
}

// Column returns the values of a named column.
func (d *Dataset) Column(name string) ([]string, bool) {
	vs, ok := d.cols[name]
	return vs, ok
}

// Len returns the number of values in the longest column.
func (d *Dataset) Len() int {
	n := 0
	for _, vs := range d.cols {
		if len(vs) > n {
			n = len(vs)
		}
	}
	return n
}

// AppendRow appends one value per column, aligned with Columns order. Rows
// with a mismatched field count are skipped: sampling is best-effort and a
// bad row must not fail the load.
func (d *Dataset) AppendRow(row []string) {
	if len(row) != len(d.names) {
		return
	}
	for i, n := range d.names {
		d.cols[n] = append(d.cols[n], row[i])
	}
}

// SetColumn replaces the values of a column, adding the column if needed.
func (d *Dataset) SetColumn(name string, values []string) {
	if _, ok := d.cols[name]; !ok {
		d.names = append(d.names, name)
	}
	d.cols[name] = values
}

// dedupeNames makes column names unique while preserving order: the first
// occurrence keeps its name, later ones get a ".2", ".3", ... suffix.
// Loaders apply this to duplicate headers; feeding duplicates straight into
// New would collapse the columns and silently drop every row.
func dedupeNames(names []string) []string {
	seen := make(map[string]int, len(names))
	out := make([]string, len(names))
	for i, n := range names {
		seen[n]++
		if seen[n] == 1 {
			out[i] = n
			continue
		}
		c := seen[n]
		cand := fmt.Sprintf("%s.%d", n, c)
		for seen[cand] > 0 {
			c++
			cand = fmt.Sprintf("%s.%d", n, c)
		}
		seen[cand]++
		out[i] = cand
	}
	return out
}

// Stringify converts a scalar decoded from JSON or a database driver into
// the canonical textual form the engine sees. nil becomes the empty string.
func Stringify(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(t)
	case []byte:
		return strings.TrimSpace(string(t))
	case float64:
		// encoding/json default number type: render integral values without
		// a fractional part.
		if t == float64(int64(t)) {
			return strconv.FormatInt(int64(t), 10)
		}
		return strconv.FormatFloat(t, 'g', -1, 64)
	case bool:
		if t {
			return "true"
		}
		return "false"
	default:
		return strings.TrimSpace(fmt.Sprint(v))
	}
}
