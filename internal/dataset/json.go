package dataset

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
)

// LoadJSON decodes JSON records into a Dataset.
//
// Accepted shapes, mirroring how sampled feeds arrive in practice:
//   - an array of objects,
//   - a stream of top-level objects (NDJSON),
//   - an envelope object whose largest array-of-objects field holds the
//     records.
//
// Nested objects are flattened with dotted keys ("address.city"). Column
// order is the sorted union of flattened keys across all records; a record
// missing a key contributes the empty string for that column.
func LoadJSON(r io.Reader) (*Dataset, error) {
	recs, err := decodeJSONRecords(r)
	if err != nil {
		return nil, err
	}

	flat := make([]map[string]any, 0, len(recs))
	for _, rec := range recs {
		m := make(map[string]any, len(rec))
		flattenJSON("", rec, m)
		flat = append(flat, m)
	}

	keys := make(map[string]struct{})
	for _, m := range flat {
		for k := range m {
			keys[k] = struct{}{}
		}
	}
	names := make([]string, 0, len(keys))
	for k := range keys {
		names = append(names, k)
	}
	sort.Strings(names)

	d := New(names)
	row := make([]string, len(names))
	for _, m := range flat {
		for i, k := range names {
			row[i] = Stringify(m[k])
		}
		d.AppendRow(row)
	}
	return d, nil
}

func decodeJSONRecords(r io.Reader) ([]map[string]any, error) {
	dec := json.NewDecoder(r)

	var root any
	if err := dec.Decode(&root); err != nil {
		if err == io.EOF {
			return nil, nil
		}
		return nil, fmt.Errorf("decode json: %w", err)
	}

	var out []map[string]any
	switch v := root.(type) {
	case []any:
		for _, it := range v {
			if m, ok := it.(map[string]any); ok {
				out = append(out, m)
			}
		}
	case map[string]any:
		// Envelope support: pick the largest array-of-objects field; fall
		// back to treating the object itself as the single record.
		if slice := largestObjectSlice(v); slice != nil {
			out = slice
		} else {
			out = append(out, v)
		}
	default:
		return nil, fmt.Errorf("decode json: unsupported top-level value")
	}

	// NDJSON / further top-level objects.
	for {
		var obj map[string]any
		if err := dec.Decode(&obj); err != nil {
			break
		}
		out = append(out, obj)
	}
	return out, nil
}

func largestObjectSlice(root map[string]any) []map[string]any {
	var best []map[string]any
	for _, v := range root {
		arr, ok := v.([]any)
		if !ok || len(arr) == 0 {
			continue
		}
		objs := make([]map[string]any, 0, len(arr))
		valid := true
		for _, elem := range arr {
			if elem == nil {
				continue
			}
			m, ok := elem.(map[string]any)
			if !ok {
				valid = false
				break
			}
			objs = append(objs, m)
		}
		if valid && len(objs) > len(best) {
			best = objs
		}
	}
	return best
}

func flattenJSON(prefix string, in map[string]any, out map[string]any) {
	for k, v := range in {
		key := k
		if prefix != "" {
			key = prefix + "." + k
		}
		if m, ok := v.(map[string]any); ok {
			flattenJSON(key, m, out)
			continue
		}
		out[key] = v
	}
}
