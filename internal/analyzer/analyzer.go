// Package analyzer runs the rare-format check: for each column it scans an
// ordered list of patterns, skeletonizes the values, partitions skeleton
// frequencies into common and rare sets, optionally refines the common
// formats, and reports the raw values behind the rare shapes.
//
// The per-column scan is pure and synchronous. Dataset-level analysis fans
// columns out across a bounded worker pool; columns share no mutable state,
// so no locking beyond the result map is needed.
package analyzer

import (
	"context"
	"fmt"
	"runtime"
	"sync"
	"time"

	"formatcheck/internal/dataset"
	"formatcheck/internal/metrics"
	"formatcheck/internal/pattern"
	"formatcheck/internal/rarity"
	"formatcheck/internal/refine"
)

// MatchMode selects how patterns share rare values across one column.
type MatchMode string

const (
	// MatchFirst excludes raw values already flagged rare by an earlier
	// pattern from later findings. Patterns are expected to be ordered from
	// most specific to most general, so re-flagging the same value under a
	// broader pattern would be redundant noise.
	MatchFirst MatchMode = "first"

	// MatchAll reports every pattern's findings independently.
	MatchAll MatchMode = "all"
)

// ConfigError reports invalid analysis configuration. It is returned before
// any per-column work begins; no partial results are produced.
type ConfigError struct {
	Reason string
}

func (e *ConfigError) Error() string { return "formatcheck config: " + e.Reason }

// Options configure a check run. The zero value is usable: it analyzes with
// the built-in pattern list, a 0.05 rarity threshold, and first-match mode.
type Options struct {
	// Patterns is the ordered pattern list, most specific first. Nil means
	// pattern.Defaults().
	Patterns []pattern.Spec

	// RarityThreshold is the sharp-drop sensitivity in (0,1]. Zero means
	// 0.05.
	RarityThreshold float64

	// MatchMode is "first" or "all". Empty means "first".
	MatchMode MatchMode

	// Workers bounds dataset-level column parallelism. Zero or negative
	// means GOMAXPROCS.
	Workers int

	// Metrics receives per-column counters and timings during
	// AnalyzeDataset. Nil means metrics.Nop.
	Metrics metrics.Backend
}

// withDefaults returns a copy of o with unset fields filled in.
func (o Options) withDefaults() Options {
	if o.Patterns == nil {
		o.Patterns = pattern.Defaults()
	}
	if o.RarityThreshold == 0 {
		o.RarityThreshold = 0.05
	}
	if o.MatchMode == "" {
		o.MatchMode = MatchFirst
	}
	if o.Workers <= 0 {
		o.Workers = runtime.GOMAXPROCS(0)
	}
	if o.Metrics == nil {
		o.Metrics = metrics.Nop{}
	}
	return o
}

// validate checks the options eagerly so configuration errors surface before
// any scan work.
func (o Options) validate() error {
	if o.MatchMode != MatchFirst && o.MatchMode != MatchAll {
		return &ConfigError{Reason: fmt.Sprintf("match mode must be %q or %q, got %q", MatchFirst, MatchAll, o.MatchMode)}
	}
	if o.RarityThreshold < 0 || o.RarityThreshold > 1 {
		return &ConfigError{Reason: fmt.Sprintf("rarity threshold must be in (0,1], got %v", o.RarityThreshold)}
	}
	for i := range o.Patterns {
		if err := o.Patterns[i].Validate(); err != nil {
			return &ConfigError{Reason: err.Error()}
		}
	}
	return nil
}

// Finding is the per-(column, pattern) result record.
type Finding struct {
	// RarityRatio is sum(rare counts) / sum(common counts) for the skeleton
	// frequency distribution.
	RarityRatio float64 `json:"rarity_ratio"`

	// CommonFormats are the common skeletons by descending frequency. When
	// the pattern requested refinement these are the refined (displayed)
	// strings.
	CommonFormats []string `json:"common_formats"`

	// CommonExamples holds one raw example per common format, index-aligned
	// with CommonFormats (first raw value observed with that skeleton).
	CommonExamples []string `json:"common_value_examples"`

	// RareValues are the distinct raw values behind the rare skeletons, in
	// first-seen order, minus values already claimed by earlier patterns in
	// first-match mode.
	RareValues []string `json:"rare_values"`
}

// AnalyzeColumn runs the ordered pattern scan over one column.
//
// The returned map is keyed by pattern name; a pattern with nothing
// interesting to report is simply absent. "Nothing found" is therefore an
// empty map, never an error.
//
// A finding is recorded only when a sharp-drop partition exists, at least
// one common skeleton is still significant (contains a filler), and at
// least one rare raw value survives first-match exclusion.
func AnalyzeColumn(values []string, opts Options) (map[string]Finding, error) {
	opts = opts.withDefaults()
	if err := opts.validate(); err != nil {
		return nil, err
	}
	return analyzeColumn(values, opts)
}

// analyzeColumn is the validated scan body shared by AnalyzeColumn and
// AnalyzeDataset.
func analyzeColumn(values []string, opts Options) (map[string]Finding, error) {
	findings := make(map[string]Finding)

	// Raw values already attributed to a rare finding by an earlier pattern.
	// Threaded explicitly through the pattern loop; only first-match mode
	// writes to it.
	excluded := make(map[string]struct{})

	skeletons := make([]string, len(values))

	for i := range opts.Patterns {
		spec := &opts.Patterns[i]

		for j, v := range values {
			skeletons[j] = spec.Skeletonize(v)
		}

		part := rarity.Partition(rarity.Rank(skeletons), opts.RarityThreshold)
		if !part.Found() {
			continue
		}

		significant := false
		for _, f := range part.Common {
			if spec.Significant(f) {
				significant = true
				break
			}
		}
		if !significant {
			continue
		}

		rareSet := make(map[string]struct{}, len(part.Rare))
		for _, f := range part.Rare {
			rareSet[f] = struct{}{}
		}

		// Distinct rare raw values in first-seen order, minus earlier claims.
		var rareValues []string
		seen := make(map[string]struct{})
		for j, v := range values {
			if _, ok := rareSet[skeletons[j]]; !ok {
				continue
			}
			if _, ok := excluded[v]; ok {
				continue
			}
			if _, ok := seen[v]; ok {
				continue
			}
			seen[v] = struct{}{}
			rareValues = append(rareValues, v)
		}
		if len(rareValues) == 0 {
			continue
		}

		// One representative raw example per common skeleton (first observed).
		examples := make([]string, len(part.Common))
		firstByFormat := make(map[string]string, len(part.Common))
		for j, v := range values {
			f := skeletons[j]
			if _, ok := firstByFormat[f]; !ok {
				firstByFormat[f] = v
			}
		}
		for k, f := range part.Common {
			examples[k] = firstByFormat[f]
		}

		// Displayed formats: refinement changes the string shown, not the
		// skeleton the examples and rare values were keyed by.
		displayed := append([]string(nil), part.Common...)
		if spec.Refine {
			for k, f := range part.Common {
				var samples []string
				for j, v := range values {
					if skeletons[j] == f {
						samples = append(samples, spec.StripIgnored(v))
					}
				}
				refined, err := refine.Refine(f, spec.Rules[0].Filler, samples, spec.SequenceFiller)
				if err != nil {
					return nil, fmt.Errorf("pattern %q: %w", spec.Name, err)
				}
				displayed[k] = refined
			}
		}

		findings[spec.Name] = Finding{
			RarityRatio:    part.Ratio,
			CommonFormats:  displayed,
			CommonExamples: examples,
			RareValues:     rareValues,
		}

		if opts.MatchMode == MatchFirst {
			for _, v := range rareValues {
				excluded[v] = struct{}{}
			}
		}
	}

	return findings, nil
}

// Results maps column name to per-pattern findings. Columns with no findings
// are present with an empty map so callers can distinguish "analyzed, clean"
// from "not analyzed".
type Results map[string]map[string]Finding

// AnalyzeDataset fans AnalyzeColumn out over the selected columns.
//
// columns restricts analysis to the named columns; nil means every column in
// the dataset. Naming a column the dataset does not have is a ConfigError.
//
// Columns are analyzed concurrently on a bounded worker pool. Each column
// allocates its own rankings and exclusion set, so workers share nothing but
// the result map. ctx cancels work between columns; a cancelled run returns
// ctx.Err() with no partial results.
func AnalyzeDataset(ctx context.Context, ds *dataset.Dataset, columns []string, opts Options) (Results, error) {
	opts = opts.withDefaults()
	if err := opts.validate(); err != nil {
		return nil, err
	}

	if columns == nil {
		columns = ds.Columns()
	}
	for _, name := range columns {
		if _, ok := ds.Column(name); !ok {
			return nil, &ConfigError{Reason: fmt.Sprintf("unknown column %q", name)}
		}
	}

	results := make(Results, len(columns))

	var (
		mu       sync.Mutex
		wg       sync.WaitGroup
		firstErr error
	)
	sem := make(chan struct{}, opts.Workers)

	for _, name := range columns {
		if err := ctx.Err(); err != nil {
			break
		}
		values, _ := ds.Column(name)

		wg.Add(1)
		sem <- struct{}{}
		go func(name string, values []string) {
			defer wg.Done()
			defer func() { <-sem }()

			start := time.Now()
			findings, err := analyzeColumn(values, opts)
			opts.Metrics.ObserveHistogram(metrics.MetricColumnDuration, time.Since(start).Seconds(), metrics.Labels{"column": name})

			if err == nil {
				opts.Metrics.IncCounter(metrics.MetricColumns, 1, nil)
				for pat, f := range findings {
					labels := metrics.Labels{"column": name, "pattern": pat}
					opts.Metrics.IncCounter(metrics.MetricFindings, 1, labels)
					opts.Metrics.IncCounter(metrics.MetricRareValues, float64(len(f.RareValues)), labels)
				}
			}

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				if firstErr == nil {
					firstErr = fmt.Errorf("column %q: %w", name, err)
				}
				return
			}
			results[name] = findings
		}(name, values)
	}
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if firstErr != nil {
		return nil, firstErr
	}
	return results, nil
}
