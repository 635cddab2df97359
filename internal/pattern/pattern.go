// Package pattern defines the skeletonization rules used by the rare-format
// check.
//
// A pattern describes how raw string values are collapsed into coarse "format"
// strings (skeletons): ordered character-class substitutions plus an optional
// ignore expression whose matches are deleted up front. Many raw values map to
// the same skeleton, which makes skeleton frequencies a usable shape
// fingerprint for a column.
//
// Patterns are configuration: construct them once and treat them as read-only.
// Defaults returns a freshly built list on every call so no two analysis runs
// can share mutable state.
package pattern

import (
	"fmt"
	"regexp"
	"strings"
)

// Rule is one ordered substitution step: every match of Match is replaced by
// the literal Filler. Later rules run on the output of earlier ones.
type Rule struct {
	Match  *regexp.Regexp
	Filler string
}

// Spec is one skeletonization rule set.
//
// Invariants (checked by Validate):
//   - Rules is non-empty and every rule has a compiled Match expression.
//   - When Refine is set, the first rule's Filler is the refinement anchor and
//     must be non-empty.
type Spec struct {
	// Name identifies the pattern in results and reports.
	Name string

	// Rules are applied in order to produce the skeleton.
	Rules []Rule

	// Ignore, when non-nil, deletes every matched substring before the rules
	// run. The same deletion is applied to raw samples before refinement.
	Ignore *regexp.Regexp

	// Refine requests that common skeletons found for this pattern be
	// degeneralized using literals shared by all samples of the skeleton.
	Refine bool

	// SequenceFiller marks the first rule's filler as standing in for a run
	// of matched characters rather than a single character position. This
	// changes how samples are aligned against the skeleton during refinement.
	SequenceFiller bool
}

// Validate reports whether the spec is usable. It is called eagerly by the
// analyzer so misconfiguration surfaces before any column work starts.
func (s *Spec) Validate() error {
	if len(s.Rules) == 0 {
		return fmt.Errorf("pattern %q: no substitution rules", s.Name)
	}
	for i, r := range s.Rules {
		if r.Match == nil {
			return fmt.Errorf("pattern %q: rule %d has no match expression", s.Name, i)
		}
	}
	if s.Refine && s.Rules[0].Filler == "" {
		return fmt.Errorf("pattern %q: refine requires a non-empty filler on the first rule", s.Name)
	}
	return nil
}

// StripIgnored deletes every substring matched by the ignore expression.
// With no ignore expression it returns the value unchanged.
func (s *Spec) StripIgnored(value string) string {
	if s.Ignore == nil {
		return value
	}
	return s.Ignore.ReplaceAllLiteralString(value, "")
}

// Skeletonize collapses a raw value into its format string: ignored
// substrings are deleted first, then each rule is applied in order as a
// global replacement.
//
// Pure and deterministic: the same (value, spec) always yields the same
// skeleton.
func (s *Spec) Skeletonize(value string) string {
	out := s.StripIgnored(value)
	for _, r := range s.Rules {
		out = r.Match.ReplaceAllLiteralString(out, r.Filler)
	}
	return out
}

// Significant reports whether the format still contains any of the spec's
// fillers. A "common" skeleton that lost every filler degenerated into a
// plain literal and is not worth reporting.
func (s *Spec) Significant(format string) bool {
	for _, r := range s.Rules {
		if r.Filler != "" && strings.Contains(format, r.Filler) {
			return true
		}
	}
	return false
}

// Defaults returns the built-in pattern list, ordered from most specific
// (case-sensitive digit/letter skeleton) to most general (any alphanumeric
// run as one filler).
//
// The list is constructed fresh on every call. Callers may reorder or trim
// the result without affecting later calls.
func Defaults() []Spec {
	return []Spec{
		{
			Name: "digits and letters format (case sensitive)",
			Rules: []Rule{
				{Match: regexp.MustCompile(`\d`), Filler: "0"},
				{Match: regexp.MustCompile(`[A-Z]`), Filler: "X"},
				{Match: regexp.MustCompile(`[a-z]`), Filler: "x"},
			},
		},
		{
			Name: "digits and letters format",
			Rules: []Rule{
				{Match: regexp.MustCompile(`\d`), Filler: "0"},
				{Match: regexp.MustCompile(`[A-Za-z]`), Filler: "X"},
			},
		},
		{
			Name:   "digits only format (ignoring letters)",
			Rules:  []Rule{{Match: regexp.MustCompile(`\d`), Filler: "0"}},
			Ignore: regexp.MustCompile(`[A-Za-z]`),
			Refine: true,
		},
		{
			Name:   "letters only format (ignoring digits)",
			Rules:  []Rule{{Match: regexp.MustCompile(`[A-Za-z]`), Filler: "X"}},
			Ignore: regexp.MustCompile(`\d`),
			Refine: true,
		},
		{
			Name:   "digits or letters format",
			Rules:  []Rule{{Match: regexp.MustCompile(`[0-9A-Za-z]`), Filler: "X"}},
			Refine: true,
		},
		{
			Name:           "sequences of digits only format (ignoring letters)",
			Rules:          []Rule{{Match: regexp.MustCompile(`\d+`), Filler: "000"}},
			Ignore:         regexp.MustCompile(`[A-Za-z]`),
			Refine:         true,
			SequenceFiller: true,
		},
		{
			Name:           "sequences of letters only format (ignoring digits)",
			Rules:          []Rule{{Match: regexp.MustCompile(`[A-Za-z]+`), Filler: "XXX"}},
			Ignore:         regexp.MustCompile(`\d`),
			Refine:         true,
			SequenceFiller: true,
		},
		{
			Name:           "any sequence format",
			Rules:          []Rule{{Match: regexp.MustCompile(`[0-9A-Za-z]+`), Filler: "XXX"}},
			Refine:         true,
			SequenceFiller: true,
		},
	}
}
