// Package refine degeneralizes discovered format strings.
//
// A format like "XXX@XXX.XXX" is useful but coarse. When every observed
// sample of that format shares the same literal at a filler position (say,
// all samples end in "@gmail.com"), refinement substitutes the shared
// literal back in, yielding "XXX@gmail.com". Positions where samples
// disagree keep the filler.
package refine

import (
	"fmt"
	"strings"
)

// RefinementError signals an internal consistency violation: refinement was
// invoked with no samples, or with a sample that does not actually match the
// format it supposedly produced. Callers are expected to guarantee both, so
// this error indicates a bug upstream, not a user-recoverable condition.
type RefinementError struct {
	Format string
	Reason string
}

func (e *RefinementError) Error() string {
	return fmt.Sprintf("refine format %q: %s", e.Format, e.Reason)
}

// Refine replaces filler positions in format with the literal observed at
// that position, if and only if every sample agrees there.
//
// Preconditions (caller's responsibility):
//   - samples have had ignored substrings stripped already,
//   - every sample skeletonizes to format under the pattern in question,
//   - samples is non-empty.
//
// When sequence is false, the format and each sample are aligned character
// by character. When sequence is true, the filler stands for a
// variable-length run: the format is split on the filler keeping it as its
// own token, and each sample is split on the format's literal segments so
// that both sides tokenize to the same arity.
//
// A format that does not contain the filler is returned unchanged, which
// also makes refinement idempotent: a fully refined format has no filler
// left and passes through untouched.
func Refine(format, filler string, samples []string, sequence bool) (string, error) {
	if filler == "" || !strings.Contains(format, filler) {
		return format, nil
	}
	if len(samples) == 0 {
		return "", &RefinementError{Format: format, Reason: "no samples"}
	}

	var formatTokens []string
	var sampleTokens [][]string

	if sequence {
		formatTokens = splitKeep(format, filler)

		literals := make([]string, 0, len(formatTokens))
		for _, t := range formatTokens {
			if t != filler {
				literals = append(literals, t)
			}
		}

		sampleTokens = make([][]string, len(samples))
		for i, s := range samples {
			sampleTokens[i] = splitKeepByMany(s, literals)
		}
	} else {
		formatTokens = strings.Split(format, "")
		sampleTokens = make([][]string, len(samples))
		for i, s := range samples {
			sampleTokens[i] = strings.Split(s, "")
		}
	}

	for i, toks := range sampleTokens {
		if len(toks) != len(formatTokens) {
			return "", &RefinementError{
				Format: format,
				Reason: fmt.Sprintf("sample %q tokenizes to %d tokens, format has %d", samples[i], len(toks), len(formatTokens)),
			}
		}
	}

	var b strings.Builder
	for i, tok := range formatTokens {
		if tok != filler {
			b.WriteString(tok)
			continue
		}
		shared := sampleTokens[0][i]
		agree := true
		for _, toks := range sampleTokens[1:] {
			if toks[i] != shared {
				agree = false
				break
			}
		}
		if agree {
			b.WriteString(shared)
		} else {
			b.WriteString(tok)
		}
	}
	return b.String(), nil
}

// splitKeep splits s on sep, keeping each occurrence of sep as its own token
// and dropping empty segments.
//
// splitKeep("XXX@XXX.XXX", "XXX") == ["XXX", "@", "XXX", ".", "XXX"].
func splitKeep(s, sep string) []string {
	out := make([]string, 0, 8)
	for {
		i := strings.Index(s, sep)
		if i < 0 {
			break
		}
		if i > 0 {
			out = append(out, s[:i])
		}
		out = append(out, sep)
		s = s[i+len(sep):]
	}
	if s != "" {
		out = append(out, s)
	}
	return out
}

// splitKeepByMany splits s on each separator in order, keeping separators as
// their own tokens. The separators are the format's literal segments applied
// left to right, so a sample splits into one sub-token per format token
// whenever it genuinely matches the format.
//
// splitKeepByMany("foo@gmail.com", ["@", "."]) == ["foo", "@", "gmail", ".", "com"].
func splitKeepByMany(s string, seps []string) []string {
	out := make([]string, 0, 2*len(seps)+1)
	for _, sep := range seps {
		i := strings.Index(s, sep)
		if i < 0 {
			// The sample does not contain this literal; emit the rest as one
			// token and let the caller's arity check reject it.
			break
		}
		if i > 0 {
			out = append(out, s[:i])
		}
		out = append(out, sep)
		s = s[i+len(sep):]
	}
	if s != "" {
		out = append(out, s)
	}
	return out
}
