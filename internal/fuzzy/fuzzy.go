// Package fuzzy implements the two scoring variants used by the search
// cache: an identifier scorer (plain normalized Levenshtein) and a text
// scorer (partial-ratio with a Levenshtein-fallback band), both built from a
// pre-normalized pattern string and both returning a value in [0, 1] where 0
// means "equal" and 1 means "maximally different".
package fuzzy

import (
	"math"

	"github.com/hbollon/go-edlib"
)

// MinScore is the partial-ratio threshold below which the text scorer falls
// back to distinguishing close matches by Levenshtein ratio instead.
const MinScore = 0.01

// epsilon is the smallest positive float64, used to keep the fallback band
// strictly above zero so the text scorer stays strictly monotonic across
// the MinScore cut.
var epsilon = math.Nextafter(0, 1)

// Kind selects which scoring variant a Scorer uses.
type Kind int

const (
	// Identifier scores short, code-like tokens with plain Levenshtein ratio.
	Identifier Kind = iota
	// Text scores free text with partial ratio and a Levenshtein fallback.
	Text
)

// Scorer is built once per (record, property) pair from the property's
// already-normalized pattern text, then reused for every query against that
// property.
type Scorer struct {
	pattern string
	kind    Kind
}

// NewScorer builds a Scorer of the given kind over pattern. pattern must
// already have been passed through the search normalization pipeline; query
// strings passed to Score must be normalized the same way by the caller.
func NewScorer(pattern string, kind Kind) Scorer {
	return Scorer{pattern: pattern, kind: kind}
}

// Score returns the distance between the scorer's pattern and query, in
// [0, 1]. For equal strings the Identifier variant returns 0 and the Text
// variant returns epsilon, the bottom of its close-match band.
func (s Scorer) Score(query string) float64 {
	switch s.kind {
	case Identifier:
		return levenshteinRatio(s.pattern, query)
	default:
		r := partialRatio(s.pattern, query)
		if r > MinScore+epsilon {
			return math.Min(r, 1)
		}
		lev := clamp(levenshteinRatio(s.pattern, query), 0, 1)
		return epsilon + MinScore*lev
	}
}

// levenshteinRatio is the normalized Levenshtein distance between a and b,
// scaled to [0, 1] where 0 means equal.
func levenshteinRatio(a, b string) float64 {
	if a == b {
		return 0
	}
	if a == "" || b == "" {
		return 1
	}
	similarity, err := edlib.StringsSimilarity(a, b, edlib.Levenshtein)
	if err != nil {
		return 1
	}
	return clamp(1-float64(similarity), 0, 1)
}

// partialRatio computes the best-substring Levenshtein ratio between a and
// b: for the longer string, every window of length min(|a|,|b|) is compared
// against the shorter string, and the minimum resulting distance is
// reported. Distances are measured over runes so multi-byte characters
// count as single positions.
func partialRatio(a, b string) float64 {
	ra, rb := []rune(a), []rune(b)
	if len(ra) == 0 || len(rb) == 0 {
		if len(ra) == len(rb) {
			return 0
		}
		return 1
	}

	shorter, longer := ra, rb
	if len(longer) < len(shorter) {
		shorter, longer = longer, shorter
	}

	shortStr := string(shorter)
	windowLen := len(shorter)
	if windowLen >= len(longer) {
		return levenshteinRatio(string(longer), shortStr)
	}

	best := math.MaxFloat64
	for start := 0; start+windowLen <= len(longer); start++ {
		window := string(longer[start : start+windowLen])
		d := levenshteinRatio(window, shortStr)
		if d < best {
			best = d
		}
		if best == 0 {
			break
		}
	}
	return best
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
