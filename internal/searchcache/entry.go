package searchcache

import (
	"math"

	"github.com/marmitar/busca-fuzzy/internal/fuzzy"
	"github.com/marmitar/busca-fuzzy/internal/normalize"
)

// perFieldFloor prevents a single zero-score field from masking the rest of
// the record's score.
const perFieldFloor = 1e-4

// fieldScorer owns one property's cached display text, fuzzy scorer, and
// normalized weight. display and the scorer's own normalized text diverge on
// purpose: display keeps the record's original casing and accents (only
// whitespace is collapsed) since it is what gets sent back to clients, while
// the scorer is built from the fully case-folded, diacritic-stripped text so
// matching is accent- and case-insensitive.
type fieldScorer struct {
	name       string
	display    string // whitespace-collapsed, case preserved (visible_fields/all_fields)
	scorer     fuzzy.Scorer
	weight     float64 // property weight / total weight
	hidden     bool
	identifier bool
}

// entry is one per record: a vector of fieldScorer sized to the schema's
// property count, able to compute the record's combined score against a
// normalized query and to expose its stored fields for the wire envelope.
type entry[T any] struct {
	fields  []fieldScorer
	scaling float64
}

// buildEntry constructs an entry for record r under schema s. s must have
// already passed Validate.
func buildEntry[T any](s Schema[T], r T) entry[T] {
	total := s.totalWeight()
	fields := make([]fieldScorer, len(s.Properties))
	for i, p := range s.Properties {
		raw := p.Get(r)
		normalized := normalize.Pipeline(raw)
		kind := fuzzy.Text
		if p.Identifier {
			kind = fuzzy.Identifier
		}
		fields[i] = fieldScorer{
			name:       p.Name,
			display:    normalize.CollapseWhitespace(raw),
			scorer:     fuzzy.NewScorer(normalized, kind),
			weight:     p.Weight / total,
			hidden:     p.Hidden,
			identifier: p.Identifier,
		}
	}
	return entry[T]{fields: fields, scaling: s.Scaling}
}

// score computes the combined score against an already-normalized query:
// per-field scores are floored, combined as a weighted geometric mean, then
// raised to the schema's scaling exponent.
func (e entry[T]) score(normalizedQuery string) float64 {
	combined := 1.0
	for _, f := range e.fields {
		s := f.scorer.Score(normalizedQuery)
		if s < perFieldFloor {
			s = perFieldFloor
		}
		if s > 1 {
			s = 1
		}
		combined *= math.Pow(s, f.weight)
	}
	return math.Pow(combined, math.Abs(e.scaling))
}

// visibleFields returns the display text for every non-hidden property,
// whitespace-collapsed but otherwise exactly as scraped.
func (e entry[T]) visibleFields() map[string]string {
	out := make(map[string]string, len(e.fields))
	for _, f := range e.fields {
		if !f.hidden {
			out[f.name] = f.display
		}
	}
	return out
}

// allFields returns the display text for every property, including hidden
// ones, for bulk export/re-indexing.
func (e entry[T]) allFields() map[string]string {
	out := make(map[string]string, len(e.fields))
	for _, f := range e.fields {
		out[f.name] = f.display
	}
	return out
}
