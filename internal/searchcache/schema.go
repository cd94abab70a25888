// Package searchcache implements the generic weighted fuzzy-search index:
// schemas (C3), per-record scorers (C4), and typed corpus indices (C5).
package searchcache

import "fmt"

// Property describes one searchable field of a record type T: how to read
// its text, how much it should weigh in the combined score, and whether it
// is a short identifier-like value or should be hidden from clients.
type Property[T any] struct {
	// Name identifies the property in the wire envelope and in error
	// messages (e.g. "code", "name").
	Name string
	// Get extracts the field's textual value from a record.
	Get func(T) string
	// Weight is this property's non-negative contribution to the combined
	// score. A Schema's properties are normalized by their total weight.
	Weight float64
	// Identifier marks short, code-like values (scored with plain
	// Levenshtein instead of partial ratio).
	Identifier bool
	// Hidden marks values that must never leave the server.
	Hidden bool
}

// Schema describes a record type's searchable properties, weights, and
// presentation. One Schema is registered per record type.
type Schema[T any] struct {
	// Properties is the non-empty set of searchable fields.
	Properties []Property[T]
	// Scaling is the per-type exponent (s >= 0) applied to the combined
	// score after per-field combination. Callers should set this to 1.0 for
	// the neutral default; the zero value is the degenerate s=0 case (every
	// combined score collapses to 1) and is accepted, not silently
	// upgraded.
	Scaling float64
	// ContentLabel names this corpus in the wire envelope. When empty, Build
	// sets it to the lowercased name of T.
	ContentLabel string
}

// ErrNonPositiveWeight is returned by Validate when a property has a
// negative weight.
type ErrNonPositiveWeight struct {
	Properties []string
}

func (e *ErrNonPositiveWeight) Error() string {
	return fmt.Sprintf("searchcache: negative weight for properties %v", e.Properties)
}

// ErrEmptyPropertySet is returned by Validate when a schema declares no
// properties.
var ErrEmptyPropertySet = fmt.Errorf("searchcache: schema has an empty property set")

// Validate checks the schema invariants: a non-empty property set, and no
// negative weights. Zero weights are accepted (they are degenerate but not
// invalid).
func (s Schema[T]) Validate() error {
	if len(s.Properties) == 0 {
		return ErrEmptyPropertySet
	}
	var offending []string
	total := 0.0
	for _, p := range s.Properties {
		if p.Weight < 0 {
			offending = append(offending, p.Name)
			continue
		}
		total += p.Weight
	}
	if len(offending) > 0 {
		return &ErrNonPositiveWeight{Properties: offending}
	}
	if total <= 0 {
		return fmt.Errorf("searchcache: total weight must be positive, got %v", total)
	}
	if s.Scaling < 0 {
		return fmt.Errorf("searchcache: scaling exponent must be >= 0, got %v", s.Scaling)
	}
	return nil
}

func (s Schema[T]) totalWeight() float64 {
	total := 0.0
	for _, p := range s.Properties {
		total += p.Weight
	}
	return total
}

