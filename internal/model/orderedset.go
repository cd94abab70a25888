package model

import (
	"cmp"
	"encoding/json"
	"slices"
)

// OrderedSet is a hashable, comparable container of unique, ascending
// values. It serializes as a plain JSON array and deserializes from any
// array by de-duplicating and sorting, so duplicates on the wire round-trip
// cleanly into a canonical form.
type OrderedSet[T cmp.Ordered] struct {
	values []T
}

// NewOrderedSet builds an OrderedSet from any slice of values, deduplicating
// and sorting them.
func NewOrderedSet[T cmp.Ordered](values []T) OrderedSet[T] {
	return OrderedSet[T]{values: dedupSorted(values)}
}

// Values returns the ascending, deduplicated contents. The returned slice
// must not be mutated by the caller.
func (s OrderedSet[T]) Values() []T {
	return s.values
}

// Len returns the number of distinct elements.
func (s OrderedSet[T]) Len() int {
	return len(s.values)
}

// Contains reports whether v is a member of the set.
func (s OrderedSet[T]) Contains(v T) bool {
	_, found := slices.BinarySearch(s.values, v)
	return found
}

// Less reports whether s sorts lexicographically before other, comparing
// element-wise and then by length.
func (s OrderedSet[T]) Less(other OrderedSet[T]) bool {
	n := min(len(s.values), len(other.values))
	for i := 0; i < n; i++ {
		if s.values[i] != other.values[i] {
			return s.values[i] < other.values[i]
		}
	}
	return len(s.values) < len(other.values)
}

// MarshalJSON emits the underlying values as a plain JSON array.
func (s OrderedSet[T]) MarshalJSON() ([]byte, error) {
	if s.values == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(s.values)
}

// UnmarshalJSON reads any JSON array and re-applies dedup+sort.
func (s *OrderedSet[T]) UnmarshalJSON(data []byte) error {
	var values []T
	if err := json.Unmarshal(data, &values); err != nil {
		return err
	}
	s.values = dedupSorted(values)
	return nil
}

func dedupSorted[T cmp.Ordered](values []T) []T {
	out := slices.Clone(values)
	slices.Sort(out)
	return slices.Compact(out)
}
