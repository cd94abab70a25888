package model

import "testing"

func TestDisciplineSchemaValid(t *testing.T) {
	if err := DisciplineSchema().Validate(); err != nil {
		t.Fatalf("DisciplineSchema invalid: %v", err)
	}
}

func TestCourseSchemaValid(t *testing.T) {
	if err := CourseSchema().Validate(); err != nil {
		t.Fatalf("CourseSchema invalid: %v", err)
	}
}

func TestOrderedSetDedupAndSort(t *testing.T) {
	s := NewOrderedSet([]string{"MC202", "MC102", "MC202", "MC322"})
	got := s.Values()
	want := []string{"MC102", "MC202", "MC322"}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}
	if !s.Contains("MC102") || s.Contains("MC999") {
		t.Error("Contains mismatch")
	}
}

func TestOrderedSetLess(t *testing.T) {
	a := NewOrderedSet([]string{"AA"})
	b := NewOrderedSet([]string{"AA", "AB"})
	if !a.Less(b) {
		t.Error("shorter prefix should sort before its extension")
	}
	if b.Less(a) {
		t.Error("extension should not sort before its prefix")
	}
}

func TestOrderedSetJSONRoundTrip(t *testing.T) {
	s := NewOrderedSet([]string{"AX", "AA", "AA", "AB"})
	data, err := s.MarshalJSON()
	if err != nil {
		t.Fatalf("MarshalJSON: %v", err)
	}
	var out OrderedSet[string]
	if err := out.UnmarshalJSON(data); err != nil {
		t.Fatalf("UnmarshalJSON: %v", err)
	}
	if out.Len() != 3 {
		t.Fatalf("got %d elements, want 3", out.Len())
	}
}
