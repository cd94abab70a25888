package searchcache

import (
	"errors"
	"math"
	"testing"
)

type testRecord struct {
	Code string
	Name string
}

func testSchema() Schema[testRecord] {
	return Schema[testRecord]{
		Properties: []Property[testRecord]{
			{Name: "code", Get: func(r testRecord) string { return r.Code }, Weight: 1, Identifier: true},
			{Name: "name", Get: func(r testRecord) string { return r.Name }, Weight: 2},
		},
		Scaling:      1.0,
		ContentLabel: "test",
	}
}

func TestSchemaValidate(t *testing.T) {
	if err := testSchema().Validate(); err != nil {
		t.Fatalf("valid schema rejected: %v", err)
	}

	empty := Schema[testRecord]{ContentLabel: "test", Scaling: 1}
	if err := empty.Validate(); err != ErrEmptyPropertySet {
		t.Errorf("empty property set: got %v, want ErrEmptyPropertySet", err)
	}

	negative := Schema[testRecord]{
		Properties: []Property[testRecord]{
			{Name: "code", Get: func(r testRecord) string { return r.Code }, Weight: -1},
		},
		Scaling:      1,
		ContentLabel: "test",
	}
	var weightErr *ErrNonPositiveWeight
	if err := negative.Validate(); err == nil {
		t.Fatal("expected error for negative weight")
	} else if !errors.As(err, &weightErr) {
		t.Errorf("got %v, want *ErrNonPositiveWeight", err)
	}
}

func sampleRecords() []testRecord {
	return []testRecord{
		{Code: "MC102", Name: "Algoritmos e Programacao de Computadores"},
		{Code: "MC202", Name: "Estruturas de Dados"},
		{Code: "MC322", Name: "Principios de Linguagens de Programacao"},
		{Code: "F 128", Name: "Fisica Geral"},
	}
}

func TestIndexScoreRangeAndCutoff(t *testing.T) {
	idx, err := Build("test", testSchema(), sampleRecords())
	if err != nil {
		t.Fatalf("unexpected build error: %v", err)
	}

	results := idx.Search("algoritmos", MaxResultScore, false)
	if len(results) == 0 {
		t.Fatal("expected at least one result")
	}
	for _, r := range results {
		if r.Score < 0 || r.Score >= MaxResultScore {
			t.Errorf("result score %v out of [0, cutoff)", r.Score)
		}
	}
}

func TestIndexIdentity(t *testing.T) {
	idx, err := Build("test", testSchema(), sampleRecords())
	if err != nil {
		t.Fatalf("unexpected build error: %v", err)
	}
	results := idx.Search("mc102 algoritmos e programacao de computadores", MaxResultScore, false)
	if len(results) == 0 {
		t.Fatal("expected a match for the exact record text")
	}
	// The name field (weight 2/3) matches as a substring and is floored at
	// perFieldFloor; the code field's factor is at most 1.
	if bound := math.Pow(perFieldFloor, 2.0/3.0); results[0].Score > bound {
		t.Errorf("near-identical query scored %v, expected at most %v", results[0].Score, bound)
	}
}

func TestIndexSortedAscending(t *testing.T) {
	idx, err := Build("test", testSchema(), sampleRecords())
	if err != nil {
		t.Fatalf("unexpected build error: %v", err)
	}
	results := idx.Search("estruturas", 1.0, false)
	for i := 1; i < len(results); i++ {
		if results[i].Score < results[i-1].Score {
			t.Fatalf("results not sorted ascending: %v before %v", results[i-1].Score, results[i].Score)
		}
	}
}

func TestIndexHiddenFieldsOmitted(t *testing.T) {
	schema := Schema[testRecord]{
		Properties: []Property[testRecord]{
			{Name: "code", Get: func(r testRecord) string { return r.Code }, Weight: 1, Identifier: true},
			{Name: "secret", Get: func(r testRecord) string { return r.Name }, Weight: 1, Hidden: true},
		},
		Scaling:      1,
		ContentLabel: "test",
	}
	idx, err := Build("test", schema, sampleRecords())
	if err != nil {
		t.Fatalf("unexpected build error: %v", err)
	}

	for _, r := range idx.Search("mc102", 1.0, false) {
		if _, ok := r.Fields["secret"]; ok {
			t.Errorf("hidden field leaked with send_hidden_fields=false: %v", r.Fields)
		}
	}
	found := false
	for _, r := range idx.Search("mc102", 1.0, true) {
		if _, ok := r.Fields["secret"]; ok {
			found = true
		}
	}
	if !found {
		t.Error("hidden field missing with send_hidden_fields=true")
	}
}

func TestIndexFieldsPreserveOriginalCasing(t *testing.T) {
	idx, err := Build("test", testSchema(), sampleRecords())
	if err != nil {
		t.Fatalf("unexpected build error: %v", err)
	}

	results := idx.Search("fisica geral", MaxResultScore, false)
	if len(results) == 0 {
		t.Fatal("expected at least one result")
	}

	var matched bool
	for _, r := range results {
		if r.Fields["code"] == "F 128" {
			matched = true
			if got := r.Fields["name"]; got != "Fisica Geral" {
				t.Errorf("name field = %q, want original casing %q", got, "Fisica Geral")
			}
		}
	}
	if !matched {
		t.Fatal("expected a result with code \"F 128\" (original casing), not a folded variant")
	}
}

func TestBuildRejectsInvalidSchema(t *testing.T) {
	bad := Schema[testRecord]{ContentLabel: "test", Scaling: 1}
	idx, err := Build("test", bad, sampleRecords())
	if err != ErrEmptyPropertySet {
		t.Errorf("got %v, want ErrEmptyPropertySet", err)
	}
	if idx != nil {
		t.Error("expected a nil index when schema validation fails")
	}
}
