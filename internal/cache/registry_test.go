package cache

import (
	"errors"
	"testing"

	"github.com/marmitar/busca-fuzzy/internal/searchcache"
)

type widget struct {
	Code string
}

func widgetSchema() searchcache.Schema[widget] {
	return searchcache.Schema[widget]{
		Properties: []searchcache.Property[widget]{
			{Name: "code", Get: func(w widget) string { return w.Code }, Weight: 1, Identifier: true},
		},
		Scaling:      1,
		ContentLabel: "widget",
	}
}

func TestSearchBeforeOverwriteReturnsErrNotBuilt(t *testing.T) {
	r := NewRegistry()
	_, err := Search[widget](r, "widget", "anything", searchcache.MaxResultScore, false)
	if !errors.Is(err, ErrNotBuilt) {
		t.Fatalf("got %v, want ErrNotBuilt", err)
	}
}

func TestOverwriteThenSearch(t *testing.T) {
	r := NewRegistry()
	idx, buildErr := searchcache.Build("widget", widgetSchema(), []widget{{Code: "AAA"}, {Code: "BBB"}})
	if err := Overwrite(r, "widget", idx, buildErr); err != nil {
		t.Fatalf("Overwrite: %v", err)
	}

	results, err := Search[widget](r, "widget", "aaa", searchcache.MaxResultScore, false)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(results) == 0 {
		t.Fatal("expected at least one result")
	}
}

func TestIndependentKeysDoNotCollide(t *testing.T) {
	r := NewRegistry()
	idx, buildErr := searchcache.Build("widget", widgetSchema(), []widget{{Code: "AAA"}})
	if err := Overwrite(r, "a", idx, buildErr); err != nil {
		t.Fatalf("Overwrite: %v", err)
	}

	if _, ok := Get[widget](r, "b"); ok {
		t.Error("key b should be unbuilt")
	}
	if _, ok := Get[widget](r, "a"); !ok {
		t.Error("key a should be built")
	}
}

func TestOverwriteLeavesPreviousSlotOnSchemaError(t *testing.T) {
	r := NewRegistry()
	good, buildErr := searchcache.Build("widget", widgetSchema(), []widget{{Code: "AAA"}})
	if err := Overwrite(r, "widget", good, buildErr); err != nil {
		t.Fatalf("Overwrite: %v", err)
	}

	bad := searchcache.Schema[widget]{ContentLabel: "widget", Scaling: 1}
	replacement, badErr := searchcache.Build("widget", bad, []widget{{Code: "BBB"}})
	if badErr == nil {
		t.Fatal("expected a schema validation error")
	}
	if err := Overwrite(r, "widget", replacement, badErr); err == nil {
		t.Fatal("expected Overwrite to propagate the schema error")
	}

	idx, ok := Get[widget](r, "widget")
	if !ok {
		t.Fatal("previous index should still be present")
	}
	if idx != good {
		t.Error("previous index was replaced despite a schema error")
	}
}
