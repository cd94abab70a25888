package searchcache

import (
	"log/slog"
	"reflect"
	"runtime"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/marmitar/busca-fuzzy/internal/normalize"
)

// MaxResultScore is the default per-entry cutoff: entries scoring at or
// above this value are dropped from search results.
const MaxResultScore = 0.99

// Result is one match returned by Index.Search: the corpus's content label,
// the entry's score against the query, and its stored (non-hidden, unless
// configured otherwise) fields.
type Result struct {
	ContentLabel string
	Score        float64
	Fields       map[string]string
}

// Index holds the built, immutable set of per-record scorers for a single
// record type. It is replaced wholesale (never mutated in place) when a
// rebuild completes.
type Index[T any] struct {
	schema  Schema[T]
	entries []entry[T]
}

// Build validates schema, then constructs an Index from records in
// parallel: one entry per record, embarrassingly parallel across the input
// slice. A schema that fails Validate yields a nil Index and the
// validation error; no entries are built.
func Build[T any](label string, schema Schema[T], records []T) (*Index[T], error) {
	if err := schema.Validate(); err != nil {
		return nil, err
	}
	if schema.ContentLabel == "" {
		schema.ContentLabel = strings.ToLower(reflect.TypeFor[T]().Name())
	}

	start := time.Now()
	entries := make([]entry[T], len(records))

	var wg sync.WaitGroup
	workers := runtime.NumCPU()
	if workers > len(records) {
		workers = len(records)
	}
	if workers < 1 {
		workers = 1
	}

	chunks := make(chan int, workers)
	wg.Add(workers)
	for w := 0; w < workers; w++ {
		go func() {
			defer wg.Done()
			for i := range chunks {
				entries[i] = buildEntry(schema, records[i])
			}
		}()
	}
	for i := range records {
		chunks <- i
	}
	close(chunks)
	wg.Wait()

	slog.Info("Building search cache for "+label,
		"type", label,
		"records", len(records),
		"elapsed_s", time.Since(start).Seconds(),
	)

	return &Index[T]{schema: schema, entries: entries}, nil
}

// Search normalizes query and ranks every entry, dropping entries whose
// score is at or above cutoff, and returns the survivors sorted ascending
// by score (ties broken by content label, then by the entries' order in the
// index, since the sort is stable).
func (idx *Index[T]) Search(query string, cutoff float64, sendHidden bool) []Result {
	normalized := normalize.Pipeline(query)
	label := idx.schema.ContentLabel

	results := make([]Result, 0, len(idx.entries))
	for _, e := range idx.entries {
		s := e.score(normalized)
		if s >= cutoff {
			continue
		}
		fields := e.visibleFields()
		if sendHidden {
			fields = e.allFields()
		}
		results = append(results, Result{ContentLabel: label, Score: s, Fields: fields})
	}

	sort.SliceStable(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score < results[j].Score
		}
		return results[i].ContentLabel < results[j].ContentLabel
	})
	return results
}

// Len returns the number of entries in the index.
func (idx *Index[T]) Len() int {
	return len(idx.entries)
}
