// Package search implements the request orchestration layer (C9): per
// request, fan out a query to every registered corpus in parallel,
// merge-and-cap the per-corpus results by score, and expose both the HTTP
// and WebSocket streaming forms.
package search

import (
	"context"
	"sort"
	"sync"

	"github.com/marmitar/busca-fuzzy/internal/searchcache"
)

// DefaultSearchLimit and MaxSearchLimit mirror the configuration defaults
// for the `limit` query parameter. Neither Orchestrator nor ClampLimit
// reads them; both take their limits from the caller, which normally uses
// config.Config.
const (
	DefaultSearchLimit = 25
	MaxSearchLimit     = 100
)

// CorpusSearcher runs a single corpus's fuzzy search for query, returning
// results pre-sorted ascending by score (searchcache.Index.Search's own
// contract).
type CorpusSearcher func(ctx context.Context, query string) ([]searchcache.Result, error)

// Orchestrator fans a query out across every registered corpus and merges
// the results into one globally ranked response.
type Orchestrator struct {
	mu        sync.RWMutex
	searchers map[string]CorpusSearcher
}

// NewOrchestrator returns an Orchestrator with no registered corpora.
func NewOrchestrator() *Orchestrator {
	return &Orchestrator{searchers: make(map[string]CorpusSearcher)}
}

// Register adds (or replaces) the searcher for a record type, identified
// by name. It is safe to call concurrently with Search.
func (o *Orchestrator) Register(name string, fn CorpusSearcher) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.searchers[name] = fn
}

// ClampLimit clamps raw to [1, maxLimit], except that 0 stays 0 (a request
// for an empty response). defaultLimit is not consulted: whether the
// parameter was absent or invalid is decided by the HTTP layer before
// ClampLimit is called; ClampLimit itself only enforces the numeric range.
func ClampLimit(raw, defaultLimit, maxLimit int) int {
	if raw == 0 {
		return 0
	}
	if raw < 1 {
		return 1
	}
	if raw > maxLimit {
		return maxLimit
	}
	return raw
}

// Search fans query out to every registered corpus in parallel. As each
// corpus's subtask completes, its top `limit` results are merged into a
// running sorted buffer which is truncated to `limit` after every merge —
// this bounds peak memory to roughly (number of corpora) * limit and
// produces the same result as a full sort-then-truncate. A limit of 0
// yields an empty response without running any subtask.
func (o *Orchestrator) Search(ctx context.Context, query string, limit int) []searchcache.Result {
	if limit <= 0 {
		return []searchcache.Result{}
	}

	o.mu.RLock()
	searchers := make([]CorpusSearcher, 0, len(o.searchers))
	for _, fn := range o.searchers {
		searchers = append(searchers, fn)
	}
	o.mu.RUnlock()

	type outcome struct {
		results []searchcache.Result
	}
	outcomes := make(chan outcome, len(searchers))

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var wg sync.WaitGroup
	wg.Add(len(searchers))
	for _, fn := range searchers {
		fn := fn
		go func() {
			defer wg.Done()
			res, err := fn(ctx, query)
			if err != nil {
				outcomes <- outcome{}
				return
			}
			if len(res) > limit {
				res = res[:limit]
			}
			outcomes <- outcome{results: res}
		}()
	}
	go func() {
		wg.Wait()
		close(outcomes)
	}()

	buffer := make([]searchcache.Result, 0, limit)
	for o := range outcomes {
		if len(o.results) == 0 {
			continue
		}
		buffer = mergeCapped(buffer, o.results, limit)
	}
	return buffer
}

// mergeCapped merges two already-sorted-ascending slices and truncates the
// result to limit, equivalent to appending both and doing a full
// sort-then-truncate but touching only O(limit) elements of output.
func mergeCapped(a, b []searchcache.Result, limit int) []searchcache.Result {
	merged := make([]searchcache.Result, 0, min(limit, len(a)+len(b)))
	i, j := 0, 0
	for len(merged) < limit && (i < len(a) || j < len(b)) {
		switch {
		case i >= len(a):
			merged = append(merged, b[j])
			j++
		case j >= len(b):
			merged = append(merged, a[i])
			i++
		case less(a[i], b[j]):
			merged = append(merged, a[i])
			i++
		default:
			merged = append(merged, b[j])
			j++
		}
	}
	return merged
}

func less(a, b searchcache.Result) bool {
	if a.Score != b.Score {
		return a.Score < b.Score
	}
	return a.ContentLabel < b.ContentLabel
}

// SortAscending is exposed for tests that want to assert the ascending
// score order against a brute-force oracle (flatten-then-sort) rather than
// through the incremental merge path.
func SortAscending(results []searchcache.Result) {
	sort.SliceStable(results, func(i, j int) bool { return less(results[i], results[j]) })
}
