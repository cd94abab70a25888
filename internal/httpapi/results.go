package httpapi

import "github.com/marmitar/busca-fuzzy/internal/searchcache"

// searchResult is the wire shape of one GET /api/busca match: the corpus's
// (non-hidden, unless configured) stored fields, its content label, and —
// only when send_score is enabled — its score.
type searchResult map[string]any

// toSearchResults projects searchcache.Result values (whose hidden-field
// filtering already happened inside Index.Search) into the wire envelope.
func toSearchResults(results []searchcache.Result, sendScore bool) []searchResult {
	out := make([]searchResult, len(results))
	for i, r := range results {
		obj := make(searchResult, len(r.Fields)+2)
		for name, text := range r.Fields {
			obj[name] = text
		}
		obj["content"] = r.ContentLabel
		if sendScore {
			obj["score"] = r.Score
		}
		out[i] = obj
	}
	return out
}
