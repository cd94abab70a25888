// Package scrape implements the scraping contract and runner (C7): for each
// registered record type, a Scraper yields a fully decoded corpus by
// fetching and parsing an HTML page; the Run function persists and reads
// that corpus from a local JSON cache file so subsequent startups skip the
// network, following a cache-then-scrape-then-background-persist shape.
package scrape

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/marmitar/busca-fuzzy/internal/normalize"
)

// Env provides a scraper plugin everything it needs: an HTTP client, the
// cache configuration, and a logger. It is constructed once at startup and
// shared by every plugin.
type Env struct {
	Client     *http.Client
	CacheDir   string
	UseCaching bool
	Logger     *slog.Logger
}

// NewEnv builds an Env with a process-global HTTP client. client's
// configuration (timeouts, transport) is set once; it must not be mutated
// after the first request is issued.
func NewEnv(cacheDir string, useCaching bool, logger *slog.Logger) *Env {
	if logger == nil {
		logger = slog.Default()
	}
	return &Env{
		Client:     &http.Client{Timeout: 30 * time.Second, Transport: versionWarningTransport(http.DefaultTransport, logger)},
		CacheDir:   cacheDir,
		UseCaching: useCaching,
		Logger:     logger,
	}
}

// httpVersionWarnOnce guards the process-wide one-shot warning emitted when
// the negotiated HTTP version is not HTTP/1-only: many of the target sites
// misbehave under HTTP/2.
var httpVersionWarnOnce sync.Once

// versionWarningTransport wraps base so the first response observed with a
// protocol other than "HTTP/1.0"/"HTTP/1.1" triggers the one-shot warning.
func versionWarningTransport(base http.RoundTripper, logger *slog.Logger) http.RoundTripper {
	return roundTripperFunc(func(req *http.Request) (*http.Response, error) {
		resp, err := base.RoundTrip(req)
		if err == nil && resp != nil && resp.Proto != "HTTP/1.0" && resp.Proto != "HTTP/1.1" {
			httpVersionWarnOnce.Do(func() {
				logger.Warn("negotiated HTTP version is not HTTP/1", "proto", resp.Proto, "url", req.URL.String())
			})
		}
		return resp, err
	})
}

type roundTripperFunc func(*http.Request) (*http.Response, error)

func (f roundTripperFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req)
}

// Scraper produces the fully decoded output O for one record type by
// fetching and parsing HTML. CacheKey names the on-disk cache file
// (sanitised); Scrape does the actual network+parse work.
type Scraper[O any] interface {
	CacheKey() string
	Scrape(ctx context.Context, env *Env) (O, error)
}

// FetchDocument issues a GET against url and parses the response body as an
// HTML document, the one suspension point every scraper plugin goes
// through before handing off to htmlutil helpers.
func FetchDocument(ctx context.Context, env *Env, url string) (*goquery.Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("scrape: build request for %s: %w", url, err)
	}
	resp, err := env.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("scrape: fetch %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("scrape: fetch %s: unexpected status %d", url, resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("scrape: parse %s: %w", url, err)
	}
	return doc, nil
}

// cachePath returns <cache_dir>/<sanitised_cache_key>.json.
func cachePath(env *Env, cacheKey string) string {
	name := normalize.SanitisePathSegment(cacheKey) + ".json"
	return filepath.Join(env.CacheDir, name)
}

// Run implements the C7 runner contract: try the on-disk cache, else call
// s.Scrape; on a fresh scrape success, persist the result in the
// background without blocking the caller. A cache file that fails to decode
// counts as a miss. If the scrape fails, the cache file is removed and the
// scrape retried once (see DESIGN.md).
func Run[O any](ctx context.Context, env *Env, s Scraper[O]) (O, error) {
	path := cachePath(env, s.CacheKey())

	if env.UseCaching {
		if out, ok := readCache[O](path); ok {
			return out, nil
		}
	}

	out, err := s.Scrape(ctx, env)
	if err != nil {
		// Retry once with the cache forcibly invalidated: a stale/corrupt
		// cache file could itself be the reason a previous decode failed
		// upstream of this call, so removing it before the single retry
		// guarantees the retry cannot observe the same bad file.
		os.Remove(path)
		out, err = s.Scrape(ctx, env)
		if err != nil {
			var zero O
			return zero, fmt.Errorf("scrape: %s: %w", s.CacheKey(), err)
		}
	}

	if env.UseCaching {
		go writeCacheBackground(env, path, out)
	}
	return out, nil
}

// Build forces a fresh scrape, bypassing any on-disk cache, and persists
// the result synchronously before returning — unlike Run, which persists in
// the background so request-path callers never block on disk I/O. The
// `build-cache` CLI subcommand uses this so the process does not exit
// before its cache files actually land on disk.
func Build[O any](ctx context.Context, env *Env, s Scraper[O]) (O, error) {
	path := cachePath(env, s.CacheKey())

	out, err := s.Scrape(ctx, env)
	if err != nil {
		var zero O
		return zero, fmt.Errorf("scrape: %s: %w", s.CacheKey(), err)
	}

	data, err := json.Marshal(out)
	if err != nil {
		var zero O
		return zero, fmt.Errorf("scrape: %s: marshal cache: %w", s.CacheKey(), err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		var zero O
		return zero, fmt.Errorf("scrape: %s: mkdir cache dir: %w", s.CacheKey(), err)
	}
	os.Remove(path)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		var zero O
		return zero, fmt.Errorf("scrape: %s: write cache: %w", s.CacheKey(), err)
	}
	return out, nil
}

// readCache attempts to read and decode path as O. Any failure (missing
// file, decode error) is treated as a cache miss, falling through to a
// fresh scrape.
func readCache[O any](path string) (O, bool) {
	var zero O
	data, err := os.ReadFile(path)
	if err != nil {
		return zero, false
	}
	var out O
	if err := json.Unmarshal(data, &out); err != nil {
		return zero, false
	}
	return out, true
}

// writeCacheBackground persists out as JSON at path, creating the parent
// directory as needed and removing any pre-existing file first. It runs
// detached from the caller's context, so it is not cancelled by request
// cancellation, and only logs on failure.
func writeCacheBackground[O any](env *Env, path string, out O) {
	data, err := json.Marshal(out)
	if err != nil {
		env.Logger.Error("cache write: marshal failed", "path", path, "error", err)
		return
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		env.Logger.Error("cache write: mkdir failed", "path", path, "error", err)
		return
	}
	os.Remove(path)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		env.Logger.Error("cache write: write failed", "path", path, "error", err)
	}
}
