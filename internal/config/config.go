// Package config loads the process-global configuration surface for the
// search service: the response-shaping flags, the search cutoffs and
// limits, the cache directory, and the server address/timeouts. A Config
// is built once at startup and never mutated afterwards.
package config

import (
	"os"
	"strconv"
	"time"
)

// Env selects the --env CLI profile overlay.
type Env string

const (
	Development Env = "development"
	Production  Env = "production"
	Testing     Env = "testing"
)

// Config holds the response-shaping and search flags, plus the ambient
// server address/timeouts.
type Config struct {
	// Server
	Host string
	Port string

	// Response shaping
	SendScore        bool
	SendHiddenFields bool

	// Search
	MaxResultScore     float64
	DefaultSearchLimit int
	MaxSearchLimit     int

	// Scraping / caching. WarnAboutHTTPVersion is loaded but not read by
	// the scraper: scrape.NewEnv always installs the one-shot HTTP-version
	// warning.
	WarnAboutHTTPVersion bool
	ResourcesDir         string
	CacheDirName         string
	UseCaching           bool

	// Output shaping, set per --env profile below
	PrettyJSON        bool
	CompressResponses bool

	// Process profile
	Env Env

	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

// Load reads configuration from environment variables, applying defaults,
// then overlays the named --env profile on top.
func Load(env Env) *Config {
	cfg := &Config{
		Host: envOr("BUSCA_HOST", "127.0.0.1"),
		Port: envOr("BUSCA_PORT", "8080"),

		SendScore:        envBool("BUSCA_SEND_SCORE", false),
		SendHiddenFields: envBool("BUSCA_SEND_HIDDEN_FIELDS", false),

		MaxResultScore:     envFloat("BUSCA_MAX_RESULT_SCORE", 0.99),
		DefaultSearchLimit: envInt("BUSCA_DEFAULT_SEARCH_LIMIT", 25),
		MaxSearchLimit:     envInt("BUSCA_MAX_SEARCH_LIMIT", 100),

		WarnAboutHTTPVersion: envBool("BUSCA_WARN_ABOUT_HTTP_VERSION", true),
		ResourcesDir:         envOr("BUSCA_RESOURCES_DIR", "."),
		CacheDirName:         envOr("BUSCA_CACHE_DIR", "Cache"),
		UseCaching:           envBool("BUSCA_USE_CACHING", true),

		PrettyJSON:        envBool("BUSCA_PRETTY_JSON", false),
		CompressResponses: envBool("BUSCA_COMPRESS_RESPONSES", false),

		Env: env,

		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	cfg.applyProfile(env)
	return cfg
}

// applyProfile applies the --env overlay: development turns on
// send_score/send_hidden_fields and indented JSON responses; production
// binds 0.0.0.0 and turns on response compression at the router layer.
// Explicit environment variables set above are not overridden by the
// profile.
func (c *Config) applyProfile(env Env) {
	switch env {
	case Development:
		if os.Getenv("BUSCA_SEND_SCORE") == "" {
			c.SendScore = true
		}
		if os.Getenv("BUSCA_SEND_HIDDEN_FIELDS") == "" {
			c.SendHiddenFields = true
		}
		if os.Getenv("BUSCA_PRETTY_JSON") == "" {
			c.PrettyJSON = true
		}
	case Production:
		if os.Getenv("BUSCA_HOST") == "" {
			c.Host = "0.0.0.0"
		}
		if os.Getenv("BUSCA_COMPRESS_RESPONSES") == "" {
			c.CompressResponses = true
		}
	case Testing:
		if os.Getenv("BUSCA_USE_CACHING") == "" {
			c.UseCaching = false
		}
	}
}

// Addr returns the listen address as "host:port".
func (c *Config) Addr() string {
	return c.Host + ":" + c.Port
}

// envOr, envInt, envFloat, and envBool are the generic env-var parsing
// helpers backing every field in Load: missing or unparsable values fall
// back to the given default rather than erroring, since an operator typo
// in one variable shouldn't block startup.
func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func envFloat(key string, fallback float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return fallback
	}
	return f
}

func envBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return b
}
