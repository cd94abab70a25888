package config

import (
	"os"
	"testing"
)

func clearEnv(t *testing.T, keys ...string) {
	t.Helper()
	for _, k := range keys {
		os.Unsetenv(k)
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t, "BUSCA_HOST", "BUSCA_PORT", "BUSCA_SEND_SCORE", "BUSCA_SEND_HIDDEN_FIELDS",
		"BUSCA_MAX_RESULT_SCORE", "BUSCA_DEFAULT_SEARCH_LIMIT", "BUSCA_MAX_SEARCH_LIMIT",
		"BUSCA_WARN_ABOUT_HTTP_VERSION", "BUSCA_CACHE_DIR", "BUSCA_USE_CACHING")

	cfg := Load(Production)
	if cfg.Host != "0.0.0.0" {
		t.Errorf("production profile should bind 0.0.0.0, got %q", cfg.Host)
	}
	if cfg.Port != "8080" {
		t.Errorf("expected default port 8080, got %q", cfg.Port)
	}
	if cfg.MaxResultScore != 0.99 {
		t.Errorf("expected MaxResultScore 0.99, got %v", cfg.MaxResultScore)
	}
	if cfg.DefaultSearchLimit != 25 {
		t.Errorf("expected DefaultSearchLimit 25, got %d", cfg.DefaultSearchLimit)
	}
	if cfg.MaxSearchLimit != 100 {
		t.Errorf("expected MaxSearchLimit 100, got %d", cfg.MaxSearchLimit)
	}
	if cfg.CacheDirName != "Cache" {
		t.Errorf("expected CacheDirName Cache, got %q", cfg.CacheDirName)
	}
	if !cfg.UseCaching {
		t.Error("expected UseCaching true by default")
	}
	if cfg.SendScore || cfg.SendHiddenFields {
		t.Error("production profile should not enable send_score/send_hidden_fields")
	}
	if !cfg.CompressResponses {
		t.Error("production profile should enable response compression")
	}
	if cfg.PrettyJSON {
		t.Error("production profile should not pretty-print JSON")
	}
}

func TestLoad_DevelopmentProfileEnablesDebugFields(t *testing.T) {
	clearEnv(t, "BUSCA_SEND_SCORE", "BUSCA_SEND_HIDDEN_FIELDS", "BUSCA_HOST")

	cfg := Load(Development)
	if !cfg.SendScore || !cfg.SendHiddenFields {
		t.Error("development profile should enable send_score and send_hidden_fields")
	}
	if !cfg.PrettyJSON {
		t.Error("development profile should pretty-print JSON")
	}
	if cfg.CompressResponses {
		t.Error("development profile should not enable response compression")
	}
}

func TestLoad_TestingProfileDisablesCaching(t *testing.T) {
	clearEnv(t, "BUSCA_USE_CACHING")

	cfg := Load(Testing)
	if cfg.UseCaching {
		t.Error("testing profile should disable caching")
	}
}

func TestLoad_EnvOverridesDefaults(t *testing.T) {
	os.Setenv("BUSCA_PORT", "9999")
	os.Setenv("BUSCA_MAX_SEARCH_LIMIT", "10")
	defer clearEnv(t, "BUSCA_PORT", "BUSCA_MAX_SEARCH_LIMIT")

	cfg := Load(Production)
	if cfg.Port != "9999" {
		t.Errorf("expected port 9999, got %q", cfg.Port)
	}
	if cfg.MaxSearchLimit != 10 {
		t.Errorf("expected MaxSearchLimit 10, got %d", cfg.MaxSearchLimit)
	}
}

func TestAddr(t *testing.T) {
	cfg := &Config{Host: "0.0.0.0", Port: "8080"}
	if cfg.Addr() != "0.0.0.0:8080" {
		t.Errorf("expected '0.0.0.0:8080', got %q", cfg.Addr())
	}
}
