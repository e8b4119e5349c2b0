package config

import (
	"errors"
	"testing"
	"time"
)

func lookupFrom(m map[string]string) func(string) (string, bool) {
	return func(k string) (string, bool) {
		v, ok := m[k]
		return v, ok
	}
}

func TestFromLookupDefaults(t *testing.T) {
	t.Parallel()

	cfg, err := FromLookup(lookupFrom(map[string]string{"DB_DSN": "user:pw@/novi"}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.HTTPAddr != ":8080" || cfg.DiagAddr != ":9090" {
		t.Fatalf("unexpected addrs: %q %q", cfg.HTTPAddr, cfg.DiagAddr)
	}
	if cfg.Cache.MaxEntries != 100 || cfg.Cache.TTL != time.Hour {
		t.Fatalf("unexpected cache config: %#v", cfg.Cache)
	}
	if cfg.Kafka.Enabled() {
		t.Fatal("kafka should be disabled without brokers")
	}
	if cfg.Auth.Role != "ROLE_ADMIN" {
		t.Fatalf("unexpected role: %q", cfg.Auth.Role)
	}
}

func TestFromLookupOverrides(t *testing.T) {
	t.Parallel()

	cfg, err := FromLookup(lookupFrom(map[string]string{
		"DB_DSN":            "dsn",
		"KAFKA_BROKERS":     " k1:9092, ,k2:9092 ",
		"CACHE_MAX_ENTRIES": "10",
		"CACHE_TTL":         "90s",
		"DB_AUTO_MIGRATE":   "true",
		"LOG_FORMAT":        "text",
	}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(cfg.Kafka.Brokers) != 2 || cfg.Kafka.Brokers[1] != "k2:9092" {
		t.Fatalf("unexpected brokers: %#v", cfg.Kafka.Brokers)
	}
	if cfg.Cache.MaxEntries != 10 || cfg.Cache.TTL != 90*time.Second {
		t.Fatalf("unexpected cache config: %#v", cfg.Cache)
	}
	if !cfg.DB.AutoMigrate || cfg.Logging.Format != "text" {
		t.Fatalf("unexpected config: %#v", cfg)
	}
}

func TestFromLookupErrors(t *testing.T) {
	t.Parallel()

	if _, err := FromLookup(lookupFrom(nil)); !errors.Is(err, ErrMissingDSN) {
		t.Fatalf("expected ErrMissingDSN, got %v", err)
	}
	bad := []map[string]string{
		{"DB_DSN": "x", "CACHE_MAX_ENTRIES": "0"},
		{"DB_DSN": "x", "CACHE_TTL": "forever"},
		{"DB_DSN": "x", "COOKIE_SECURE": "maybe"},
	}
	for _, env := range bad {
		if _, err := FromLookup(lookupFrom(env)); err == nil {
			t.Fatalf("expected error for %#v", env)
		}
	}
}
