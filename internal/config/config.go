package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	HTTPAddr string
	DiagAddr string

	DB      DBConfig
	Logging LoggingConfig
	Auth    AuthConfig
	Cache   CacheConfig
	Kafka   KafkaConfig
	Tracing TracingConfig

	FlashSecret  []byte
	CookieSecure bool
}

type DBConfig struct {
	DSN         string
	AutoMigrate bool
}

type LoggingConfig struct {
	Level  string
	Format string
}

type AuthConfig struct {
	// JWTSecret empty disables authentication (local development).
	JWTSecret string
	Role      string
}

type CacheConfig struct {
	MaxEntries int
	TTL        time.Duration
}

type KafkaConfig struct {
	Brokers []string
	Topic   string
	GroupID string
}

// Enabled reports whether change events are shipped to Kafka.
func (k KafkaConfig) Enabled() bool { return len(k.Brokers) > 0 }

type TracingConfig struct {
	OTLPEndpoint string
	ServiceName  string
}

var ErrMissingDSN = errors.New("DB_DSN environment variable is required")

// Load reads the configuration from the process environment.
func Load() (Config, error) {
	return FromLookup(os.LookupEnv)
}

// FromLookup builds a Config from an arbitrary lookup function.
func FromLookup(lookup func(string) (string, bool)) (Config, error) {
	get := func(k, def string) string {
		if v, ok := lookup(k); ok && strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
		return def
	}

	cfg := Config{
		HTTPAddr: get("HTTP_ADDR", ":8080"),
		DiagAddr: get("DIAG_ADDR", ":9090"),
		DB: DBConfig{
			DSN: get("DB_DSN", ""),
		},
		Logging: LoggingConfig{
			Level:  get("LOG_LEVEL", "info"),
			Format: get("LOG_FORMAT", "json"),
		},
		Auth: AuthConfig{
			JWTSecret: get("JWT_SECRET", ""),
			Role:      get("JWT_ADMIN_ROLE", "ROLE_ADMIN"),
		},
		Kafka: KafkaConfig{
			Brokers: splitList(get("KAFKA_BROKERS", "")),
			Topic:   get("KAFKA_TOPIC", "novi.entity-changes"),
			GroupID: get("KAFKA_GROUP_ID", "novi-admin"),
		},
		Tracing: TracingConfig{
			OTLPEndpoint: get("OTEL_EXPORTER_OTLP_ENDPOINT", ""),
			ServiceName:  get("OTEL_SERVICE_NAME", "novi-admin"),
		},
		FlashSecret: []byte(get("FLASH_SECRET", "dev-flash-secret-change-me")),
	}

	if cfg.DB.DSN == "" {
		return Config{}, ErrMissingDSN
	}

	var err error
	if cfg.DB.AutoMigrate, err = parseBool("DB_AUTO_MIGRATE", get("DB_AUTO_MIGRATE", "false")); err != nil {
		return Config{}, err
	}
	if cfg.CookieSecure, err = parseBool("COOKIE_SECURE", get("COOKIE_SECURE", "false")); err != nil {
		return Config{}, err
	}

	maxEntries, err := strconv.Atoi(get("CACHE_MAX_ENTRIES", "100"))
	if err != nil || maxEntries < 1 {
		return Config{}, fmt.Errorf("CACHE_MAX_ENTRIES: must be a positive integer")
	}
	cfg.Cache.MaxEntries = maxEntries

	ttl, err := time.ParseDuration(get("CACHE_TTL", "1h"))
	if err != nil || ttl <= 0 {
		return Config{}, fmt.Errorf("CACHE_TTL: must be a positive duration")
	}
	cfg.Cache.TTL = ttl

	return cfg, nil
}

func parseBool(key, raw string) (bool, error) {
	b, err := strconv.ParseBool(raw)
	if err != nil {
		return false, fmt.Errorf("%s: %w", key, err)
	}
	return b, nil
}

func splitList(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
