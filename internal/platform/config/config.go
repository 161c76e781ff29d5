package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config is the full process configuration.
type Config struct {
	Server          Server
	Database        DatabaseConfig
	Redis           RedisConfig
	Kafka           KafkaConfig
	Transliteration TransliterationConfig
	Session         SessionConfig
}

// Server captures HTTP server level configuration.
type Server struct {
	Addr        string
	Environment string
}

// IsProduction reports whether the process runs with production defaults.
func (s Server) IsProduction() bool {
	return s.Environment == "production"
}

// DatabaseConfig selects the voter roll store.
type DatabaseConfig struct {
	URL  string
	Type string // "postgres" or "sqlite"
}

// RedisConfig configures the key-value store. An empty URL keeps state in
// process memory.
type RedisConfig struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// KafkaConfig configures the audit trail. No brokers means audit events go to
// the structured log only.
type KafkaConfig struct {
	Brokers    []string
	AuditTopic string
}

// TransliterationConfig configures the remote phonetic service and its
// local safeguards.
type TransliterationConfig struct {
	Endpoint  string
	Timeout   time.Duration
	RPS       float64
	Burst     int
	CacheTTL  time.Duration
	TableFile string
	Debounce  time.Duration
}

// SessionConfig configures the session gate.
type SessionConfig struct {
	SigningKey string
	LoginDelay time.Duration
	TTL        time.Duration
}

// DefaultTransliterationEndpoint is the public Google Input Tools endpoint.
const DefaultTransliterationEndpoint = "https://inputtools.google.com/request"

// Load reads a .env file when present, then the environment.
func Load() (Config, error) {
	_ = godotenv.Load()
	return FromEnv()
}

// FromEnv builds the configuration from environment variables so main stays lean.
func FromEnv() (Config, error) {
	var errs []string
	p := parser{errs: &errs}

	cfg := Config{
		Server: Server{
			Addr:        getenv("VOTER_FINDER_ADDR", ":8080"),
			Environment: getenv("ENVIRONMENT", "development"),
		},
		Database: DatabaseConfig{
			URL:  os.Getenv("DATABASE_URL"),
			Type: strings.ToLower(getenv("DATABASE_TYPE", "postgres")),
		},
		Redis: RedisConfig{
			URL:          os.Getenv("REDIS_URL"),
			PoolSize:     p.int("REDIS_POOL_SIZE", 10),
			MinIdleConns: p.int("REDIS_MIN_IDLE_CONNS", 2),
			DialTimeout:  p.duration("REDIS_DIAL_TIMEOUT", 5*time.Second),
			ReadTimeout:  p.duration("REDIS_READ_TIMEOUT", 3*time.Second),
			WriteTimeout: p.duration("REDIS_WRITE_TIMEOUT", 3*time.Second),
		},
		Kafka: KafkaConfig{
			Brokers:    splitList(os.Getenv("KAFKA_BROKERS")),
			AuditTopic: getenv("AUDIT_TOPIC", "voter-finder.audit"),
		},
		Transliteration: TransliterationConfig{
			Endpoint:  getenv("TRANSLITERATION_ENDPOINT", DefaultTransliterationEndpoint),
			Timeout:   p.duration("TRANSLITERATION_TIMEOUT", 3*time.Second),
			RPS:       p.float("TRANSLITERATION_RPS", 10),
			Burst:     p.int("TRANSLITERATION_BURST", 20),
			CacheTTL:  p.duration("TRANSLITERATION_CACHE_TTL", 24*time.Hour),
			TableFile: os.Getenv("TRANSLITERATION_TABLE_FILE"),
			Debounce:  p.duration("TYPEAHEAD_DEBOUNCE", 500*time.Millisecond),
		},
		Session: SessionConfig{
			SigningKey: os.Getenv("SESSION_SIGNING_KEY"),
			LoginDelay: p.duration("LOGIN_DELAY", time.Second),
			TTL:        p.duration("SESSION_TTL", 12*time.Hour),
		},
	}

	if cfg.Database.URL == "" {
		errs = append(errs, "DATABASE_URL is required")
	}
	if cfg.Database.Type != "postgres" && cfg.Database.Type != "sqlite" {
		errs = append(errs, fmt.Sprintf("DATABASE_TYPE must be postgres or sqlite, got %q", cfg.Database.Type))
	}
	if cfg.Session.SigningKey == "" {
		if cfg.Server.IsProduction() {
			errs = append(errs, "SESSION_SIGNING_KEY is required in production")
		}
		// Use a default for development - should be overridden in production
		cfg.Session.SigningKey = "dev-secret-key-change-in-production"
	}

	if len(errs) > 0 {
		return Config{}, fmt.Errorf("invalid configuration: %s", strings.Join(errs, "; "))
	}
	return cfg, nil
}

type parser struct {
	errs *[]string
}

func (p parser) duration(key string, def time.Duration) time.Duration {
	raw := os.Getenv(key)
	if raw == "" {
		return def
	}
	d, err := time.ParseDuration(raw)
	if err != nil || d < 0 {
		*p.errs = append(*p.errs, fmt.Sprintf("%s: invalid duration %q", key, raw))
		return def
	}
	return d
}

func (p parser) int(key string, def int) int {
	raw := os.Getenv(key)
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		*p.errs = append(*p.errs, fmt.Sprintf("%s: invalid integer %q", key, raw))
		return def
	}
	return n
}

func (p parser) float(key string, def float64) float64 {
	raw := os.Getenv(key)
	if raw == "" {
		return def
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		*p.errs = append(*p.errs, fmt.Sprintf("%s: invalid number %q", key, raw))
		return def
	}
	return f
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func splitList(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
