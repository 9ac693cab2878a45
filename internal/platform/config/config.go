// Package config loads service configuration from environment variables so
// main stays lean.
package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Server captures HTTP server level configuration.
type Server struct {
	Addr            string
	ShutdownTimeout time.Duration
}

// Auth configures bearer-token validation.
type Auth struct {
	JWTSigningKey string
	Issuer        string
	Audience      string
}

// Ledger selects and configures the verification ledger backend.
type Ledger struct {
	// Backend is one of "memory", "postgres", "redis".
	Backend     string
	PostgresDSN string
}

// Redis configures the optional Redis connection.
type Redis struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// Kafka configures the optional notification sink. An empty broker list
// disables Kafka publishing; events still reach in-process subscribers.
type Kafka struct {
	Brokers          []string
	EvaluationsTopic string
	AlertsTopic      string
}

// Config is the full service configuration.
type Config struct {
	Server Server
	Auth   Auth
	Ledger Ledger
	Redis  Redis
	Kafka  Kafka
}

// FromEnv builds a Config from BOARDCHECK_* environment variables, with
// development defaults for everything but production credentials.
func FromEnv() Config {
	return Config{
		Server: Server{
			Addr:            envOr("BOARDCHECK_ADDR", ":8080"),
			ShutdownTimeout: envDuration("BOARDCHECK_SHUTDOWN_TIMEOUT", 10*time.Second),
		},
		Auth: Auth{
			// Should be overridden in production.
			JWTSigningKey: envOr("BOARDCHECK_JWT_SIGNING_KEY", "dev-secret-key-change-in-production"),
			Issuer:        envOr("BOARDCHECK_JWT_ISSUER", "boardcheck"),
			Audience:      envOr("BOARDCHECK_JWT_AUDIENCE", "boardcheck-api"),
		},
		Ledger: Ledger{
			Backend:     envOr("BOARDCHECK_LEDGER_BACKEND", "memory"),
			PostgresDSN: os.Getenv("BOARDCHECK_POSTGRES_DSN"),
		},
		Redis: Redis{
			URL:          os.Getenv("BOARDCHECK_REDIS_URL"),
			PoolSize:     envInt("BOARDCHECK_REDIS_POOL_SIZE", 10),
			MinIdleConns: envInt("BOARDCHECK_REDIS_MIN_IDLE_CONNS", 2),
			DialTimeout:  envDuration("BOARDCHECK_REDIS_DIAL_TIMEOUT", 5*time.Second),
			ReadTimeout:  envDuration("BOARDCHECK_REDIS_READ_TIMEOUT", 3*time.Second),
			WriteTimeout: envDuration("BOARDCHECK_REDIS_WRITE_TIMEOUT", 3*time.Second),
		},
		Kafka: Kafka{
			Brokers:          envList("BOARDCHECK_KAFKA_BROKERS"),
			EvaluationsTopic: envOr("BOARDCHECK_KAFKA_EVALUATIONS_TOPIC", "boardcheck.evaluations"),
			AlertsTopic:      envOr("BOARDCHECK_KAFKA_ALERTS_TOPIC", "boardcheck.minor-alerts"),
		},
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

func envList(key string) []string {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
