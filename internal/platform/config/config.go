// Package config centralizes runtime configuration so main stays lean.
// Everything is parsed from WARDEN_* environment variables with
// development-friendly defaults; production deployments override them.
package config

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config is the full runtime configuration of the warden server.
type Config struct {
	Addr              string        `env:"WARDEN_ADDR"               envDefault:":8080"`
	ActiveEnvironment string        `env:"WARDEN_ACTIVE_ENVIRONMENT" envDefault:"school_college"`
	ShutdownTimeout   time.Duration `env:"WARDEN_SHUTDOWN_TIMEOUT"   envDefault:"10s"`

	// OTLPEndpoint enables tracing when set; empty means no tracer is
	// registered.
	OTLPEndpoint string `env:"WARDEN_OTLP_ENDPOINT"`

	Postgres PostgresConfig
	Redis    RedisConfig
	Kafka    KafkaConfig
	Queue    QueueConfig
	JWT      JWTConfig
	Seeds    SeedConfig
}

// PostgresConfig configures the primary stores. An empty DSN runs the
// server on in-memory stores, for development only.
type PostgresConfig struct {
	DSN string `env:"WARDEN_POSTGRES_DSN"`
}

// RedisConfig configures the roster snapshot cache. An empty URL
// disables caching; snapshots then always hit the store.
type RedisConfig struct {
	URL          string        `env:"WARDEN_REDIS_URL"`
	PoolSize     int           `env:"WARDEN_REDIS_POOL_SIZE"      envDefault:"10"`
	MinIdleConns int           `env:"WARDEN_REDIS_MIN_IDLE_CONNS" envDefault:"2"`
	DialTimeout  time.Duration `env:"WARDEN_REDIS_DIAL_TIMEOUT"   envDefault:"5s"`
	ReadTimeout  time.Duration `env:"WARDEN_REDIS_READ_TIMEOUT"   envDefault:"3s"`
	WriteTimeout time.Duration `env:"WARDEN_REDIS_WRITE_TIMEOUT"  envDefault:"3s"`
	RosterTTL    time.Duration `env:"WARDEN_REDIS_ROSTER_TTL"     envDefault:"30s"`
}

// KafkaConfig configures the decision event publisher. No brokers means
// decisions are not published.
type KafkaConfig struct {
	Brokers []string `env:"WARDEN_KAFKA_BROKERS" envSeparator:","`
	Topic   string   `env:"WARDEN_KAFKA_TOPIC"   envDefault:"warden.decisions"`
}

// QueueConfig configures the durable local fallback queue.
type QueueConfig struct {
	Path          string        `env:"WARDEN_QUEUE_PATH"           envDefault:"warden-fallback.db"`
	DrainInterval time.Duration `env:"WARDEN_QUEUE_DRAIN_INTERVAL" envDefault:"5s"`
}

// JWTConfig configures source token issuing and validation.
type JWTConfig struct {
	SigningKey string        `env:"WARDEN_JWT_SIGNING_KEY" envDefault:"dev-secret-key-change-in-production"`
	Issuer     string        `env:"WARDEN_JWT_ISSUER"      envDefault:"warden"`
	TokenTTL   time.Duration `env:"WARDEN_TOKEN_TTL"       envDefault:"1h"`
}

// SeedConfig declares capture sources provisioned at boot.
type SeedConfig struct {
	// SourcesJSON is a JSON array of seeded sources, e.g.
	// [{"id":"<uuid>","environment_id":"factory","name":"gate-1","secret":"..."}].
	SourcesJSON string `env:"WARDEN_SOURCE_SEEDS"`
}

// SourceSeed is one entry of the WARDEN_SOURCE_SEEDS array.
type SourceSeed struct {
	ID            string `json:"id"`
	EnvironmentID string `json:"environment_id"`
	Name          string `json:"name"`
	Secret        string `json:"secret"`
}

// Sources parses the seeded source declarations.
func (s SeedConfig) Sources() ([]SourceSeed, error) {
	if s.SourcesJSON == "" {
		return nil, nil
	}
	var seeds []SourceSeed
	if err := json.Unmarshal([]byte(s.SourcesJSON), &seeds); err != nil {
		return nil, fmt.Errorf("parse source seeds: %w", err)
	}
	return seeds, nil
}

// FromEnv builds the configuration from environment variables.
func FromEnv() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}
