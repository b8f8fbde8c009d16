package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromEnv_Defaults(t *testing.T) {
	cfg, err := FromEnv()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Addr)
	assert.Equal(t, "school_college", cfg.ActiveEnvironment)
	assert.Equal(t, 10*time.Second, cfg.ShutdownTimeout)
	assert.Empty(t, cfg.OTLPEndpoint)
	assert.Empty(t, cfg.Postgres.DSN)
	assert.Empty(t, cfg.Redis.URL)
	assert.Equal(t, 30*time.Second, cfg.Redis.RosterTTL)
	assert.Empty(t, cfg.Kafka.Brokers)
	assert.Equal(t, "warden.decisions", cfg.Kafka.Topic)
	assert.Equal(t, "warden-fallback.db", cfg.Queue.Path)
	assert.Equal(t, 5*time.Second, cfg.Queue.DrainInterval)
	assert.Equal(t, "warden", cfg.JWT.Issuer)
	assert.Equal(t, time.Hour, cfg.JWT.TokenTTL)
}

func TestFromEnv_Overrides(t *testing.T) {
	t.Setenv("WARDEN_ADDR", ":9090")
	t.Setenv("WARDEN_ACTIVE_ENVIRONMENT", "factory_floor")
	t.Setenv("WARDEN_KAFKA_BROKERS", "kafka-1:9092,kafka-2:9092")
	t.Setenv("WARDEN_TOKEN_TTL", "15m")

	cfg, err := FromEnv()
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.Addr)
	assert.Equal(t, "factory_floor", cfg.ActiveEnvironment)
	assert.Equal(t, []string{"kafka-1:9092", "kafka-2:9092"}, cfg.Kafka.Brokers)
	assert.Equal(t, 15*time.Minute, cfg.JWT.TokenTTL)
}

func TestSeedConfig_Sources(t *testing.T) {
	t.Run("empty", func(t *testing.T) {
		seeds, err := SeedConfig{}.Sources()
		require.NoError(t, err)
		assert.Empty(t, seeds)
	})

	t.Run("parses entries", func(t *testing.T) {
		raw := `[{"id":"11111111-1111-1111-1111-111111111111","environment_id":"factory_floor","name":"gate-1","secret":"s3cret"}]`
		seeds, err := SeedConfig{SourcesJSON: raw}.Sources()
		require.NoError(t, err)
		require.Len(t, seeds, 1)
		assert.Equal(t, "gate-1", seeds[0].Name)
		assert.Equal(t, "factory_floor", seeds[0].EnvironmentID)
	})

	t.Run("malformed json", func(t *testing.T) {
		_, err := SeedConfig{SourcesJSON: "{not json"}.Sources()
		require.Error(t, err)
	})
}
