package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "9090", cfg.Server.HealthPort)
	assert.Equal(t, "memory", cfg.Store.Type)
	assert.Equal(t, 24*time.Hour, cfg.Sessions.TTL)
	assert.Equal(t, "info", cfg.Observability.LogLevel)
	assert.True(t, cfg.Observability.MetricsEnabled)
}

func TestLoadConfigFromEnv(t *testing.T) {
	t.Setenv("TASKD_PORT", "8888")
	t.Setenv("TASKD_STORE_TYPE", "postgres")
	t.Setenv("TASKD_POSTGRES_URL", "postgres://localhost/taskd")
	t.Setenv("TASKD_POSTGRES_MAX_CONNS", "50")
	t.Setenv("TASKD_SESSION_TTL", "1h")
	t.Setenv("TASKD_REDIS_URL", "redis://localhost:6379")
	t.Setenv("TASKD_LOG_LEVEL", "debug")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "8888", cfg.Server.Port)
	assert.Equal(t, "postgres", cfg.Store.Type)
	assert.Equal(t, "postgres://localhost/taskd", cfg.Store.PostgresURL)
	assert.Equal(t, 50, cfg.Store.PostgresMaxConns)
	assert.Equal(t, time.Hour, cfg.Sessions.TTL)
	assert.Equal(t, "redis://localhost:6379", cfg.Sessions.RedisURL)
	assert.Equal(t, "debug", cfg.Observability.LogLevel)
}

func TestValidate(t *testing.T) {
	t.Run("postgres store requires a URL", func(t *testing.T) {
		t.Setenv("TASKD_STORE_TYPE", "postgres")
		_, err := LoadConfig()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "postgres URL is required")
	})

	t.Run("unknown store type is rejected", func(t *testing.T) {
		t.Setenv("TASKD_STORE_TYPE", "cassandra")
		_, err := LoadConfig()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid store type")
	})

	t.Run("server and health ports must differ", func(t *testing.T) {
		t.Setenv("TASKD_PORT", "9090")
		_, err := LoadConfig()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "must be different")
	})

	t.Run("malformed durations fall back to defaults", func(t *testing.T) {
		t.Setenv("TASKD_SESSION_TTL", "not-a-duration")
		cfg, err := LoadConfig()
		require.NoError(t, err)
		assert.Equal(t, 24*time.Hour, cfg.Sessions.TTL)
	})
}
