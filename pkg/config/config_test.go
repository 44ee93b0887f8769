package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, BackendFile, cfg.CacheBackend)
	assert.Equal(t, time.Hour, cfg.CacheTTL)
	assert.Equal(t, time.Duration(0), cfg.RedisRetention)
	assert.Equal(t, "http://localhost:9090", cfg.UpstreamURL)
	assert.Equal(t, 30*time.Second, cfg.UpstreamTimeout)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.False(t, cfg.LogPretty)
}

func TestLoad_FromEnvironment(t *testing.T) {
	t.Setenv("READER_PORT", "9999")
	t.Setenv("READER_CACHE_BACKEND", "redis")
	t.Setenv("READER_CACHE_TTL", "15m")
	t.Setenv("READER_REDIS_ADDR", "redis.internal:6379")
	t.Setenv("READER_UPSTREAM_URL", "http://fetcher.internal")
	t.Setenv("READER_LOG_LEVEL", "debug")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9999", cfg.Port)
	assert.Equal(t, BackendRedis, cfg.CacheBackend)
	assert.Equal(t, 15*time.Minute, cfg.CacheTTL)
	assert.Equal(t, "redis.internal:6379", cfg.RedisAddr)
	assert.Equal(t, "http://fetcher.internal", cfg.UpstreamURL)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestLoad_InvalidBackend(t *testing.T) {
	t.Setenv("READER_CACHE_BACKEND", "memcached")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid cache backend")
}

func TestLoad_InvalidTTL(t *testing.T) {
	t.Setenv("READER_CACHE_TTL", "-5m")

	_, err := Load()
	require.Error(t, err)
}
