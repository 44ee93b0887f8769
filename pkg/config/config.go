// Package config loads the process configuration once at startup. Core
// packages receive explicit values and never read the environment
// themselves.
package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Cache backends.
const (
	BackendFile  = "file"
	BackendRedis = "redis"
)

// Config is the full process configuration.
type Config struct {
	// Port the HTTP server listens on.
	Port string `mapstructure:"port"`

	// CacheBackend selects the store implementation ("file" or "redis").
	CacheBackend string `mapstructure:"cache_backend"`

	// CacheDir is the file backend's directory.
	CacheDir string `mapstructure:"cache_dir"`

	// CacheTTL is the freshness window for cached payloads.
	CacheTTL time.Duration `mapstructure:"cache_ttl"`

	// RedisAddr is the redis backend's address.
	RedisAddr string `mapstructure:"redis_addr"`

	// RedisRetention bounds how long stale entries stay servable on the
	// redis backend. Zero keeps them forever, like the file backend.
	RedisRetention time.Duration `mapstructure:"redis_retention"`

	// UpstreamURL is the base URL of the content-fetching service.
	UpstreamURL string `mapstructure:"upstream_url"`

	// UpstreamTimeout is the per-attempt timeout for upstream requests.
	UpstreamTimeout time.Duration `mapstructure:"upstream_timeout"`

	LogLevel  string `mapstructure:"log_level"`
	LogPretty bool   `mapstructure:"log_pretty"`
}

// Load reads configuration from READER_* environment variables, with
// defaults for everything.
func Load() (Config, error) {
	v := viper.New()

	v.SetDefault("port", "8080")
	v.SetDefault("cache_backend", BackendFile)
	v.SetDefault("cache_dir", "/tmp/stihirus-reader-cache")
	v.SetDefault("cache_ttl", time.Hour)
	v.SetDefault("redis_addr", "localhost:6379")
	v.SetDefault("redis_retention", time.Duration(0))
	v.SetDefault("upstream_url", "http://localhost:9090")
	v.SetDefault("upstream_timeout", 30*time.Second)
	v.SetDefault("log_level", "info")
	v.SetDefault("log_pretty", false)

	v.SetEnvPrefix("READER")
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}

	if cfg.CacheBackend != BackendFile && cfg.CacheBackend != BackendRedis {
		return Config{}, fmt.Errorf("invalid cache backend %q (want %q or %q)",
			cfg.CacheBackend, BackendFile, BackendRedis)
	}
	if cfg.CacheTTL <= 0 {
		return Config{}, fmt.Errorf("cache TTL must be positive, got %s", cfg.CacheTTL)
	}

	return cfg, nil
}
