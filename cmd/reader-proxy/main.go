package main

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/OpexDevelop/stihirus-reader-api/pkg/cache"
	"github.com/OpexDevelop/stihirus-reader-api/pkg/config"
	"github.com/OpexDevelop/stihirus-reader-api/pkg/logging"
	"github.com/OpexDevelop/stihirus-reader-api/pkg/proxy"
	"github.com/OpexDevelop/stihirus-reader-api/pkg/upstream"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		// Logging is not configured yet, fall back to the defaults.
		fallback := logging.Setup(logging.Config{})
		fallback.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logger := logging.Setup(logging.Config{Level: cfg.LogLevel, Pretty: cfg.LogPretty})

	store, err := buildStore(cfg, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to initialize cache store")
	}

	upstreamCfg := upstream.DefaultConfig(cfg.UpstreamURL)
	upstreamCfg.Timeout = cfg.UpstreamTimeout
	fetcher, err := upstream.New(upstreamCfg, logging.NewLogger("upstream"))
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to create upstream client")
	}

	handler := proxy.NewHandler(store, fetcher, logging.NewLogger("proxy"))

	addr := ":" + cfg.Port
	logger.Info().
		Str("addr", addr).
		Str("cache_backend", cfg.CacheBackend).
		Dur("cache_ttl", cfg.CacheTTL).
		Str("upstream", cfg.UpstreamURL).
		Msg("Starting reader proxy")

	if err := http.ListenAndServe(addr, handler.Routes()); err != nil {
		logger.Fatal().Err(err).Msg("Server failed")
	}
}

// buildStore constructs the configured cache store. The redis backend
// is pinged at startup so a misconfigured address fails fast.
func buildStore(cfg config.Config, logger zerolog.Logger) (cache.Store, error) {
	switch cfg.CacheBackend {
	case config.BackendRedis:
		client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := client.Ping(ctx).Err(); err != nil {
			return nil, fmt.Errorf("connect to redis at %s: %w", cfg.RedisAddr, err)
		}
		logger.Info().Str("addr", cfg.RedisAddr).Msg("Connected to Redis")

		return cache.NewRedisStore(client, cfg.CacheTTL, cfg.RedisRetention, logging.NewLogger("cache")), nil
	default:
		return cache.NewFileStore(cfg.CacheDir, cfg.CacheTTL, logging.NewLogger("cache"))
	}
}
