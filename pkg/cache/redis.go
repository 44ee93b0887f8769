package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// redisEnvelope carries the payload together with its write time.
// Freshness is evaluated against the envelope's write time and the
// configured TTL, never against the Redis key expiry - expiring the key
// at the freshness boundary would destroy the stale fallback.
type redisEnvelope struct {
	Payload   json.RawMessage `json:"payload"`
	WrittenAt time.Time       `json:"written_at"`
}

// RedisStore persists entries in Redis. Retention bounds how long a
// stale entry remains servable as a fallback; zero keeps entries
// forever, matching the file backend.
type RedisStore struct {
	client    *redis.Client
	ttl       time.Duration
	retention time.Duration
	clock     Clock
	logger    zerolog.Logger
}

var _ Store = (*RedisStore)(nil)

// NewRedisStore creates a Redis-backed store.
func NewRedisStore(client *redis.Client, ttl, retention time.Duration, logger zerolog.Logger) *RedisStore {
	if client == nil {
		panic("redis client cannot be nil")
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &RedisStore{
		client:    client,
		ttl:       ttl,
		retention: retention,
		clock:     realClock{},
		logger:    logger,
	}
}

// SetClock replaces the freshness clock (for testing).
func (s *RedisStore) SetClock(clock Clock) {
	s.clock = clock
}

// Read loads the entry for key from Redis.
func (s *RedisStore) Read(ctx context.Context, key Key) (*Entry, error) {
	data, err := s.client.Get(ctx, key.String()).Bytes()
	if err != nil {
		if err == redis.Nil {
			cacheMisses.Inc()
			return nil, ErrNotFound
		}
		cacheErrors.WithLabelValues("read").Inc()
		return nil, fmt.Errorf("redis get: %w", err)
	}

	var env redisEnvelope
	if err := json.Unmarshal(data, &env); err != nil {
		cacheErrors.WithLabelValues("read").Inc()
		return nil, fmt.Errorf("%w: %v", ErrCorruptEntry, err)
	}

	stale := s.clock.Now().Sub(env.WrittenAt) > s.ttl
	if stale {
		cacheHits.WithLabelValues("stale").Inc()
	} else {
		cacheHits.WithLabelValues("fresh").Inc()
	}

	return &Entry{Payload: env.Payload, WrittenAt: env.WrittenAt, Stale: stale}, nil
}

// Write persists payload under key with the configured retention.
func (s *RedisStore) Write(ctx context.Context, key Key, payload json.RawMessage) error {
	env := redisEnvelope{Payload: payload, WrittenAt: s.clock.Now()}

	data, err := json.Marshal(env)
	if err != nil {
		cacheErrors.WithLabelValues("write").Inc()
		return fmt.Errorf("marshal cache entry: %w", err)
	}

	if err := s.client.Set(ctx, key.String(), data, s.retention).Err(); err != nil {
		cacheErrors.WithLabelValues("write").Inc()
		return fmt.Errorf("redis set: %w", err)
	}

	cacheWrites.Inc()
	s.logger.Debug().Str("key", key.String()).Int("bytes", len(payload)).Msg("Cached payload")
	return nil
}
