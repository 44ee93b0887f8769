package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// setupTestRedis connects to a local Redis for unit tests and skips
// when none is available. Container-backed coverage lives in
// tests/integration.
func setupTestRedis(t *testing.T) *redis.Client {
	t.Helper()

	client := redis.NewClient(&redis.Options{
		Addr: "localhost:6379",
		DB:   15,
	})

	ctx := context.Background()
	if err := client.Ping(ctx).Err(); err != nil {
		t.Skipf("Redis not available for testing: %v", err)
	}

	if err := client.FlushDB(ctx).Err(); err != nil {
		t.Fatalf("Failed to flush test DB: %v", err)
	}

	t.Cleanup(func() {
		client.FlushDB(context.Background())
		client.Close()
	})

	return client
}

func TestNewRedisStore_Panic(t *testing.T) {
	defer func() {
		if r := recover(); r == nil {
			t.Error("NewRedisStore should panic with nil redis client")
		}
	}()
	NewRedisStore(nil, time.Hour, 0, zerolog.Nop())
}

func TestRedisStore_WriteAndRead(t *testing.T) {
	client := setupTestRedis(t)
	store := NewRedisStore(client, time.Hour, 0, zerolog.Nop())
	ctx := context.Background()

	key := Key{Namespace: "poems", Identifier: "abc", Params: map[string]*string{"page": strPtr("1")}}
	payload := []byte(`{"status":"success","poems":[]}`)

	if err := store.Write(ctx, key, payload); err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	entry, err := store.Read(ctx, key)
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if string(entry.Payload) != string(payload) {
		t.Errorf("Payload = %s, want %s", entry.Payload, payload)
	}
	if entry.Stale {
		t.Error("fresh write reported as stale")
	}
}

func TestRedisStore_ReadMissing(t *testing.T) {
	client := setupTestRedis(t)
	store := NewRedisStore(client, time.Hour, 0, zerolog.Nop())

	_, err := store.Read(context.Background(), Key{Namespace: "poems", Identifier: "nobody"})
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("Read error = %v, want ErrNotFound", err)
	}
}

// TestRedisStore_StaleEntrySurvivesTTL ensures freshness comes from the
// envelope write time, not the Redis key expiry: a stale entry must
// remain readable as a fallback.
func TestRedisStore_StaleEntrySurvivesTTL(t *testing.T) {
	client := setupTestRedis(t)
	ttl := time.Hour
	store := NewRedisStore(client, ttl, 0, zerolog.Nop())
	ctx := context.Background()

	key := Key{Namespace: "poems", Identifier: "abc"}
	if err := store.Write(ctx, key, []byte(`{"v":1}`)); err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	clock := &fakeClock{now: time.Now().Add(2 * ttl)}
	store.SetClock(clock)

	entry, err := store.Read(ctx, key)
	if err != nil {
		t.Fatalf("Read failed after TTL: %v", err)
	}
	if !entry.Stale {
		t.Error("entry past TTL should be stale")
	}
	if string(entry.Payload) != `{"v":1}` {
		t.Errorf("Payload = %s, want the stale payload", entry.Payload)
	}
}

func TestRedisStore_CorruptEntry(t *testing.T) {
	client := setupTestRedis(t)
	store := NewRedisStore(client, time.Hour, 0, zerolog.Nop())
	ctx := context.Background()

	key := Key{Namespace: "poems", Identifier: "abc"}
	if err := client.Set(ctx, key.String(), "{not json", 0).Err(); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	_, err := store.Read(ctx, key)
	if !errors.Is(err, ErrCorruptEntry) {
		t.Errorf("Read error = %v, want ErrCorruptEntry", err)
	}
}
