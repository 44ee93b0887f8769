package main

import (
	"testing"
	"time"

	"github.com/OpexDevelop/stihirus-reader-api/pkg/cache"
	"github.com/OpexDevelop/stihirus-reader-api/pkg/config"
	"github.com/rs/zerolog"
)

func TestBuildStore_FileBackend(t *testing.T) {
	cfg := config.Config{
		CacheBackend: config.BackendFile,
		CacheDir:     t.TempDir(),
		CacheTTL:     time.Hour,
	}

	store, err := buildStore(cfg, zerolog.Nop())
	if err != nil {
		t.Fatalf("buildStore() error: %v", err)
	}
	if _, ok := store.(*cache.FileStore); !ok {
		t.Errorf("buildStore() = %T, want *cache.FileStore", store)
	}
}

func TestBuildStore_RedisUnreachable(t *testing.T) {
	cfg := config.Config{
		CacheBackend: config.BackendRedis,
		RedisAddr:    "localhost:1", // nothing listens here
		CacheTTL:     time.Hour,
	}

	_, err := buildStore(cfg, zerolog.Nop())
	if err == nil {
		t.Fatal("buildStore() with unreachable redis succeeded, want error")
	}
}
