package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
)

// FileStore persists one JSON file per key. The file mtime is the
// entry's write time, so freshness survives process restarts without a
// separate index.
type FileStore struct {
	dir    string
	ttl    time.Duration
	clock  Clock
	logger zerolog.Logger
}

var _ Store = (*FileStore)(nil)

// NewFileStore creates the cache directory if needed.
func NewFileStore(dir string, ttl time.Duration, logger zerolog.Logger) (*FileStore, error) {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create cache dir: %w", err)
	}
	return &FileStore{
		dir:    dir,
		ttl:    ttl,
		clock:  realClock{},
		logger: logger,
	}, nil
}

// SetClock replaces the freshness clock (for testing).
func (s *FileStore) SetClock(clock Clock) {
	s.clock = clock
}

// Read loads the entry for key. The payload must be valid JSON; a file
// that exists but does not decode is reported as ErrCorruptEntry, which
// callers are expected to degrade to a miss.
func (s *FileStore) Read(ctx context.Context, key Key) (*Entry, error) {
	path := s.path(key)

	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			cacheMisses.Inc()
			return nil, ErrNotFound
		}
		cacheErrors.WithLabelValues("read").Inc()
		return nil, fmt.Errorf("stat cache file: %w", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		cacheErrors.WithLabelValues("read").Inc()
		return nil, fmt.Errorf("read cache file: %w", err)
	}

	if !json.Valid(data) {
		cacheErrors.WithLabelValues("read").Inc()
		return nil, fmt.Errorf("%w: %s", ErrCorruptEntry, key)
	}

	writtenAt := info.ModTime()
	stale := s.clock.Now().Sub(writtenAt) > s.ttl
	if stale {
		cacheHits.WithLabelValues("stale").Inc()
	} else {
		cacheHits.WithLabelValues("fresh").Inc()
	}

	return &Entry{Payload: data, WrittenAt: writtenAt, Stale: stale}, nil
}

// Write persists payload through a temp file and rename, so concurrent
// writers of the same key settle on last-write-wins without torn files.
func (s *FileStore) Write(ctx context.Context, key Key, payload json.RawMessage) error {
	tmp, err := os.CreateTemp(s.dir, key.String()+".*.tmp")
	if err != nil {
		cacheErrors.WithLabelValues("write").Inc()
		return fmt.Errorf("create temp file: %w", err)
	}

	if _, err := tmp.Write(payload); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		cacheErrors.WithLabelValues("write").Inc()
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		cacheErrors.WithLabelValues("write").Inc()
		return fmt.Errorf("close temp file: %w", err)
	}

	if err := os.Rename(tmp.Name(), s.path(key)); err != nil {
		os.Remove(tmp.Name())
		cacheErrors.WithLabelValues("write").Inc()
		return fmt.Errorf("rename cache file: %w", err)
	}

	cacheWrites.Inc()
	s.logger.Debug().Str("key", key.String()).Int("bytes", len(payload)).Msg("Cached payload")
	return nil
}

func (s *FileStore) path(key Key) string {
	return filepath.Join(s.dir, key.String()+".json")
}
