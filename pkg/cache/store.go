package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"
)

// DefaultTTL is the fallback freshness window when none is configured.
const DefaultTTL = time.Hour

var (
	// ErrNotFound indicates no entry exists for the key.
	ErrNotFound = errors.New("cache: entry not found")

	// ErrCorruptEntry indicates an entry exists but cannot be decoded.
	ErrCorruptEntry = errors.New("cache: corrupt entry")
)

// Entry is a stored payload together with its freshness evaluation.
type Entry struct {
	// Payload is the upstream success body, served to clients verbatim.
	Payload json.RawMessage

	// WrittenAt is when the payload was last persisted.
	WrittenAt time.Time

	// Stale reports whether the entry was older than the store's TTL at
	// read time. Stale entries are still servable as a fallback.
	Stale bool
}

// Store persists payloads keyed by Key. Bounded retention or eviction
// is an implementation concern: callers depend only on this interface,
// so a sweeping or LRU-backed store can be swapped in without touching
// the orchestration.
type Store interface {
	// Read returns the entry for key, with Stale evaluated against the
	// store's TTL. Returns ErrNotFound when no entry exists.
	Read(ctx context.Context, key Key) (*Entry, error)

	// Write persists payload under key, superseding any previous entry
	// and resetting its write time.
	Write(ctx context.Context, key Key, payload json.RawMessage) error
}

// Clock supplies the current time for freshness checks. Stores default
// to the real clock.
type Clock interface {
	Now() time.Time
}

type realClock struct{}

func (realClock) Now() time.Time { return time.Now() }
