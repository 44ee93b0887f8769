// Package proxy implements the stale-while-error orchestration between
// the cache store and the upstream content-fetching service, plus the
// HTTP surface of the reader API.
//
// The contract with clients: a request only fails when the upstream is
// failing AND no previously cached payload exists for that exact key.
// Staleness is strictly preferable to unavailability.
package proxy

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/OpexDevelop/stihirus-reader-api/pkg/cache"
	"github.com/OpexDevelop/stihirus-reader-api/pkg/upstream"
	"github.com/rs/zerolog"
)

// Fetcher is the upstream collaborator contract. Payloads are opaque:
// the orchestrator never inspects their shape.
type Fetcher interface {
	// FetchPoems fetches one page of an author's poems listing.
	FetchPoems(ctx context.Context, login string, page *int, delay int) (json.RawMessage, error)

	// FetchFilters fetches the author's poem filters.
	FetchFilters(ctx context.Context, login string) (json.RawMessage, error)
}

// Handler orchestrates cache reads, upstream fetches and stale
// fallbacks for the reader API routes.
type Handler struct {
	store    cache.Store
	upstream Fetcher
	logger   zerolog.Logger
}

// NewHandler creates the orchestrating handler.
func NewHandler(store cache.Store, fetcher Fetcher, logger zerolog.Logger) *Handler {
	return &Handler{
		store:    store,
		upstream: fetcher,
		logger:   logger,
	}
}

// Poems handles GET /poems/{login}?page=<int|null|''>&delay=<int>.
func (h *Handler) Poems(w http.ResponseWriter, r *http.Request) {
	login := r.PathValue("login")
	q := r.URL.Query()

	// Validation is a hard gate: a bad parameter is rejected before any
	// cache or upstream work.
	page, err := parsePage(q.Get("page"))
	if err != nil {
		requestsTotal.WithLabelValues("poems", "400").Inc()
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	delay, err := parseDelay(q.Get("delay"))
	if err != nil {
		requestsTotal.WithLabelValues("poems", "400").Inc()
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	// The page is always part of the key ("null" when unspecified), the
	// delay never is: it only tunes the scraper, not the payload.
	var pageParam *string
	if page != nil {
		v := strconv.Itoa(*page)
		pageParam = &v
	}
	key := cache.Key{
		Namespace:  "poems",
		Identifier: login,
		Params:     map[string]*string{"page": pageParam},
	}

	h.serve(w, r, "poems", key, func(ctx context.Context) (json.RawMessage, error) {
		return h.upstream.FetchPoems(ctx, login, page, delay)
	})
}

// Filters handles GET /poems/{login}/filters. The filters key carries
// no parameter suffix.
func (h *Handler) Filters(w http.ResponseWriter, r *http.Request) {
	login := r.PathValue("login")
	key := cache.Key{Namespace: "filters", Identifier: login}

	h.serve(w, r, "filters", key, func(ctx context.Context) (json.RawMessage, error) {
		return h.upstream.FetchFilters(ctx, login)
	})
}

// serve runs the stale-while-error protocol for one request: a fresh
// cache entry is served as-is, a miss or stale entry triggers an
// upstream fetch whose result is persisted best-effort, and an upstream
// failure falls back to the stale entry when one exists.
func (h *Handler) serve(w http.ResponseWriter, r *http.Request, route string, key cache.Key, fetch func(context.Context) (json.RawMessage, error)) {
	logger := h.logger.With().Str("route", route).Str("key", key.String()).Logger()

	start := time.Now()
	defer func() {
		requestDuration.WithLabelValues(route).Observe(time.Since(start).Seconds())
	}()

	var cached *cache.Entry

	// A panic below this point (a misbehaving upstream client included)
	// degrades to the already-read cache entry, or a generic 500.
	defer func() {
		rec := recover()
		if rec == nil {
			return
		}
		if cached != nil {
			logger.Error().Interface("panic", rec).Msg("Recovered, serving cached payload")
			requestsTotal.WithLabelValues(route, "200").Inc()
			staleServesTotal.WithLabelValues(route).Inc()
			writePayload(w, cached.Payload)
			return
		}
		logger.Error().Interface("panic", rec).Msg("Recovered with no cached fallback")
		requestsTotal.WithLabelValues(route, "500").Inc()
		writeError(w, http.StatusInternalServerError, "internal error")
	}()

	ctx := r.Context()

	entry, err := h.store.Read(ctx, key)
	switch {
	case err == nil:
		cached = entry
	case errors.Is(err, cache.ErrNotFound):
		// plain miss
	default:
		// Unreadable entries degrade to a miss; a cache fault must never
		// fail the request.
		logger.Warn().Err(err).Msg("Cache read failed, treating as miss")
	}

	if cached != nil && !cached.Stale {
		requestsTotal.WithLabelValues(route, "200").Inc()
		writePayload(w, cached.Payload)
		return
	}

	payload, err := fetch(ctx)
	if err == nil {
		// Best-effort refresh: a write failure is logged and swallowed,
		// the payload was already obtained and is served regardless.
		if werr := h.store.Write(ctx, key, payload); werr != nil {
			logger.Warn().Err(werr).Msg("Cache write failed")
		}
		requestsTotal.WithLabelValues(route, "200").Inc()
		writePayload(w, payload)
		return
	}

	if cached != nil {
		logger.Warn().
			Err(err).
			Time("written_at", cached.WrittenAt).
			Msg("Upstream failed, serving stale cache")
		requestsTotal.WithLabelValues(route, "200").Inc()
		staleServesTotal.WithLabelValues(route).Inc()
		writePayload(w, cached.Payload)
		return
	}

	var uerr *upstream.Error
	if errors.As(err, &uerr) {
		logger.Error().Err(err).Msg("Upstream failed with no cached fallback")
		requestsTotal.WithLabelValues(route, strconv.Itoa(coerceStatus(uerr.Code))).Inc()
		writeError(w, uerr.Code, uerr.Message)
		return
	}

	logger.Error().Err(err).Msg("Upstream fault with no cached fallback")
	requestsTotal.WithLabelValues(route, "500").Inc()
	writeError(w, http.StatusInternalServerError, "internal error")
}
