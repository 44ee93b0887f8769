// Package upstream implements the HTTP client for the content-fetching
// service that scrapes stihi.ru author pages. The client owns timeouts
// and retries; callers see either an opaque JSON payload or an error,
// never a partial response.
package upstream

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/rs/zerolog"
)

// Config holds the upstream client configuration.
type Config struct {
	// BaseURL of the content-fetching service.
	BaseURL string

	// Timeout per HTTP attempt.
	Timeout time.Duration

	// MaxAttempts for server and network errors, including the initial
	// request.
	MaxAttempts int

	// InitialBackoff before the first retry.
	InitialBackoff time.Duration

	// MaxBackoff caps the exponential backoff.
	MaxBackoff time.Duration
}

// DefaultConfig returns a safe default configuration.
func DefaultConfig(baseURL string) Config {
	return Config{
		BaseURL:        baseURL,
		Timeout:        30 * time.Second,
		MaxAttempts:    3,
		InitialBackoff: 1 * time.Second,
		MaxBackoff:     30 * time.Second,
	}
}

// Client fetches author data from the content-fetching service.
type Client struct {
	httpClient *http.Client
	config     Config
	logger     zerolog.Logger
}

// New creates an upstream client.
func New(cfg Config, logger zerolog.Logger) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("upstream base URL is required")
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 3
	}
	if cfg.InitialBackoff <= 0 {
		cfg.InitialBackoff = 1 * time.Second
	}
	if cfg.MaxBackoff <= 0 {
		cfg.MaxBackoff = 30 * time.Second
	}

	return &Client{
		httpClient: &http.Client{Timeout: cfg.Timeout},
		config:     cfg,
		logger:     logger,
	}, nil
}

// SetHTTPClient sets a custom HTTP client (for testing).
func (c *Client) SetHTTPClient(client *http.Client) {
	c.httpClient = client
}

// FetchPoems fetches one page of an author's poems listing. A nil page
// means "no page specified". The delay is forwarded as a throttling
// hint for the scraper.
func (c *Client) FetchPoems(ctx context.Context, login string, page *int, delay int) (json.RawMessage, error) {
	q := url.Values{}
	if page != nil {
		q.Set("page", strconv.Itoa(*page))
	}
	if delay > 0 {
		q.Set("delay", strconv.Itoa(delay))
	}
	return c.fetch(ctx, "poems", "/poems/"+url.PathEscape(login), q)
}

// FetchFilters fetches the author's poem filters (years and categories).
func (c *Client) FetchFilters(ctx context.Context, login string) (json.RawMessage, error) {
	return c.fetch(ctx, "filters", "/poems/"+url.PathEscape(login)+"/filters", nil)
}

// fetch executes one GET against the upstream service with retries.
func (c *Client) fetch(ctx context.Context, operation, path string, query url.Values) (json.RawMessage, error) {
	u := c.config.BaseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	start := time.Now()
	defer func() {
		upstreamRequestDuration.WithLabelValues(operation).Observe(time.Since(start).Seconds())
	}()

	var payload json.RawMessage
	err := c.retryWithBackoff(ctx, operation, func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
		if err != nil {
			return permanent(fmt.Errorf("create request: %w", err))
		}
		req.Header.Set("Accept", "application/json")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			upstreamRequestsTotal.WithLabelValues(operation, "network_error").Inc()
			return fmt.Errorf("upstream request: %w", err)
		}
		defer resp.Body.Close()

		body, err := io.ReadAll(resp.Body)
		if err != nil {
			upstreamRequestsTotal.WithLabelValues(operation, "network_error").Inc()
			return fmt.Errorf("read upstream response: %w", err)
		}

		upstreamRequestsTotal.WithLabelValues(operation, strconv.Itoa(resp.StatusCode)).Inc()

		if resp.StatusCode >= 400 {
			uerr := decodeError(resp.StatusCode, body)
			if resp.StatusCode >= 500 {
				return uerr
			}
			// 4xx is the upstream's final word, don't retry
			return permanent(uerr)
		}

		payload = body
		return nil
	})
	if err != nil {
		return nil, err
	}

	return payload, nil
}

// decodeError maps an upstream error response onto *Error, preferring
// the code and message from the upstream's error envelope over the
// transport status.
func decodeError(statusCode int, body []byte) *Error {
	var envelope struct {
		Error struct {
			Code    int    `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal(body, &envelope); err == nil && envelope.Error.Code != 0 {
		return &Error{Code: envelope.Error.Code, Message: envelope.Error.Message}
	}
	return &Error{Code: statusCode, Message: http.StatusText(statusCode)}
}
