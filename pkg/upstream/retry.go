package upstream

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"
)

// retryWithBackoff executes fn with exponential backoff and jitter.
// Permanent errors return immediately; retriable ones (5xx, network)
// are attempted up to MaxAttempts. Exhaustion wraps the last failure so
// typed upstream errors stay visible to errors.As.
func (c *Client) retryWithBackoff(ctx context.Context, operation string, fn func() error) error {
	backoff := c.config.InitialBackoff

	var lastErr error
	for attempt := 1; attempt <= c.config.MaxAttempts; attempt++ {
		err := fn()
		if err == nil {
			if attempt > 1 {
				c.logger.Info().
					Str("operation", operation).
					Int("attempt", attempt).
					Msg("Upstream request succeeded after retry")
			}
			return nil
		}

		var perm *permanentError
		if errors.As(err, &perm) {
			return perm.err
		}
		lastErr = err

		if attempt >= c.config.MaxAttempts {
			break
		}

		upstreamRetriesTotal.WithLabelValues(operation).Inc()

		// ±20% jitter
		wait := time.Duration(float64(backoff) * (0.8 + rand.Float64()*0.4))

		c.logger.Debug().
			Str("operation", operation).
			Int("attempt", attempt).
			Dur("backoff", wait).
			Msg("Retrying upstream request")

		select {
		case <-ctx.Done():
			return fmt.Errorf("upstream retry cancelled: %w", ctx.Err())
		case <-time.After(wait):
		}

		backoff = time.Duration(float64(backoff) * 2)
		if backoff > c.config.MaxBackoff {
			backoff = c.config.MaxBackoff
		}
	}

	c.logger.Warn().
		Str("operation", operation).
		Int("max_attempts", c.config.MaxAttempts).
		Msg("Upstream retry attempts exhausted")

	return fmt.Errorf("%w after %d attempts: %w", ErrRetryExhausted, c.config.MaxAttempts, lastErr)
}
