// Package retry retries transient Discord REST failures with exponential
// backoff, honouring Retry-After when the platform supplies one.
package retry

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"syscall"
	"time"

	"github.com/aatumaykin/bearobot/internal/channels"
	"github.com/aatumaykin/bearobot/internal/logger"
)

const (
	defaultMaxAttempts  = 3
	defaultInitialDelay = 1 * time.Second
	defaultMaxDelay     = 10 * time.Second
)

// Config represents retry configuration.
type Config struct {
	MaxAttempts    int           // Maximum number of attempts (default: 3)
	InitialBackoff time.Duration // Initial backoff duration (default: 1s)
	MaxBackoff     time.Duration // Maximum backoff duration (default: 10s)
}

func (c Config) withDefaults() Config {
	if c.MaxAttempts <= 0 {
		c.MaxAttempts = defaultMaxAttempts
	}
	if c.InitialBackoff <= 0 {
		c.InitialBackoff = defaultInitialDelay
	}
	if c.MaxBackoff <= 0 {
		c.MaxBackoff = defaultMaxDelay
	}
	return c
}

// Do runs fn until it succeeds, returns a non-retryable error, or
// MaxAttempts is reached. Context cancellation is checked between attempts.
func Do(ctx context.Context, cfg Config, log *logger.Logger, op string, fn func() error) error {
	cfg = cfg.withDefaults()
	if log == nil {
		log = logger.NewNop()
	}

	var lastErr error
	for attempt := 0; attempt < cfg.MaxAttempts; attempt++ {
		err := fn()
		if err == nil {
			if attempt > 0 {
				log.DebugCtx(ctx, "retry succeeded",
					logger.Field{Key: "operation", Value: op},
					logger.Field{Key: "attempt", Value: attempt + 1})
			}
			return nil
		}
		lastErr = err

		if !IsRetryable(err) {
			return err
		}
		if attempt == cfg.MaxAttempts-1 {
			break
		}

		backoff := backoffFor(err, attempt, cfg)
		log.WarnCtx(ctx, "retryable error, backing off",
			append([]logger.Field{
				{Key: "operation", Value: op},
				{Key: "attempt", Value: attempt + 1},
				{Key: "max_attempts", Value: cfg.MaxAttempts},
				{Key: "backoff", Value: backoff.String()},
				{Key: "error", Value: err.Error()},
			}, channels.LogFieldsOf(err)...)...)

		timer := time.NewTimer(backoff)
		select {
		case <-timer.C:
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		}
	}

	return fmt.Errorf("all %d attempts failed: %w", cfg.MaxAttempts, lastErr)
}

// IsRetryable reports whether err is worth another attempt: Discord 429 and
// 5xx responses, network errors and truncated responses. Cancellation and
// other API errors are final.
func IsRetryable(err error) bool {
	if err == nil || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	if details, ok := channels.DetailsOf(err); ok {
		return details.IsRetryable()
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}

	return errors.Is(err, io.ErrUnexpectedEOF) ||
		errors.Is(err, syscall.ECONNRESET) ||
		errors.Is(err, syscall.ECONNREFUSED)
}

// backoffFor prefers the delay requested by the platform, capped at
// MaxBackoff, and falls back to exponential backoff.
func backoffFor(err error, attempt int, cfg Config) time.Duration {
	if details, ok := channels.DetailsOf(err); ok {
		if after := details.RetryAfter(); after > 0 {
			return min(after, cfg.MaxBackoff)
		}
	}
	return calculateBackoff(attempt, cfg.InitialBackoff, cfg.MaxBackoff)
}

// calculateBackoff returns 2^attempt * initial, capped at max.
func calculateBackoff(attempt int, initial, max time.Duration) time.Duration {
	backoff := time.Duration(1<<uint(attempt)) * initial
	if backoff > max || backoff <= 0 {
		return max
	}
	return backoff
}
