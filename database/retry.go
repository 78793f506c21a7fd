package database

import (
	"context"
	"database/sql"
	"errors"
	"frietkot_server/lib"
	"slices"
	"strings"
	"time"
)

// RetryConfig defines retry behavior
type RetryConfig struct {
	MaxAttempts  int
	InitialDelay time.Duration
	MaxDelay     time.Duration
	Multiplier   float64
	EnableRetry  bool
}

// DefaultRetryConfig returns sensible defaults for retry behavior
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxAttempts:  3,
		InitialDelay: 100 * time.Millisecond,
		MaxDelay:     2 * time.Second,
		Multiplier:   2.0,
		EnableRetry:  true,
	}
}

// transientMessages are driver and network failures that usually clear up on a new connection.
var transientMessages = []string{
	"connection refused",
	"connection reset",
	"connection closed",
	"broken pipe",
	"bad connection",
	"no such host",
	"network is unreachable",
	"i/o timeout",
	"eof",
	"too many clients",
	"server is not accepting",
	"temporary failure",
}

// isRetryableError reports whether a failed read may succeed when run again.
func isRetryableError(err error) bool {
	if err == nil {
		return false
	}

	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) || errors.Is(err, sql.ErrNoRows) {
		return false
	}

	// Postgres errors from either driver carry a SQLSTATE
	if code := lib.SQLState(err); code != "" {
		switch {
		case strings.HasPrefix(code, "08"): // connection exception
			return true
		case strings.HasPrefix(code, "53"): // insufficient resources
			return true
		case code == "57P03": // cannot_connect_now
			return true
		}
		// Integrity, syntax and serialization errors are not fixed by replaying a single statement
		return false
	}

	msg := strings.ToLower(err.Error())
	return slices.ContainsFunc(transientMessages, func(s string) bool {
		return strings.Contains(msg, s)
	})
}

// RetryWithBackoff executes a function with exponential backoff retry logic
func RetryWithBackoff(ctx context.Context, config RetryConfig, operation func() error) error {
	if !config.EnableRetry {
		return operation()
	}

	var lastErr error
	delay := config.InitialDelay

	for attempt := 1; attempt <= config.MaxAttempts; attempt++ {
		// Execute the operation
		err := operation()

		// Success
		if err == nil {
			return nil
		}

		lastErr = err

		// Check if we should retry
		if !isRetryableError(err) {
			return err
		}

		// Don't retry on the last attempt
		if attempt >= config.MaxAttempts {
			break
		}

		// Check if context is cancelled
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
			// Calculate next delay with exponential backoff
			delay = time.Duration(float64(delay) * config.Multiplier)
			if delay > config.MaxDelay {
				delay = config.MaxDelay
			}
		}
	}

	return lastErr
}

// WithRetry wraps an idempotent read with retry logic.
// Writes and transactions must not go through it.
func WithRetry(ctx context.Context, fn func() error) error {
	return RetryWithBackoff(ctx, DefaultRetryConfig(), fn)
}
