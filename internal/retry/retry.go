// Package retry implements a bounded retry policy with exponential backoff
// and full jitter for the network calls made by the pipeline.
package retry

import (
	"context"
	"errors"
	"fmt"
	"net"
	"syscall"
	"time"

	"github.com/googleapis/gax-go/v2"
)

// RetryableError marks a transient failure (429, 5xx) that may be retried.
type RetryableError struct {
	StatusCode int
	Err        error
}

func (e *RetryableError) Error() string {
	return fmt.Sprintf("retryable error (status %d): %v", e.StatusCode, e.Err)
}

func (e *RetryableError) Unwrap() error {
	return e.Err
}

// StatusRetryable reports whether an HTTP status is worth retrying.
func StatusRetryable(code int) bool {
	return code == 429 || code >= 500
}

// IsRetryable checks if an error is worth retrying.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}
	var retryErr *RetryableError
	if errors.As(err, &retryErr) {
		return true
	}
	if errors.Is(err, context.Canceled) {
		return false
	}
	if errors.Is(err, syscall.ECONNREFUSED) || errors.Is(err, syscall.ECONNRESET) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr)
}

// Policy is a bounded retry policy
type Policy struct {
	MaxAttempts int
	BaseDelay   time.Duration
	MaxDelay    time.Duration
}

// Single is the policy of making exactly one attempt.
var Single = Policy{MaxAttempts: 1}

// Backoff returns a fresh exponential backoff for one Do call. Each Pause
// is jittered over (0, current period].
func (p Policy) Backoff() *gax.Backoff {
	initial := p.BaseDelay
	if initial <= 0 {
		initial = 500 * time.Millisecond
	}
	maxDelay := p.MaxDelay
	if maxDelay <= 0 {
		maxDelay = 30 * time.Second
	}
	if maxDelay < initial {
		maxDelay = initial
	}
	return &gax.Backoff{Initial: initial, Max: maxDelay, Multiplier: 2}
}

// sleepFunc is swapped out in tests
var sleepFunc = gax.Sleep

// Do runs fn until it succeeds, returns a non-retryable error, or the
// attempt budget is spent. The last error is returned.
func Do(ctx context.Context, p Policy, fn func(ctx context.Context) error) error {
	attempts := p.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}

	backoff := p.Backoff()
	var err error
	for attempt := 0; attempt < attempts; attempt++ {
		if err = fn(ctx); err == nil {
			return nil
		}
		if attempt == attempts-1 || !IsRetryable(err) || ctx.Err() != nil {
			break
		}
		if serr := sleepFunc(ctx, backoff.Pause()); serr != nil {
			return err
		}
	}
	return err
}
