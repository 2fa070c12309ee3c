package llm

import (
	"context"
	"time"

	"github.com/sethvargo/go-retry"
)

// Policy bounds a retried call.
type Policy struct {
	Attempts      int
	Base          time.Duration
	Cap           time.Duration
	JitterPercent uint64
}

// DefaultPolicy makes 3 attempts with exponential backoff from 2s, capped at 30s.
var DefaultPolicy = Policy{Attempts: 3, Base: 2 * time.Second, Cap: 30 * time.Second, JitterPercent: 10}

// Retryable marks err so that Do tries again.
func Retryable(err error) error {
	return retry.RetryableError(err)
}

// Do calls fn until it succeeds, returns an error not marked with Retryable,
// or the attempts run out. The last error is returned unwrapped.
func Do(ctx context.Context, p Policy, fn func(ctx context.Context) error) error {
	attempts := max(p.Attempts, 1)
	b := retry.NewExponential(p.Base)
	if p.Cap > 0 {
		b = retry.WithCappedDuration(p.Cap, b)
	}
	if p.JitterPercent > 0 {
		b = retry.WithJitterPercent(p.JitterPercent, b)
	}
	b = retry.WithMaxRetries(uint64(attempts-1), b)
	return retry.Do(ctx, b, fn)
}
