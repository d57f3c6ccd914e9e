package errors

import (
	"context"
	"math/rand/v2"
	"time"
)

// RetryConfig configures retry behavior for model calls.
type RetryConfig struct {
	// MaxAttempts counts the first call. Values below 1 mean one call.
	MaxAttempts int

	InitialBackoff time.Duration
	MaxBackoff     time.Duration // 0 means unbounded
	BackoffFactor  float64

	// Jitter spreads each wait by up to +/- Jitter of its length (0.0-1.0).
	Jitter float64

	// RetryableFunc replaces IsRetryable when set.
	RetryableFunc func(error) bool

	// OnRetry runs before each backoff sleep with the 1-based failed attempt.
	OnRetry func(attempt int, err error, wait time.Duration)
}

// DefaultRetry is the standard retry configuration for LLM calls.
var DefaultRetry = RetryConfig{
	MaxAttempts:    3,
	InitialBackoff: 1 * time.Second,
	MaxBackoff:     30 * time.Second,
	BackoffFactor:  2.0,
	Jitter:         0.1,
}

// NoRetry disables retries.
var NoRetry = RetryConfig{
	MaxAttempts: 1,
}

// RetryResult is the outcome of WithRetryContext.
type RetryResult[T any] struct {
	Value    T
	Err      error // a *CategorizedError on failure
	Attempts int
	Duration time.Duration
}

func (c RetryConfig) attempts() int {
	return max(c.MaxAttempts, 1)
}

func (c RetryConfig) retryable(err error) bool {
	if c.RetryableFunc != nil {
		return c.RetryableFunc(err)
	}
	return IsRetryable(err)
}

// grow returns the backoff to use after wait, capped at MaxBackoff.
func (c RetryConfig) grow(wait time.Duration) time.Duration {
	next := time.Duration(float64(wait) * c.BackoffFactor)
	if c.MaxBackoff > 0 && next > c.MaxBackoff {
		return c.MaxBackoff
	}
	return next
}

// WithRetryContext calls fn until it succeeds, returns a non-retryable
// error, runs out of attempts, or ctx is done.
func WithRetryContext[T any](
	ctx context.Context,
	cfg RetryConfig,
	fn func(context.Context) (T, error),
) RetryResult[T] {
	start := time.Now()
	limit := cfg.attempts()
	backoff := cfg.InitialBackoff

	fail := func(err error, attempts int, category Category, note string) RetryResult[T] {
		return RetryResult[T]{
			Err:      &CategorizedError{Err: err, Category: category, Attempts: attempts, Context: note},
			Attempts: attempts,
			Duration: time.Since(start),
		}
	}

	var err error
	for n := 1; n <= limit; n++ {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return fail(ctxErr, n-1, CategoryPermanent, "context cancelled")
		}

		var v T
		v, err = fn(ctx)
		if err == nil {
			return RetryResult[T]{Value: v, Attempts: n, Duration: time.Since(start)}
		}
		if !cfg.retryable(err) {
			return fail(err, n, Categorize(err), "")
		}
		if n == limit {
			break
		}

		wait := calculateBackoff(backoff, cfg.Jitter)
		if cfg.OnRetry != nil {
			cfg.OnRetry(n, err, wait)
		}
		if sleepErr := sleep(ctx, wait); sleepErr != nil {
			return fail(sleepErr, n, CategoryPermanent, "context cancelled during backoff")
		}
		backoff = cfg.grow(backoff)
	}

	return fail(err, limit, Categorize(err), "max retries exceeded")
}

// sleep waits for d or until ctx is done.
func sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// calculateBackoff spreads base by a random factor in [-jitter, +jitter].
func calculateBackoff(base time.Duration, jitter float64) time.Duration {
	if jitter <= 0 {
		return base
	}
	spread := float64(base) * jitter * (rand.Float64()*2 - 1)
	return base + time.Duration(spread)
}

// RetryOption adjusts a RetryConfig.
type RetryOption func(*RetryConfig)

// WithMaxAttempts sets the maximum number of attempts.
func WithMaxAttempts(n int) RetryOption {
	return func(cfg *RetryConfig) { cfg.MaxAttempts = n }
}

// WithInitialBackoff sets the first backoff duration.
func WithInitialBackoff(d time.Duration) RetryOption {
	return func(cfg *RetryConfig) { cfg.InitialBackoff = d }
}

// WithMaxBackoff caps the backoff duration.
func WithMaxBackoff(d time.Duration) RetryOption {
	return func(cfg *RetryConfig) { cfg.MaxBackoff = d }
}

// WithJitter sets the jitter factor.
func WithJitter(j float64) RetryOption {
	return func(cfg *RetryConfig) { cfg.Jitter = j }
}

// WithOnRetry sets the callback run before each backoff sleep.
func WithOnRetry(fn func(attempt int, err error, wait time.Duration)) RetryOption {
	return func(cfg *RetryConfig) { cfg.OnRetry = fn }
}

// NewRetryConfig returns DefaultRetry with opts applied.
func NewRetryConfig(opts ...RetryOption) RetryConfig {
	cfg := DefaultRetry
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}
