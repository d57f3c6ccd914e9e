package llm

import (
	"context"
	"log/slog"
	"time"

	cferrors "github.com/randalmurphal/contentflow/pkg/contentflow/errors"
)

// retryClient retries transient failures of an underlying client.
type retryClient struct {
	next   Client
	cfg    cferrors.RetryConfig
	logger *slog.Logger
}

// WithRetry wraps client so transient failures (rate limits, timeouts,
// server errors) are retried with backoff. A nil logger disables retry logs.
func WithRetry(client Client, cfg cferrors.RetryConfig, logger *slog.Logger) Client {
	return &retryClient{next: client, cfg: cfg, logger: logger}
}

// Generate implements Client.
func (r *retryClient) Generate(ctx context.Context, req Request) (string, error) {
	cfg := r.cfg
	if r.logger != nil && cfg.OnRetry == nil {
		cfg.OnRetry = func(attempt int, err error, wait time.Duration) {
			r.logger.Warn("llm call failed, retrying",
				slog.Int("attempt", attempt),
				slog.String("error", err.Error()),
				slog.Duration("backoff", wait),
			)
		}
	}

	res := cferrors.WithRetryContext(ctx, cfg, func(ctx context.Context) (string, error) {
		return r.next.Generate(ctx, req)
	})
	return res.Value, res.Err
}
