package retry

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"time"

	"github.com/amishk599/talentlens/internal/model"
)

// Backend is a decorator that retries transient failures with exponential
// backoff and jitter before delegating to the wrapped model.Backend.
type Backend struct {
	inner      model.Backend
	maxRetries int
	baseDelay  time.Duration
	logger     *slog.Logger
}

// NewBackend wraps a Backend with retry logic.
// maxRetries is the number of additional attempts after the first failure; 0 disables retries.
// baseDelay is the delay before the first retry, doubled on each subsequent retry.
func NewBackend(inner model.Backend, maxRetries int, baseDelay time.Duration, logger *slog.Logger) *Backend {
	return &Backend{
		inner:      inner,
		maxRetries: maxRetries,
		baseDelay:  baseDelay,
		logger:     logger,
	}
}

func (b *Backend) UploadJobDescription(ctx context.Context, doc model.Document) (model.RemoteID, error) {
	return do(ctx, b, "upload_job_description", func() (model.RemoteID, error) {
		return b.inner.UploadJobDescription(ctx, doc)
	})
}

func (b *Backend) UploadJobDescriptionText(ctx context.Context, text string) (model.RemoteID, error) {
	return do(ctx, b, "upload_job_description_text", func() (model.RemoteID, error) {
		return b.inner.UploadJobDescriptionText(ctx, text)
	})
}

func (b *Backend) UploadResume(ctx context.Context, doc model.Document) (model.RemoteID, error) {
	return do(ctx, b, "upload_resume", func() (model.RemoteID, error) {
		return b.inner.UploadResume(ctx, doc)
	})
}

func (b *Backend) Analyze(ctx context.Context, req model.AnalysisRequest) (model.AnalysisResult, error) {
	return do(ctx, b, "analyze", func() (model.AnalysisResult, error) {
		return b.inner.Analyze(ctx, req)
	})
}

// do runs fn, retrying on transient errors.
func do[T any](ctx context.Context, b *Backend, op string, fn func() (T, error)) (T, error) {
	v, err := fn()
	if err == nil {
		return v, nil
	}

	var zero T
	if !isRetryable(err) {
		return zero, err
	}

	lastErr := err
	for attempt := 1; attempt <= b.maxRetries; attempt++ {
		delay := b.backoffDelay(attempt, lastErr)

		b.logger.Warn("retrying after transient error",
			"op", op,
			"attempt", attempt,
			"max_retries", b.maxRetries,
			"delay", delay,
			"error", lastErr,
		)

		select {
		case <-ctx.Done():
			return zero, fmt.Errorf("retry cancelled: %w", ctx.Err())
		case <-time.After(delay):
		}

		v, err = fn()
		if err == nil {
			return v, nil
		}

		if !isRetryable(err) {
			return zero, err
		}
		lastErr = err
	}

	return zero, lastErr
}

// backoffDelay computes the delay for a given attempt with ±30% jitter.
// If the error includes a Retry-After duration (HTTP 429/503), that takes precedence.
func (b *Backend) backoffDelay(attempt int, err error) time.Duration {
	var httpErr *model.HTTPError
	if errors.As(err, &httpErr) && httpErr.RetryAfter > 0 {
		return httpErr.RetryAfter
	}

	// Exponential: baseDelay * 2^(attempt-1)
	delay := b.baseDelay
	for i := 1; i < attempt; i++ {
		delay *= 2
	}

	jitter := float64(delay) * 0.3
	return time.Duration(float64(delay) + (rand.Float64()*2-1)*jitter)
}

// isRetryable returns true if the error represents a transient failure worth retrying.
func isRetryable(err error) bool {
	if err == nil {
		return false
	}

	// Context cancellation: never retry.
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	var httpErr *model.HTTPError
	if errors.As(err, &httpErr) {
		if httpErr.StatusCode == 429 || httpErr.StatusCode >= 500 {
			return true
		}
		// 4xx (not 429): not retryable.
		return false
	}

	// Network, DNS, malformed response.
	return true
}
