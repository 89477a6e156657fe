package ratelimit

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/amishk599/talentlens/internal/model"
)

// Call kinds paced independently of each other.
const (
	KindUpload   = "upload"
	KindAnalysis = "analysis"
)

// Limiter enforces a minimum delay between consecutive backend calls of the same kind.
type Limiter struct {
	mu        sync.Mutex
	next      map[string]time.Time // key: call kind, earliest start of the next call
	minDelay  time.Duration
	overrides map[string]time.Duration
}

// NewLimiter creates a limiter that spaces calls of one kind at least minDelay
// apart. overrides replaces minDelay for specific kinds. A zero delay disables waiting.
func NewLimiter(minDelay time.Duration, overrides map[string]time.Duration) *Limiter {
	return &Limiter{
		next:      make(map[string]time.Time),
		minDelay:  minDelay,
		overrides: overrides,
	}
}

func (l *Limiter) delayFor(kind string) time.Duration {
	if d, ok := l.overrides[kind]; ok {
		return d
	}
	return l.minDelay
}

// Wait blocks until the caller may issue a call of the given kind.
// Concurrent callers are handed successive slots, so they never start together.
// Returns an error if the context is cancelled while waiting.
func (l *Limiter) Wait(ctx context.Context, kind string) error {
	delay := l.delayFor(kind)
	if delay <= 0 {
		return nil
	}

	l.mu.Lock()
	now := time.Now()
	start := l.next[kind]
	if start.Before(now) {
		start = now
	}
	l.next[kind] = start.Add(delay)
	l.mu.Unlock()

	remaining := start.Sub(now)
	if remaining <= 0 {
		return nil
	}

	timer := time.NewTimer(remaining)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return fmt.Errorf("rate limiter wait for %s: %w", kind, ctx.Err())
	case <-timer.C:
	}
	return nil
}

// Backend is a decorator that paces calls before delegating to the wrapped model.Backend.
// Uploads of job descriptions and resumes share the "upload" kind.
type Backend struct {
	inner   model.Backend
	limiter *Limiter
}

// NewBackend wraps a Backend with call pacing.
func NewBackend(inner model.Backend, limiter *Limiter) *Backend {
	return &Backend{inner: inner, limiter: limiter}
}

func (b *Backend) UploadJobDescription(ctx context.Context, doc model.Document) (model.RemoteID, error) {
	if err := b.limiter.Wait(ctx, KindUpload); err != nil {
		return "", err
	}
	return b.inner.UploadJobDescription(ctx, doc)
}

func (b *Backend) UploadJobDescriptionText(ctx context.Context, text string) (model.RemoteID, error) {
	if err := b.limiter.Wait(ctx, KindUpload); err != nil {
		return "", err
	}
	return b.inner.UploadJobDescriptionText(ctx, text)
}

func (b *Backend) UploadResume(ctx context.Context, doc model.Document) (model.RemoteID, error) {
	if err := b.limiter.Wait(ctx, KindUpload); err != nil {
		return "", err
	}
	return b.inner.UploadResume(ctx, doc)
}

func (b *Backend) Analyze(ctx context.Context, req model.AnalysisRequest) (model.AnalysisResult, error) {
	if err := b.limiter.Wait(ctx, KindAnalysis); err != nil {
		return model.AnalysisResult{}, err
	}
	return b.inner.Analyze(ctx, req)
}
