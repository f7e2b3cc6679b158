// Package ratelimit provides a small token bucket shared by all workers that
// issue billed provider calls. The bucket is an injected, lifecycle-scoped
// object rather than a package-level singleton, so tests can instantiate
// isolated limiters.
package ratelimit

import (
	"context"
	"errors"
	"sync"
	"time"
)

// Bucket refills at a fixed rate up to a burst capacity. Safe for concurrent
// use; contention is handled internally.
type Bucket struct {
	mu     sync.Mutex
	rate   float64 // tokens per second
	burst  float64
	tokens float64
	last   time.Time
}

// NewBucket returns a full bucket refilling at ratePerSec with the given
// burst capacity. ratePerSec must be positive; burst is clamped to >= 1.
func NewBucket(ratePerSec float64, burst int) (*Bucket, error) {
	if ratePerSec <= 0 {
		return nil, errors.New("ratelimit: rate must be positive")
	}

	if burst < 1 {
		burst = 1
	}

	return &Bucket{
		rate:   ratePerSec,
		burst:  float64(burst),
		tokens: float64(burst),
		last:   time.Now(),
	}, nil
}

// refill credits tokens for the elapsed time. Caller holds b.mu.
func (b *Bucket) refill(now time.Time) {
	elapsed := now.Sub(b.last).Seconds()
	if elapsed <= 0 {
		return
	}

	b.tokens += elapsed * b.rate
	if b.tokens > b.burst {
		b.tokens = b.burst
	}
	b.last = now
}

// Allow takes a token if one is available without blocking.
func (b *Bucket) Allow() bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.refill(time.Now())
	if b.tokens < 1 {
		return false
	}

	b.tokens--
	return true
}

// Wait blocks until a token is available or the context is done.
func (b *Bucket) Wait(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		b.mu.Lock()
		now := time.Now()
		b.refill(now)

		if b.tokens >= 1 {
			b.tokens--
			b.mu.Unlock()
			return nil
		}

		// Sleep just long enough for the next token to accrue.
		wait := time.Duration((1 - b.tokens) / b.rate * float64(time.Second))
		b.mu.Unlock()

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
}
