// Package ratelimit paces sequential API calls.
package ratelimit

import (
	"context"
	"time"

	"golang.org/x/time/rate"
)

// Pacer blocks between consecutive requests.
type Pacer interface {
	Wait(ctx context.Context) error
}

// FixedDelay sleeps for a constant duration on every Wait.
type FixedDelay struct {
	Delay time.Duration
}

func (p FixedDelay) Wait(ctx context.Context) error {
	if p.Delay <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(p.Delay)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// TokenBucket admits one request per interval with the given burst. The
// bucket starts empty, so the first Wait already spaces a request from the
// one before it.
type TokenBucket struct {
	limiter *rate.Limiter
}

func NewTokenBucket(interval time.Duration, burst int) *TokenBucket {
	if burst < 1 {
		burst = 1
	}
	limit := rate.Inf
	if interval > 0 {
		limit = rate.Every(interval)
	}
	limiter := rate.NewLimiter(limit, burst)
	limiter.AllowN(time.Now(), burst)
	return &TokenBucket{limiter: limiter}
}

func (p *TokenBucket) Wait(ctx context.Context) error {
	return p.limiter.Wait(ctx)
}

// New returns the pacer for mode ("fixed" or "token_bucket").
func New(mode string, interval time.Duration) Pacer {
	if mode == "token_bucket" {
		return NewTokenBucket(interval, 1)
	}
	return FixedDelay{Delay: interval}
}

// Counter records Wait calls without blocking.
type Counter struct {
	Calls int
}

func (c *Counter) Wait(ctx context.Context) error {
	c.Calls++
	return ctx.Err()
}
