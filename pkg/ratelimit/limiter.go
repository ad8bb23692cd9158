// pkg/ratelimit/limiter.go
// Token bucket probe-launch limiter with batch feedback

package ratelimit

import (
	"context"
	"sync"

	"golang.org/x/time/rate"
)

// Limiter throttles probe launches. When adaptive mode is on, the scheduler
// reports each batch's timeout ratio and the limiter backs off while the
// network is dropping probes, recovering toward the base rate afterwards.
type Limiter struct {
	mu       sync.Mutex
	limiter  *rate.Limiter
	base     rate.Limit
	current  rate.Limit
	adaptive bool
}

// Config holds limiter configuration.
type Config struct {
	Rate     int  // probe launches per second; <= 0 means unlimited
	Adaptive bool // adjust rate from batch timeout feedback
}

// Thresholds for the adaptive controller. A batch where more than half the
// probes timed out indicates the target or path is saturated.
const (
	backoffRatio    = 0.5
	recoverRatio    = 0.1
	backoffFactor   = 0.8
	recoverFactor   = 1.1
	minRateFraction = 0.1
)

// New creates a limiter.
func New(cfg Config) *Limiter {
	r := rate.Limit(cfg.Rate)
	if r <= 0 {
		r = rate.Inf
	}
	burst := int(r)
	if r == rate.Inf {
		burst = 0
	}
	return &Limiter{
		limiter:  rate.NewLimiter(r, burst),
		base:     r,
		current:  r,
		adaptive: cfg.Adaptive,
	}
}

// Wait blocks until a probe may be launched.
func (l *Limiter) Wait(ctx context.Context) error {
	return l.limiter.Wait(ctx)
}

// Observe feeds one batch's outcome into the adaptive controller.
func (l *Limiter) Observe(timeouts, total int) {
	if !l.adaptive || total == 0 {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.base == rate.Inf {
		return
	}

	ratio := float64(timeouts) / float64(total)
	next := float64(l.current)
	switch {
	case ratio > backoffRatio:
		next *= backoffFactor
	case ratio < recoverRatio && l.current < l.base:
		next *= recoverFactor
	default:
		return
	}

	floor := float64(l.base) * minRateFraction
	if next < floor {
		next = floor
	}
	if next > float64(l.base) {
		next = float64(l.base)
	}

	l.current = rate.Limit(next)
	l.limiter.SetLimit(l.current)
}

// Rate returns the current rate in probes per second.
func (l *Limiter) Rate() float64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return float64(l.current)
}
