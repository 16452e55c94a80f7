package client

import (
	"math"
	"math/rand"
	"time"
)

// BackoffStrategy yields the wait before retry attempt n (0-based).
type BackoffStrategy interface {
	Next(attempt int) time.Duration
}

// ExponentialBackoff grows the wait by Factor per attempt up to Max. Jitter
// (0..1) randomizes each wait so clients reconnecting to the daemon after a
// restart don't retry in lockstep.
type ExponentialBackoff struct {
	Base   time.Duration
	Max    time.Duration
	Factor float64
	Jitter float64
}

// DefaultBackoff is tuned for waiting on a local daemon to come up:
// 100ms doubling to a 5s ceiling, 20% jitter.
func DefaultBackoff() *ExponentialBackoff {
	return &ExponentialBackoff{
		Base:   100 * time.Millisecond,
		Max:    5 * time.Second,
		Factor: 2.0,
		Jitter: 0.2,
	}
}

// Next returns the wait for the given attempt. Negative attempts are
// treated as the first.
func (b *ExponentialBackoff) Next(attempt int) time.Duration {
	if attempt < 0 {
		attempt = 0
	}
	wait := float64(b.Base) * math.Pow(b.Factor, float64(attempt))
	if ceiling := float64(b.Max); wait > ceiling {
		wait = ceiling
	}
	if b.Jitter > 0 {
		wait *= 1 + b.Jitter*(2*rand.Float64()-1)
	}
	if wait < 0 {
		return 0
	}
	return time.Duration(wait)
}
