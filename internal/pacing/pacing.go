// Package pacing holds the blocking pauses used between requests.
package pacing

import (
	"context"
	"math/rand"
	"time"
)

// Sleeper blocks for a duration or until the context is done.
type Sleeper interface {
	Sleep(ctx context.Context, d time.Duration) error
}

// ContextSleeper is the real Sleeper backed by a timer.
type ContextSleeper struct{}

func (ContextSleeper) Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Range is an inclusive interval of pause durations.
type Range struct {
	Min time.Duration
	Max time.Duration
}

// Between builds a Range from seconds, e.g. Between(0.5, 1.2).
func Between(minSeconds, maxSeconds float64) Range {
	return Range{
		Min: time.Duration(minSeconds * float64(time.Second)),
		Max: time.Duration(maxSeconds * float64(time.Second)),
	}
}

// Pick returns a uniformly distributed duration in [r.Min, r.Max].
func (r Range) Pick(rnd *rand.Rand) time.Duration {
	if r.Max <= r.Min {
		return r.Min
	}
	span := float64(r.Max - r.Min)
	return r.Min + time.Duration(rnd.Float64()*span)
}

// Pauser picks random durations from ranges and sleeps them.
type Pauser struct {
	Sleeper Sleeper
	Rand    *rand.Rand
}

// NewPauser returns a Pauser seeded from the clock.
func NewPauser(s Sleeper) *Pauser {
	return &Pauser{Sleeper: s, Rand: rand.New(rand.NewSource(time.Now().UnixNano()))}
}

// Pause sleeps for a random duration drawn from r.
func (p *Pauser) Pause(ctx context.Context, r Range) error {
	return p.Sleeper.Sleep(ctx, r.Pick(p.Rand))
}
