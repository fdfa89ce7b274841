package pacing

import (
	"context"
	"sync"
	"time"
)

// Recorder is a Sleeper that returns immediately and remembers every
// requested duration. Tests use it in place of ContextSleeper.
type Recorder struct {
	mu    sync.Mutex
	Slept []time.Duration
}

func (r *Recorder) Sleep(ctx context.Context, d time.Duration) error {
	r.mu.Lock()
	r.Slept = append(r.Slept, d)
	r.mu.Unlock()
	return ctx.Err()
}

// Count returns how many sleeps were requested.
func (r *Recorder) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.Slept)
}
