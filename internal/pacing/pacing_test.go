package pacing

import (
	"context"
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRange_PickStaysInBounds(t *testing.T) {
	r := Between(0.5, 1.2)
	rnd := rand.New(rand.NewSource(1))

	for i := 0; i < 1000; i++ {
		d := r.Pick(rnd)
		assert.GreaterOrEqual(t, d, 500*time.Millisecond)
		assert.LessOrEqual(t, d, 1200*time.Millisecond)
	}
}

func TestRange_DegenerateReturnsMin(t *testing.T) {
	r := Range{Min: 2 * time.Second, Max: time.Second}
	assert.Equal(t, 2*time.Second, r.Pick(rand.New(rand.NewSource(1))))
}

func TestContextSleeper_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	start := time.Now()
	err := ContextSleeper{}.Sleep(ctx, time.Minute)

	assert.ErrorIs(t, err, context.Canceled)
	assert.Less(t, time.Since(start), time.Second)
}

func TestContextSleeper_Sleeps(t *testing.T) {
	start := time.Now()
	err := ContextSleeper{}.Sleep(context.Background(), 20*time.Millisecond)

	assert.NoError(t, err)
	assert.GreaterOrEqual(t, time.Since(start), 20*time.Millisecond)
}

func TestPauser_UsesSleeper(t *testing.T) {
	rec := &Recorder{}
	p := &Pauser{Sleeper: rec, Rand: rand.New(rand.NewSource(7))}

	assert.NoError(t, p.Pause(context.Background(), Between(1.0, 2.0)))
	assert.Equal(t, 1, rec.Count())
	assert.GreaterOrEqual(t, rec.Slept[0], time.Second)
	assert.LessOrEqual(t, rec.Slept[0], 2*time.Second)
}
