package engine

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestScheduler_TicksRepeatedly(t *testing.T) {
	t.Parallel()

	var ticks atomic.Int64
	s := NewScheduler(zerolog.Nop(), Task{
		Name:     "count",
		Interval: 10 * time.Millisecond,
		Run:      func(ctx context.Context) { ticks.Add(1) },
	})

	ctx, cancel := context.WithCancel(context.Background())
	s.Start(ctx)

	time.Sleep(100 * time.Millisecond)
	cancel()
	s.Wait()

	// One immediate tick plus several interval ticks.
	assert.GreaterOrEqual(t, ticks.Load(), int64(3))
}

func TestScheduler_RecoversFromPanic(t *testing.T) {
	t.Parallel()

	var ticks atomic.Int64
	s := NewScheduler(zerolog.Nop(), Task{
		Name:     "panicky",
		Interval: 10 * time.Millisecond,
		Run: func(ctx context.Context) {
			ticks.Add(1)
			panic("boom")
		},
	})

	ctx, cancel := context.WithCancel(context.Background())
	s.Start(ctx)

	time.Sleep(100 * time.Millisecond)
	cancel()
	s.Wait()

	// A panicking tick does not kill the loop.
	assert.GreaterOrEqual(t, ticks.Load(), int64(3))
}

func TestScheduler_StopsOnCancel(t *testing.T) {
	t.Parallel()

	var ticks atomic.Int64
	s := NewScheduler(zerolog.Nop(), Task{
		Name:     "count",
		Interval: 5 * time.Millisecond,
		Run:      func(ctx context.Context) { ticks.Add(1) },
	})

	ctx, cancel := context.WithCancel(context.Background())
	s.Start(ctx)
	time.Sleep(30 * time.Millisecond)
	cancel()
	s.Wait()

	final := ticks.Load()
	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, final, ticks.Load())
}
