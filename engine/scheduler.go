package engine

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/rustyeddy/algotrader/metrics"
)

// Task is a named periodic job. Run is invoked once per interval; a panic in
// one tick is recovered and logged so the next tick still fires.
type Task struct {
	Name     string
	Interval time.Duration
	Run      func(ctx context.Context)
}

// Scheduler drives a fixed set of tasks, each on its own goroutine and
// ticker. Tasks fire once immediately on start so a fresh engine does not
// idle for a full interval.
type Scheduler struct {
	tasks []Task
	log   zerolog.Logger
	wg    sync.WaitGroup
}

func NewScheduler(log zerolog.Logger, tasks ...Task) *Scheduler {
	return &Scheduler{tasks: tasks, log: log}
}

// Start launches every task and returns. Use Wait to block until the context
// is cancelled and all tasks have drained.
func (s *Scheduler) Start(ctx context.Context) {
	for _, t := range s.tasks {
		s.wg.Add(1)
		go s.loop(ctx, t)
	}
}

// Wait blocks until all task loops have exited.
func (s *Scheduler) Wait() {
	s.wg.Wait()
}

func (s *Scheduler) loop(ctx context.Context, t Task) {
	defer s.wg.Done()

	ticker := time.NewTicker(t.Interval)
	defer ticker.Stop()

	s.tick(ctx, t)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.tick(ctx, t)
		}
	}
}

func (s *Scheduler) tick(ctx context.Context, t Task) {
	defer func() {
		if r := recover(); r != nil {
			s.log.Error().Str("task", t.Name).Any("panic", r).Msg("tick panicked")
		}
	}()

	metrics.TicksTotal.WithLabelValues(t.Name).Inc()
	t.Run(ctx)
}
