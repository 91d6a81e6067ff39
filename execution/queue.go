package execution

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// ErrQueueClosed is returned by Enqueue after Close; the order is not
// accepted.
var ErrQueueClosed = errors.New("execution: queue closed")

// Placer submits one order to the broker. Implementations must honor the
// context deadline.
type Placer interface {
	PlaceOrder(ctx context.Context, o Order) (brokerOrderID string, err error)
}

// MaxAttempts bounds how many times one order is submitted before it becomes
// terminally Failed.
const MaxAttempts = 3

// DefaultAttemptTimeout bounds a single PlaceOrder call.
const DefaultAttemptTimeout = 10 * time.Second

// Queue is a FIFO order queue with a single consumer. Multiple producers may
// enqueue concurrently. A failed submission is re-enqueued at the tail with
// an incremented retry count, up to MaxAttempts, after which the order is
// surfaced as Failed. Relative order among first-attempt successes is
// preserved; a retried order may be overtaken by later orders.
type Queue struct {
	placer         Placer
	log            zerolog.Logger
	attemptTimeout time.Duration

	onExecuted func(Order)
	onFailed   func(Order)

	mu      sync.Mutex
	cond    *sync.Cond
	pending []*Order
	failed  []Order
	closed  bool
}

// Option configures a Queue.
type Option func(*Queue)

// WithAttemptTimeout overrides the per-submission timeout.
func WithAttemptTimeout(d time.Duration) Option {
	return func(q *Queue) { q.attemptTimeout = d }
}

// OnExecuted registers a callback invoked from the consumer goroutine after
// each successful submission.
func OnExecuted(fn func(Order)) Option {
	return func(q *Queue) { q.onExecuted = fn }
}

// OnFailed registers a callback invoked when an order becomes terminally
// Failed.
func OnFailed(fn func(Order)) Option {
	return func(q *Queue) { q.onFailed = fn }
}

func NewQueue(placer Placer, log zerolog.Logger, opts ...Option) *Queue {
	q := &Queue{
		placer:         placer,
		log:            log.With().Str("component", "execution").Logger(),
		attemptTimeout: DefaultAttemptTimeout,
	}
	q.cond = sync.NewCond(&q.mu)
	for _, opt := range opts {
		opt(q)
	}
	return q
}

// Enqueue appends an order to the tail of the queue.
func (q *Queue) Enqueue(o Order) error {
	o.Status = Queued
	if o.EnqueuedAt.IsZero() {
		o.EnqueuedAt = time.Now()
	}

	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		q.log.Warn().Str("order", o.ID).Msg("enqueue on closed queue dropped")
		return ErrQueueClosed
	}
	q.pending = append(q.pending, &o)
	q.cond.Signal()
	return nil
}

// Pending returns the number of orders waiting for submission.
func (q *Queue) Pending() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.pending)
}

// Failed returns copies of every order that exhausted its attempts.
func (q *Queue) Failed() []Order {
	q.mu.Lock()
	defer q.mu.Unlock()
	out := make([]Order, len(q.failed))
	copy(out, q.failed)
	return out
}

// Start launches the single consumer goroutine. It drains until ctx is
// canceled or Close is called.
func (q *Queue) Start(ctx context.Context) {
	go func() {
		<-ctx.Done()
		q.cond.Broadcast()
	}()
	go q.run(ctx)
}

// Close stops the consumer after the in-flight submission completes.
func (q *Queue) Close() {
	q.mu.Lock()
	q.closed = true
	q.mu.Unlock()
	q.cond.Broadcast()
}

func (q *Queue) run(ctx context.Context) {
	for {
		q.mu.Lock()
		for len(q.pending) == 0 && !q.closed && ctx.Err() == nil {
			q.cond.Wait()
		}
		if q.closed || ctx.Err() != nil {
			q.mu.Unlock()
			return
		}
		o := q.pending[0]
		q.pending = q.pending[1:]
		q.mu.Unlock()

		q.submit(ctx, o)
	}
}

func (q *Queue) submit(ctx context.Context, o *Order) {
	attemptCtx, cancel := context.WithTimeout(ctx, q.attemptTimeout)
	brokerID, err := q.placer.PlaceOrder(attemptCtx, *o)
	cancel()

	if err == nil {
		o.Status = Executed
		o.BrokerOrderID = brokerID
		q.log.Info().
			Str("order", o.ID).
			Str("symbol", o.Symbol).
			Str("side", string(o.Side)).
			Int("quantity", o.Quantity).
			Str("broker_order_id", brokerID).
			Msg("order executed")
		if q.onExecuted != nil {
			q.onExecuted(*o)
		}
		return
	}

	o.RetryCount++
	if o.RetryCount >= MaxAttempts {
		o.Status = Failed
		q.log.Error().
			Err(err).
			Str("order", o.ID).
			Str("symbol", o.Symbol).
			Int("attempts", o.RetryCount).
			Msg("order failed permanently")

		q.mu.Lock()
		q.failed = append(q.failed, *o)
		q.mu.Unlock()

		if q.onFailed != nil {
			q.onFailed(*o)
		}
		return
	}

	o.Status = Retrying
	q.log.Warn().
		Err(err).
		Str("order", o.ID).
		Str("symbol", o.Symbol).
		Int("attempt", o.RetryCount).
		Msg("order submission failed, re-enqueueing")

	q.mu.Lock()
	if !q.closed {
		q.pending = append(q.pending, o)
		q.mu.Unlock()
		return
	}
	// Close raced the retry. Surface the order as failed rather than
	// dropping it silently.
	o.Status = Failed
	q.failed = append(q.failed, *o)
	q.mu.Unlock()

	q.log.Error().
		Str("order", o.ID).
		Str("symbol", o.Symbol).
		Int("attempts", o.RetryCount).
		Msg("queue closed during retry, order failed")
	if q.onFailed != nil {
		q.onFailed(*o)
	}
}
