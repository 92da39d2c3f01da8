package events

import (
	"sync"

	"go.uber.org/zap"

	"github.com/patrickwarner/partnersdk/internal/observability"
)

// Queue is an unbounded single-consumer event queue. Emit never blocks, so
// a slow host cannot stall a flow; events reach the consumer in emit order,
// each exactly once.
type Queue struct {
	mu     sync.Mutex
	cond   *sync.Cond
	items  []Event
	closed bool

	out     chan Event
	logger  *zap.Logger
	metrics observability.MetricsRegistry
}

// NewQueue starts the goroutine that feeds Events.
func NewQueue(logger *zap.Logger, metrics observability.MetricsRegistry) *Queue {
	if logger == nil {
		logger = zap.NewNop()
	}
	if metrics == nil {
		metrics = observability.NewNoOpRegistry()
	}
	q := &Queue{
		out:     make(chan Event),
		logger:  logger.Named("events"),
		metrics: metrics,
	}
	q.cond = sync.NewCond(&q.mu)
	go q.pump()
	return q
}

// Emit enqueues e. Events emitted after Close are dropped.
func (q *Queue) Emit(e Event) {
	if e == nil {
		return
	}
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		q.logger.Debug("event dropped after close", zap.String("kind", string(e.Kind())))
		return
	}
	q.items = append(q.items, e)
	q.mu.Unlock()
	q.cond.Signal()

	q.metrics.IncrementEvent(string(e.Kind()))
	q.logger.Debug("event emitted", zap.String("kind", string(e.Kind())))
}

// Events is closed once Close has been called and every queued event has
// been received.
func (q *Queue) Events() <-chan Event {
	return q.out
}

// Close stops accepting events. Already queued events are still delivered.
func (q *Queue) Close() {
	q.mu.Lock()
	q.closed = true
	q.mu.Unlock()
	q.cond.Broadcast()
}

func (q *Queue) pump() {
	for {
		q.mu.Lock()
		for len(q.items) == 0 && !q.closed {
			q.cond.Wait()
		}
		if len(q.items) == 0 {
			q.mu.Unlock()
			close(q.out)
			return
		}
		e := q.items[0]
		q.items[0] = nil
		q.items = q.items[1:]
		q.mu.Unlock()

		q.out <- e
	}
}
