// Package relay provides the small bounded queues between pipeline
// stages. They trade FIFO completeness for freshness: a producer at
// capacity evicts the oldest entry instead of blocking, so the consumer
// always sees the most recent data and stale entries are silently
// discarded.
package relay

import "time"

// DefaultCapacity keeps the queue one slot ahead of the consumer.
const DefaultCapacity = 2

// Queue is a fixed-capacity drop-oldest queue, safe for concurrent use
// by one or more producers and consumers.
type Queue[T any] struct {
	ch chan T
}

// New creates a queue with the given capacity. Capacities below one are
// raised to one.
func New[T any](capacity int) *Queue[T] {
	if capacity < 1 {
		capacity = 1
	}
	return &Queue[T]{ch: make(chan T, capacity)}
}

// Put inserts v, evicting the oldest entry when the queue is full.
// Put never blocks waiting for space.
func (q *Queue[T]) Put(v T) {
	for {
		select {
		case q.ch <- v:
			return
		default:
			// Full: drop the oldest entry and retry. Another consumer
			// may win the race for the slot, which is fine either way.
			select {
			case <-q.ch:
			default:
			}
		}
	}
}

// Get waits up to timeout for an entry. The second return is false on
// timeout, letting loop-based consumers periodically re-check their
// cancellation state instead of blocking forever.
func (q *Queue[T]) Get(timeout time.Duration) (T, bool) {
	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case v := <-q.ch:
		return v, true
	case <-timer.C:
		var zero T
		return zero, false
	}
}

// TryGet returns an entry without waiting.
func (q *Queue[T]) TryGet() (T, bool) {
	select {
	case v := <-q.ch:
		return v, true
	default:
		var zero T
		return zero, false
	}
}

// Len returns the current number of queued entries.
func (q *Queue[T]) Len() int {
	return len(q.ch)
}

// Cap returns the queue capacity.
func (q *Queue[T]) Cap() int {
	return cap(q.ch)
}
