package ecs

// EventQueue is a FIFO of typed events. Producers push during a tick and the
// owner drains once the tick has been flushed.
type EventQueue[T any] struct {
	items []T
}

// Push adds an event.
func (q *EventQueue[T]) Push(evt T) {
	if q == nil {
		return
	}
	q.items = append(q.items, evt)
}

// Drain returns all events and clears the queue.
func (q *EventQueue[T]) Drain() []T {
	if q == nil || len(q.items) == 0 {
		return nil
	}
	out := q.items
	q.items = nil
	return out
}

// Peek returns the queued events without clearing them.
func (q *EventQueue[T]) Peek() []T {
	if q == nil {
		return nil
	}
	return q.items
}

func (q *EventQueue[T]) Len() int {
	if q == nil {
		return 0
	}
	return len(q.items)
}
