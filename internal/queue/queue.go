// Package queue provides a minimal generic FIFO used by the session's
// pending-packet store.
package queue

// Queue is a slice-backed FIFO.
//
// Queue is not goroutine-safe; callers that share a Queue across
// goroutines must serialize access externally.
type Queue[T any] struct {
	items []T
}

// New creates a Queue with capacity preallocated for prealloc items.
func New[T any](prealloc int) *Queue[T] {
	return &Queue[T]{items: make([]T, 0, prealloc)}
}

// Enqueue appends item at the tail of the queue.
func (q *Queue[T]) Enqueue(item T) {
	q.items = append(q.items, item)
}

// Dequeue removes and returns the item at the head of the queue.
// The second return value is false if the queue is empty.
func (q *Queue[T]) Dequeue() (T, bool) {
	if len(q.items) == 0 {
		var zero T
		return zero, false
	}

	item := q.items[0]

	// Clear the vacated slot so the queue doesn't pin the item.
	var zero T
	q.items[0] = zero
	q.items = q.items[1:]

	return item, true
}

// Peek returns the item at the head of the queue without removing it.
// The second return value is false if the queue is empty.
func (q *Queue[T]) Peek() (T, bool) {
	if len(q.items) == 0 {
		var zero T
		return zero, false
	}
	return q.items[0], true
}

// Len returns the number of items in the queue.
func (q *Queue[T]) Len() int {
	return len(q.items)
}

// Reset empties the queue, keeping the underlying storage for reuse.
func (q *Queue[T]) Reset() {
	var zero T
	for i := range q.items {
		q.items[i] = zero
	}
	q.items = q.items[:0]
}
