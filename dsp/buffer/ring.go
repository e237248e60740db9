package buffer

import (
	"fmt"
	"sync"
	"sync/atomic"
)

// Ring is a bounded FIFO with exactly Cap() usable slots. Pop and Len may only
// be called from one consumer goroutine and never block or allocate. Push may
// be called from any number of goroutines; producers are serialized by a mutex
// the consumer never touches.
type Ring[T any] struct {
	slots []T

	// head is the next slot to read and is written only by the consumer.
	// tail is the next slot to write and is written only under mu.
	head atomic.Uint64
	tail atomic.Uint64

	mu      sync.Mutex
	dropped atomic.Uint64
	pushed  atomic.Uint64
}

// NewRing returns an empty ring holding up to capacity values.
func NewRing[T any](capacity int) (*Ring[T], error) {
	if capacity <= 0 {
		return nil, fmt.Errorf("buffer: ring capacity must be > 0: %d", capacity)
	}

	return &Ring[T]{slots: make([]T, capacity)}, nil
}

// Push appends v. When the ring is full v is discarded, the drop counter is
// incremented and false is returned.
func (r *Ring[T]) Push(v T) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	tail := r.tail.Load()
	if tail-r.head.Load() >= uint64(len(r.slots)) {
		r.dropped.Add(1)
		return false
	}

	r.slots[tail%uint64(len(r.slots))] = v
	r.tail.Store(tail + 1)
	r.pushed.Add(1)

	return true
}

// Pop removes and returns the oldest value. Consumer only.
func (r *Ring[T]) Pop() (T, bool) {
	var zero T

	head := r.head.Load()
	if head == r.tail.Load() {
		return zero, false
	}

	i := head % uint64(len(r.slots))
	v := r.slots[i]
	r.slots[i] = zero
	r.head.Store(head + 1)

	return v, true
}

// Len returns the number of values waiting. Exact from the consumer, a
// snapshot from anywhere else.
func (r *Ring[T]) Len() int {
	// head first: it only grows, so a later tail is never behind it.
	head := r.head.Load()
	n := r.tail.Load() - head
	return int(min(n, uint64(len(r.slots))))
}

// Cap returns the number of usable slots.
func (r *Ring[T]) Cap() int {
	return len(r.slots)
}

// Dropped returns how many pushes were rejected because the ring was full.
func (r *Ring[T]) Dropped() uint64 {
	return r.dropped.Load()
}

// Pushed returns how many values were accepted.
func (r *Ring[T]) Pushed() uint64 {
	return r.pushed.Load()
}

// Discard pops everything currently queued and returns the count. Consumer only.
func (r *Ring[T]) Discard() int {
	n := 0
	for {
		if _, ok := r.Pop(); !ok {
			return n
		}
		n++
	}
}
