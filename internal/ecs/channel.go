package ecs

import (
	"errors"
	"sync"
)

// ErrReaderFull is returned by Channel.Write when at least one reader's
// queue was at capacity. The event is dropped for those readers only.
var ErrReaderFull = errors.New("ecs: channel reader is full")

// ReaderID identifies a listener bound to a Channel
type ReaderID int

// Channel is a multi-reader event channel meant to be stored as a resource.
// Each bound reader receives every event written after it was bound.
// Channel values are handles: copies share the same queues, so a system
// holding read access can still consume events.
type Channel[T any] struct {
	state *channelState[T]
}

type channelState[T any] struct {
	mu      sync.Mutex
	readers []*queue[T]
}

type queue[T any] struct {
	items    []T
	capacity int
}

// NewChannel creates an empty channel
func NewChannel[T any]() Channel[T] {
	return Channel[T]{state: &channelState[T]{}}
}

// BindListener registers a reader with a bounded queue
func (c Channel[T]) BindListener(capacity int) ReaderID {
	if capacity <= 0 {
		capacity = 1
	}
	c.state.mu.Lock()
	defer c.state.mu.Unlock()

	c.state.readers = append(c.state.readers, &queue[T]{
		items:    make([]T, 0, capacity),
		capacity: capacity,
	})
	return ReaderID(len(c.state.readers) - 1)
}

// Write delivers ev to every reader
func (c Channel[T]) Write(ev T) error {
	c.state.mu.Lock()
	defer c.state.mu.Unlock()

	var err error
	for _, q := range c.state.readers {
		if len(q.items) >= q.capacity {
			err = ErrReaderFull
			continue
		}
		q.items = append(q.items, ev)
	}
	return err
}

// Read pops the oldest pending event for reader id
func (c Channel[T]) Read(id ReaderID) (T, bool) {
	c.state.mu.Lock()
	defer c.state.mu.Unlock()

	var zero T
	q := c.reader(id)
	if q == nil || len(q.items) == 0 {
		return zero, false
	}
	ev := q.items[0]
	q.items[0] = zero
	q.items = q.items[1:]
	return ev, true
}

// Drain returns and clears every pending event for reader id
func (c Channel[T]) Drain(id ReaderID) []T {
	c.state.mu.Lock()
	defer c.state.mu.Unlock()

	q := c.reader(id)
	if q == nil || len(q.items) == 0 {
		return nil
	}
	out := q.items
	q.items = make([]T, 0, q.capacity)
	return out
}

// Pending returns the number of unread events for reader id
func (c Channel[T]) Pending(id ReaderID) int {
	c.state.mu.Lock()
	defer c.state.mu.Unlock()

	if q := c.reader(id); q != nil {
		return len(q.items)
	}
	return 0
}

func (c Channel[T]) reader(id ReaderID) *queue[T] {
	if int(id) < 0 || int(id) >= len(c.state.readers) {
		return nil
	}
	return c.state.readers[id]
}
