package worker

import (
	"sync"

	"github.com/Igilq/kubejs-recipes/internal/bridge"
)

// requestQueue is a thread-safe FIFO queue of bridge requests.
//
// Unbounded so submitters never block on worker progress; the per-call
// timeout in the bridge bounds how long anyone waits for a reply.
//
// A buffered size-1 signal channel coalesces availability notifications and
// lets the Run loop wait with context awareness.
type requestQueue struct {
	mu       sync.Mutex
	requests []bridge.Request
	closed   bool
	signal   chan struct{}
}

func newRequestQueue() *requestQueue {
	return &requestQueue{
		requests: make([]bridge.Request, 0, 16),
		signal:   make(chan struct{}, 1),
	}
}

// Enqueue adds a request to the back of the queue.
// Returns false if the queue is closed.
func (q *requestQueue) Enqueue(req bridge.Request) bool {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return false
	}
	q.requests = append(q.requests, req)

	select {
	case q.signal <- struct{}{}:
	default:
	}
	return true
}

// TryDequeue removes and returns the front request without blocking.
func (q *requestQueue) TryDequeue() (bridge.Request, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if len(q.requests) == 0 {
		return bridge.Request{}, false
	}
	req := q.requests[0]

	// Zero the slot so the backing array does not retain the request's
	// recipe pointer.
	q.requests[0] = bridge.Request{}
	if len(q.requests) == 1 {
		q.requests = q.requests[:0]
	} else {
		q.requests = q.requests[1:]
	}
	return req, true
}

// Wait returns the availability signal channel for select-based waiting.
// The channel closes when the queue closes.
func (q *requestQueue) Wait() <-chan struct{} {
	return q.signal
}

func (q *requestQueue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.requests)
}

// Close marks the queue closed and wakes all waiters.
func (q *requestQueue) Close() {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return
	}
	q.closed = true
	close(q.signal)
}
