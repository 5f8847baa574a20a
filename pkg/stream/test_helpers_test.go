package stream

import (
	"sync"
)

//
// Test helpers
//

// queueScheduler collects dispatched callbacks until run is called,
// standing in for an event loop.
type queueScheduler struct {
	mu    sync.Mutex
	queue []func()
	ready chan struct{}
}

func newQueueScheduler() *queueScheduler {
	return &queueScheduler{ready: make(chan struct{}, 1024)}
}

func (q *queueScheduler) Dispatch(fn func()) {
	q.mu.Lock()
	q.queue = append(q.queue, fn)
	q.mu.Unlock()
	select {
	case q.ready <- struct{}{}:
	default:
	}
}

// run executes every queued callback, including ones queued while running.
func (q *queueScheduler) run() int {
	n := 0
	for {
		q.mu.Lock()
		if len(q.queue) == 0 {
			q.mu.Unlock()
			return n
		}
		fn := q.queue[0]
		q.queue = q.queue[1:]
		q.mu.Unlock()
		fn()
		n++
	}
}

func (q *queueScheduler) pending() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.queue)
}
