// Package mainloop provides a single-goroutine task loop. Work posted from any
// goroutine runs one task at a time, in posting order, on the goroutine that
// calls Run.
package mainloop

import (
	"context"
	"sync"
)

// Queue is an unbounded FIFO of tasks. The zero value is not usable; use New.
type Queue struct {
	mu     sync.Mutex
	tasks  []func()
	signal chan struct{}
}

// New creates an empty Queue.
func New() *Queue {
	return &Queue{signal: make(chan struct{}, 1)}
}

// Post schedules fn to run on the loop. It never blocks.
func (q *Queue) Post(fn func()) {
	if fn == nil {
		return
	}
	q.mu.Lock()
	q.tasks = append(q.tasks, fn)
	q.mu.Unlock()

	select {
	case q.signal <- struct{}{}:
	default:
	}
}

// Run executes posted tasks until ctx is done.
func (q *Queue) Run(ctx context.Context) error {
	for {
		q.Drain()
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-q.signal:
		}
	}
}

// Drain runs every task that is queued, including tasks posted by the tasks
// it runs, and returns how many ran.
func (q *Queue) Drain() int {
	n := 0
	for {
		fn, ok := q.next()
		if !ok {
			return n
		}
		fn()
		n++
	}
}

// Len returns the number of pending tasks.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.tasks)
}

func (q *Queue) next() (func(), bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.tasks) == 0 {
		return nil, false
	}
	fn := q.tasks[0]
	q.tasks[0] = nil
	q.tasks = q.tasks[1:]
	return fn, true
}
