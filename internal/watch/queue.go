package watch

import (
	"context"
	"sync"
	"time"
)

// queue serializes runs. Requests made while a run is in progress collapse
// into a single pending request.
type queue struct {
	reqs chan struct{}
}

func newQueue() *queue {
	return &queue{reqs: make(chan struct{}, 1)}
}

// trigger requests a run without blocking.
func (q *queue) trigger() {
	select {
	case q.reqs <- struct{}{}:
	default:
	}
}

// work runs fn for every request until ctx is done.
func (q *queue) work(ctx context.Context, fn func()) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-q.reqs:
			if ctx.Err() != nil {
				return
			}
			fn()
		}
	}
}

// debouncer calls fn once d has passed without another call.
type debouncer struct {
	mu    sync.Mutex
	d     time.Duration
	fn    func()
	timer *time.Timer
}

func newDebouncer(d time.Duration, fn func()) *debouncer {
	return &debouncer{d: d, fn: fn}
}

func (b *debouncer) call() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.timer != nil {
		b.timer.Stop()
	}
	b.timer = time.AfterFunc(b.d, b.fn)
}

func (b *debouncer) stop() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.timer != nil {
		b.timer.Stop()
	}
}
