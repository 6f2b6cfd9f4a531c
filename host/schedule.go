package host

import (
	"context"
	"sync"
	"time"
)

// Scheduler runs frame callbacks.
type Scheduler interface {
	// Next arranges for f to be called once, at the next frame boundary,
	// on the scheduler's goroutine.
	Next(f func())
}

// FrameQueue is a Scheduler whose callbacks run when Flush is called.
// The zero value is ready to use.
type FrameQueue struct {
	pending []func()
	spare   []func()
}

// Next queues f for the next call to Flush.
func (q *FrameQueue) Next(f func()) {
	q.pending = append(q.pending, f)
}

// Len returns the number of queued callbacks.
func (q *FrameQueue) Len() int { return len(q.pending) }

// Flush runs the callbacks queued before it was called and returns how many
// ran. Callbacks queued while flushing run on the next Flush.
func (q *FrameQueue) Flush() int {
	fs := q.pending
	q.pending = q.spare[:0]
	for i, f := range fs {
		fs[i] = nil
		f()
	}
	q.spare = fs[:0]
	return len(fs)
}

// Loop is a single goroutine that runs posted functions as they arrive and
// flushes its frame queue at a fixed rate. Everything that touches a
// Controller should run on a Loop.
type Loop struct {
	queue    FrameQueue
	interval time.Duration

	post     chan func()
	done     chan struct{}
	doneOnce sync.Once
}

// NewLoop returns a Loop that runs frames at fps frames per second.
func NewLoop(fps int) *Loop {
	if fps <= 0 {
		fps = DefaultConfig().FramesPerSecond
	}
	return &Loop{
		interval: time.Second / time.Duration(fps),
		post:     make(chan func(), 16),
		done:     make(chan struct{}),
	}
}

// Next queues f to run on the next frame tick.
// It must only be called from the loop's goroutine.
func (l *Loop) Next(f func()) { l.queue.Next(f) }

// Post arranges for f to run on the loop's goroutine. It may be called
// from any goroutine, and reports false if the loop has stopped.
func (l *Loop) Post(f func()) bool {
	select {
	case <-l.done:
		return false
	default:
	}
	select {
	case l.post <- f:
		return true
	case <-l.done:
		return false
	}
}

// Done returns a channel that is closed when Run returns.
func (l *Loop) Done() <-chan struct{} { return l.done }

// Run runs the loop until ctx is done and returns ctx.Err().
// Run must be called at most once.
func (l *Loop) Run(ctx context.Context) error {
	defer l.doneOnce.Do(func() { close(l.done) })

	t := time.NewTicker(l.interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case f := <-l.post:
			f()
		case <-t.C:
			l.queue.Flush()
		}
	}
}
