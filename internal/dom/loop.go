package dom

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/stolasapp/facet/internal/clock"
)

// Loop serializes every callback that touches a [Document]. Timers and
// asynchronous results are posted onto it from any goroutine and run one at
// a time on the goroutine calling [Loop.Drain] or [Loop.Run].
type Loop struct {
	clk clock.Clock

	mu    sync.Mutex
	queue []func()
	wake  chan struct{}
}

// NewLoop creates a loop whose timers are scheduled through clk.
func NewLoop(clk clock.Clock) *Loop {
	return &Loop{
		clk:  clk,
		wake: make(chan struct{}, 1),
	}
}

// Clock returns the loop's clock.
func (l *Loop) Clock() clock.Clock { return l.clk }

// Post enqueues fn. It is safe to call from any goroutine.
func (l *Loop) Post(fn func()) {
	l.mu.Lock()
	l.queue = append(l.queue, fn)
	l.mu.Unlock()
	select {
	case l.wake <- struct{}{}:
	default:
	}
}

// Drain runs queued callbacks on the calling goroutine until the queue is
// empty, including callbacks posted while draining. It returns the number
// of callbacks run.
func (l *Loop) Drain() int {
	ran := 0
	for {
		fn, ok := l.next()
		if !ok {
			return ran
		}
		fn()
		ran++
	}
}

// Run drains the loop whenever work is posted until ctx is done.
func (l *Loop) Run(ctx context.Context) error {
	for {
		l.Drain()
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-l.wake:
		}
	}
}

func (l *Loop) next() (func(), bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if len(l.queue) == 0 {
		return nil, false
	}
	fn := l.queue[0]
	l.queue[0] = nil
	l.queue = l.queue[1:]
	return fn, true
}

// Timer is a pending loop callback.
type Timer struct {
	inner   clock.Timer
	stopped atomic.Bool
	fired   atomic.Bool
}

// AfterFunc runs fn on the loop once d has elapsed on the loop's clock.
func (l *Loop) AfterFunc(d time.Duration, fn func()) *Timer {
	t := &Timer{}
	t.inner = l.clk.AfterFunc(d, func() {
		l.Post(func() {
			if t.stopped.Load() {
				return
			}
			t.fired.Store(true)
			fn()
		})
	})
	return t
}

// Stop prevents the callback from running, even when the clock already
// fired and the callback is waiting in the loop queue. It reports whether
// the call stopped a pending callback. Stop is safe on a nil Timer.
func (t *Timer) Stop() bool {
	if t == nil {
		return false
	}
	if t.fired.Load() || t.stopped.Swap(true) {
		return false
	}
	t.inner.Stop()
	return true
}
