package clock

import (
	"slices"
	"sync"
	"time"
)

// FakeClock is a Clock whose time only moves when Advance is called.
// AfterFunc callbacks run synchronously inside Advance, in deadline order.
// Callbacks may schedule further timers; those fire within the same
// Advance call when their deadline is reached.
type FakeClock struct {
	mu      sync.Mutex
	current time.Time
	waiters []*fakeTimer
	seq     uint64
}

// Fake returns a FakeClock starting at initial.
func Fake(initial time.Time) *FakeClock {
	return &FakeClock{current: initial}
}

type fakeTimer struct {
	clock    *FakeClock
	deadline time.Time
	seq      uint64
	callback func()
	done     bool
}

// Now satisfies [Clock].
func (c *FakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current
}

// AfterFunc satisfies [Clock]. A non-positive duration still defers f to
// the next Advance call, matching the asynchronous behavior of the real
// clock.
func (c *FakeClock) AfterFunc(d time.Duration, f func()) Timer {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.seq++
	timer := &fakeTimer{
		clock:    c,
		deadline: c.current.Add(max(d, 0)),
		seq:      c.seq,
		callback: f,
	}
	c.waiters = append(c.waiters, timer)
	return timer
}

// Stop satisfies [Timer].
func (t *fakeTimer) Stop() bool {
	t.clock.mu.Lock()
	defer t.clock.mu.Unlock()
	if t.done {
		return false
	}
	t.done = true
	return true
}

// Advance moves the clock forward by d, firing every timer whose deadline
// falls within the new time.
func (c *FakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	target := c.current.Add(d)
	c.mu.Unlock()

	for {
		c.mu.Lock()
		next := c.nextDue(target)
		if next == nil {
			c.current = target
			c.mu.Unlock()
			return
		}
		next.done = true
		if next.deadline.After(c.current) {
			c.current = next.deadline
		}
		c.mu.Unlock()
		next.callback()
	}
}

// Pending returns the number of timers that have not fired or been stopped.
func (c *FakeClock) Pending() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.compact()
	return len(c.waiters)
}

// nextDue returns the earliest live timer due at or before target. The
// caller must hold c.mu.
func (c *FakeClock) nextDue(target time.Time) *fakeTimer {
	c.compact()
	var best *fakeTimer
	for _, waiter := range c.waiters {
		if waiter.deadline.After(target) {
			continue
		}
		if best == nil ||
			waiter.deadline.Before(best.deadline) ||
			(waiter.deadline.Equal(best.deadline) && waiter.seq < best.seq) {
			best = waiter
		}
	}
	return best
}

func (c *FakeClock) compact() {
	c.waiters = slices.DeleteFunc(c.waiters, func(t *fakeTimer) bool { return t.done })
}

var _ Clock = (*FakeClock)(nil)
