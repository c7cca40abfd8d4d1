// Package clocktest provides a manually advanced clock for tests.
package clocktest

import (
	"sync"
	"time"

	"github.com/DukeRupert/kebaikan/internal/clock"
)

// Clock is a deterministic clock.Clock. Time only moves when Advance is
// called, and due callbacks run synchronously on the caller's goroutine in
// deadline order.
//
// Thread-safety: all methods are safe for concurrent use. Callbacks run
// without the clock's lock held, so they may schedule or stop timers.
type Clock struct {
	mu     sync.Mutex
	now    time.Time
	seq    int
	timers []*timer
}

var _ clock.Clock = (*Clock)(nil)

type timer struct {
	c       *Clock
	seq     int
	at      time.Time
	period  time.Duration
	f       func()
	stopped bool
}

// New creates a clock reading start.
func New(start time.Time) *Clock {
	return &Clock{now: start}
}

// Now returns the current fake time.
func (c *Clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// AfterFunc schedules f to run once when the clock reaches now+d.
func (c *Clock) AfterFunc(d time.Duration, f func()) clock.Timer {
	return c.schedule(d, 0, f)
}

// Every schedules f to run each time another d elapses.
func (c *Clock) Every(d time.Duration, f func()) clock.Timer {
	if d <= 0 {
		panic("clocktest: non-positive interval for Every")
	}
	return c.schedule(d, d, f)
}

func (c *Clock) schedule(d, period time.Duration, f func()) *timer {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.seq++
	t := &timer{c: c, seq: c.seq, at: c.now.Add(d), period: period, f: f}
	c.timers = append(c.timers, t)
	return t
}

// Advance moves time forward by d, firing every callback that falls due.
// A repeating timer fires once per elapsed interval.
func (c *Clock) Advance(d time.Duration) {
	c.mu.Lock()
	target := c.now.Add(d)
	c.mu.Unlock()

	for {
		c.mu.Lock()
		next := c.nextDue(target)
		if next == nil {
			c.now = target
			c.mu.Unlock()
			return
		}
		c.now = next.at
		if next.period > 0 {
			next.at = next.at.Add(next.period)
		} else {
			next.stopped = true
		}
		f := next.f
		c.compact()
		c.mu.Unlock()

		f()
	}
}

// Pending returns the number of timers that have not fired or been stopped.
func (c *Clock) Pending() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for _, t := range c.timers {
		if !t.stopped {
			n++
		}
	}
	return n
}

func (c *Clock) nextDue(target time.Time) *timer {
	var next *timer
	for _, t := range c.timers {
		if t.stopped || t.at.After(target) {
			continue
		}
		if next == nil || t.at.Before(next.at) || (t.at.Equal(next.at) && t.seq < next.seq) {
			next = t
		}
	}
	return next
}

func (c *Clock) compact() {
	live := c.timers[:0]
	for _, t := range c.timers {
		if !t.stopped {
			live = append(live, t)
		}
	}
	c.timers = live
}

func (t *timer) Stop() bool {
	t.c.mu.Lock()
	defer t.c.mu.Unlock()
	if t.stopped {
		return false
	}
	t.stopped = true
	return true
}
