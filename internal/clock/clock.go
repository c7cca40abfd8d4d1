// Package clock provides the timer primitives the form controllers schedule
// against: the current time, a one-shot callback and a repeating callback,
// each cancellable.
//
// Controllers never touch time.Now or time.AfterFunc directly so tests can
// substitute clocktest.Clock and step time deterministically.
package clock

import (
	"sync"
	"time"
)

// Timer is a scheduled callback that can be cancelled.
type Timer interface {
	// Stop prevents any further firing. It reports whether the timer was
	// still active.
	Stop() bool
}

// Clock is the scheduling collaborator used by the controllers.
type Clock interface {
	Now() time.Time
	// AfterFunc calls f once, d from now.
	AfterFunc(d time.Duration, f func()) Timer
	// Every calls f every d until the returned timer is stopped.
	Every(d time.Duration, f func()) Timer
}

// New returns a Clock backed by the runtime timers.
//
// Callbacks run on their own goroutines, so callers must synchronize any
// state the callbacks touch.
func New() Clock {
	return systemClock{}
}

type systemClock struct{}

func (systemClock) Now() time.Time {
	return time.Now()
}

func (systemClock) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

func (systemClock) Every(d time.Duration, f func()) Timer {
	t := &repeating{
		ticker: time.NewTicker(d),
		done:   make(chan struct{}),
	}
	go t.run(f)
	return t
}

type repeating struct {
	ticker *time.Ticker
	done   chan struct{}
	once   sync.Once
}

func (t *repeating) run(f func()) {
	for {
		select {
		case <-t.ticker.C:
			// Stop may race with a tick already delivered; honor it.
			select {
			case <-t.done:
				return
			default:
			}
			f()
		case <-t.done:
			return
		}
	}
}

func (t *repeating) Stop() bool {
	stopped := false
	t.once.Do(func() {
		t.ticker.Stop()
		close(t.done)
		stopped = true
	})
	return stopped
}
