// Package clock abstracts wall time and deferred execution so the session
// store, the expiry watcher, and the bootstrap failsafe can be driven by a
// virtual clock in tests.
package clock

import "time"

// Clock provides the current time and cancellable deferred execution.
type Clock interface {
	Now() time.Time
	AfterFunc(d time.Duration, fn func()) Timer
}

// Timer is the cancellable handle returned by Clock.AfterFunc.
type Timer interface {
	// Stop cancels the timer. It reports whether the timer was still pending.
	Stop() bool
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

func (systemClock) AfterFunc(d time.Duration, fn func()) Timer {
	return systemTimer{t: time.AfterFunc(d, fn)}
}

type systemTimer struct {
	t *time.Timer
}

func (s systemTimer) Stop() bool { return s.t.Stop() }

// System returns the real wall clock backed by the time package.
func System() Clock { return systemClock{} }
