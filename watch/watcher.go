package watch

import (
	"sync"
	"time"

	"github.com/yBATTE/gensession/internal/clock"
	"github.com/yBATTE/gensession/session"
)

// Navigator is the navigation command surface driven when the session
// expires.
type Navigator interface {
	Current() string
	To(path string)
}

// Watcher arms a single deferred timer for the credential's remaining
// lifetime and rearms it on every store change.
type Watcher struct {
	store      *session.Store
	clk        clock.Clock
	nav        Navigator
	loginRoute string
	onExpired  func()

	mu     sync.Mutex
	timer  clock.Timer
	gen    uint64
	closed bool
}

// Options captures Watcher dependencies.
type Options struct {
	// Store is observed for credential changes and cleared on expiry. Required.
	Store *session.Store

	// Clock arms the expiry timer. Defaults to the system clock.
	Clock clock.Clock

	// Navigator receives the navigate-to-login command. Optional.
	Navigator Navigator

	// LoginRoute is the redirect target and the "already there" guard.
	// Defaults to "/login".
	LoginRoute string

	// OnExpired runs once per expiry firing, after the store clear. Optional.
	OnExpired func()
}

// New builds a Watcher, subscribes it to the store, and arms a timer for the
// store's current state.
func New(opts Options) *Watcher {
	clk := opts.Clock
	if clk == nil {
		clk = clock.System()
	}
	loginRoute := opts.LoginRoute
	if loginRoute == "" {
		loginRoute = "/login"
	}
	w := &Watcher{
		store:      opts.Store,
		clk:        clk,
		nav:        opts.Navigator,
		loginRoute: loginRoute,
		onExpired:  opts.OnExpired,
	}
	w.store.OnChange(w.rearm)
	w.rearm(w.store.Snapshot())
	return w
}

// rearm cancels the pending timer and arms a new one when the snapshot
// carries a known expiry. The generation counter makes a timer that already
// escaped Stop a no-op.
func (w *Watcher) rearm(s session.Snapshot) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.timer != nil {
		w.timer.Stop()
		w.timer = nil
	}
	w.gen++

	if w.closed || s.AccessToken == "" || s.ExpiresAtMs == 0 {
		return
	}

	remaining := time.Duration(s.ExpiresAtMs-w.clk.Now().UnixMilli()) * time.Millisecond
	if remaining < 0 {
		remaining = 0
	}
	gen := w.gen
	w.timer = w.clk.AfterFunc(remaining, func() { w.fire(gen) })
}

func (w *Watcher) fire(gen uint64) {
	w.mu.Lock()
	if w.closed || gen != w.gen {
		w.mu.Unlock()
		return
	}
	w.timer = nil
	w.mu.Unlock()

	// Clearing notifies the store listeners, which rearms with the empty
	// snapshot and therefore arms nothing.
	w.store.Clear()
	if w.onExpired != nil {
		w.onExpired()
	}
	if w.nav != nil && w.nav.Current() != w.loginRoute {
		w.nav.To(w.loginRoute)
	}
}

// Close cancels the pending timer and ignores further store changes.
func (w *Watcher) Close() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.closed = true
	if w.timer != nil {
		w.timer.Stop()
		w.timer = nil
	}
}
