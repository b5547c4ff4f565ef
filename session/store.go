package session

import (
	"sync"

	"github.com/yBATTE/gensession/internal/clock"
	"github.com/yBATTE/gensession/token"
)

// Store is the single source of truth for the session. It has one writer at a
// time (enforced by the mutex) and arbitrarily many readers; every read
// observes the most recent completed write.
type Store struct {
	mu        sync.Mutex
	snap      Snapshot
	repo      Repository
	clk       clock.Clock
	warn      func(string, ...any)
	listeners []func(Snapshot)
}

// Options captures Store dependencies.
type Options struct {
	// Repository is the durable slot mirrored on every mutation. Required.
	Repository Repository

	// Clock drives the expiry check. Defaults to the system clock.
	Clock clock.Clock

	// Warn receives best-effort persistence failures. Optional.
	Warn func(string, ...any)
}

// NewStore builds a store and rehydrates it from the repository. A missing,
// unreadable, or corrupt slot yields an empty session.
func NewStore(opts Options) *Store {
	s := &Store{
		repo: opts.Repository,
		clk:  opts.Clock,
		warn: opts.Warn,
	}
	if s.clk == nil {
		s.clk = clock.System()
	}
	if s.warn == nil {
		s.warn = func(string, ...any) {}
	}
	s.rehydrate()
	return s
}

func (s *Store) rehydrate() {
	if s.repo == nil {
		return
	}
	data, ok, err := s.repo.Load()
	if err != nil {
		s.warn("session rehydrate failed: %v", err)
		return
	}
	if !ok {
		return
	}
	snap, err := decodeSnapshot(data)
	if err != nil {
		s.warn("session envelope corrupt, starting logged out: %v", err)
		return
	}
	if snap.AccessToken == "" {
		// Absent credential implies empty roles and no expiry.
		snap = Snapshot{}
	}
	s.snap = snap
}

// Set atomically replaces the credential and its roles, recomputing the
// expiry from the token's embedded claim. An empty token is a Clear.
func (s *Store) Set(accessToken string, roles []string) {
	if accessToken == "" {
		s.Clear()
		return
	}

	expMs, _ := token.ExpiryMs(accessToken)
	next := Snapshot{
		AccessToken: accessToken,
		Roles:       append([]string(nil), roles...),
		ExpiresAtMs: expMs,
	}
	s.replace(next)
}

// Clear atomically resets the session to logged out. Idempotent.
func (s *Store) Clear() {
	s.replace(Snapshot{})
}

func (s *Store) replace(next Snapshot) {
	s.mu.Lock()
	s.snap = next
	s.persistLocked()
	listeners := append([](func(Snapshot))(nil), s.listeners...)
	view := next.clone()
	s.mu.Unlock()

	for _, fn := range listeners {
		fn(view)
	}
}

// Persistence is best-effort: failures are reported to the warn hook and the
// in-memory mutation stands.
func (s *Store) persistLocked() {
	if s.repo == nil {
		return
	}
	data, err := encodeSnapshot(s.snap)
	if err != nil {
		s.warn("session encode failed: %v", err)
		return
	}
	if err := s.repo.Save(data); err != nil {
		s.warn("session persist failed: %v", err)
	}
}

// IsLoggedIn reports whether a credential is present and not yet expired.
// An unknown expiry counts as not expired.
func (s *Store) IsLoggedIn() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snap.AccessToken != "" && !s.expiredLocked()
}

// IsExpired reports whether a known expiry has elapsed.
func (s *Store) IsExpired() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.expiredLocked()
}

func (s *Store) expiredLocked() bool {
	if s.snap.ExpiresAtMs == 0 {
		return false
	}
	return s.clk.Now().UnixMilli() >= s.snap.ExpiresAtMs
}

// HasRole reports whether role is among the current roles.
func (s *Store) HasRole(role string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snap.HasRole(role)
}

// AccessToken returns the current credential, or empty when logged out.
func (s *Store) AccessToken() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snap.AccessToken
}

// Snapshot returns a copy of the current session state.
func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snap.clone()
}

// OnChange registers fn to run after every mutation with the new snapshot.
// Listeners run outside the store lock, on the mutating goroutine. Intended
// for the expiry watcher; register before the store is shared.
func (s *Store) OnChange(fn func(Snapshot)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, fn)
}
