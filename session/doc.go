// Package session owns the client session state: the bearer credential, the
// roles issued with it, and the expiry derived from the token.
//
// # Persistence
//
// The store keeps its state in memory and mirrors every mutation to an
// injected [Repository] as a small versioned JSON envelope. Persistence is
// best-effort: a failing repository never fails or blocks the in-memory
// mutation. On construction the store rehydrates from the repository; a
// corrupt or unreadable envelope yields an empty session, never an error.
//
// # Architecture boundaries
//
// This package owns the [Store] and the [Snapshot] model. It does NOT talk to
// the network, schedule timers, or decide navigation — those responsibilities
// belong to the transport, watch, and guard packages.
//
// # What this package must NOT do
//
//   - Import gensession, transport, watch, or guard (no upward imports).
//   - Surface persistence failures as mutation errors.
//   - Mutate roles or expiry independently of the credential.
package session
