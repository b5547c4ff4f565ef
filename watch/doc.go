// Package watch ends the session at the exact moment its credential expires,
// independent of user interaction or network traffic.
//
// The watcher subscribes to session store changes. Each change cancels the
// previous timer and, when the new state carries a known expiry, arms one
// timer for the remaining lifetime. When it fires the store is cleared and a
// navigate-to-login command is issued — exactly once per armed expiry. A
// state without a known expiry arms nothing (fail-open).
//
// # What this package must NOT do
//
//   - Poll: one deferred timer per credential, rearmed only on change.
//   - Fire for a credential that was replaced or cleared in the meantime.
//   - Talk to the network.
package watch
