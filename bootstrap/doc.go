// Package bootstrap restores the session once per process start, before any
// protected content should render.
//
// If a credential already exists (rehydrated from the durable slot) the
// bootstrapper is Ready immediately. Otherwise it issues a single silent
// refresh carrying the ambient server session cookie; on any failure it
// clears the store and is Ready anyway. A bounded failsafe timer guarantees
// Ready even when the refresh never settles — availability over consistency:
// a timed-out renewal means "not logged in", never "unknown".
//
// # What this package must NOT do
//
//   - Run more than once per process (later Run calls return the first outcome).
//   - Surface renewal failures to the user — the caller just sees logged out.
//   - Route the refresh call through the authorizing transport.
package bootstrap
