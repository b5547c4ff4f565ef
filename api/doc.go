// Package api is the typed client for the dashboard backend's auth endpoints:
// login, silent session refresh, and logout.
//
// # Cookie semantics
//
// The client carries a cookie jar so the server-managed session cookie set at
// login rides along on every refresh call. Refresh deliberately sends no
// bearer header — it runs before a credential exists and must not loop
// through the authorizing transport.
//
// # Architecture boundaries
//
// This package speaks HTTP and maps responses to [TokenGrant] or typed
// errors. It never touches the session store; callers decide what a grant or
// a failure means for local state.
//
// # What this package must NOT do
//
//   - Import the session, transport, or watch packages.
//   - Retry failed requests.
//   - Attach Authorization headers.
package api
