// Package transport authorizes outgoing API calls and reacts to
// server-signaled session invalidation.
//
// [Authorizer] is an http.RoundTripper: it reads the live credential from the
// session store at send time, attaches the bearer header, and on a 401
// response clears the store and issues a navigate-to-login command. It never
// retries — proactive expiry handling belongs to the watch package and silent
// renewal to the bootstrap package.
//
// # What this package must NOT do
//
//   - Call the refresh endpoint or retry failed requests.
//   - Shield callers from the 401 — the response propagates unchanged.
//   - Cache the credential across requests.
package transport
