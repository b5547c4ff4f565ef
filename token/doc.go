// Package token extracts scheduling hints from bearer tokens without verifying
// signatures.
//
// The backend is trusted to issue well-formed tokens; the embedded expiration
// is used only to schedule proactive logout and to answer "still logged in?"
// locally. It is not a security boundary — the server's 401 responses remain
// authoritative.
//
// # What this package must NOT do
//
//   - Verify signatures or issue tokens.
//   - Return errors: every malformed input degrades to "no expiry known".
//   - Import any other gensession package.
package token
