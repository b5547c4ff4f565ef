// Package guard decides at render time whether a screen may be shown, as a
// pure function of session store state.
//
//   - [RequireAuth] gates authenticated-only screens and preserves the
//     originally requested location for the post-login return trip.
//   - [PublicOnly] keeps logged-in users away from public-only screens such
//     as login and forgot-password.
//   - [RoleGate] hides fragments from users lacking every listed role.
//
// # What this package must NOT do
//
//   - Navigate: it returns a [Decision]; the caller performs the redirect.
//   - Mutate the store.
package guard
