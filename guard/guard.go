package guard

import "github.com/yBATTE/gensession/session"

// Decision is the outcome of a guard check. When Allow is false the caller
// must redirect to RedirectTo instead of rendering; From carries the location
// the user originally asked for, so login can send them back.
type Decision struct {
	Allow      bool
	RedirectTo string
	From       string
}

// RequireAuth gates authenticated-only content. A session that is absent or
// expired redirects to loginRoute, preserving current as the return target.
func RequireAuth(store *session.Store, current, loginRoute string) Decision {
	if !store.IsLoggedIn() {
		return Decision{RedirectTo: loginRoute, From: current}
	}
	return Decision{Allow: true}
}

// PublicOnly gates public-only content such as the login screen. A logged-in
// session redirects to from when known, else to landingRoute.
func PublicOnly(store *session.Store, from, landingRoute string) Decision {
	if store.IsLoggedIn() {
		to := from
		if to == "" {
			to = landingRoute
		}
		return Decision{RedirectTo: to}
	}
	return Decision{Allow: true}
}

// RoleGate reports whether the session holds at least one of the listed
// roles. An empty anyOf never passes.
func RoleGate(store *session.Store, anyOf ...string) bool {
	for _, role := range anyOf {
		if store.HasRole(role) {
			return true
		}
	}
	return false
}
