package transport

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/yBATTE/gensession/session"
)

// Navigator is the navigation command surface the authorizer drives on
// session invalidation.
type Navigator interface {
	// Current returns the current route path.
	Current() string
	// To navigates to path.
	To(path string)
}

// Authorizer attaches the current credential to every outgoing request and
// forces logout on unauthorized responses. Safe for concurrent use.
type Authorizer struct {
	base           http.RoundTripper
	store          *session.Store
	nav            Navigator
	loginRoute     string
	onUnauthorized func()
}

// Options captures Authorizer dependencies.
type Options struct {
	// Base performs the actual round trip. Defaults to http.DefaultTransport.
	Base http.RoundTripper

	// Store supplies the live credential and is cleared on 401. Required.
	Store *session.Store

	// Navigator receives the navigate-to-login command. Optional.
	Navigator Navigator

	// LoginRoute is the redirect target and the "already there" guard.
	// Defaults to "/login".
	LoginRoute string

	// OnUnauthorized runs once per 401 response, before navigation. Optional.
	OnUnauthorized func()
}

// NewAuthorizer builds an Authorizer from opts.
func NewAuthorizer(opts Options) *Authorizer {
	base := opts.Base
	if base == nil {
		base = http.DefaultTransport
	}
	loginRoute := opts.LoginRoute
	if loginRoute == "" {
		loginRoute = "/login"
	}
	return &Authorizer{
		base:           base,
		store:          opts.Store,
		nav:            opts.Navigator,
		loginRoute:     loginRoute,
		onUnauthorized: opts.OnUnauthorized,
	}
}

// RoundTrip implements http.RoundTripper. The credential is read from the
// store when the request is sent, not when it was built, so a concurrent
// renewal is always reflected.
func (a *Authorizer) RoundTrip(req *http.Request) (*http.Response, error) {
	out := req.Clone(req.Context())
	if tok := a.store.AccessToken(); tok != "" {
		out.Header.Set("Authorization", "Bearer "+tok)
	}
	if out.Header.Get("X-Request-Id") == "" {
		out.Header.Set("X-Request-Id", uuid.NewString())
	}

	resp, err := a.base.RoundTrip(out)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode == http.StatusUnauthorized {
		a.store.Clear()
		if a.onUnauthorized != nil {
			a.onUnauthorized()
		}
		if a.nav != nil && a.nav.Current() != a.loginRoute {
			a.nav.To(a.loginRoute)
		}
	}
	return resp, nil
}
