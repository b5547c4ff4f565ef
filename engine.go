package gensession

import (
	"context"
	"errors"
	"net/http"
	"sync"

	"github.com/rs/zerolog"

	"github.com/yBATTE/gensession/api"
	"github.com/yBATTE/gensession/bootstrap"
	"github.com/yBATTE/gensession/guard"
	"github.com/yBATTE/gensession/internal/clock"
	"github.com/yBATTE/gensession/session"
	"github.com/yBATTE/gensession/watch"
)

// BootstrapOutcome defines a public type used by gensession APIs.
//
// BootstrapOutcome instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type BootstrapOutcome = bootstrap.Outcome

const (
	// BootstrapAlreadyActive is an exported constant or variable used by the session engine.
	BootstrapAlreadyActive = bootstrap.OutcomeAlreadyActive
	// BootstrapRestored is an exported constant or variable used by the session engine.
	BootstrapRestored = bootstrap.OutcomeRestored
	// BootstrapLoggedOut is an exported constant or variable used by the session engine.
	BootstrapLoggedOut = bootstrap.OutcomeLoggedOut
	// BootstrapTimeout is an exported constant or variable used by the session engine.
	BootstrapTimeout = bootstrap.OutcomeTimeout
)

// Engine defines a public type used by gensession APIs.
//
// Engine instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Engine struct {
	cfg        Config
	nav        Navigator
	clk        clock.Clock
	store      *session.Store
	client     *api.Client
	httpClient *http.Client
	boot       *bootstrap.Bootstrapper
	watcher    *watch.Watcher
	metrics    *Metrics
	dispatcher *auditDispatcher
	logger     zerolog.Logger

	bootMetricOnce sync.Once
	closeOnce      sync.Once
}

// Bootstrap describes the bootstrap operation and its observable behavior.
//
// Bootstrap blocks until the one-shot silent restore settles and returns how
// it settled. Later calls return the recorded outcome immediately.
// Bootstrap does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (e *Engine) Bootstrap(ctx context.Context) BootstrapOutcome {
	outcome := e.boot.Run(ctx)
	e.bootMetricOnce.Do(func() {
		switch outcome {
		case BootstrapRestored:
			e.metrics.Inc(MetricSessionRestored)
			e.metrics.Inc(MetricRenewalSuccess)
			e.audit("bootstrap_restored", true, nil)
		case BootstrapLoggedOut:
			e.metrics.Inc(MetricRenewalFailure)
			e.audit("bootstrap_logged_out", false, nil)
		case BootstrapTimeout:
			e.metrics.Inc(MetricBootstrapTimeout)
			e.audit("bootstrap_timeout", false, nil)
		case BootstrapAlreadyActive:
			e.audit("bootstrap_already_active", true, nil)
		}
		e.logger.Info().Str("outcome", outcome.String()).Msg("bootstrap settled")
	})
	return outcome
}

// Ready describes the ready operation and its observable behavior.
//
// Ready does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (e *Engine) Ready() <-chan struct{} {
	return e.boot.Done()
}

// Login describes the login operation and its observable behavior.
//
// Login may return an error when input validation, dependency calls, or security checks fail.
// Login does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (e *Engine) Login(ctx context.Context, email, password string) error {
	grant, err := e.client.Login(ctx, email, password)
	if err != nil {
		e.metrics.Inc(MetricLoginFailure)
		e.audit("login", false, err)
		if errors.Is(err, ErrInvalidCredentials) {
			e.logger.Info().Msg("login rejected")
		} else {
			e.logger.Warn().Err(err).Msg("login failed")
		}
		return err
	}

	e.store.Set(grant.AccessToken, grant.Roles)
	e.metrics.Inc(MetricLoginSuccess)
	e.audit("login", true, nil)
	e.logger.Info().Msg("login succeeded")
	return nil
}

// Renew describes the renew operation and its observable behavior.
//
// Renew may return an error when input validation, dependency calls, or security checks fail.
// Renew does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (e *Engine) Renew(ctx context.Context) error {
	grant, err := e.client.Refresh(ctx)
	if err != nil {
		e.metrics.Inc(MetricRenewalFailure)
		e.audit("renewal", false, err)
		e.logger.Warn().Err(err).Msg("renewal failed")
		return err
	}

	e.store.Set(grant.AccessToken, grant.Roles)
	e.metrics.Inc(MetricRenewalSuccess)
	e.audit("renewal", true, nil)
	return nil
}

// Logout describes the logout operation and its observable behavior.
//
// Logout does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
//
// The backend call is best-effort; local state is cleared regardless.
func (e *Engine) Logout(ctx context.Context) {
	if err := e.client.Logout(ctx); err != nil {
		e.logger.Warn().Err(err).Msg("backend logout failed")
	}
	e.store.Clear()
	e.metrics.Inc(MetricLogout)
	e.audit("logout", true, nil)
}

// HTTPClient describes the httpclient operation and its observable behavior.
//
// HTTPClient does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
//
// The returned client attaches the live credential to every request and
// forces logout on 401 responses.
func (e *Engine) HTTPClient() *http.Client {
	return e.httpClient
}

// Store describes the store operation and its observable behavior.
//
// Store does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (e *Engine) Store() *session.Store {
	return e.store
}

// IsLoggedIn describes the isloggedin operation and its observable behavior.
//
// IsLoggedIn does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (e *Engine) IsLoggedIn() bool {
	return e.store.IsLoggedIn()
}

// HasRole describes the hasrole operation and its observable behavior.
//
// HasRole does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (e *Engine) HasRole(anyOf ...string) bool {
	return guard.RoleGate(e.store, anyOf...)
}

// RequireAuth describes the requireauth operation and its observable behavior.
//
// RequireAuth does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (e *Engine) RequireAuth(current string) guard.Decision {
	return guard.RequireAuth(e.store, current, e.cfg.Routes.Login)
}

// PublicOnly describes the publiconly operation and its observable behavior.
//
// PublicOnly does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (e *Engine) PublicOnly(from string) guard.Decision {
	return guard.PublicOnly(e.store, from, e.cfg.Routes.DefaultLanding)
}

// MetricsSnapshot describes the metricssnapshot operation and its observable behavior.
//
// MetricsSnapshot does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (e *Engine) MetricsSnapshot() MetricsSnapshot {
	return e.metrics.Snapshot()
}

// Metrics describes the metrics operation and its observable behavior.
//
// Metrics does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (e *Engine) Metrics() *Metrics {
	return e.metrics
}

// AuditDropped describes the auditdropped operation and its observable behavior.
//
// AuditDropped does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (e *Engine) AuditDropped() uint64 {
	return e.dispatcher.Dropped()
}

// Close describes the close operation and its observable behavior.
//
// Close does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (e *Engine) Close() {
	e.closeOnce.Do(func() {
		e.watcher.Close()
		e.dispatcher.Close()
	})
}

func (e *Engine) audit(eventType string, success bool, err error) {
	if e.dispatcher == nil {
		return
	}
	event := AuditEvent{
		Timestamp: e.clk.Now(),
		EventType: eventType,
		Route:     e.nav.Current(),
		Success:   success,
	}
	if err != nil {
		event.Error = err.Error()
	}
	e.dispatcher.Emit(context.Background(), event)
}
