package internaldefs

import (
	gensession "github.com/yBATTE/gensession"
)

// CounterDef defines a public type used by gensession APIs.
//
// CounterDef instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type CounterDef struct {
	ID   gensession.MetricID
	Name string
	Help string
}

// CounterDefs is an exported constant or variable used by the session engine.
var CounterDefs = []CounterDef{
	{ID: gensession.MetricLoginSuccess, Name: "gensession_login_success_total", Help: "Successful login attempts."},
	{ID: gensession.MetricLoginFailure, Name: "gensession_login_failure_total", Help: "Failed login attempts."},
	{ID: gensession.MetricRenewalSuccess, Name: "gensession_renewal_success_total", Help: "Successful silent renewals."},
	{ID: gensession.MetricRenewalFailure, Name: "gensession_renewal_failure_total", Help: "Failed silent renewals."},
	{ID: gensession.MetricBootstrapTimeout, Name: "gensession_bootstrap_timeout_total", Help: "Bootstrap attempts ended by the failsafe."},
	{ID: gensession.MetricSessionRestored, Name: "gensession_session_restored_total", Help: "Sessions restored at startup."},
	{ID: gensession.MetricSessionExpired, Name: "gensession_session_expired_total", Help: "Sessions ended by the expiry watcher."},
	{ID: gensession.MetricUnauthorizedResponse, Name: "gensession_unauthorized_response_total", Help: "Unauthorized backend responses forcing logout."},
	{ID: gensession.MetricLogout, Name: "gensession_logout_total", Help: "Explicit logout operations."},
	{ID: gensession.MetricPersistFailure, Name: "gensession_persist_failure_total", Help: "Best-effort session persistence failures."},
}
