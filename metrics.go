package gensession

import "sync/atomic"

// MetricID defines a public type used by gensession APIs.
//
// MetricID instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type MetricID uint16

const (
	// MetricLoginSuccess is an exported constant or variable used by the session engine.
	MetricLoginSuccess MetricID = iota
	// MetricLoginFailure is an exported constant or variable used by the session engine.
	MetricLoginFailure
	// MetricRenewalSuccess is an exported constant or variable used by the session engine.
	MetricRenewalSuccess
	// MetricRenewalFailure is an exported constant or variable used by the session engine.
	MetricRenewalFailure
	// MetricBootstrapTimeout is an exported constant or variable used by the session engine.
	MetricBootstrapTimeout
	// MetricSessionRestored is an exported constant or variable used by the session engine.
	MetricSessionRestored
	// MetricSessionExpired is an exported constant or variable used by the session engine.
	MetricSessionExpired
	// MetricUnauthorizedResponse is an exported constant or variable used by the session engine.
	MetricUnauthorizedResponse
	// MetricLogout is an exported constant or variable used by the session engine.
	MetricLogout
	// MetricPersistFailure is an exported constant or variable used by the session engine.
	MetricPersistFailure
	metricIDCount
)

const cacheLineSize = 64

type paddedCounter struct {
	value uint64
	_     [cacheLineSize - 8]byte
}

// Metrics defines a public type used by gensession APIs.
//
// Metrics instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Metrics struct {
	enabled  bool
	counters [metricIDCount]paddedCounter
}

// MetricsSnapshot defines a public type used by gensession APIs.
//
// MetricsSnapshot instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type MetricsSnapshot struct {
	Counters map[MetricID]uint64
}

// NewMetrics describes the newmetrics operation and its observable behavior.
//
// NewMetrics does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func NewMetrics(cfg MetricsConfig) *Metrics {
	return &Metrics{
		enabled: cfg.Enabled,
	}
}

// Enabled describes the enabled operation and its observable behavior.
//
// Enabled does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (m *Metrics) Enabled() bool {
	return m != nil && m.enabled
}

// Inc describes the inc operation and its observable behavior.
//
// Inc does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (m *Metrics) Inc(id MetricID) {
	if m == nil || !m.enabled || id >= metricIDCount {
		return
	}
	atomic.AddUint64(&m.counters[id].value, 1)
}

// Value describes the value operation and its observable behavior.
//
// Value does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (m *Metrics) Value(id MetricID) uint64 {
	if m == nil || id >= metricIDCount {
		return 0
	}
	return atomic.LoadUint64(&m.counters[id].value)
}

// Snapshot describes the snapshot operation and its observable behavior.
//
// Snapshot does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (m *Metrics) Snapshot() MetricsSnapshot {
	if m == nil || !m.enabled {
		return MetricsSnapshot{Counters: map[MetricID]uint64{}}
	}

	s := MetricsSnapshot{
		Counters: make(map[MetricID]uint64, int(metricIDCount)),
	}
	for id := MetricID(0); id < metricIDCount; id++ {
		s.Counters[id] = atomic.LoadUint64(&m.counters[id].value)
	}
	return s
}

// MetricName describes the metricname operation and its observable behavior.
//
// MetricName does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func MetricName(id MetricID) string {
	switch id {
	case MetricLoginSuccess:
		return "login_success"
	case MetricLoginFailure:
		return "login_failure"
	case MetricRenewalSuccess:
		return "renewal_success"
	case MetricRenewalFailure:
		return "renewal_failure"
	case MetricBootstrapTimeout:
		return "bootstrap_timeout"
	case MetricSessionRestored:
		return "session_restored"
	case MetricSessionExpired:
		return "session_expired"
	case MetricUnauthorizedResponse:
		return "unauthorized_response"
	case MetricLogout:
		return "logout"
	case MetricPersistFailure:
		return "persist_failure"
	default:
		return "unknown"
	}
}
