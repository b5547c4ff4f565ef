// Package prometheus provides Prometheus collectors for gensession metrics.
//
// [NewPrometheusExporter] accepts a [gensession.Engine] and exposes an [http.Handler]
// that renders all gensession counters in Prometheus text exposition format.
// Counter names are prefixed gensession_*_total.
//
// # What this package must NOT do
//
//   - Register metrics in a global Prometheus registry — callers mount the Handler.
//   - Mutate engine state.
package prometheus
