// Package otel bridges gensession metrics into an OpenTelemetry meter.
//
// [NewOTelExporter] registers one Int64ObservableCounter per gensession
// counter plus the audit backpressure counter, observed from a single
// callback so every collection sees a consistent snapshot.
//
// # What this package must NOT do
//
//   - Own a MeterProvider — callers supply the meter and its lifecycle.
//   - Mutate engine state.
package otel
