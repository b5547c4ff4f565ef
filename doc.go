// Package gensession manages the client-side session lifecycle for the
// GenBoard dashboard backend: credential acquisition, silent restore on
// startup, proactive expiry-driven logout, request authorization, and
// render-time route guarding.
//
// The package is designed for concurrent client workloads: Engine methods are
// safe to call from multiple goroutines after initialization through
// [Builder.Build].
//
// # Architecture boundaries
//
// gensession is the public surface. It exposes [Engine], [Builder], [Config],
// and value types (MetricsSnapshot, AuditEvent, etc.). The moving parts live
// in focused subpackages — token decoding (token), session state (session),
// durable slots (storage), the authorizing transport (transport), the backend
// client (api), the one-shot restore (bootstrap), the expiry timer (watch),
// and render guards (guard) — all wired together by [Builder.Build].
//
// # What this package must NOT do
//
//   - Verify token signatures or evaluate authorization policy; the backend
//     owns both, and its 401 responses are authoritative.
//   - Retry a request after a 401. Expiry is handled proactively by the
//     watcher and reactively at bootstrap, never by request-level retry.
//   - Render anything. Guards return decisions; navigation is a command sent
//     to the injected [Navigator].
package gensession
