// Package storage provides durable slot implementations for the session
// store's repository: an in-memory slot for tests and defaults, a Redis slot
// for backend-for-frontend deployments, and a SQLite slot for a local file
// that survives process restarts.
//
// # Architecture boundaries
//
// Each implementation stores one opaque value under one name. Encoding and
// session semantics belong to the session package.
//
// # What this package must NOT do
//
//   - Interpret the stored bytes.
//   - Import any gensession package.
package storage
