package session

// Repository is the durable slot the store mirrors its state into. It holds a
// single opaque value; the store owns the encoding.
//
// Implementations must be safe for concurrent use. See the storage package
// for the in-memory, Redis, and SQLite implementations.
type Repository interface {
	// Load returns the persisted value. The second return is false when the
	// slot has never been written.
	Load() ([]byte, bool, error)

	// Save replaces the persisted value.
	Save(data []byte) error
}
