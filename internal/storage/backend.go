// Package storage provides the key-value persistence boundary for dualchat.
package storage

// Backend is the persistence port: a flat namespace of string keys holding
// opaque values, modeled after browser local storage. The store writes the
// full conversation collection under a single key on every mutation; scalar
// preferences live under their own keys.
//
// Implementations must be safe for concurrent use.
type Backend interface {
	// Get returns the value for key. The second return value reports
	// whether the key exists.
	Get(key string) ([]byte, bool, error)

	// Put stores value under key, replacing any previous value.
	Put(key string, value []byte) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(key string) error

	// Close releases any resources held by the backend.
	Close() error
}
