// Package driven defines secondary port interfaces for external adapters.
package driven

import "context"

// Storage keys. Each key holds one JSON document that is always read and
// written as a whole.
const (
	KeyAgendas = "agenda_items"
	KeyUsers   = "agenda_users"
	KeySession = "agenda_session"
)

// KVStore defines the driven port for string-keyed document storage.
// Values are UTF-8 encoded JSON.
type KVStore interface {
	// Get returns the value stored under key. ok is false when the key is
	// absent; err is reserved for storage failures.
	Get(ctx context.Context, key string) (value []byte, ok bool, err error)

	// Set stores value under key, replacing any previous value.
	Set(ctx context.Context, key string, value []byte) error

	// Delete removes key. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error
}
