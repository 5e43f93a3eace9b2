// Package store defines the key/value persistence port used for the agenda
// and the action history.
package store

import "errors"

// Keys under which documents are persisted.
const (
	AgendaKey  = "agenda"
	HistoryKey = "history"
)

var (
	// ErrNotFound is returned by Load when nothing is stored under the key.
	ErrNotFound = errors.New("store: key not found")
	// ErrCorrupt is returned by Load when the stored document cannot be decoded.
	ErrCorrupt = errors.New("store: malformed document")
)

// Store persists whole JSON documents by key. Every Save overwrites the
// previous document; there is no incremental patching.
type Store interface {
	Load(key string, v any) error
	Save(key string, v any) error
	// Clear removes the persisted copy entirely. Clearing a missing key is not an error.
	Clear(key string) error
}
