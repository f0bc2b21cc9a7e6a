// Package blob stores audio artifacts: archived enrollment samples and
// fetched call recordings. Keys are forward-slash paths relative to the
// store root, e.g. "enroll/<contact-id>.wav" or "rec/<call-id>.mp3".
//
// Payloads are whole audio files of at most a few megabytes, so the
// interface is byte-oriented rather than streaming.
package blob

import (
	"context"
	"errors"
)

// ErrNotFound is returned when the requested key does not exist.
var ErrNotFound = errors.New("blob: not found")

// Store is a key-addressed binary blob store.
// Implementations must be safe for concurrent use.
type Store interface {
	// Get returns the payload stored under key.
	// Returns an error wrapping ErrNotFound if the key does not exist.
	Get(ctx context.Context, key string) ([]byte, error)

	// Put stores the payload under key, replacing any existing value.
	Put(ctx context.Context, key string, data []byte) error

	// Delete removes the key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Exists reports whether the key is present.
	Exists(ctx context.Context, key string) (bool, error)
}
