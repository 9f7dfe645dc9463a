// Package kv defines the key-value blob store the inventory is persisted in.
//
// Values are opaque byte slices (JSON documents in practice). Reads and writes
// happen inside scopes: View for read-only access and Update for read-write
// access where every write commits together or not at all.
package kv

import (
	"context"
	"errors"
)

// ErrNotFound is returned by Tx.Get when the key holds no value.
var ErrNotFound = errors.New("kv: key not found")

// Tx gives access to the store inside a View or Update scope.
// Set and Delete return an error when called inside View.
type Tx interface {
	Get(key string) ([]byte, error)
	Set(key string, value []byte) error
	Delete(key string) error
}

// Store is a key-value blob store with atomic multi-key updates.
type Store interface {
	// View runs fn with read-only access.
	View(ctx context.Context, fn func(Tx) error) error
	// Update runs fn with read-write access. If fn returns an error, none of
	// its writes become visible. Update scopes never interleave.
	Update(ctx context.Context, fn func(Tx) error) error
	// Clear removes every key.
	Clear(ctx context.Context) error
}

// ErrReadOnly is returned by writes attempted inside a View scope.
var ErrReadOnly = errors.New("kv: write in read-only scope")
