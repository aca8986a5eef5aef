package store

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("store: not found")

// Keys under which the session record is persisted.
const (
	KeyAccessToken  = "token"
	KeyRefreshToken = "refreshToken"
	KeyIdentity     = "user"

	// KeyRedirect holds the path a forced logout interrupted. It outlives
	// the session record so the next sign-in can resume there.
	KeyRedirect = "redirect"
)

// SessionKeys lists every key that makes up a session record.
var SessionKeys = []string{KeyAccessToken, KeyRefreshToken, KeyIdentity}

// Store is a durable string key/value store. Concrete drivers (memory, sqlite,
// redis) implement this. Values are opaque to the store.
type Store interface {
	// Get returns ErrNotFound when key has no value.
	Get(ctx context.Context, key string) (string, error)

	// Set inserts or replaces the value stored under key.
	Set(ctx context.Context, key, value string) error

	// Delete removes all keys in one atomic step. Missing keys are not an
	// error.
	Delete(ctx context.Context, keys ...string) error

	// ApplyMigrations prepares the backing schema; a no-op for schemaless
	// drivers.
	ApplyMigrations() error

	// Close releases any underlying resources.
	Close() error

	// Ping verifies the backend is reachable.
	Ping(ctx context.Context) error
}
