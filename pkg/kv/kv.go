// Package kv defines the durable key-value storage used for sessions and
// per-user interaction state, with a Redis implementation for production and
// an in-memory one for tests and single-process runs.
package kv

import "context"

// Store is the interface for durable key-value persistence.
type Store interface {
	// Get returns the stored value and whether the key exists.
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, keys ...string) error
}
