// Package store defines the key-value storage boundary used by the gating
// components. Two lifetimes exist: a persistent store that survives
// restarts (ad cooldown, reward state) and a session store that lives only
// as long as the running instance (engagement counters).
package store

import "context"

// Store is a string-addressable key-value store.
type Store interface {
	// Get returns the value for key and whether it was present.
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Remove(ctx context.Context, key string) error
}
