// Package store provides durable key-value backends for application state.
package store

import (
	"context"
)

// Store defines the durable key-value interface used to persist serialized
// application state. Get returns (nil, nil) when the key is absent.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, value []byte) error

	// Lifecycle
	Migrate(ctx context.Context) error
	Close() error
}
