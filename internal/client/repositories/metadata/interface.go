// Package metadata is the client's local key/value store. Each value lives
// under a fixed string key, e.g. the catalog snapshot or the avatar choice.
package metadata

import (
	"context"
	"errors"
)

// ErrNotFound is returned by Get when the key was never written.
var ErrNotFound = errors.New("metadata key not found")

type Repository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	// Set inserts or overwrites the value under key in a single statement.
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}
