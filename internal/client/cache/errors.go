package cache

import "errors"

var (
	// ErrCacheRead marks a snapshot that exists but cannot be decoded.
	ErrCacheRead = errors.New("cache read failed")
	// ErrCacheWrite marks a snapshot that could not be persisted.
	ErrCacheWrite = errors.New("cache write failed")
)
