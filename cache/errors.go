package cache

import "errors"

// Sentinel errors for cache operations.
var (
	// ErrCacheExhausted means capacity is reached and every entry has an
	// active in-flight refresh, so nothing can be evicted. A soft
	// condition: the result is computed through without being cached.
	ErrCacheExhausted = errors.New("cache: capacity reached with all entries in flight")
)
