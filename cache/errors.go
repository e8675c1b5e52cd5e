package cache

import "errors"

var (
	// ErrBadFile is returned by Get when load is requested but the Backend
	// no longer has a device for the owning file (the file was closed out
	// from under an in-flight miss).
	ErrBadFile = errors.New("cache: file no longer open")

	// ErrOutOfMemory is returned by Get/evict when a full sweep of the
	// eviction queue produced no evictable frame (every resident frame is
	// dirty and every write-back attempt failed).
	ErrOutOfMemory = errors.New("cache: no evictable frame")
)
