package vtpc

import (
	"github.com/go-vtpc/vtpc/cache"
	"github.com/pkg/errors"
)

var (
	// ErrAlreadyInitialized is returned by Init when the package-level
	// default cache has already been constructed.
	ErrAlreadyInitialized = errors.New("vtpc: already initialized")

	// ErrInvalid marks a malformed argument: a nil path, a zero count, an
	// unrecognized Seek whence, or a config that failed validation.
	ErrInvalid = errors.New("vtpc: invalid argument")

	// ErrBadHandle is returned for any operation on a handle that was never
	// opened, or has since been closed.
	ErrBadHandle = errors.New("vtpc: bad file handle")

	// ErrTooManyOpenFiles is returned by Open when every handle slot is in
	// use, mirroring VTPC_MAX_OPEN_FILES / EMFILE in the original source.
	ErrTooManyOpenFiles = errors.New("vtpc: too many open files")

	// ErrOutOfMemory is returned when the cache cannot evict a frame to
	// satisfy a read or write — every resident frame is dirty and every
	// write-back attempt failed.
	ErrOutOfMemory = errors.New("vtpc: cache exhausted, no evictable frame")

	// ErrOSIO wraps an underlying OS-level I/O failure (open/read/write/sync)
	// that isn't one of the cases above.
	ErrOSIO = errors.New("vtpc: underlying I/O error")
)

// translateEngineErr maps a cache-engine sentinel to its vtpc-level
// equivalent, preserving the original as the wrapped cause.
func translateEngineErr(err error) error {
	switch {
	case errors.Is(err, cache.ErrOutOfMemory):
		return errors.Wrap(ErrOutOfMemory, err.Error())
	case errors.Is(err, cache.ErrBadFile):
		return errors.Wrap(ErrBadHandle, err.Error())
	default:
		return errors.Wrap(ErrOSIO, err.Error())
	}
}
