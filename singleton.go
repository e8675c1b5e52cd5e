package vtpc

import "sync"

// singleton is the process-wide cache instance used by the package-level
// functions below, mirroring the original C API's global g_cache. It exists
// purely as a convenience wrapper: every method it forwards to also works
// on a caller-constructed *Cache from New, which is what tests and embedders
// should prefer.
var (
	defaultMu sync.Mutex
	singleton *Cache
)

// Init constructs the default cache with cachePages frames of pageSize
// bytes each, substituting DefaultConfig's values for zero arguments. It
// returns ErrAlreadyInitialized if called twice without an intervening
// Destroy.
func Init(cachePages, pageSize int) error {
	defaultMu.Lock()
	defer defaultMu.Unlock()

	if singleton != nil {
		return ErrAlreadyInitialized
	}

	cfg := DefaultConfig()
	if cachePages != 0 {
		cfg.CachePages = cachePages
	}
	if pageSize != 0 {
		cfg.PageSize = pageSize
	}

	c, err := New(cfg)
	if err != nil {
		return err
	}
	singleton = c
	return nil
}

// ensureInit lazily constructs the default cache with all-default settings,
// matching vtpc_open's "initialize on first use" behavior.
func ensureInit() (*Cache, error) {
	defaultMu.Lock()
	defer defaultMu.Unlock()

	if singleton == nil {
		c, err := New(DefaultConfig())
		if err != nil {
			return nil, err
		}
		singleton = c
	}
	return singleton, nil
}

// Destroy tears down the default cache, if one was constructed.
func Destroy() {
	defaultMu.Lock()
	c := singleton
	singleton = nil
	defaultMu.Unlock()

	if c != nil {
		c.Destroy()
	}
}

// SetDirectMode toggles O_DIRECT on the default cache for files opened from
// this point on.
func SetDirectMode(enable bool) {
	defaultMu.Lock()
	c := singleton
	defaultMu.Unlock()
	if c != nil {
		c.SetDirectMode(enable)
	}
}

// Open opens path through the default cache, initializing it on first use.
func Open(path string) (int, error) {
	c, err := ensureInit()
	if err != nil {
		return -1, err
	}
	return c.Open(path)
}

// Close closes handle on the default cache.
func Close(handle int) error {
	c, err := ensureInit()
	if err != nil {
		return err
	}
	return c.Close(handle)
}

// Read reads from handle on the default cache.
func Read(handle int, buf []byte) (int, error) {
	c, err := ensureInit()
	if err != nil {
		return 0, err
	}
	return c.Read(handle, buf)
}

// Write writes to handle on the default cache.
func Write(handle int, buf []byte) (int, error) {
	c, err := ensureInit()
	if err != nil {
		return 0, err
	}
	return c.Write(handle, buf)
}

// Seek repositions handle's offset on the default cache.
func Seek(handle int, offset int64, whence int) (int64, error) {
	c, err := ensureInit()
	if err != nil {
		return -1, err
	}
	return c.Seek(handle, offset, whence)
}

// Fsync flushes handle's dirty frames and syncs its descriptor on the
// default cache.
func Fsync(handle int) error {
	c, err := ensureInit()
	if err != nil {
		return err
	}
	return c.Fsync(handle)
}

// GetStats returns a snapshot of the default cache's counters.
func GetStats() (Stats, error) {
	c, err := ensureInit()
	if err != nil {
		return Stats{}, err
	}
	return c.Stats(), nil
}

// ResetStats zeroes the default cache's monotonic counters.
func ResetStats() {
	defaultMu.Lock()
	c := singleton
	defaultMu.Unlock()
	if c != nil {
		c.ResetStats()
	}
}
