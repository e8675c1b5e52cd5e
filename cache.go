package vtpc

import (
	"log"
	"sync"

	"github.com/go-vtpc/vtpc/blockio"
	"github.com/go-vtpc/vtpc/cache"
	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// Cache is a virtual page cache instance: one frame pool, one file-handle
// table, one coarse lock guarding both. Cache implements cache.Backend
// directly, so the pool never needs to know how handles map to devices.
type Cache struct {
	mu  sync.Mutex
	cfg Config

	pool  *cache.Pool
	files []fileSlot

	instanceID string
	flusher    *flusher
}

// New constructs a standalone Cache from cfg, independent of the
// package-level singleton. Tests and embedders that want dependency
// injection should use this instead of Init.
func New(cfg Config) (*Cache, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	pool, err := cache.NewPool(cfg.CachePages, cfg.PageSize, func(size int) ([]byte, error) {
		return blockio.AlignedBuffer(size, cfg.PageSize), nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "vtpc: allocate frame pool")
	}

	c := &Cache{
		cfg:        cfg,
		pool:       pool,
		files:      make([]fileSlot, cfg.MaxOpenFiles),
		instanceID: uuid.New().String()[:8],
	}
	log.Printf("vtpc[%s]: initialized, %d pages of %d bytes, direct_io=%v",
		c.instanceID, cfg.CachePages, cfg.PageSize, cfg.DirectIO)

	if cfg.WritebackInterval > 0 {
		c.flusher = newFlusher(c, cfg.WritebackInterval)
		c.flusher.start()
	}
	return c, nil
}

// Destroy stops the background flusher if running, then flushes, invalidates
// and closes every open file. The frame pool itself is not freed here; its
// buffers are reclaimed by the garbage collector once the Cache is dropped.
func (c *Cache) Destroy() {
	// Stop the background flusher before taking the lock: stop() blocks
	// until any in-flight flushAll returns, and flushAll itself needs c.mu,
	// so stopping while holding the lock here would deadlock.
	if c.flusher != nil {
		c.flusher.stop()
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	for h := range c.files {
		s := &c.files[h]
		if !s.inUse {
			continue
		}
		if err := c.pool.FlushFile(c, int64(h)); err != nil {
			log.Printf("vtpc[%s]: flush on destroy for handle %d: %v", c.instanceID, h, err)
		}
		c.pool.InvalidateFile(int64(h))
		if err := s.dev.Close(); err != nil {
			log.Printf("vtpc[%s]: close on destroy for handle %d: %v", c.instanceID, h, err)
		}
		*s = fileSlot{}
	}
	log.Printf("vtpc[%s]: destroyed", c.instanceID)
}

// SetDirectMode toggles whether subsequent Open calls attempt O_DIRECT.
// Already-open files are unaffected, matching vtpc_set_direct_mode.
func (c *Cache) SetDirectMode(enable bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cfg.DirectIO = enable
}

// Device implements cache.Backend: the engine addresses files by handle, and
// Cache resolves a handle to its underlying block device.
func (c *Cache) Device(handle int64) (cache.BlockReadWriter, bool) {
	s := c.slot(int(handle))
	if s == nil {
		return nil, false
	}
	return s.dev, true
}
