package vtpc

import (
	"fmt"
	"log"
	"time"

	"github.com/bep/debounce"
	"github.com/robfig/cron/v3"
)

// flusher is the optional background write-back daemon: a periodic cron job
// that flushes every open file, with ad-hoc "dirty happened" notifications
// coalesced by a debounce window so a tight write loop doesn't trigger a
// flush pass per call. It only ever reduces how much dirty data accumulates
// between explicit Fsync/Close calls — it never replaces them.
type flusher struct {
	cache    *Cache
	interval int
	cron     *cron.Cron
	notify   func(func())
}

func newFlusher(c *Cache, intervalSeconds int) *flusher {
	loc, _ := time.LoadLocation("UTC")
	return &flusher{
		cache:    c,
		interval: intervalSeconds,
		cron:     cron.New(cron.WithLocation(loc), cron.WithSeconds()),
		notify:   debounce.New(time.Duration(intervalSeconds) * time.Second),
	}
}

func (f *flusher) start() {
	spec := fmt.Sprintf("@every %ds", f.interval)
	if _, err := f.cron.AddFunc(spec, f.flushAll); err != nil {
		log.Printf("vtpc[%s]: failed to schedule write-back daemon: %v", f.cache.instanceID, err)
		return
	}
	f.cron.Start()
}

func (f *flusher) stop() {
	ctx := f.cron.Stop()
	<-ctx.Done()
}

func (f *flusher) flushAll() {
	f.cache.mu.Lock()
	defer f.cache.mu.Unlock()

	for h := range f.cache.files {
		if !f.cache.files[h].inUse {
			continue
		}
		if err := f.cache.pool.FlushFile(f.cache, int64(h)); err != nil {
			log.Printf("vtpc[%s]: background flush of handle %d: %v", f.cache.instanceID, h, err)
		}
	}
}

// notifyDirty is called from the write path to schedule a debounced
// out-of-band flush attempt in addition to the daemon's own cron interval.
// Unused when the daemon is disabled.
func (f *flusher) notifyDirty() {
	if f == nil {
		return
	}
	f.notify(f.flushAll)
}
