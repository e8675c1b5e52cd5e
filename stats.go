package vtpc

import (
	"fmt"

	"github.com/dustin/go-humanize"
)

// Stats is a snapshot of the cache's counters, mirroring vtpc_stats_t.
type Stats struct {
	CacheHits        uint64
	CacheMisses      uint64
	PagesEvicted     uint64
	PagesWrittenBack uint64
	CurrentPagesUsed int
	ResidentBytes    int64
}

// String renders the counters for logs and the demonstration CLI, using
// humanize for operator-friendly formatting of large counts and the
// resident set's approximate memory footprint.
func (s Stats) String() string {
	return fmt.Sprintf(
		"hits=%s misses=%s evicted=%s written_back=%s resident=%s (%s)",
		humanize.Comma(int64(s.CacheHits)),
		humanize.Comma(int64(s.CacheMisses)),
		humanize.Comma(int64(s.PagesEvicted)),
		humanize.Comma(int64(s.PagesWrittenBack)),
		humanize.Comma(int64(s.CurrentPagesUsed)),
		humanize.Bytes(uint64(s.ResidentBytes)),
	)
}

// Stats returns a snapshot of the cache's counters.
func (c *Cache) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	used := c.pool.Used()
	return Stats{
		CacheHits:        c.pool.Hits,
		CacheMisses:      c.pool.Misses,
		PagesEvicted:     c.pool.Evicted,
		PagesWrittenBack: c.pool.WrittenBack,
		CurrentPagesUsed: used,
		ResidentBytes:    int64(used) * int64(c.cfg.PageSize),
	}
}

// ResetStats zeroes the monotonic counters without disturbing resident
// frames, matching vtpc_reset_stats.
func (c *Cache) ResetStats() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.pool.ResetStats()
}
