package cache

import "github.com/samber/lo"

// BlockReader reads exactly one block from a backing device into buf.
// Short reads (including a zero-length read at physical EOF) are tolerated —
// the caller has already zero-filled buf, and a bounded logical file size
// elsewhere ensures stale bytes never reach the user.
type BlockReader interface {
	ReadBlock(block int64, buf []byte) (int, error)
}

// BlockWriter writes exactly one block to a backing device at block·PageSize.
type BlockWriter interface {
	WriteBlock(block int64, buf []byte) (int, error)
}

// BlockReadWriter is the block-I/O primitive the engine drives on miss
// (read) and on write-back (write).
type BlockReadWriter interface {
	BlockReader
	BlockWriter
}

// Backend resolves a file identifier to the device backing it. It exists so
// the engine never assumes file handles stay valid — Get's load path and
// every flush path re-resolve through Backend, and treat a missing device as
// "the file was closed out from under this operation".
type Backend interface {
	Device(file int64) (dev BlockReadWriter, ok bool)
}

// Find returns the resident frame for (file, block), if any, and marks it
// referenced. This is a pure lookup; Get layers miss handling on top.
func (p *Pool) Find(file, block int64) (*Frame, bool) {
	idx := p.hashLookup(file, block)
	if idx == noFrame {
		return nil, false
	}
	f := &p.frames[idx]
	f.Ref = true
	p.Hits++
	return f, true
}

// Get returns the frame caching (file, block), loading it from backend on a
// miss. When load is false the caller intends to overwrite the whole block,
// so the frame is simply zero-filled rather than read from disk.
func (p *Pool) Get(backend Backend, file, block int64, load bool) (*Frame, error) {
	if f, ok := p.Find(file, block); ok {
		return f, nil
	}
	p.Misses++

	idx, err := p.evict(backend)
	if err != nil {
		return nil, err
	}
	f := &p.frames[idx]
	f.Owner = Owner{File: file, Block: block}
	f.Valid = true
	f.Dirty = false
	f.Ref = true
	p.hashInsert(idx)
	p.queuePushBack(idx)
	p.used++

	if !load {
		clearBuf(f.Data)
		return f, nil
	}

	dev, ok := backend.Device(file)
	if !ok {
		// Roll back: the file disappeared between deciding to load and
		// resolving its device.
		p.hashRemove(idx)
		p.queueRemove(idx)
		f.Valid = false
		f.Owner = Owner{}
		p.used--
		p.freePush(idx)
		return nil, ErrBadFile
	}

	clearBuf(f.Data)
	// A short or failed read is tolerated silently: the buffer is already
	// zero-filled, and the public read path bounds its copy by the cached
	// logical file size, so a read past physical EOF never leaks stale
	// bytes. This matches the original source, which discards the byte
	// count (and any error) from the single block read on load.
	_, _ = dev.ReadBlock(block, f.Data)
	return f, nil
}

func clearBuf(buf []byte) {
	for i := range buf {
		buf[i] = 0
	}
}

// evict produces a free frame: first from the free list, then by running
// the Second-Chance scan over the eviction queue. A frame with its reference
// bit set is given a second chance (bit cleared, requeued at the tail); a
// dirty frame whose write-back fails is requeued rather than discarded, so
// future scans may retry it once the I/O error clears.
//
// The scan is bounded to 2×Used iterations: that's enough for every
// referenced frame to be cleared and retried once absent write errors; when
// write-backs keep failing, the same bound caps the sweep so a permanently
// wedged cache returns ErrOutOfMemory instead of spinning forever.
func (p *Pool) evict(backend Backend) (int32, error) {
	if idx := p.freePop(); idx != noFrame {
		return idx, nil
	}

	limit := 2 * p.used
	for examined := 0; examined < limit && p.queueHead != noFrame; examined++ {
		idx := p.queuePopFront()
		f := &p.frames[idx]

		if f.Ref {
			f.Ref = false
			p.queuePushBack(idx)
			continue
		}

		if f.Dirty {
			if err := p.flushLocked(backend, f); err != nil {
				p.queuePushBack(idx)
				continue
			}
		}

		p.hashRemove(idx)
		buf := f.Data
		*f = Frame{Data: buf, qPrev: noFrame, qNext: noFrame, hNext: noFrame}
		p.used--
		p.Evicted++
		return idx, nil
	}

	return noFrame, ErrOutOfMemory
}

// Flush writes a single dirty frame back through backend. It is a no-op for
// invalid or clean frames, and leaves Dirty set on failure so a later Flush
// (or Fsync) can retry.
func (p *Pool) Flush(backend Backend, f *Frame) error {
	return p.flushLocked(backend, f)
}

func (p *Pool) flushLocked(backend Backend, f *Frame) error {
	if !f.Valid || !f.Dirty {
		return nil
	}
	dev, ok := backend.Device(f.Owner.File)
	if !ok {
		return ErrBadFile
	}
	if _, err := dev.WriteBlock(f.Owner.Block, f.Data); err != nil {
		return err
	}
	f.Dirty = false
	p.WrittenBack++
	return nil
}

// FlushFile flushes every dirty frame owned by file, continuing past
// individual failures and returning the last error seen, if any.
func (p *Pool) FlushFile(backend Backend, file int64) error {
	all := make([]int32, len(p.frames))
	for i := range all {
		all[i] = int32(i)
	}
	dirty := lo.Filter(all, func(idx int32, _ int) bool {
		f := &p.frames[idx]
		return f.Valid && f.Dirty && f.Owner.File == file
	})

	var lastErr error
	for _, idx := range dirty {
		if err := p.flushLocked(backend, &p.frames[idx]); err != nil {
			lastErr = err
		}
	}
	return lastErr
}

// InvalidateFile drops every frame owned by file back onto the free list
// without flushing — callers who need durability must flush first, exactly
// as Close does.
func (p *Pool) InvalidateFile(file int64) {
	for i := range p.frames {
		f := &p.frames[i]
		if !f.Valid || f.Owner.File != file {
			continue
		}
		idx := int32(i)
		p.hashRemove(idx)
		p.queueRemove(idx)
		buf := f.Data
		*f = Frame{Data: buf, qPrev: noFrame, qNext: noFrame, hNext: noFrame}
		p.used--
		p.freePush(idx)
	}
}
