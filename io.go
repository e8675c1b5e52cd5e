package vtpc

import (
	"io"

	"github.com/go-vtpc/vtpc/blockio"
	"github.com/pkg/errors"
)

// Open opens path for cached block I/O and returns a handle, creating the
// backing file if it does not exist.
func (c *Cache) Open(path string) (int, error) {
	if path == "" {
		return -1, ErrInvalid
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	handle := c.findFreeSlot()
	if handle < 0 {
		return -1, ErrTooManyOpenFiles
	}

	dev, err := blockio.Open(path, c.cfg.PageSize, c.cfg.DirectIO)
	if err != nil {
		return -1, errors.Wrapf(ErrOSIO, "open %s: %v", path, err)
	}
	size, err := dev.Size()
	if err != nil {
		dev.Close()
		return -1, errors.Wrapf(ErrOSIO, "stat %s: %v", path, err)
	}

	c.files[handle] = fileSlot{inUse: true, path: path, dev: dev, size: size}
	return handle, nil
}

// Close flushes and invalidates every cached frame belonging to handle, then
// closes the backing descriptor. A flush failure is surfaced (wrapped), but
// the descriptor is still closed and the handle still released regardless —
// a failed write-back should never leak a handle or silently disappear.
func (c *Cache) Close(handle int) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	s := c.slot(handle)
	if s == nil {
		return ErrBadHandle
	}

	flushErr := c.pool.FlushFile(c, int64(handle))
	c.pool.InvalidateFile(int64(handle))
	closeErr := s.dev.Close()
	*s = fileSlot{}

	if flushErr != nil {
		return errors.Wrapf(ErrOSIO, "vtpc: close handle %d: flush failed: %v", handle, flushErr)
	}
	if closeErr != nil {
		return errors.Wrapf(ErrOSIO, "vtpc: close handle %d: %v", handle, closeErr)
	}
	return nil
}

// Seek repositions handle's logical offset, following io.Seeker semantics
// (io.SeekStart/SeekCurrent/SeekEnd).
func (c *Cache) Seek(handle int, offset int64, whence int) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	s := c.slot(handle)
	if s == nil {
		return -1, ErrBadHandle
	}

	var newOffset int64
	switch whence {
	case io.SeekStart:
		newOffset = offset
	case io.SeekCurrent:
		newOffset = s.offset + offset
	case io.SeekEnd:
		newOffset = s.size + offset
	default:
		return -1, ErrInvalid
	}
	if newOffset < 0 {
		return -1, ErrInvalid
	}
	s.offset = newOffset
	return newOffset, nil
}

// Read copies up to len(buf) bytes from handle's current offset, advancing
// it, and stops at the file's logical size exactly as vtpc_read does.
func (c *Cache) Read(handle int, buf []byte) (int, error) {
	if len(buf) == 0 {
		return 0, nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	s := c.slot(handle)
	if s == nil {
		return 0, ErrBadHandle
	}

	pageSize := int64(c.cfg.PageSize)
	read := 0
	for read < len(buf) {
		if s.offset >= s.size {
			break
		}

		block := s.offset / pageSize
		inBlock := s.offset % pageSize

		f, err := c.pool.Get(c, int64(handle), block, true)
		if err != nil {
			if read > 0 {
				return read, nil
			}
			return 0, translateEngineErr(err)
		}

		avail := pageSize - inBlock
		remaining := int64(len(buf) - read)
		toRead := avail
		if remaining < toRead {
			toRead = remaining
		}
		if s.offset+toRead > s.size {
			toRead = s.size - s.offset
		}
		if toRead <= 0 {
			break
		}

		copy(buf[read:read+int(toRead)], f.Data[inBlock:inBlock+toRead])
		read += int(toRead)
		s.offset += toRead
	}
	return read, nil
}

// Write copies len(buf) bytes to handle starting at its current offset,
// advancing the offset and growing the logical file size as needed. A
// partial-block write first loads the existing block (need_load) so the
// untouched bytes in that block survive, matching vtpc_write's logic.
func (c *Cache) Write(handle int, buf []byte) (int, error) {
	if len(buf) == 0 {
		return 0, nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	s := c.slot(handle)
	if s == nil {
		return 0, ErrBadHandle
	}

	pageSize := int64(c.cfg.PageSize)
	written := 0
	for written < len(buf) {
		block := s.offset / pageSize
		inBlock := s.offset % pageSize
		remaining := int64(len(buf) - written)

		needLoad := inBlock != 0 || (remaining < pageSize && s.offset < s.size)

		f, err := c.pool.Get(c, int64(handle), block, needLoad)
		if err != nil {
			if written > 0 {
				return written, nil
			}
			return 0, translateEngineErr(err)
		}

		avail := pageSize - inBlock
		toWrite := avail
		if remaining < toWrite {
			toWrite = remaining
		}

		copy(f.Data[inBlock:inBlock+toWrite], buf[written:written+int(toWrite)])
		f.Dirty = true
		f.Ref = true

		written += int(toWrite)
		s.offset += toWrite
		if s.offset > s.size {
			s.size = s.offset
		}
	}
	c.flusher.notifyDirty()
	return written, nil
}

// Fsync flushes every dirty frame belonging to handle and syncs the backing
// descriptor.
func (c *Cache) Fsync(handle int) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	s := c.slot(handle)
	if s == nil {
		return ErrBadHandle
	}
	if err := c.pool.FlushFile(c, int64(handle)); err != nil {
		return errors.Wrapf(ErrOSIO, "vtpc: fsync: flush: %v", err)
	}
	if err := s.dev.Sync(); err != nil {
		return errors.Wrap(ErrOSIO, err.Error())
	}
	return nil
}
