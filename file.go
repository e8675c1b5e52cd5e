package vtpc

import "github.com/go-vtpc/vtpc/blockio"

// fileSlot is one entry in the fixed file-handle table, mirroring
// file_entry_t in the original source.
type fileSlot struct {
	inUse  bool
	path   string
	dev    *blockio.Device
	offset int64
	size   int64
}

// findFreeSlot returns the index of the first unused slot, or -1 if the
// table is full.
func (c *Cache) findFreeSlot() int {
	for i := range c.files {
		if !c.files[i].inUse {
			return i
		}
	}
	return -1
}

// slot returns the file-handle table entry for handle, or nil if it is out
// of range or not currently open.
func (c *Cache) slot(handle int) *fileSlot {
	if handle < 0 || handle >= len(c.files) {
		return nil
	}
	s := &c.files[handle]
	if !s.inUse {
		return nil
	}
	return s
}
