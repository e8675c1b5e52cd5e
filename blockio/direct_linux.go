//go:build linux

package blockio

import (
	"os"

	"golang.org/x/sys/unix"
)

// openDirect opens path with O_DIRECT. Callers treat any error as "fall
// back to buffered I/O" rather than fatal, since O_DIRECT support varies by
// filesystem (tmpfs, overlayfs and some network filesystems reject it with
// EINVAL).
func openDirect(path string) (*os.File, error) {
	fd, err := unix.Open(path, unix.O_RDWR|unix.O_CREAT|unix.O_DIRECT, 0644)
	if err != nil {
		return nil, err
	}
	return os.NewFile(uintptr(fd), path), nil
}
