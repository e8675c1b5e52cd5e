//go:build !linux

package blockio

import (
	"errors"
	"os"
)

// openDirect is unsupported outside Linux; Open always falls back to a
// plain buffered os.OpenFile when this returns an error.
func openDirect(path string) (*os.File, error) {
	return nil, errors.New("blockio: O_DIRECT is only supported on linux")
}
