package blockio

import (
	"path/filepath"
	"testing"
	"unsafe"
)

func bufAddr(buf []byte) uintptr {
	return uintptr(unsafe.Pointer(&buf[0]))
}

func TestOpenWithoutDirectCreatesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.bin")
	dev, err := Open(path, 512, false)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer dev.Close()

	if dev.Direct() {
		t.Fatal("did not request O_DIRECT but Direct() reports true")
	}
	size, err := dev.Size()
	if err != nil {
		t.Fatalf("Size: %v", err)
	}
	if size != 0 {
		t.Fatalf("expected a freshly created file to be empty, got size %d", size)
	}
}

func TestOpenRejectsUnalignedPageSize(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.bin")
	if _, err := Open(path, 100, false); err == nil {
		t.Fatal("expected an error for a page size that isn't a multiple of 512")
	}
}

func TestWriteBlockThenReadBlockRoundTrips(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.bin")
	dev, err := Open(path, 512, false)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer dev.Close()

	want := make([]byte, 512)
	for i := range want {
		want[i] = byte(i)
	}
	if _, err := dev.WriteBlock(3, want); err != nil {
		t.Fatalf("WriteBlock: %v", err)
	}

	got := make([]byte, 512)
	if _, err := dev.ReadBlock(3, got); err != nil {
		t.Fatalf("ReadBlock: %v", err)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("byte %d: want %d, got %d", i, want[i], got[i])
		}
	}

	size, err := dev.Size()
	if err != nil {
		t.Fatalf("Size: %v", err)
	}
	if size != 4*512 {
		t.Fatalf("expected file to grow to cover block 3, got size %d", size)
	}
}

func TestReadBlockPastEOFToleratesShortRead(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.bin")
	dev, err := Open(path, 512, false)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer dev.Close()

	buf := make([]byte, 512)
	if _, err := dev.ReadBlock(0, buf); err != nil {
		t.Fatalf("expected a read past EOF to be tolerated, got error: %v", err)
	}
}

func TestAlignedBufferIsAddressAligned(t *testing.T) {
	buf := AlignedBuffer(4096, 512)
	if len(buf) != 4096 {
		t.Fatalf("expected len 4096, got %d", len(buf))
	}
	addr := bufAddr(buf)
	if addr%512 != 0 {
		t.Fatalf("expected buffer address aligned to 512, got offset %d", addr%512)
	}
}
