package vtpc

import (
	"io"
	"path/filepath"
	"testing"
)

func TestSingletonInitOpenWriteReadDestroy(t *testing.T) {
	defer Destroy()

	if err := Init(4, 512); err != nil {
		t.Fatalf("Init: %v", err)
	}
	if err := Init(4, 512); err == nil {
		t.Fatal("expected a second Init to fail with ErrAlreadyInitialized")
	}

	path := filepath.Join(t.TempDir(), "data.bin")
	h, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if _, err := Write(h, []byte("singleton")); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if _, err := Seek(h, 0, io.SeekStart); err != nil {
		t.Fatalf("Seek: %v", err)
	}
	got := make([]byte, len("singleton"))
	if _, err := Read(h, got); err != nil {
		t.Fatalf("Read: %v", err)
	}
	if string(got) != "singleton" {
		t.Fatalf("expected %q, got %q", "singleton", got)
	}

	if err := Close(h); err != nil {
		t.Fatalf("Close: %v", err)
	}
	stats, err := GetStats()
	if err != nil {
		t.Fatalf("GetStats: %v", err)
	}
	if stats.PagesWrittenBack == 0 {
		t.Fatal("expected at least one write-back after Close")
	}
}

func TestSingletonOpenLazilyInitializes(t *testing.T) {
	defer Destroy()

	path := filepath.Join(t.TempDir(), "data.bin")
	h, err := Open(path)
	if err != nil {
		t.Fatalf("expected Open to lazily initialize the default cache: %v", err)
	}
	if err := Close(h); err != nil {
		t.Fatalf("Close: %v", err)
	}
}
