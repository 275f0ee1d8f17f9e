//go:build linux
// +build linux

package segheap

import "testing"

func TestMmapRegionExtendAndClose(t *testing.T) {
	r, err := NewMmapRegion(1 << 20)
	if err != nil {
		t.Fatalf("NewMmapRegion: %v", err)
	}
	defer func() {
		if err := r.Close(); err != nil {
			t.Errorf("Close: %v", err)
		}
	}()

	first, err := r.Extend(64)
	if err != nil {
		t.Fatalf("Extend: %v", err)
	}

	if first != r.RegionStart() {
		t.Errorf("first Extend = %#x, want RegionStart %#x", first, r.RegionStart())
	}

	storeWord(first, 0xDEADBEEF)
	if got := loadWord(first); got != 0xDEADBEEF {
		t.Errorf("read back %#x, want 0xDEADBEEF", got)
	}

	if _, err := r.Extend(1 << 21); err == nil {
		t.Error("expected Extend past the reservation to fail")
	}
}

func TestHeapOverMmapRegion(t *testing.T) {
	r, err := NewMmapRegion(1 << 20)
	if err != nil {
		t.Fatalf("NewMmapRegion: %v", err)
	}
	defer r.Close()

	h, err := NewHeapWithProvider(r, WithInitialExtension(512), WithMinExtension(512))
	if err != nil {
		t.Fatalf("NewHeapWithProvider: %v", err)
	}

	a := h.Allocate(64)
	if a == 0 {
		t.Fatal("Allocate failed over MmapRegion")
	}

	h.Release(a)

	if ok, problems := h.Check(false); !ok {
		t.Fatalf("heap inconsistent: %v", problems)
	}
}
