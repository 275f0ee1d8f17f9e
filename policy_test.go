package segheap

import "testing"

func TestFindFitEscalatesToLargerBucket(t *testing.T) {
	h := newTestHeap(t)

	// After Init, the whole initial extension lives in bucket 5 (size 512
	// falls in the (132,520] class). A request that fits only the
	// exact-16 bucket must escalate past the empty smaller buckets.
	b := h.findFit(16)
	if b == 0 {
		t.Fatal("expected findFit to escalate into the seeded bucket")
	}

	if sizeOf(b) < 16 {
		t.Fatalf("findFit returned a block too small: %d", sizeOf(b))
	}
}

func TestFindFitReturnsZeroWhenNothingFits(t *testing.T) {
	h := newTestHeap(t)

	if b := h.findFit(1 << 30); b != 0 {
		t.Fatalf("findFit(huge) = %#x, want 0", b)
	}
}

func TestPlaceSplitsWhenResidueIsLargeEnough(t *testing.T) {
	h := newTestHeap(t)

	free := h.findFit(16)
	freeSize := sizeOf(free)

	h.place(free, 16)

	if !isAllocated(free) {
		t.Fatal("placed block should be allocated")
	}

	if got := sizeOf(free); got != 16 {
		t.Errorf("allocated size = %d, want 16", got)
	}

	residue := nextBlock(free)
	if isAllocated(residue) {
		t.Errorf("residue should be free")
	}

	if got, want := sizeOf(residue), freeSize-16; got != want {
		t.Errorf("residue size = %d, want %d", got, want)
	}
}

func TestPlaceDoesNotSplitBelowMinBlockSize(t *testing.T) {
	h := newTestHeap(t)

	// Rebuild the seeded free block at exactly 16+8 bytes, relinking it
	// under the matching bucket, so a split would leave an 8-byte residue:
	// below minBlockSize.
	free := h.findFit(16)
	h.buckets.unlink(nextLink(free), prevLink(free), sizeOf(free))
	writeBlock(free, 16+8, false)
	h.buckets.pushHead(free)

	h.place(free, 16)

	if !isAllocated(free) {
		t.Fatal("placed block should be allocated")
	}

	if got := sizeOf(free); got != 24 {
		t.Errorf("whole-block placement size = %d, want 24 (no split)", got)
	}
}

func TestAllocateGrowsHeapWhenNoFitExists(t *testing.T) {
	h, err := NewHeap(WithRegionCapacity(1<<20), WithInitialExtension(32), WithMinExtension(32))
	if err != nil {
		t.Fatalf("NewHeap: %v", err)
	}

	// The 32-byte initial extension is consumed by the first allocation;
	// the second must trigger extend_heap.
	a := h.Allocate(16)
	if a == 0 {
		t.Fatal("first allocation failed")
	}

	b := h.Allocate(16)
	if b == 0 {
		t.Fatal("second allocation should have grown the region")
	}

	if ok, problems := h.Check(false); !ok {
		t.Fatalf("heap inconsistent after growth: %v", problems)
	}
}

func TestReleaseThenAllocateReusesFreedSpace(t *testing.T) {
	h := newTestHeap(t)

	a := h.Allocate(16)
	h.Release(a)

	b := h.Allocate(16)
	if b != a {
		t.Errorf("expected the freed block to be reused: got %#x, want %#x", b, a)
	}
}

func TestResizeGrowPreservesLeadingBytes(t *testing.T) {
	h := newTestHeap(t)

	a := h.Allocate(16)
	payload := payloadBytes(a, 16)
	for i := range payload {
		payload[i] = byte(i + 1)
	}

	b := h.Resize(a, 256)
	if b == 0 {
		t.Fatal("resize failed")
	}

	grown := payloadBytes(b, 16)
	for i := range grown {
		if grown[i] != byte(i+1) {
			t.Fatalf("byte %d = %d, want %d", i, grown[i], i+1)
		}
	}
}

func TestResizeToZeroReleasesAndReturnsZero(t *testing.T) {
	h := newTestHeap(t)

	a := h.Allocate(16)

	if got := h.Resize(a, 0); got != 0 {
		t.Errorf("Resize(a, 0) = %#x, want 0", got)
	}

	if isAllocated(a) {
		t.Error("block should have been released")
	}
}

func TestResizeFromZeroAllocates(t *testing.T) {
	h := newTestHeap(t)

	b := h.Resize(0, 32)
	if b == 0 {
		t.Fatal("Resize(0, 32) should behave like Allocate")
	}

	if !isAllocated(b) {
		t.Error("expected the new block to be allocated")
	}
}

func TestZeroAllocateClearsPayload(t *testing.T) {
	h := newTestHeap(t)

	a := h.Allocate(64)
	dirty := payloadBytes(a, 64)
	for i := range dirty {
		dirty[i] = 0xFF
	}

	h.Release(a)

	b := h.ZeroAllocate(8, 8)
	if b == 0 {
		t.Fatal("ZeroAllocate failed")
	}

	for i, v := range payloadBytes(b, 64) {
		if v != 0 {
			t.Fatalf("byte %d not zeroed: %#x", i, v)
		}
	}
}
