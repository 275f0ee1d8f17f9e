package segheap

// Allocation policy (§4.4) and the region-growth half of the region
// adapter (§4.5's extend_heap). Grounded on original_source/mm.c's
// malloc/free/realloc/calloc/place/find_fit/extend_heap, translated
// block pointer for block pointer.

// findFit performs first-fit search starting at the bucket asize belongs
// to and escalating to larger buckets, never the reverse — starting
// higher pessimizes fragmentation (spec DESIGN NOTES).
func (h *Heap) findFit(asize uintptr) uintptr {
	_, start := h.buckets.bucketFor(asize)

	for idx := start; idx < numBuckets; idx++ {
		for b := h.buckets.heads[idx]; b != 0; b = fromOffset(h.buckets.base, nextLink(b)) {
			if sizeOf(b) >= asize {
				return b
			}
		}
	}

	return 0
}

// place carves asize bytes out of the free block b, splitting off a
// residue block when at least minBlockSize bytes would remain. The
// bucket lookup inside unlink always uses csize, b's size *before* any
// header rewrite — see DESIGN.md's "Open Question decisions": the
// header rewrite never touches the link words, but using the post-split
// size here would look in the wrong bucket for the block being removed.
func (h *Heap) place(b uintptr, asize uintptr) {
	csize := sizeOf(b)
	next := nextLink(b)
	prev := prevLink(b)

	if csize-asize >= minBlockSize {
		writeBlock(b, asize, true)
		h.buckets.unlink(next, prev, csize)

		residue := nextBlock(b)
		writeBlock(residue, csize-asize, false)
		h.buckets.pushHead(residue)
	} else {
		writeBlock(b, csize, true)
		h.buckets.unlink(next, prev, csize)
	}
}

// extendHeap grows the region by at least words*wordSize bytes (rounded
// up to an even word count to preserve 8-byte alignment), installs a
// free block over the new range and a fresh epilogue, and coalesces the
// new block with whatever preceded it.
func (h *Heap) extendHeap(words uintptr) (uintptr, error) {
	if words%2 != 0 {
		words++
	}

	size := words * wordSize

	oldEnd, err := h.provider.Extend(size)
	if err != nil {
		return 0, err
	}

	writeBlock(oldEnd, size, false)
	storeWord(oldEnd+size-wordSize, pack(0, true))

	return h.coalesce(oldEnd), nil
}

// Allocate services a request for size bytes of payload, returning the
// address of an aligned, exclusively-owned byte range, or 0 if size is
// zero or the region could not be grown to satisfy the request.
func (h *Heap) Allocate(size uintptr) uintptr {
	if size == 0 {
		return 0
	}

	asize := adjustedSize(size)

	if b := h.findFit(asize); b != 0 {
		h.place(b, asize)
		return b
	}

	extendWords := asize
	if h.cfg.MinExtension > extendWords {
		extendWords = h.cfg.MinExtension
	}

	b, err := h.extendHeap(extendWords / wordSize)
	if err != nil {
		return 0
	}

	h.place(b, asize)

	return b
}

// Release returns a previously allocated block to the free lists. A
// zero address is a no-op. Releasing an address not returned by
// Allocate, or releasing it twice, is undefined behavior (§7) and not
// checked here.
func (h *Heap) Release(b uintptr) {
	if b == 0 {
		return
	}

	size := sizeOf(b)

	if h.cfg.ZeroOnRelease {
		zeroPayload(b, payloadCapacity(b))
	}

	writeBlock(b, size, false)
	h.coalesce(b)
}

// Resize changes the size of a previously allocated block, preserving
// its leading bytes. A zero newSize releases the block and returns 0; a
// zero b allocates fresh. There is no in-place grow path — the spec
// calls this "a more sophisticated in-place grow is not specified" —
// so Resize always goes through allocate/copy/release, matching mm.c's
// realloc exactly.
func (h *Heap) Resize(b uintptr, newSize uintptr) uintptr {
	if newSize == 0 {
		h.Release(b)
		return 0
	}

	if b == 0 {
		return h.Allocate(newSize)
	}

	newB := h.Allocate(newSize)
	if newB == 0 {
		return 0
	}

	oldCap := payloadCapacity(b)
	copyLen := oldCap
	if newSize < copyLen {
		copyLen = newSize
	}

	copyPayload(newB, b, copyLen)
	h.Release(b)

	return newB
}

// ZeroAllocate allocates space for nmemb elements of size bytes each and
// clears the payload before returning it.
func (h *Heap) ZeroAllocate(nmemb, size uintptr) uintptr {
	total := nmemb * size

	b := h.Allocate(total)
	if b == 0 {
		return 0
	}

	zeroPayload(b, total)

	return b
}
