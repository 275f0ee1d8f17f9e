package segheap

// coalesce implements the four-case boundary-tag coalescing state
// machine (§4.3). b is already marked free in its own header/footer; its
// neighbours are examined via the prologue/epilogue-bounded
// prevBlock/nextBlock walk, which is always safe because the sentinels
// at the region's ends are permanently allocated.
//
// The very first coalesce call after initialization (h.seeded == false)
// skips the four-case table entirely and seeds the relevant bucket
// directly with the initial whole-region free block: before any block
// has ever been placed, the bucket heads have no meaningful invariants
// to merge against. Grounded on original_source/mm.c's "forinit" flag.
func (h *Heap) coalesce(b uintptr) uintptr {
	if !h.seeded {
		h.seeded = true
		h.buckets.pushHead(b)

		return b
	}

	prev := prevBlock(b)
	next := nextBlock(b)
	prevFree := !isAllocated(prev)
	nextFree := !isAllocated(next)

	switch {
	case !prevFree && !nextFree: // Case 1: both neighbours allocated.
		h.buckets.pushHead(b)

		return b

	case !prevFree && nextFree: // Case 2: merge with next.
		nextNext := nextLink(next)
		nextPrev := prevLink(next)
		h.buckets.unlink(nextNext, nextPrev, sizeOf(next))

		merged := sizeOf(b) + sizeOf(next)
		writeBlock(b, merged, false)
		h.buckets.pushHead(b)

		return b

	case prevFree && !nextFree: // Case 3: merge with prev.
		prevNext := nextLink(prev)
		prevPrev := prevLink(prev)
		h.buckets.unlink(prevNext, prevPrev, sizeOf(prev))

		merged := sizeOf(prev) + sizeOf(b)
		writeBlock(prev, merged, false)
		h.buckets.pushHead(prev)

		return prev

	default: // Case 4: merge with both neighbours.
		nextNext := nextLink(next)
		nextPrev := prevLink(next)
		h.buckets.unlink(nextNext, nextPrev, sizeOf(next))

		prevNext := nextLink(prev)
		prevPrev := prevLink(prev)
		h.buckets.unlink(prevNext, prevPrev, sizeOf(prev))

		merged := sizeOf(prev) + sizeOf(b) + sizeOf(next)
		writeBlock(prev, merged, false)
		h.buckets.pushHead(prev)

		return prev
	}
}
