package segheap

import "fmt"

// Consistency checker (§4.6). Check is a side-effect-free boolean
// predicate: it never mutates the heap, only reads it. It asserts I1
// (header equals footer), I5 (each bucket's doubly linked list is
// internally consistent, including a zero prev link at the head) and I6
// (every block's payload address is 8-byte aligned).
//
// Grounded on original_source/mm.c's mm_checkheap/checkblock, which
// walks every bucket printing and validating each block.

// AllocStats summarizes the blocks currently in the heap. It can be
// filled by Stats for diagnostics or tests.
//
// Grounded on the teacher's allocator.AllocatorStats and
// _examples/cznic-exp/lldb/falloc.go's AllocStats.
type AllocStats struct {
	TotalBytes  uintptr // sum of every block's size, allocated or free
	AllocBytes  uintptr
	FreeBytes   uintptr
	AllocBlocks int
	FreeBlocks  int
}

// Stats walks every block from the prologue to the epilogue and tallies
// allocated vs. free bytes and block counts. It does not mutate the
// heap.
func (h *Heap) Stats() AllocStats {
	var st AllocStats

	for b := h.buckets.base; sizeOf(b) != 0; b = nextBlock(b) {
		size := sizeOf(b)
		st.TotalBytes += size

		if isAllocated(b) {
			st.AllocBytes += size
			st.AllocBlocks++
		} else {
			st.FreeBytes += size
			st.FreeBlocks++
		}
	}

	return st
}

// Check verifies I1, I5 and I6 and returns whether the heap is
// consistent, along with a description of every violation found. It
// never panics and never modifies the heap; see Heap.MustCheck for the
// fatal variant used in debug builds.
func (h *Heap) Check(verbose bool) (bool, []string) {
	var problems []string

	report := func(format string, args ...interface{}) {
		msg := fmt.Sprintf(format, args...)
		problems = append(problems, msg)

		if verbose {
			fmt.Println(msg)
		}
	}

	for b := h.buckets.base; sizeOf(b) != 0; b = nextBlock(b) {
		if b%doubleWord != 0 {
			report("block %#x: payload is not 8-byte aligned", b)
		}

		if header(b) != footer(b) {
			report("block %#x: header %#x does not match footer %#x", b, header(b), footer(b))
		}
	}

	for idx := 0; idx < numBuckets; idx++ {
		head := h.buckets.heads[idx]
		if head != 0 && prevLink(head) != 0 {
			report("bucket %d: head %#x has a non-zero prev link", idx, head)
		}

		var prevAddr uintptr

		for n := head; n != 0; n = fromOffset(h.buckets.base, nextLink(n)) {
			if fromOffset(h.buckets.base, prevLink(n)) != prevAddr {
				report("bucket %d: block %#x has an inconsistent prev link", idx, n)
			}

			if next := fromOffset(h.buckets.base, nextLink(n)); next != 0 {
				if fromOffset(h.buckets.base, prevLink(next)) != n {
					report("bucket %d: block %#x's next %#x does not point back", idx, n, next)
				}
			}

			prevAddr = n
		}
	}

	return len(problems) == 0, problems
}

// MustCheck runs Check and panics with the first violation if the heap
// is inconsistent. §7 treats checker-detected corruption as fatal; this
// is the entry point debug builds should call after suspicious
// operations.
func (h *Heap) MustCheck() {
	if ok, problems := h.Check(true); !ok {
		panic(fmt.Sprintf("segheap: heap consistency check failed: %s", problems[0]))
	}
}
