package segheap

import "unsafe"

// Block-layout codec (§4.1). A block pointer b, throughout this file and
// the rest of the package, is the address of its payload — the same
// address Allocate hands back to a caller and the same "bp" the original
// mm.c threads through every helper. The header lives at b-4, the footer
// at b+size_of(b)-8.
const (
	wordSize     = 4  // header/footer/link word size, bytes
	doubleWord   = 8  // minimum alignment granularity, bytes
	minBlockSize = 16 // header + next + prev + footer

	allocBit = uint32(1)
	sizeMask = ^uint32(0x7)
)

// pack combines a size and allocated flag into a single header/footer
// word, mirroring mm.c's PACK macro.
func pack(size uint32, allocated bool) uint32 {
	if allocated {
		return size | allocBit
	}

	return size
}

func loadWord(addr uintptr) uint32 {
	return *(*uint32)(unsafe.Pointer(addr)) //nolint:gosec
}

func storeWord(addr uintptr, v uint32) {
	*(*uint32)(unsafe.Pointer(addr)) = v //nolint:gosec
}

// header returns the raw header word of the block at b.
func header(b uintptr) uint32 {
	return loadWord(b - wordSize)
}

// footer returns the raw footer word of the block at b, located from the
// header's size field.
func footer(b uintptr) uint32 {
	return loadWord(b + sizeOf(b) - doubleWord)
}

// sizeOf decodes a block's total size (header + payload + footer).
func sizeOf(b uintptr) uintptr {
	return uintptr(header(b) & sizeMask)
}

// isAllocated decodes a block's allocated bit.
func isAllocated(b uintptr) bool {
	return header(b)&allocBit != 0
}

// writeBlock writes an identical header and footer for a block of the
// given total size and allocation state.
func writeBlock(b uintptr, size uintptr, allocated bool) {
	w := pack(uint32(size), allocated)
	storeWord(b-wordSize, w)
	storeWord(b+size-doubleWord, w)
}

// nextBlock returns the address of the block immediately following b.
func nextBlock(b uintptr) uintptr {
	return b + sizeOf(b)
}

// prevBlock returns the address of the block immediately preceding b, by
// reading the size out of its footer (the word just before b's header).
func prevBlock(b uintptr) uintptr {
	prevSize := uintptr(loadWord(b-doubleWord) & sizeMask)
	return b - prevSize
}

// toOffset converts an absolute address to a 32-bit offset from base,
// with zero reserved for null.
func toOffset(base, p uintptr) uint32 {
	if p == 0 {
		return 0
	}

	return uint32(p - base)
}

// fromOffset converts a 32-bit offset from base back to an absolute
// address, with zero reserved for null.
func fromOffset(base uintptr, o uint32) uintptr {
	if o == 0 {
		return 0
	}

	return base + uintptr(o)
}

// nextLink reads the "next free block" offset stored in a free block's
// payload (valid only while the block is free).
func nextLink(b uintptr) uint32 {
	return loadWord(b)
}

// prevLink reads the "previous free block" offset.
func prevLink(b uintptr) uint32 {
	return loadWord(b + wordSize)
}

func setNextLink(b uintptr, v uint32) {
	storeWord(b, v)
}

func setPrevLink(b uintptr, v uint32) {
	storeWord(b+wordSize, v)
}

// alignUp rounds n up to the next multiple of m, m a power of two.
func alignUp(n, m uintptr) uintptr {
	return (n + m - 1) &^ (m - 1)
}

// adjustedSize computes the total block size needed to satisfy a
// caller's request of reqSize payload bytes: header+footer overhead,
// rounded up to 8 bytes, with a 16-byte floor.
func adjustedSize(reqSize uintptr) uintptr {
	asize := alignUp(reqSize+doubleWord, doubleWord)
	if asize < minBlockSize {
		return minBlockSize
	}

	return asize
}

// payloadCapacity returns the number of bytes a block's payload can hold
// for client use (its total size minus header and footer).
func payloadCapacity(b uintptr) uintptr {
	return sizeOf(b) - doubleWord
}

// payloadBytes views n bytes of a block's payload as a byte slice,
// without copying.
func payloadBytes(b uintptr, n uintptr) []byte {
	if n == 0 {
		return nil
	}

	return unsafe.Slice((*byte)(unsafe.Pointer(b)), n) //nolint:gosec
}

// zeroPayload clears n bytes of a block's payload.
func zeroPayload(b uintptr, n uintptr) {
	buf := payloadBytes(b, n)
	for i := range buf {
		buf[i] = 0
	}
}

// copyPayload copies n bytes from src's payload to dst's payload.
func copyPayload(dst, src uintptr, n uintptr) {
	copy(payloadBytes(dst, n), payloadBytes(src, n))
}
