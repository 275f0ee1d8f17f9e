//go:build linux
// +build linux

package segheap

import (
	"fmt"
	"unsafe"

	"golang.org/x/sys/unix"
)

// MmapRegion is a Provider backed by real, OS-managed virtual memory
// instead of a Go slice. It reserves a large chunk of address space once
// with MAP_NORESERVE (no commit charge, no physical pages touched) and
// grows into it by advancing a cursor; pages fault in lazily as the
// allocator writes into them. The reservation itself never moves, so
// every address handed out stays valid for the provider's lifetime,
// exactly like InMemoryRegion but without a Go GC-owned backing array.
//
// Grounded on the "reserve high, commit low" shape of
// cloudfly-readgo/runtime/malloc.go's sysReserve/h.arena_end.
type MmapRegion struct {
	mem      []byte
	base     uintptr
	used     uintptr
	reserved uintptr
}

// NewMmapRegion reserves `reserve` bytes of anonymous virtual memory and
// returns a Provider that commits into it on Extend. Call Close to
// release the reservation back to the OS when done.
func NewMmapRegion(reserve uintptr) (*MmapRegion, error) {
	mem, err := unix.Mmap(-1, 0, int(reserve),
		unix.PROT_READ|unix.PROT_WRITE,
		unix.MAP_PRIVATE|unix.MAP_ANON|unix.MAP_NORESERVE)
	if err != nil {
		return nil, fmt.Errorf("segheap: mmap reservation of %d bytes failed: %w", reserve, err)
	}

	return &MmapRegion{
		mem:      mem,
		base:     uintptr(unsafe.Pointer(&mem[0])),
		reserved: reserve,
	}, nil
}

// Extend implements Provider.
func (r *MmapRegion) Extend(n uintptr) (uintptr, error) {
	if r.used+n > r.reserved {
		return 0, ErrRegionCapacityExceeded
	}

	old := r.used
	r.used += n

	return r.base + old, nil
}

// RegionStart implements Provider.
func (r *MmapRegion) RegionStart() uintptr { return r.base }

// RegionEnd implements Provider.
func (r *MmapRegion) RegionEnd() uintptr { return r.base + r.used }

// Close unmaps the reservation. The region must not be used afterward.
func (r *MmapRegion) Close() error {
	return unix.Munmap(r.mem)
}
