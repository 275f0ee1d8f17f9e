package segheap

import (
	"errors"
	"fmt"
)

// ErrOutOfMemory is returned by a Provider when it cannot extend the
// region, and surfaces through Allocate/Resize/ZeroAllocate as a nil
// address rather than an error value, per the spec's out-of-memory
// handling (a null return, no partial state).
var ErrOutOfMemory = errors.New("segheap: region provider refused to extend")

// ErrRegionCapacityExceeded is the InMemoryRegion-specific reason behind
// ErrOutOfMemory: growing past the reserved capacity.
var ErrRegionCapacityExceeded = fmt.Errorf("segheap: region capacity exceeded: %w", ErrOutOfMemory)

// ErrNotInitialized is returned by operations that require Init to have
// run first and cannot lazily self-initialize (currently unused by the
// public facade, which self-initializes like the original mm_malloc did,
// but kept for callers wiring their own Provider).
var ErrNotInitialized = errors.New("segheap: heap not initialized")

// ErrPlatformUnsupported is returned by NewMmapRegion on platforms with
// no mmap-based implementation.
var ErrPlatformUnsupported = errors.New("segheap: mmap region unsupported on this platform")
