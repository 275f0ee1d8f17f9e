package segheap

import "fmt"

// Heap is the public facade (§4's "Public facade") wiring the region
// adapter, block-layout codec, segregated free-list index, coalescer and
// allocation policy together into the spec's external interface:
// Allocate/Release/Resize/ZeroAllocate plus the consistency checker.
//
// A *Heap carries all of the "process-wide" state §5 describes (the
// region, the twelve bucket heads, the seeded flag) as ordinary fields
// rather than package globals, so independent heaps never interfere —
// the package-level convenience functions below are a thin, optional
// layer over one shared default instance, for callers that want the
// classic single-global-allocator ergonomics of malloc/free/realloc.
type Heap struct {
	provider Provider
	cfg      *Config
	buckets  buckets
	seeded   bool
}

// NewHeap creates and initializes a Heap backed by an InMemoryRegion
// sized per Config.RegionCapacity (64MiB by default).
func NewHeap(opts ...Option) (*Heap, error) {
	return NewHeapWithProvider(nil, opts...)
}

// NewHeapWithProvider creates and initializes a Heap backed by the given
// Provider. A nil provider gets a fresh InMemoryRegion sized per
// Config.RegionCapacity.
func NewHeapWithProvider(provider Provider, opts ...Option) (*Heap, error) {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}

	h := &Heap{cfg: cfg, provider: provider}
	if err := h.Init(); err != nil {
		return nil, err
	}

	return h, nil
}

// Init (re-)initializes the heap: it resets all free-list and
// provider-independent state and reserves the initial region, as
// mm_init does in the original source. It is idempotent in the sense
// that calling it again on a Heap with a fresh provider starts over
// cleanly; it does not reset an already-extended provider's region.
func (h *Heap) Init() error {
	if h.provider == nil {
		h.provider = NewInMemoryRegion(h.cfg.RegionCapacity)
	}

	h.buckets = buckets{}
	h.seeded = false

	start, err := h.provider.Extend(4 * wordSize)
	if err != nil {
		return fmt.Errorf("segheap: reserving prologue/epilogue: %w", err)
	}

	storeWord(start, 0)                                 // alignment pad
	storeWord(start+wordSize, pack(doubleWord, true))   // prologue header
	storeWord(start+2*wordSize, pack(doubleWord, true)) // prologue footer
	storeWord(start+3*wordSize, pack(0, true))          // epilogue header

	h.buckets.base = start + 2*wordSize // the prologue's (zero-length) payload

	if _, err := h.extendHeap(h.cfg.InitialExtension / wordSize); err != nil {
		return fmt.Errorf("segheap: initial extension: %w", err)
	}

	return nil
}

// Provider returns the region provider backing this heap.
func (h *Heap) Provider() Provider {
	return h.provider
}

// defaultHeap backs the package-level convenience functions below. It is
// created lazily on first use by Init/Allocate/etc., mirroring the
// teacher's GlobalAllocator/GlobalRuntime pattern — one shared instance
// instead of a value every caller must thread through.
var defaultHeap *Heap

// Init (re-)creates the package-level default heap, discarding any
// previous one. Status mirrors the spec's int return: nil on success.
func Init() error {
	h, err := NewHeap()
	if err != nil {
		return err
	}

	defaultHeap = h

	return nil
}

func ensureDefaultHeap() *Heap {
	if defaultHeap == nil {
		// Lazily self-initializing on first use matches mm_malloc/mm_free's
		// own "if (heap_listp == 0) mm_init()" guard in the original source.
		if err := Init(); err != nil {
			panic(err)
		}
	}

	return defaultHeap
}

// Allocate services size bytes against the package-level default heap.
func Allocate(size uintptr) uintptr {
	return ensureDefaultHeap().Allocate(size)
}

// Release returns b to the package-level default heap.
func Release(b uintptr) {
	ensureDefaultHeap().Release(b)
}

// Resize resizes b against the package-level default heap.
func Resize(b uintptr, newSize uintptr) uintptr {
	return ensureDefaultHeap().Resize(b, newSize)
}

// ZeroAllocate allocates and clears nmemb*size bytes against the
// package-level default heap.
func ZeroAllocate(nmemb, size uintptr) uintptr {
	return ensureDefaultHeap().ZeroAllocate(nmemb, size)
}

// Check runs the consistency checker against the package-level default
// heap.
func Check(verbose bool) (bool, []string) {
	return ensureDefaultHeap().Check(verbose)
}
