package segheap

// Config controls the tunables of a Heap. Its zero value is never used
// directly; DefaultConfig supplies working defaults and Option values
// adjust them.
type Config struct {
	// RegionCapacity bounds how large the backing region may grow. Go
	// slices move on reallocation, which would violate the 32-bit-offset
	// round-trip invariant the free-list links depend on, so the region
	// reserves this much up front and only ever grows by re-slicing
	// within it.
	RegionCapacity uintptr

	// InitialExtension is the number of bytes requested from the region
	// provider when the heap is initialized; with the default of 512 bytes
	// the resulting free block seeds bucket 5.
	InitialExtension uintptr

	// MinExtension is the minimum number of bytes requested whenever
	// find_fit fails and the heap must grow; allocate(size) still
	// requests max(asize, MinExtension).
	MinExtension uintptr

	// ZeroOnRelease, if set, clears a block's payload before it is
	// returned to the free list. Off by default: the spec does not
	// require it and it costs a pass over the payload on every release.
	ZeroOnRelease bool
}

// Option configures a Config.
type Option func(*Config)

// DefaultConfig returns the configuration used when NewHeap is called
// with no options: a 64MiB region capacity and the spec's 512-byte
// initial/minimum extension.
func DefaultConfig() *Config {
	return &Config{
		RegionCapacity:   64 * 1024 * 1024,
		InitialExtension: 512,
		MinExtension:     512,
		ZeroOnRelease:    false,
	}
}

// WithRegionCapacity overrides the maximum size the region may grow to.
func WithRegionCapacity(capacity uintptr) Option {
	return func(c *Config) { c.RegionCapacity = capacity }
}

// WithInitialExtension overrides the byte count requested when the heap
// is first initialized.
func WithInitialExtension(bytes uintptr) Option {
	return func(c *Config) { c.InitialExtension = bytes }
}

// WithMinExtension overrides the minimum growth requested on a failed fit.
func WithMinExtension(bytes uintptr) Option {
	return func(c *Config) { c.MinExtension = bytes }
}

// WithZeroOnRelease enables clearing a block's payload on release.
func WithZeroOnRelease(enabled bool) Option {
	return func(c *Config) { c.ZeroOnRelease = enabled }
}
