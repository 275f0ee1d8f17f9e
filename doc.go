// Package segheap implements a segregated-fit, boundary-tag memory
// allocator over a single contiguous, monotonically growable byte region.
//
// It is a drop-in substitute for the classic malloc/free/realloc/calloc
// family: Allocate/Release/Resize/ZeroAllocate hand back aligned,
// exclusively owned byte ranges from a region supplied by a Provider and
// recycle released ranges into future allocations. Metadata (header,
// footer, and free-list links) lives inside the same region as payloads.
//
// The allocator is single-actor: it performs no internal synchronization,
// matching the spec it implements. Callers needing concurrent access must
// serialize their own calls into a *Heap.
package segheap
