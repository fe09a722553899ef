// Package markgc implements a conservative, stop-the-world, mark-and-sweep
// garbage collector for memory the host obtains outside Go's own managed
// heap (see internal/platform.RawAlloc). It is linked into a host program
// exactly as spec.md describes: the host calls Alloc/Resize/Free in place
// of a raw allocator, and Collect reclaims whatever the configured root
// classes cannot reach.
//
// Reachability is conservative: any machine word in an enabled root range
// whose bit pattern equals a tracked allocation's base address is treated
// as a live reference, regardless of what that word actually holds. This
// needs no type information and no write barriers, at the cost of
// possible false retention — the central trade-off spec.md §1 describes.
package markgc

import (
	"unsafe"

	"github.com/markgc/markgc/internal/mark"
	"github.com/markgc/markgc/internal/platform"
	"github.com/markgc/markgc/internal/registry"
	"github.com/markgc/markgc/internal/roots"
	"github.com/markgc/markgc/internal/sweep"
)

// collectorSelfTag marks a Collector's own memory so a heap scan that
// happens to traverse it (Collector is an ordinary Go heap object, and
// Go's own heap is itself one of the writable anonymous regions
// HeapRegions reports) does not misread its reg/stackBase/allocations
// fields as pointer candidates. This is the Go analogue of gc_state's
// _tag field in the C source.
var collectorSelfTag = [16]byte{'_', '_', 'm', 'g', 'c', '_', 's', 't', 'a', 't', 'e', '_', '_', 0, 0, 0}

// Collector is the collector's state handle, returned by New. It is not
// safe for concurrent use: spec.md's concurrency model is single-threaded
// and cooperative, and Collector enforces nothing beyond that
// expectation, the same way the teacher's Runtime documents (without
// locking) that it is not meant to be driven from multiple goroutines at
// once for a single instance.
type Collector struct {
	tag [16]byte

	reg         registry.Registry
	stackBase   uintptr
	rootFlags   roots.Flags
	threshold   uint
	allocations uint
	closed      bool

	skipTags []mark.SkipTag
}

// New initializes a collector's state: it captures the stack base and
// scan flags for the calling goroutine's OS thread and returns a handle to
// it (spec.md §6, "init").
//
// New should be called from a goroutine that will keep driving this
// Collector for its whole lifetime, ideally one locked to its OS thread
// with runtime.LockOSThread: spec.md's stack-base discovery assumes a
// stable OS thread stack, which an unlocked goroutine migrating between
// OS threads would violate.
func New(config *CollectorConfig) (*Collector, error) {
	if config == nil {
		config = NewCollectorConfig()
	}

	base, err := platform.StackBase()
	if err != nil {
		return nil, err
	}

	c := &Collector{
		tag:       collectorSelfTag,
		stackBase: base,
		rootFlags: config.rootFlags,
		threshold: config.threshold,
	}
	c.skipTags = []mark.SkipTag{
		mark.EntrySkipTag,
		{Pattern: collectorSelfTag[:], Stride: unsafe.Sizeof(Collector{})},
	}
	return c, nil
}

// Close releases every still-tracked allocation and marks the collector as
// torn down (spec.md §6, "teardown"). Further calls to Alloc or Resize
// return ErrClosed; further calls to Free or Collect do nothing.
func (c *Collector) Close() error {
	if c.closed {
		return nil
	}
	e := c.reg.Head
	for e != nil {
		next := e.Next
		c.reg.Remove(e)
		_ = platform.RawFree(e.Base, e.Size)
		e = next
	}
	c.reg.Head = nil
	c.closed = true
	return nil
}

// Alloc acquires size bytes from the underlying raw allocator, zeroing
// them if zero is set, records a registry entry for the result, and
// triggers a collection once the allocation counter crosses a multiple of
// the configured threshold (spec.md §4.C).
func (c *Collector) Alloc(size uintptr, zero bool) (unsafe.Pointer, error) {
	if c.closed {
		return nil, ErrClosed
	}

	addr, err := platform.RawAlloc(size, zero)
	if err != nil {
		return nil, ErrOutOfMemory
	}

	c.reg.Insert(addr, size)
	c.allocations++

	if c.threshold > 0 && c.allocations%c.threshold == 0 {
		c.Collect()
	}

	return unsafe.Pointer(addr), nil
}

// Resize changes the size of a previously allocated block (spec.md §4.C).
// A nil old behaves like Alloc(size, false); a zero size behaves like
// Free(old); otherwise the address must already be tracked, or
// ErrUnknownAddress is returned (spec.md's Open Question (i), resolved in
// favor of a returned error).
func (c *Collector) Resize(old unsafe.Pointer, size uintptr) (unsafe.Pointer, error) {
	if c.closed {
		return nil, ErrClosed
	}
	if old == nil {
		return c.Alloc(size, false)
	}
	if size == 0 {
		c.Free(old)
		return nil, nil
	}

	e := c.reg.Find(uintptr(old))
	if e == nil {
		return nil, ErrUnknownAddress
	}

	newAddr, err := platform.RawResize(e.Base, e.Size, size)
	if err != nil {
		return nil, ErrOutOfMemory
	}

	e.Base = newAddr
	e.Size = size
	return unsafe.Pointer(newAddr), nil
}

// Free releases a tracked allocation immediately. Freeing an address that
// is not tracked (including nil) is a no-op (spec.md §4.C, §8 property 6).
func (c *Collector) Free(old unsafe.Pointer) {
	if c.closed || old == nil {
		return
	}
	e := c.reg.Find(uintptr(old))
	if e == nil {
		return
	}
	c.reg.Remove(e)
	_ = platform.RawFree(e.Base, e.Size)
}

// Collect runs one mark-and-sweep cycle. It must be called directly by the
// host — never through an intermediate wrapper function — because the
// register capture inside it can only see the registers still live in its
// immediate caller's frame (spec.md §4.A, §5 "Register snapshot
// placement"). Go has no macro facility to force this call to be inlined
// at every call site the way the C source's gc_collect does, so Collect
// instead performs both steps (capture, then collect) itself in one call,
// the two-primitive fallback spec.md's design notes describe for
// languages without macros.
//
// noinline keeps this from being folded into its caller, which would
// change whose frame CaptureRegisters sees; nosplit keeps the runtime
// from growing or copying this goroutine's stack (and thereby relocating
// everything CaptureRegisters is about to read) before that capture runs.
//
//go:noinline
//go:nosplit
func (c *Collector) Collect() {
	if c.closed {
		return
	}

	var snap platform.RegisterSnapshot
	platform.CaptureRegisters(&snap)

	c.collect(&snap)
}

// collect is the internal routine the C source calls _gc_collect: it
// assumes the register snapshot has already been taken in the caller's
// frame.
func (c *Collector) collect(snap *platform.RegisterSnapshot) {
	c.reg.ClearMarks()

	if c.rootFlags.Has(roots.Registers) {
		mark.PreMarkRegisters(&c.reg, snap, c.skipTags)
	}

	rs := roots.Enumerate(c.rootFlags, c.stackBase, snap)

	if c.rootFlags.Has(roots.Stack) && rs.Stack.Len() > 0 {
		mark.Region(&c.reg, rs.Stack.Start, rs.Stack.End, nil)
	}
	if c.rootFlags.Has(roots.Data) && rs.Data.Len() > 0 {
		mark.Region(&c.reg, rs.Data.Start, rs.Data.End, nil)
	}
	if c.rootFlags.Has(roots.BSS) && rs.BSS.Len() > 0 {
		mark.Region(&c.reg, rs.BSS.Start, rs.BSS.End, nil)
	}
	if c.rootFlags.Has(roots.Heaps) {
		for _, h := range rs.Heaps {
			mark.Region(&c.reg, h.Start, h.End, c.skipTags)
		}
	}

	sweep.Run(&c.reg, platform.RawFree)
}

// Stats reports the number of allocations observed since New, and the
// number currently tracked (i.e. surviving the most recent sweep, or never
// yet swept). It exists purely for diagnostics and tests; it is not part
// of the reachability algorithm.
type Stats struct {
	Allocations uint
	Tracked     int
}

// Stats returns a snapshot of the collector's bookkeeping counters.
func (c *Collector) Stats() Stats {
	return Stats{Allocations: c.allocations, Tracked: c.reg.Len()}
}
