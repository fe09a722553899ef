package platform

// StackBase returns the high-address end of a native stack (stacks grow
// down), queried fresh on every call. On Linux it is the end of the
// process's "[stack]" mapping in /proc/self/maps, which is the initial
// thread's stack whichever OS thread the caller runs on; on Windows it is
// the end of the committed region containing the current frame, found with
// VirtualQuery. Where neither is available it returns the address of a
// local variable in the current frame (stackTopFallback); no backtrace walk
// is performed.
//
// Go goroutines are not OS threads and their stacks move and resize as
// they grow, which the C source's pthread-based stack never does, so the
// value returned need not bound the calling goroutine's own stack.
func StackBase() (uintptr, error) {
	return stackBase()
}

// DataSection returns the [start, end) extent of the running image's
// initialized-globals segment.
func DataSection() (Region, error) {
	return dataSection()
}

// BSSSection returns the [start, end) extent of the running image's
// zero-initialized-globals segment.
func BSSSection() (Region, error) {
	return bssSection()
}

// HeapRegions returns the writable, private, anonymous memory regions
// currently mapped into the process, sufficient to cover any auxiliary
// heap obtained through RawAlloc. Returns ErrUnsupported where the
// platform offers no enumeration primitive; callers treat that exactly
// like an empty list.
func HeapRegions() ([]Region, error) {
	return heapRegions()
}

// CaptureRegisters writes the calling goroutine's callee-saved integer
// registers and stack pointer into snap. It must be called directly by the
// function that is about to start a collection cycle, never through an
// intermediate helper, or the registers it captures will already have been
// overwritten by the call itself (see package markgc's Collect). If the
// architecture-specific capture leaves the stack pointer zero, it is set to
// stackTopFallback's result.
func CaptureRegisters(snap *RegisterSnapshot) {
	captureRegisters(snap)
	if snap.sp == 0 {
		snap.sp = stackTopFallback()
	}
}

// RawAlloc obtains size bytes directly from the operating system, bypassing
// Go's own allocator, so the returned address can legitimately appear
// inside one of the ranges HeapRegions reports. zero requests a
// zero-filled mapping (true for every platform's anonymous mapping, but
// RawAlloc still zeroes explicitly so the guarantee does not depend on
// that incidental fact).
func RawAlloc(size uintptr, zero bool) (uintptr, error) {
	return rawAlloc(size, zero)
}

// RawResize grows or shrinks a region previously returned by RawAlloc,
// preserving the overlap of the old and new contents, and returns its
// (possibly new) address.
func RawResize(addr, oldSize, newSize uintptr) (uintptr, error) {
	return rawResize(addr, oldSize, newSize)
}

// RawFree releases a region previously returned by RawAlloc.
func RawFree(addr, size uintptr) error {
	return rawFree(addr, size)
}
