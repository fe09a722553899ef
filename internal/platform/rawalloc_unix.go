//go:build linux || darwin

package platform

import (
	"unsafe"

	"golang.org/x/sys/unix"
)

// rawAlloc obtains size bytes via an anonymous, private mmap, bypassing
// Go's own allocator entirely so the returned address legitimately shows
// up in HeapRegions and is never relocated or reclaimed by Go's own GC.
func rawAlloc(size uintptr, zero bool) (uintptr, error) {
	if size == 0 {
		size = 1
	}
	b, err := unix.Mmap(-1, 0, int(size), unix.PROT_READ|unix.PROT_WRITE, unix.MAP_PRIVATE|unix.MAP_ANON)
	if err != nil {
		return 0, err
	}
	// mmap'd anonymous pages are already zero-filled by the kernel; the
	// explicit zero here only matters if a future implementation recycles
	// pages instead of always requesting fresh ones from the kernel.
	if zero {
		for i := range b {
			b[i] = 0
		}
	}
	return uintptr(unsafe.Pointer(&b[0])), nil
}

// rawResize mmaps a fresh region, copies over the overlap of the old and
// new sizes, and releases the old one. Plain mmap/munmap has no portable
// in-place grow primitive across Linux and Darwin, so this never resizes
// in place — callers (Collector.Resize) already expect resize to return a
// possibly-different address.
func rawResize(addr, oldSize, newSize uintptr) (uintptr, error) {
	newAddr, err := rawAlloc(newSize, false)
	if err != nil {
		return 0, err
	}

	n := oldSize
	if newSize < n {
		n = newSize
	}
	if n > 0 {
		src := unsafe.Slice((*byte)(unsafe.Pointer(addr)), n)
		dst := unsafe.Slice((*byte)(unsafe.Pointer(newAddr)), n)
		copy(dst, src)
	}

	_ = rawFree(addr, oldSize)
	return newAddr, nil
}

// rawFree releases a region previously returned by rawAlloc.
func rawFree(addr, size uintptr) error {
	if size == 0 {
		size = 1
	}
	b := unsafe.Slice((*byte)(unsafe.Pointer(addr)), size)
	return unix.Munmap(b)
}
