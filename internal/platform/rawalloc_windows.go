//go:build windows

package platform

import (
	"unsafe"

	"golang.org/x/sys/windows"
)

// rawAlloc commits size bytes via VirtualAlloc, bypassing Go's own
// allocator, mirroring rawAlloc's Unix mmap-based counterpart.
func rawAlloc(size uintptr, zero bool) (uintptr, error) {
	if size == 0 {
		size = 1
	}
	addr, err := windows.VirtualAlloc(0, size, windows.MEM_COMMIT|windows.MEM_RESERVE, windows.PAGE_READWRITE)
	if err != nil {
		return 0, err
	}
	// VirtualAlloc-committed pages are zero-filled by the OS; the explicit
	// pass below only matters if a future implementation recycles pages.
	if zero {
		b := unsafe.Slice((*byte)(unsafe.Pointer(addr)), size)
		for i := range b {
			b[i] = 0
		}
	}
	return addr, nil
}

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

func rawFree(addr, size uintptr) error {
	return windows.VirtualFree(addr, 0, windows.MEM_RELEASE)
}
