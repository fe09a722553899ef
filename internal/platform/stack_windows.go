//go:build windows

package platform

import (
	"unsafe"

	"golang.org/x/sys/windows"
)

// stackBase walks the virtual memory region containing the current stack
// pointer's fallback proxy and returns its high address. Windows commits
// the thread's stack progressively downward from its top, so the run of
// committed pages starting at the queried page (its BaseAddress plus
// RegionSize) ends at the stack's high end, mirroring the Win32
// VirtualQuery-based approach the C source's untested Windows branch takes
// for heap discovery.
func stackBase() (uintptr, error) {
	addr := stackTopFallback()

	var mbi windows.MemoryBasicInformation
	err := windows.VirtualQuery(addr, &mbi, unsafe.Sizeof(mbi))
	if err != nil {
		return stackTopFallback(), nil
	}
	return uintptr(mbi.BaseAddress) + uintptr(mbi.RegionSize), nil
}
