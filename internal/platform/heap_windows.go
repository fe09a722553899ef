//go:build windows

package platform

import (
	"unsafe"

	"golang.org/x/sys/windows"
)

// heapRegions mirrors the C source's Windows branch: walk the process's
// address space with VirtualQuery from lpMinimumApplicationAddress to
// lpMaximumApplicationAddress, keeping committed, private pages with some
// form of read-write protection.
func heapRegions() ([]Region, error) {
	var sysInfo windows.SystemInfo
	windows.GetSystemInfo(&sysInfo)

	addr := uintptr(unsafe.Pointer(sysInfo.MinimumApplicationAddress))
	max := uintptr(unsafe.Pointer(sysInfo.MaximumApplicationAddress))

	var regions []Region
	for addr < max {
		var mbi windows.MemoryBasicInformation
		if err := windows.VirtualQuery(addr, &mbi, unsafe.Sizeof(mbi)); err != nil {
			break
		}

		if mbi.State == windows.MEM_COMMIT && mbi.Type == windows.MEM_PRIVATE &&
			(mbi.Protect&(windows.PAGE_READWRITE|windows.PAGE_WRITECOPY|
				windows.PAGE_EXECUTE_READWRITE|windows.PAGE_EXECUTE_WRITECOPY)) != 0 {
			start := uintptr(mbi.BaseAddress)
			regions = append(regions, Region{Start: start, End: start + mbi.RegionSize})
		}

		if mbi.RegionSize == 0 {
			break
		}
		addr += mbi.RegionSize
	}
	return regions, nil
}
