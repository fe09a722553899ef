//go:build darwin

package platform

import (
	"debug/macho"
	"os"
)

// dataSection and bssSection mirror _gc_macos_get_data_section: they
// locate the __DATA,__data and __DATA,__bss sections of the running
// image via the same debug-information mechanism the C source reaches
// through mach-o/getsect.h, without a cgo dependency.
func dataSection() (Region, error) {
	return machoSection("__data")
}

func bssSection() (Region, error) {
	return machoSection("__bss")
}

func machoSection(name string) (Region, error) {
	exe, err := os.Executable()
	if err != nil {
		return Region{}, ErrUnsupported
	}
	f, err := macho.Open(exe)
	if err != nil {
		return Region{}, ErrUnsupported
	}
	defer f.Close()

	sec := f.Section(name)
	if sec == nil {
		return Region{}, ErrUnsupported
	}
	return Region{Start: uintptr(sec.Addr), End: uintptr(sec.Addr + sec.Size)}, nil
}
