//go:build windows

package platform

import (
	"debug/pe"
	"os"

	"golang.org/x/sys/windows"
)

// dataSection and bssSection mirror _gc_win32_get_data_section, walking
// the PE section table of the running image instead of the raw
// IMAGE_NT_HEADERS traversal the C source performs by hand. Go's linker
// does not always emit a distinct .bss section (zero-initialized data may
// be folded into .data), so a missing section is reported as
// ErrUnsupported rather than an empty region — callers treat the two the
// same way (class skipped for the cycle).
func dataSection() (Region, error) {
	return peSection(".data")
}

func bssSection() (Region, error) {
	return peSection(".bss")
}

func peSection(name string) (Region, error) {
	exe, err := os.Executable()
	if err != nil {
		return Region{}, ErrUnsupported
	}
	f, err := pe.Open(exe)
	if err != nil {
		return Region{}, ErrUnsupported
	}
	defer f.Close()

	sec := f.Section(name)
	if sec == nil {
		return Region{}, ErrUnsupported
	}
	// VirtualAddress is relative to the image's load address, which the
	// running module's handle gives.
	var module windows.Handle
	if err := windows.GetModuleHandleEx(0, nil, &module); err != nil {
		return Region{}, ErrUnsupported
	}
	start := uintptr(module) + uintptr(sec.VirtualAddress)
	return Region{Start: start, End: start + uintptr(sec.VirtualSize)}, nil
}
