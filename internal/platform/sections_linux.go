//go:build linux

package platform

import "debug/elf"

// dataSection and bssSection take the image-header path spec.md §4.A
// describes for systems without importable linker symbols: open the
// running executable and locate the named section in the first (only, for
// a statically-linked Go binary) loaded image.
//
// Section addresses recorded in the ELF headers assume the binary's
// link-time load address; on a position-independent executable the
// process may be relocated by ASLR, and this function does not attempt to
// recover the runtime slide. This mirrors the C source's own macOS and
// Windows branches, which are documented as untested reference designs
// rather than load-bearing contracts (Open Question ii).
func dataSection() (Region, error) {
	return elfSection(".data")
}

func bssSection() (Region, error) {
	return elfSection(".bss")
}

func elfSection(name string) (Region, error) {
	f, err := elf.Open("/proc/self/exe")
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
