// Package roots implements the root enumerator: given a flag mask, it
// produces the set of contiguous byte ranges the mark engine must scan for
// one collection cycle (spec.md §4.D).
package roots

import "github.com/markgc/markgc/internal/platform"

// Flags selects which root classes a cycle scans. Bit positions are fixed
// so a saved configuration is portable, per spec.md §6.
type Flags uint8

const (
	Stack     Flags = 1 << 0
	Heaps     Flags = 1 << 1
	Data      Flags = 1 << 2
	BSS       Flags = 1 << 3
	Registers Flags = 1 << 4

	AllGlobals            = Data | BSS
	AllMemory             = Stack | Heaps | Data | BSS
	Everything            = AllMemory | Registers
	AllMemoryExceptHeaps  = AllMemory &^ Heaps
	EverythingExceptHeaps = Everything &^ Heaps
)

// Has reports whether every bit set in want is also set in f.
func (f Flags) Has(want Flags) bool {
	return f&want == want
}

// Snapshot is the full set of ranges and the register buffer produced for
// one cycle.
type Snapshot struct {
	Stack     platform.Region
	Data      platform.Region
	BSS       platform.Region
	Heaps     []platform.Region
	Registers *platform.RegisterSnapshot
}

// maxPlausibleStack bounds how large a [sp, stackBase) range Enumerate
// will ever hand to the mark engine. StackBase is captured once, from the
// OS's view of the calling thread's native stack; the live stack pointer
// a Go goroutine actually runs on can legitimately sit on a separate,
// heap-allocated, growable stack (Go goroutines are not OS threads) at an
// address far from that native stack's extent. Scanning blindly from one
// to the other would walk across whatever unrelated, possibly unmapped,
// memory happens to lie between them, which is that one root class's
// "architecture-correctness" the bug is: better to silently skip the
// class than to fault the process on an implausible range.
const maxPlausibleStack = 256 << 20 // 256 MiB

// Enumerate gates each root class behind flags and fills in whatever the
// platform adapters can supply, silently leaving unsupported or
// unavailable classes empty (spec.md §7, error taxonomy items 4 and 5).
// stackBase is the collector's stored, stable base of the current thread's
// stack (captured once by New); regs is the register snapshot captured
// immediately before this call by the collector's Collect entry point.
func Enumerate(flags Flags, stackBase uintptr, regs *platform.RegisterSnapshot) Snapshot {
	var snap Snapshot
	snap.Registers = regs

	if flags.Has(Stack) {
		top := regs.StackPointer()
		if top != 0 && top <= stackBase && stackBase-top <= maxPlausibleStack {
			snap.Stack = platform.Region{Start: top, End: stackBase}
		}
	}

	if flags.Has(Data) {
		if r, err := platform.DataSection(); err == nil {
			snap.Data = r
		}
	}

	if flags.Has(BSS) {
		if r, err := platform.BSSSection(); err == nil {
			snap.BSS = r
		}
	}

	if flags.Has(Heaps) {
		if regions, err := platform.HeapRegions(); err == nil {
			snap.Heaps = regions
		}
	}

	return snap
}
