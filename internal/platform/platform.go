// Package platform implements the OS- and architecture-specific primitives
// the collector needs to enumerate roots: the stack extent, the data and
// bss segments of the running image, the writable anonymous memory regions
// of the process, and a snapshot of the calling goroutine's registers.
//
// Every primitive here is best-effort: a platform that cannot supply one is
// expected to report ErrUnsupported rather than panic, so the caller can
// silently drop the corresponding root class (spec §7, error taxonomy items
// 4 and 5).
package platform

import (
	"errors"
	"unsafe"
)

// ErrUnsupported is returned by a primitive that has no implementation for
// the current GOOS/GOARCH. Callers treat it the same as "found nothing".
var ErrUnsupported = errors.New("platform: not supported on this target")

// Region is a half-open byte range [Start, End), aligned by the caller to
// the machine word size before it is handed to the mark engine.
type Region struct {
	Start uintptr
	End   uintptr
}

// Len returns the number of bytes in the region.
func (r Region) Len() uintptr {
	if r.End <= r.Start {
		return 0
	}
	return r.End - r.Start
}

// WordSize is the machine word size used to align and stride every scan.
const WordSize = unsafe.Sizeof(uintptr(0))

// maxRegisterWords upper-bounds the register file across every supported
// architecture (arm64's 10 callee-saved words + sp is the largest at 11); it is
// sized generously so CaptureRegisters never needs to reallocate.
const maxRegisterWords = 32

// RegisterSnapshot holds a dump of the calling goroutine's callee-saved
// integer registers and stack pointer, taken by CaptureRegisters. Its
// layout is architecture-specific; callers only ever walk it word by word
// via Words, never interpret individual fields.
type RegisterSnapshot struct {
	// words holds every captured general-purpose register as plain
	// uintptr-sized slots so the mark engine can treat it like any other
	// root range without knowing the target architecture. The stack
	// pointer is held separately in sp; Words appends it.
	words [maxRegisterWords]uintptr
	n     int
	sp    uintptr
}

// Words returns every word CaptureRegisters populated, plus the captured
// stack pointer appended at the end. The reference source's register
// pre-mark scans arch_regs (which has rsp as a member) as one
// sizeof(arch_regs)-byte block; Words reproduces that by folding sp into
// the same slice instead of leaving it out, so a tracked base address
// that happens to equal the live stack pointer is still found.
func (s *RegisterSnapshot) Words() []uintptr {
	out := make([]uintptr, s.n, s.n+1)
	copy(out, s.words[:s.n])
	return append(out, s.sp)
}

// StackPointer returns the stack pointer value captured in the snapshot,
// used by the root enumerator as the live end of the stack scan.
func (s *RegisterSnapshot) StackPointer() uintptr {
	return s.sp
}

// NewRegisterSnapshotForTest builds a RegisterSnapshot with explicit
// contents, bypassing CaptureRegisters. Production code never needs this —
// it exists so other packages' tests (the mark engine's register pre-mark
// in particular) can exercise snapshot handling deterministically instead
// of depending on whatever happens to be in the real register file.
func NewRegisterSnapshotForTest(words []uintptr, sp uintptr) *RegisterSnapshot {
	s := &RegisterSnapshot{sp: sp}
	s.n = copy(s.words[:], words)
	return s
}
