//go:build amd64

package platform

// amd64RegisterWords is the count of callee-saved integer registers
// captureRegistersAsm writes, not including the stack pointer (returned
// separately since arm64 keeps SP out of its general-purpose file too).
const amd64RegisterWords = 6

//go:noescape
func captureRegistersAsm(words *[maxRegisterWords]uintptr) uintptr

// captureRegisters is the Go-side half of the primitive spec.md §4.A
// requires be "inlined at the call site". It is called only by
// CaptureRegisters, which Collector.Collect calls directly;
// captureRegistersAsm records the registers as they stand on entry to it,
// after those calls.
func captureRegisters(snap *RegisterSnapshot) {
	sp := captureRegistersAsm(&snap.words)
	snap.n = amd64RegisterWords
	snap.sp = sp
}
