//go:build !amd64 && !arm64

package platform

// captureRegisters has no assembly implementation on this architecture.
// Per spec.md §7 error taxonomy item 5, the registers root class is
// simply left empty for the cycle; the stack pointer still needs a value,
// so CaptureRegisters, seeing it left zero here, fills it in from
// stackTopFallback.
func captureRegisters(snap *RegisterSnapshot) {
	snap.n = 0
	snap.sp = 0
}
