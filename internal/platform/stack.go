package platform

import "unsafe"

// stackTopFallback returns the address of a local variable in this frame
// as a conservative proxy for the current stack pointer. Stacks grow down,
// and this frame is called from, and so lies below, the frame that wants
// the stack pointer, so the address is at or below (numerically) the top
// of that caller's live stack — scanning from here to stackBase never
// misses a word the caller's stack pointer would have included, it can
// only (harmlessly) include a few extra already-popped words from this
// function's own frame.
//
// This is the fallback the design notes describe for architectures where
// CaptureRegisters does not capture the stack pointer register directly.
func stackTopFallback() uintptr {
	var local byte
	return uintptr(unsafe.Pointer(&local))
}
