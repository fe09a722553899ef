package roots

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/markgc/markgc/internal/platform"
)

func TestFlagsHas(t *testing.T) {
	f := Stack | Registers

	require.True(t, f.Has(Stack))
	require.True(t, f.Has(Registers))
	require.True(t, f.Has(Stack|Registers))
	require.False(t, f.Has(Heaps))
	require.False(t, f.Has(Stack|Heaps))
}

func TestStockCombinations(t *testing.T) {
	require.Equal(t, Data|BSS, AllGlobals)
	require.Equal(t, Stack|Heaps|Data|BSS, AllMemory)
	require.Equal(t, AllMemory|Registers, Everything)
	require.Equal(t, AllMemory&^Heaps, AllMemoryExceptHeaps)
	require.Equal(t, Everything&^Heaps, EverythingExceptHeaps)

	require.False(t, AllMemoryExceptHeaps.Has(Heaps))
	require.False(t, EverythingExceptHeaps.Has(Heaps))
	require.True(t, EverythingExceptHeaps.Has(Registers))
}

func TestEnumerateGatesByFlag(t *testing.T) {
	regs := platform.NewRegisterSnapshotForTest(nil, 0x1000)

	// Stack bit unset: no stack range, even though a valid snapshot exists.
	snap := Enumerate(Heaps, 0x2000, regs)
	require.Zero(t, snap.Stack)

	// Stack bit set: range runs from the captured SP up to stackBase.
	snap = Enumerate(Stack, 0x2000, regs)
	require.Equal(t, uintptr(0x1000), snap.Stack.Start)
	require.Equal(t, uintptr(0x2000), snap.Stack.End)
}

func TestEnumerateRejectsInvertedStackRange(t *testing.T) {
	// A stack pointer above the recorded base would invert the range;
	// Enumerate must leave Stack zero rather than hand back a bogus one.
	regs := platform.NewRegisterSnapshotForTest(nil, 0x3000)

	snap := Enumerate(Stack, 0x2000, regs)
	require.Zero(t, snap.Stack)
}

func TestEnumerateRejectsImplausiblyDistantStackRange(t *testing.T) {
	// A Go goroutine's real stack pointer can sit on a heap-allocated
	// stack far from the native OS thread stack StackBase reports; such a
	// range must be rejected rather than handed to the mark engine to
	// scan across whatever unmapped memory lies in between.
	regs := platform.NewRegisterSnapshotForTest(nil, 0x1000)

	snap := Enumerate(Stack, 0x1000+maxPlausibleStack+1, regs)
	require.Zero(t, snap.Stack)
}

func TestEnumerateAcceptsStackRangeAtThePlausibilityLimit(t *testing.T) {
	regs := platform.NewRegisterSnapshotForTest(nil, 0x1000)

	snap := Enumerate(Stack, 0x1000+maxPlausibleStack, regs)
	require.Equal(t, uintptr(0x1000), snap.Stack.Start)
}

func TestEnumerateAlwaysCarriesRegisters(t *testing.T) {
	regs := platform.NewRegisterSnapshotForTest([]uintptr{1, 2, 3}, 0x10)

	snap := Enumerate(Data, 0, regs)
	require.Same(t, regs, snap.Registers)
}
