package markgc

import (
	"testing"
	"unsafe"

	"github.com/stretchr/testify/require"

	"github.com/markgc/markgc/internal/platform"
	"github.com/markgc/markgc/internal/roots"
)

func newTestCollector(t *testing.T) *Collector {
	t.Helper()
	c, err := New(NewCollectorConfig().WithRootFlags(roots.Registers).WithThreshold(0))
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })
	return c
}

// snapOf builds a register snapshot whose word list is exactly the given
// addresses, so a test can drive collect deterministically instead of
// hoping a value happens to still be sitting in a real register or on the
// goroutine's stack when Collect captures it.
func snapOf(addrs ...unsafe.Pointer) *platform.RegisterSnapshot {
	words := make([]uintptr, len(addrs))
	for i, a := range addrs {
		words[i] = uintptr(a)
	}
	return platform.NewRegisterSnapshotForTest(words, 0)
}

// Property 1: an object reachable from an enabled root at the moment collect runs
// must survive the cycle.
func TestRetentionUnderReachability(t *testing.T) {
	c := newTestCollector(t)

	p, err := c.Alloc(32, false)
	require.NoError(t, err)

	c.collect(snapOf(p))

	require.Equal(t, 1, c.Stats().Tracked)
}

// Property 2: an object with no reachable reference from any enabled root must be
// reclaimed by the next cycle.
func TestReclamationOfUnreachable(t *testing.T) {
	c := newTestCollector(t)

	_, err := c.Alloc(64, false)
	require.NoError(t, err)

	c.collect(snapOf()) // no roots at all

	require.Equal(t, 0, c.Stats().Tracked)
}

// Property 3: a reference cycle between two heap-scanned allocations must not
// confuse the mark engine into infinite recursion, and transitive
// reachability through the cycle keeps both sides alive even though only
// one of them is directly rooted.
func TestCycleSafety(t *testing.T) {
	c, err := New(NewCollectorConfig().WithRootFlags(roots.Registers | roots.Heaps).WithThreshold(0))
	require.NoError(t, err)
	defer c.Close()

	a, err := c.Alloc(unsafe.Sizeof(uintptr(0)), true)
	require.NoError(t, err)
	b, err := c.Alloc(unsafe.Sizeof(uintptr(0)), true)
	require.NoError(t, err)

	*(*uintptr)(a) = uintptr(b)
	*(*uintptr)(b) = uintptr(a)

	c.collect(snapOf(a)) // only a is rooted directly

	require.Equal(t, 2, c.Stats().Tracked, "b must survive transitively through the a<->b cycle")
}

// Property 4: this collector never relocates memory; an address returned by Alloc
// remains valid and unchanged across any number of collection cycles that
// keep it reachable.
func TestAddressStability(t *testing.T) {
	c := newTestCollector(t)

	p, err := c.Alloc(16, false)
	require.NoError(t, err)

	c.collect(snapOf(p))
	c.collect(snapOf(p))

	require.Equal(t, 1, c.Stats().Tracked)
	*(*byte)(p) = 0x42
	require.Equal(t, byte(0x42), *(*byte)(p))
}

// Freeing an address twice, or freeing nil, is a no-op rather than an
// error or a double-release of the underlying mapping.
func TestFreeIsIdempotent(t *testing.T) {
	c := newTestCollector(t)

	p, err := c.Alloc(16, false)
	require.NoError(t, err)

	c.Free(p)
	require.NotPanics(t, func() { c.Free(p) })
	require.NotPanics(t, func() { c.Free(nil) })
	require.Equal(t, 0, c.Stats().Tracked)
}

// Crossing the configured threshold must trigger a collection from inside
// Alloc itself, with no explicit Collect call from the host. Collect's
// register capture can only ever see its true caller's frame (Alloc's, in
// this path), so the trigger necessarily runs with whatever was live in
// Alloc's own registers and stack — it is exercised here only for the
// counter bookkeeping, not for reachability.
func TestThresholdTriggersAutomaticCollection(t *testing.T) {
	c, err := New(NewCollectorConfig().WithThreshold(4))
	require.NoError(t, err)
	defer c.Close()

	for i := 0; i < 4; i++ {
		_, err := c.Alloc(32, false)
		require.NoError(t, err)
	}

	require.Equal(t, uint(4), c.Stats().Allocations)
}

// Resize's three documented special cases: nil behaves like Alloc, a zero
// size behaves like Free, and resizing an address the registry has never
// seen returns ErrUnknownAddress instead of silently allocating.
func TestResizeSpecialCases(t *testing.T) {
	c := newTestCollector(t)

	p, err := c.Resize(nil, 16)
	require.NoError(t, err)
	require.NotNil(t, p)
	require.Equal(t, 1, c.Stats().Tracked)

	p2, err := c.Resize(p, 0)
	require.NoError(t, err)
	require.Nil(t, p2)
	require.Equal(t, 0, c.Stats().Tracked)

	var bogus byte
	_, err = c.Resize(unsafe.Pointer(&bogus), 8)
	require.ErrorIs(t, err, ErrUnknownAddress)
}

func TestResizeGrowPreservesContents(t *testing.T) {
	c := newTestCollector(t)

	p, err := c.Alloc(8, true)
	require.NoError(t, err)
	*(*byte)(p) = 0x7

	grown, err := c.Resize(p, 64)
	require.NoError(t, err)
	require.Equal(t, byte(0x7), *(*byte)(grown))
	require.Equal(t, 1, c.Stats().Tracked)
}

// Alloc and Resize after Close report ErrClosed rather than touching freed
// memory or a torn-down registry.
func TestOperationsAfterCloseAreRejected(t *testing.T) {
	c, err := New(nil)
	require.NoError(t, err)

	_, err = c.Alloc(16, false)
	require.NoError(t, err)
	require.NoError(t, c.Close())

	_, err = c.Alloc(16, false)
	require.ErrorIs(t, err, ErrClosed)

	_, err = c.Resize(nil, 16)
	require.ErrorIs(t, err, ErrClosed)

	require.NoError(t, c.Close(), "Close is itself idempotent")
}

// Root classes are gated strictly by configuration: disabling Registers
// entirely must stop even a directly-rooted address from surviving,
// since collect's only other root source here is the Data scan, and the
// address is held in no initialized global.
func TestDisabledRootClassIsNotScanned(t *testing.T) {
	c, err := New(NewCollectorConfig().WithRootFlags(roots.Data).WithThreshold(0))
	require.NoError(t, err)
	defer c.Close()

	p, err := c.Alloc(16, false)
	require.NoError(t, err)

	c.collect(snapOf(p))

	require.Equal(t, 0, c.Stats().Tracked, "Registers was never enabled, so the snapshot must not be consulted")
}

// New captures a stack base once and never again; Collect must still
// accept zero live registers (an empty cycle) without error.
func TestCollectOnEmptyRegistry(t *testing.T) {
	c := newTestCollector(t)
	require.NotPanics(t, func() { c.collect(snapOf()) })
	require.Equal(t, 0, c.Stats().Tracked)
}

// S6 in the reference C source is a setjmp/longjmp rewind of the stack;
// Go's nearest equivalent is a deferred recover unwinding several frames.
// A collection driven from the recovering frame must behave exactly like
// one driven from any other call site — nothing about having just
// unwound through panic makes a reachable address special.
func TestCollectFromRecoveringFrame(t *testing.T) {
	c := newTestCollector(t)

	var p unsafe.Pointer
	func() {
		defer func() {
			require.Equal(t, "boom", recover())
		}()

		var err error
		p, err = c.Alloc(16, false)
		require.NoError(t, err)
		panic("boom")
	}()

	c.collect(snapOf(p))
	require.Equal(t, 1, c.Stats().Tracked)
}

// endToEndRoot is a package-level global exercised by
// TestEndToEndCollectRealRegisterCapture and
// TestEndToEndCollectRealReclamation below: a pointer stored here lives in
// the running binary's real .data/.bss segment, which is exactly the
// memory DataSection/BSSSection locate by parsing the executable's own
// section headers (spec.md §4.A). Go test binaries on linux/amd64 are
// built non-PIE, so those header-reported addresses are the true runtime
// addresses with no load-time slide to account for.
var endToEndRoot unsafe.Pointer

// TestEndToEndCollectRealRegisterCapture is the one test in this package
// that exercises spec.md's "hard engineering" path for real end to end:
// a genuine New, a genuine Collect (not the unexported collect helper
// used everywhere else in this file), with the real per-GOARCH assembly
// actually capturing this goroutine's registers and stack pointer, and
// the real globals scanner actually walking the executable's .data/.bss
// sections. The tracked address is held in both a stack local — spec.md
// §8 Scenario S1's own framing, "store base in a stack variable ...
// collect" — and the package-level global above, since the native-OS-
// thread-stack extent StackBase reports does not, in general, coincide
// with a Go goroutine's own heap-allocated stack (Go goroutines are not
// OS threads); the global is what makes this assertion a genuine
// end-to-end check rather than a bet on register allocation.
func TestEndToEndCollectRealRegisterCapture(t *testing.T) {
	c, err := New(NewCollectorConfig().WithThreshold(0))
	require.NoError(t, err)
	defer c.Close()

	p, err := c.Alloc(32, false)
	require.NoError(t, err)

	endToEndRoot = p
	defer func() { endToEndRoot = nil }()

	stackLocal := p

	c.Collect()

	require.Equal(t, 1, c.Stats().Tracked, "a globally- and stack-rooted allocation must survive a real Collect()")
	require.Equal(t, p, stackLocal, "the stack local itself must be untouched by collection")
}

// TestEndToEndCollectRealReclamation is the reclamation half of the same
// real New+Collect path: once the only root (the package-level global) is
// cleared, the next real Collect must reclaim the allocation.
func TestEndToEndCollectRealReclamation(t *testing.T) {
	c, err := New(NewCollectorConfig().WithThreshold(0))
	require.NoError(t, err)
	defer c.Close()

	_, err = c.Alloc(32, false)
	require.NoError(t, err)
	endToEndRoot = nil

	c.Collect()

	require.Equal(t, 0, c.Stats().Tracked)
}
