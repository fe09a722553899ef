// Package mark implements the conservative transitive mark engine
// (spec.md §4.E): word-at-a-time scanning of a root range, recursing into
// the payload of every newly marked allocation, with self-skip logic so a
// heap scan does not mistake the collector's own bookkeeping for host
// data.
package mark

import (
	"unsafe"

	"github.com/markgc/markgc/internal/platform"
	"github.com/markgc/markgc/internal/registry"
)

const wordSize = platform.WordSize

// SkipTag describes one kind of self-tagged bookkeeping record the mark
// engine must recognize and step over during a heap scan: the registry's
// own Entry records, and the collector's own state record (spec.md §4.E,
// "Self-skip" names both by name). The mark package knows nothing about
// either struct's real layout; the caller supplies the tag bytes and the
// stride to advance by on a match.
type SkipTag struct {
	Pattern []byte
	Stride  uintptr
}

// EntrySkipTag is the SkipTag for registry.Entry records, built once from
// the registry package's exported tag and struct size so every caller
// scans for the same pattern.
var EntrySkipTag = SkipTag{
	Pattern: registry.SelfTag[:],
	Stride:  unsafe.Sizeof(registry.Entry{}),
}

// Region scans [start, end) one word at a time, per spec.md §4.E: ranges
// are scanned up to end-wordSize inclusive, the trailing partial word is
// never examined. tags is non-empty only for heap ranges — stack and
// globals ranges never contain self-tagged bookkeeping records (spec.md
// §4.E, "Self-skip" is disabled for those scans).
func Region(reg *registry.Registry, start, end uintptr, tags []SkipTag) {
	if end < wordSize {
		return
	}
	limit := end - wordSize
	for p := start; p <= limit; {
		if skip, ok := matchTag(p, end, tags); ok {
			p += skip + wordSize
			continue
		}

		w := *(*uintptr)(unsafe.Pointer(p))
		scanWord(reg, w, p, tags)
		p += wordSize
	}
}

// scanWord checks whether w equals some not-yet-marked entry's base
// address; if so it marks that entry, records the hit address, and
// recurses into its payload exactly once per cycle (cycles are safe
// because an already-marked entry is skipped).
func scanWord(reg *registry.Registry, w uintptr, hitAddr uintptr, tags []SkipTag) {
	for e := reg.Head; e != nil; e = e.Next {
		if e.Base == w && !e.Marked {
			e.Marked = true
			e.RootHit = hitAddr
			if e.Size > 0 {
				Region(reg, e.Base, e.Base+e.Size, tags)
			}
			return
		}
	}
}

// matchTag reports whether some tag's pattern matches the bytes at p
// (without reading past end), and if so the stride to advance by — less
// one word, since Region adds that one word itself on a match.
func matchTag(p, end uintptr, tags []SkipTag) (uintptr, bool) {
	for _, t := range tags {
		n := uintptr(len(t.Pattern))
		if p+n > end {
			continue
		}
		candidate := unsafe.Slice((*byte)(unsafe.Pointer(p)), n)
		match := true
		for i := range candidate {
			if candidate[i] != t.Pattern[i] {
				match = false
				break
			}
		}
		if match {
			return t.Stride - wordSize, true
		}
	}
	return 0, false
}

// PreMarkRegisters implements the "register pre-mark" optimisation: every
// word of the captured register snapshot is compared against every
// unmarked entry's base, before any range scanning begins (spec.md §4.E,
// §5 ordering guarantees). A match is marked with the sentinel
// "in registers" root-hit and, exactly like a match found during a range
// scan, its own payload is then scanned so anything it transitively
// references is traced too — a register is a root like any other, not a
// special case that stops at one hop.
func PreMarkRegisters(reg *registry.Registry, snap *platform.RegisterSnapshot, tags []SkipTag) {
	if snap == nil {
		return
	}
	for _, w := range snap.Words() {
		for e := reg.Head; e != nil; e = e.Next {
			if e.Base == w && !e.Marked {
				e.Marked = true
				e.RootHit = registry.InRegisters
				if e.Size > 0 {
					Region(reg, e.Base, e.Base+e.Size, tags)
				}
				break
			}
		}
	}
}
