// Package registry implements the allocation registry: a doubly-linked
// collection of records describing every block the collector currently
// tracks, keyed by base address (spec.md §4.B).
package registry

// SelfTag is the fixed byte pattern the mark engine looks for at the start
// of every Entry so it can recognize and skip the registry's own
// bookkeeping when a heap scan happens to traverse it (spec.md §3,
// invariant 5). It deliberately spells out a phrase unlikely to occur by
// chance in ordinary host data, the same role GC_TAG_ENTRY plays in the
// C source this package replaces.
var SelfTag = [16]byte{'_', '_', 'm', 'g', 'c', '_', 'e', 'n', 't', 'r', 'y', '_', '_', 0, 0, 0}

// InRegisters is the sentinel RootHit value meaning "this entry's base was
// observed in the captured register snapshot" rather than at a byte
// address inside a scanned range.
const InRegisters = ^uintptr(0)

// Entry is one tracked allocation record.
type Entry struct {
	tag     [16]byte // must stay first: self-skip compares bytes at offset 0.
	Base    uintptr
	Size    uintptr
	Marked  bool
	RootHit uintptr // 0 = absent, InRegisters = sentinel, else a byte address.
	Prev    *Entry
	Next    *Entry
}

// newEntry returns an Entry with its self-tag already stamped.
func newEntry(base, size uintptr) *Entry {
	return &Entry{tag: SelfTag, Base: base, Size: size}
}

// HasTag reports whether e carries the registry's self-tag, the check the
// mark engine performs before treating a heap word as a plain pointer
// candidate.
func (e *Entry) HasTag() bool {
	return e.tag == SelfTag
}

// Registry is the head of the doubly-linked entry list. Its zero value is
// an empty registry.
type Registry struct {
	Head *Entry
	n    int
}

// Insert prepends a new record for (base, size) to the registry and
// returns it.
func (r *Registry) Insert(base, size uintptr) *Entry {
	e := newEntry(base, size)
	e.Next = r.Head
	if r.Head != nil {
		r.Head.Prev = e
	}
	r.Head = e
	r.n++
	return e
}

// Remove unlinks e from the registry. It does not release e's payload;
// callers (the allocator façade, the sweep engine) are responsible for
// that.
func (r *Registry) Remove(e *Entry) {
	if e.Prev != nil {
		e.Prev.Next = e.Next
	} else {
		r.Head = e.Next
	}
	if e.Next != nil {
		e.Next.Prev = e.Prev
	}
	e.Prev, e.Next = nil, nil
	r.n--
}

// Find performs the linear search spec.md §4.B specifies for locating the
// record for a given base address.
func (r *Registry) Find(base uintptr) *Entry {
	for e := r.Head; e != nil; e = e.Next {
		if e.Base == base {
			return e
		}
	}
	return nil
}

// ClearMarks resets every record's Marked flag and RootHit, the step that
// must complete before any root is scanned (spec.md §5, ordering
// guarantees).
func (r *Registry) ClearMarks() {
	for e := r.Head; e != nil; e = e.Next {
		e.Marked = false
		e.RootHit = 0
	}
}

// Len returns the number of tracked entries.
func (r *Registry) Len() int {
	return r.n
}
