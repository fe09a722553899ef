// Package sweep implements the release phase: walk the registry, release
// every entry whose Marked flag is still false, unlink it, and leave
// surviving entries' marks cleared for the next cycle (spec.md §4.F).
package sweep

import "github.com/markgc/markgc/internal/registry"

// Run sweeps reg in place. release is called for each payload being
// reclaimed (ordinarily platform.RawFree) so tests can substitute a stub.
func Run(reg *registry.Registry, release func(addr, size uintptr) error) {
	e := reg.Head
	for e != nil {
		next := e.Next
		if !e.Marked {
			reg.Remove(e)
			_ = release(e.Base, e.Size)
		} else {
			e.Marked = false
			e.RootHit = 0
		}
		e = next
	}
}
