//go:build !linux && !windows

package platform

// heapRegions has no enumeration primitive on this target. macOS would
// need the mach_vm_region_recurse family of calls, which has no binding in
// this module's dependency set; per Open Question ii this is left as a
// reference design rather than a contract. The caller treats
// ErrUnsupported exactly like an empty list (spec.md §7, error taxonomy
// item 4): the heaps root class is silently skipped.
func heapRegions() ([]Region, error) {
	return nil, ErrUnsupported
}
