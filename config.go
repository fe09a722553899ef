package markgc

import "github.com/markgc/markgc/internal/roots"

// DefaultThreshold is the number of allocations between automatic
// collections; zero disables automatic collection (spec.md §6,
// "Collector parameters").
const DefaultThreshold = 128

// CollectorConfig controls collector behavior, with NewCollectorConfig as
// the default implementation. This follows the same functional-options-
// plus-clone shape the teacher's RuntimeConfig uses: each With... method
// returns a new, independent config rather than mutating in place.
type CollectorConfig struct {
	rootFlags roots.Flags
	threshold uint
}

// defaultConfig holds every field's default value, copied by clone so
// zero-value CollectorConfig mistakes (e.g. constructing one with &struct{}
// instead of NewCollectorConfig) are easy to spot in review rather than
// silently scanning nothing.
var defaultConfig = &CollectorConfig{
	rootFlags: roots.Stack | roots.AllGlobals | roots.Registers,
	threshold: DefaultThreshold,
}

// NewCollectorConfig returns a CollectorConfig preconfigured with
// everything-except-heaps scanning and the default threshold, matching
// the source's own test-path default (spec.md §9, Open Question iii
// leaves heap scanning opt-in).
func NewCollectorConfig() *CollectorConfig {
	return defaultConfig.clone()
}

// clone ensures all fields are copied even as the struct grows.
func (c *CollectorConfig) clone() *CollectorConfig {
	ret := *c
	return &ret
}

// WithRootFlags sets which root classes a collection cycle scans. Use the
// roots package's bit constants or one of its stock combinations
// (roots.AllMemory, roots.Everything, ...).
func (c *CollectorConfig) WithRootFlags(flags roots.Flags) *CollectorConfig {
	ret := c.clone()
	ret.rootFlags = flags
	return ret
}

// WithThreshold sets the number of allocations between automatic
// collections. Zero disables automatic collection.
func (c *CollectorConfig) WithThreshold(n uint) *CollectorConfig {
	ret := c.clone()
	ret.threshold = n
	return ret
}
