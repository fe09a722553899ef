package markgc

import "errors"

// ErrOutOfMemory is returned when the underlying raw allocator cannot
// satisfy an allocate or resize request (spec.md §7, error taxonomy
// items 1-2). The registry is left unchanged.
var ErrOutOfMemory = errors.New("markgc: out of memory")

// ErrUnknownAddress is returned by Resize when asked to resize an address
// the registry has no record for. This resolves spec.md's Open Question
// (i) in favor of a returned error over a hard abort, matching the
// convention every other failure surface in this package already uses.
var ErrUnknownAddress = errors.New("markgc: address is not tracked")

// ErrClosed is returned by Alloc and Resize once Close has torn down the
// collector's state. Free and Collect return no error; after Close they do
// nothing.
var ErrClosed = errors.New("markgc: collector is closed")
