//go:build linux

package platform

import (
	"bufio"
	"os"
	"strconv"
	"strings"
)

// heapRegions parses /proc/self/maps exactly as gc_heap_regions does:
// entries that are read, write, and private, and are either named
// "[heap]", unnamed, or an anonymous mapping (a bracketed name containing
// "anon"), are reported as candidate heap regions. This is deliberately
// permissive — it is meant to cover RawAlloc's own mmap'd regions along
// with the process's primary brk-heap, at the cost of also picking up
// unrelated anonymous mappings the mark engine will simply find nothing
// interesting in.
func heapRegions() ([]Region, error) {
	f, err := os.Open("/proc/self/maps")
	if err != nil {
		return nil, ErrUnsupported
	}
	defer f.Close()

	var regions []Region
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		fields := strings.Fields(sc.Text())
		if len(fields) < 2 {
			continue
		}
		perms := fields[1]
		if len(perms) < 4 || perms[0] != 'r' || perms[1] != 'w' || perms[3] != 'p' {
			continue
		}

		name := ""
		if len(fields) >= 6 {
			name = strings.Join(fields[5:], " ")
		}

		isHeap := name == "[heap]" || name == ""
		if !isHeap && strings.HasPrefix(name, "[") && strings.Contains(name, "anon") {
			isHeap = true
		}
		if !isHeap {
			continue
		}

		addrs := strings.SplitN(fields[0], "-", 2)
		if len(addrs) != 2 {
			continue
		}
		start, err := strconv.ParseUint(addrs[0], 16, 64)
		if err != nil {
			continue
		}
		end, err := strconv.ParseUint(addrs[1], 16, 64)
		if err != nil {
			continue
		}
		regions = append(regions, Region{Start: uintptr(start), End: uintptr(end)})
	}
	return regions, nil
}
