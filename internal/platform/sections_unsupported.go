//go:build !linux && !darwin && !windows

package platform

func dataSection() (Region, error) { return Region{}, ErrUnsupported }
func bssSection() (Region, error)  { return Region{}, ErrUnsupported }
