//go:build linux

package limiter

import "golang.org/x/sys/unix"

const affinitySupported = true

// setAffinity restricts scheduling of the calling process to the given
// cores. Child processes started afterwards inherit the mask.
func setAffinity(cores []int) error {
	var set unix.CPUSet
	for _, core := range cores {
		set.Set(core)
	}
	return unix.SchedSetaffinity(0, &set)
}
