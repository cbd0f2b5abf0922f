//go:build !linux

package limiter

import "errors"

const affinitySupported = false

func setAffinity(cores []int) error {
	return errors.New("setting CPU affinity is not supported on this platform")
}
