// Released under an MIT license. See LICENSE.

//go:build !(aix || darwin || dragonfly || freebsd || linux || netbsd || openbsd || solaris)
// +build !aix,!darwin,!dragonfly,!freebsd,!linux,!netbsd,!openbsd,!solaris

package process

import (
	"os"
	"time"
)

//nolint:gochecknoglobals
var (
	Platform = "other"

	id      = os.Getpid()
	started = time.Now()
)

// CPUTime approximates the CPU time consumed by this process with the
// time elapsed since it started.
func CPUTime() (time.Duration, error) {
	return time.Since(started), nil
}

// ID returns the process ID for the current process.
func ID() int {
	return id
}
