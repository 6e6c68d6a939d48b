// Released under an MIT license. See LICENSE.

//go:build aix || darwin || dragonfly || freebsd || linux || netbsd || openbsd || solaris
// +build aix darwin dragonfly freebsd linux netbsd openbsd solaris

package process

import (
	"time"

	"golang.org/x/sys/unix"
)

//nolint:gochecknoglobals
var (
	Platform = "unix"

	id = unix.Getpid()
)

// CPUTime returns the user and system CPU time consumed by this process.
func CPUTime() (time.Duration, error) {
	var ru unix.Rusage

	if err := unix.Getrusage(unix.RUSAGE_SELF, &ru); err != nil {
		return 0, err
	}

	return duration(ru.Utime) + duration(ru.Stime), nil
}

// ID returns the process ID for the current process.
func ID() int {
	return id
}

func duration(tv unix.Timeval) time.Duration {
	return time.Duration(tv.Nano())
}
