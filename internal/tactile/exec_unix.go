//go:build !windows

package tactile

import "syscall"

// replaceProcess swaps the current process image for argv0. The new process keeps the
// pid, the standard file descriptors and envv.
func replaceProcess(argv0 string, argv []string, envv []string) error {
	return syscall.Exec(argv0, argv, envv)
}
