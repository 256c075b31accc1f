//go:build windows

package tactile

import (
	"errors"
	"os"
	"os/exec"
)

// replaceProcess emulates exec on Windows, which has no process replacement: the shell
// runs as a child on the same standard streams and this process exits with its status.
func replaceProcess(argv0 string, argv []string, envv []string) error {
	cmd := exec.Command(argv0, argv[1:]...)
	cmd.Env = envv
	cmd.Stdin, cmd.Stdout, cmd.Stderr = os.Stdin, os.Stdout, os.Stderr
	err := cmd.Run()
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		os.Exit(exitErr.ExitCode())
	}
	if err != nil {
		return err
	}
	os.Exit(0)
	return nil
}
