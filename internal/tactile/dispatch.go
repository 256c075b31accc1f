// Package tactile is the terminal action boundary of the pipeline: it either prints the
// final command or replaces the current process with a shell running it.
package tactile

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"

	"sprinkle/internal/logging"

	"go.uber.org/zap"
	"mvdan.cc/sh/v3/syntax"
)

// Mode is the closed set of terminal actions.
type Mode int

const (
	// ModeExecute replaces the process with `<shell> -c <text>`.
	ModeExecute Mode = iota
	// ModePrint writes the text to the output stream.
	ModePrint
)

func (m Mode) String() string {
	switch m {
	case ModeExecute:
		return "execute"
	case ModePrint:
		return "print"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// ErrUnknownMode is returned for a Mode outside the closed set.
var ErrUnknownMode = errors.New("unknown dispatch mode")

// ExecFunc replaces the current process image. It returns only on failure.
type ExecFunc func(argv0 string, argv []string, envv []string) error

// LookPathFunc resolves a program name to a path.
type LookPathFunc func(file string) (string, error)

// Dispatcher applies the terminal action to the final command text.
type Dispatcher struct {
	shell    string
	out      io.Writer
	exec     ExecFunc
	lookPath LookPathFunc
	environ  func() []string
}

// Option configures a Dispatcher.
type Option func(*Dispatcher)

// WithShell sets the interpreter used for ModeExecute.
func WithShell(shell string) Option {
	return func(d *Dispatcher) { d.shell = shell }
}

// WithOutput sets the writer used for ModePrint.
func WithOutput(w io.Writer) Option {
	return func(d *Dispatcher) { d.out = w }
}

// WithExec substitutes the process-replacement call.
func WithExec(fn ExecFunc) Option {
	return func(d *Dispatcher) { d.exec = fn }
}

// WithLookPath substitutes the PATH lookup.
func WithLookPath(fn LookPathFunc) Option {
	return func(d *Dispatcher) { d.lookPath = fn }
}

// NewDispatcher creates a dispatcher printing to stdout and exec'ing bash by default.
func NewDispatcher(opts ...Option) *Dispatcher {
	d := &Dispatcher{
		shell:    "bash",
		out:      os.Stdout,
		exec:     replaceProcess,
		lookPath: exec.LookPath,
		environ:  os.Environ,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Shell returns the configured interpreter name.
func (d *Dispatcher) Shell() string {
	return d.shell
}

// Dispatch applies mode to text. In ModeExecute a successful call never returns.
func (d *Dispatcher) Dispatch(text string, mode Mode) error {
	log := logging.Get(logging.CategoryTactile)

	switch mode {
	case ModePrint:
		log.Debug("printing command", zap.Int("bytes", len(text)))
		if _, err := fmt.Fprintln(d.out, text); err != nil {
			return fmt.Errorf("print command: %w", err)
		}
		return nil

	case ModeExecute:
		path, err := d.lookPath(d.shell)
		if err != nil {
			return fmt.Errorf("locate shell %q: %w", d.shell, err)
		}
		argv := []string{d.shell, "-c", text}
		log.Debug("executing " + CommandLine(argv))
		if err := d.exec(path, argv, d.environ()); err != nil {
			return fmt.Errorf("exec %s: %w", path, err)
		}
		return nil

	default:
		return fmt.Errorf("%w: %v", ErrUnknownMode, mode)
	}
}

// CommandLine renders argv as a shell-quoted line for display.
func CommandLine(argv []string) string {
	parts := make([]string, len(argv))
	for i, arg := range argv {
		q, err := syntax.Quote(arg, syntax.LangBash)
		if err != nil {
			q = fmt.Sprintf("%q", arg)
		}
		parts[i] = q
	}
	return strings.Join(parts, " ")
}
