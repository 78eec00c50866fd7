// Package toolchain runs external tools (the Go compiler, archivers) as subprocesses.
//
// Every invocation returns a Result carrying the exit status, so callers decide
// explicitly how to react to a failed tool.
package toolchain

import (
	"bytes"
	"context"
	"os/exec"
	"strings"

	"github.com/pkg/errors"
)

// Command describes a single external tool invocation.
type Command struct {
	Name string
	Args []string

	// Dir is the working directory. Empty means the current directory.
	Dir string

	// Env is the complete environment of the process. Nil means the current process environment.
	Env []string
}

func (c Command) String() string {
	return strings.Join(append([]string{c.Name}, c.Args...), " ")
}

// Result is the outcome of a command that was started.
type Result struct {
	ExitCode int
	Stdout   []byte
	Stderr   []byte
}

// Success reports whether the command exited with status zero.
func (r Result) Success() bool {
	return r.ExitCode == 0
}

// Runner runs commands.
//
// A non-zero exit status is not an error: it is reported in the Result.
// An error means the command could not be run at all.
type Runner interface {
	Run(ctx context.Context, cmd Command) (Result, error)
}

// ExecRunner runs commands using os/exec.
type ExecRunner struct{}

// NewExecRunner returns a new ExecRunner.
func NewExecRunner() ExecRunner {
	return ExecRunner{}
}

// Run implements the Runner interface.
func (ExecRunner) Run(ctx context.Context, command Command) (Result, error) {
	cmd := exec.CommandContext(ctx, command.Name, command.Args...)
	cmd.Dir = command.Dir
	cmd.Env = command.Env

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()

	result := Result{
		Stdout: stdout.Bytes(),
		Stderr: stderr.Bytes(),
	}

	if err != nil {
		// A process killed on cancellation exits with a signal, not a failure of its own.
		if ctxErr := ctx.Err(); ctxErr != nil {
			return result, errors.Wrapf(ctxErr, "run %s", command.Name)
		}

		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			result.ExitCode = exitErr.ExitCode()

			return result, nil
		}

		return result, errors.Wrapf(err, "run %s", command.Name)
	}

	return result, nil
}
