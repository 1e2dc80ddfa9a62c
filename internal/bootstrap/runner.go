package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"syscall"
)

// Command is an external program invocation.
type Command struct {
	Name string
	Args []string
}

func (c Command) String() string {
	if len(c.Args) == 0 {
		return c.Name
	}
	return c.Name + " " + strings.Join(c.Args, " ")
}

// ExitClass discriminates how a child process terminated.
type ExitClass int

const (
	// ExitClean is exit code zero.
	ExitClean ExitClass = iota
	// ExitFailed is a nonzero exit code.
	ExitFailed
	// ExitSignaled is termination by signal (interrupt, kill).
	ExitSignaled
)

// ExitStatus is the classified termination of a child process.
type ExitStatus struct {
	Class  ExitClass
	Code   int
	Signal string
}

// Clean reports a zero exit.
func (s ExitStatus) Clean() bool { return s.Class == ExitClean }

func (s ExitStatus) String() string {
	switch s.Class {
	case ExitClean:
		return "exit code 0"
	case ExitSignaled:
		return "signal " + s.Signal
	default:
		return fmt.Sprintf("exit code %d", s.Code)
	}
}

// Runner executes a command to completion with stdio forwarded to the
// console. A non-nil error means the command never ran (missing binary,
// permission); a command that ran and failed comes back as a non-clean
// ExitStatus with a nil error.
type Runner interface {
	Run(ctx context.Context, cmd Command) (ExitStatus, error)
}

// ExecRunner runs commands via os/exec.
type ExecRunner struct {
	// Dir, when set, is the working directory for every command.
	Dir string
}

// Run blocks until the command exits and classifies its termination.
func (r *ExecRunner) Run(ctx context.Context, command Command) (ExitStatus, error) {
	cmd := exec.CommandContext(ctx, command.Name, command.Args...)
	cmd.Dir = r.Dir
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	err := cmd.Run()
	if err == nil {
		return ExitStatus{Class: ExitClean}, nil
	}

	var exitErr *exec.ExitError
	if !errors.As(err, &exitErr) {
		// Never started: binary missing, not executable, bad working dir.
		return ExitStatus{}, err
	}

	if ws, ok := exitErr.Sys().(syscall.WaitStatus); ok && ws.Signaled() {
		return ExitStatus{
			Class:  ExitSignaled,
			Code:   exitErr.ExitCode(),
			Signal: ws.Signal().String(),
		}, nil
	}

	return ExitStatus{Class: ExitFailed, Code: exitErr.ExitCode()}, nil
}
