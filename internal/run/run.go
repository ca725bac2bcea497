// Package run models external tool calls as explicit, mockable invocations.
//
// Assembling a bundle shells out to platform tooling (the bundle compiler,
// the application's gradle wrapper). Each call is described by an Invocation
// and executed through a Runner, so orchestration code can be tested with a
// scripted fake instead of spawning real subprocesses.
package run

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
)

// Invocation describes a single external tool call.
type Invocation struct {
	// Path is the program to run. A bare name is resolved against PATH;
	// a relative path is evaluated relative to Dir.
	Path string

	// Args are the program arguments, excluding the program name itself.
	Args []string

	// Dir is the working directory. Empty means the current directory.
	Dir string

	// Env is the complete environment for the child process.
	// Nil inherits the parent environment.
	Env []string
}

// Result captures the outcome of an invocation that actually ran.
type Result struct {
	ExitCode int
	Stdout   string
	Stderr   string
}

// Ok reports whether the invocation exited with status zero.
func (r Result) Ok() bool {
	return r.ExitCode == 0
}

// Runner executes invocations.
//
// Implementations return a populated Result for any process that ran to
// completion, including nonzero exits. The error return is reserved for
// failures to run at all: missing program, cancelled context, exec setup.
type Runner interface {
	Run(ctx context.Context, inv Invocation) (Result, error)
}

// ExecRunner is the Runner backed by os/exec.
type ExecRunner struct{}

// Run executes inv, capturing stdout and stderr separately.
func (ExecRunner) Run(ctx context.Context, inv Invocation) (Result, error) {
	if inv.Path == "" {
		return Result{}, fmt.Errorf("run: empty program path")
	}

	cmd := exec.CommandContext(ctx, inv.Path, inv.Args...)
	cmd.Dir = inv.Dir
	cmd.Env = inv.Env

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	res := Result{
		Stdout: stdout.String(),
		Stderr: stderr.String(),
	}

	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			// The process ran and exited nonzero; that is a Result,
			// not a Runner error.
			res.ExitCode = exitErr.ExitCode()
			return res, nil
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return res, fmt.Errorf("run %s: %w", inv.Path, ctxErr)
		}
		return res, fmt.Errorf("run %s: %w", inv.Path, err)
	}

	return res, nil
}
