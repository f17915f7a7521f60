package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"time"
)

// Invoker runs command lines through a shell, so that `~`, `taskset` prefixes
// and fixed argument fragments behave exactly as typed in a terminal.
type Invoker struct {
	Shell string
	Dir   string
	// Console receives the output of interactive runs, and a copy of captured
	// output when Echo is set.
	Console io.Writer
	Echo    bool
}

func NewInvoker(echo bool) *Invoker {
	return &Invoker{Shell: "sh", Console: os.Stdout, Echo: echo}
}

func (i *Invoker) Run(ctx context.Context, commandLine string, capture bool) RunAttempt {
	shell := i.Shell
	if shell == "" {
		shell = "sh"
	}
	console := i.Console
	if console == nil {
		console = os.Stdout
	}

	cmd := exec.CommandContext(ctx, shell, "-c", commandLine)
	cmd.Dir = i.Dir

	var output bytes.Buffer
	switch {
	case capture && i.Echo:
		cmd.Stdout = io.MultiWriter(&output, console)
	case capture:
		cmd.Stdout = &output
	default:
		cmd.Stdout = console
	}
	cmd.Stderr = cmd.Stdout

	start := time.Now()
	err := cmd.Run()
	elapsed := time.Since(start)

	code := exitCode(err, &output)
	if code == -1 && !capture {
		console.Write(output.Bytes())
	}
	return RunAttempt{
		ExitCode: code,
		Output:   output.Bytes(),
		Elapsed:  elapsed,
	}
}

// exitCode maps the result of cmd.Run to a process exit status. A command
// that could not be started at all is reported as -1 with the reason appended
// to its output.
func exitCode(err error, output *bytes.Buffer) int {
	if err == nil {
		return 0
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode()
	}
	fmt.Fprintf(output, "failed to start command: %v\n", err)
	return -1
}
