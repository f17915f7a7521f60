package main

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestInvokerCapturesOutputAndStatus(t *testing.T) {
	var console bytes.Buffer
	invoker := &Invoker{Shell: "sh", Console: &console}

	attempt := invoker.Run(context.Background(), "echo out; echo err >&2; exit 42", true)
	require.Equal(t, 42, attempt.ExitCode)
	require.Contains(t, string(attempt.Output), "out\n")
	require.Contains(t, string(attempt.Output), "err\n")
	require.Empty(t, console.String())
}

func TestInvokerEcho(t *testing.T) {
	var console bytes.Buffer
	invoker := &Invoker{Console: &console, Echo: true}

	attempt := invoker.Run(context.Background(), "echo hello", true)
	require.Equal(t, 0, attempt.ExitCode)
	require.Equal(t, "hello\n", string(attempt.Output))
	require.Equal(t, "hello\n", console.String())
}

func TestInvokerInteractive(t *testing.T) {
	var console bytes.Buffer
	invoker := &Invoker{Console: &console}

	attempt := invoker.Run(context.Background(), "echo hello; exit 3", false)
	require.Equal(t, 3, attempt.ExitCode)
	require.Empty(t, attempt.Output)
	require.Equal(t, "hello\n", console.String())
}

func TestInvokerMissingShell(t *testing.T) {
	var console bytes.Buffer
	invoker := &Invoker{Shell: "/nonexistent/shell", Console: &console}

	attempt := invoker.Run(context.Background(), "true", true)
	require.Equal(t, -1, attempt.ExitCode)
	require.Contains(t, string(attempt.Output), "failed to start command")

	attempt = invoker.Run(context.Background(), "true", false)
	require.Equal(t, -1, attempt.ExitCode)
	require.Contains(t, console.String(), "failed to start command")
}
