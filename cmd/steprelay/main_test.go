package main

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v3"
)

type appResult struct {
	err    error
	stdout string
	stderr string
}

// runApp runs a fresh command tree with the process streams captured. The
// logger builds its stderr sink at construction time, so swapping os.Stderr
// here catches everything a real invocation would print.
func runApp(t *testing.T, args ...string) appResult {
	t.Helper()

	prevExiter := cli.OsExiter
	cli.OsExiter = func(int) {}
	defer func() { cli.OsExiter = prevExiter }()

	outR, outW, err := os.Pipe()
	require.NoError(t, err)
	errR, errW, err := os.Pipe()
	require.NoError(t, err)

	prevStdout, prevStderr := os.Stdout, os.Stderr
	os.Stdout, os.Stderr = outW, errW

	app := newApp()
	app.Writer = outW
	app.ErrWriter = errW
	runErr := app.Run(context.Background(), append([]string{"steprelay"}, args...))

	os.Stdout, os.Stderr = prevStdout, prevStderr
	require.NoError(t, outW.Close())
	require.NoError(t, errW.Close())

	stdout, err := io.ReadAll(outR)
	require.NoError(t, err)
	stderr, err := io.ReadAll(errR)
	require.NoError(t, err)
	require.NoError(t, outR.Close())
	require.NoError(t, errR.Close())

	return appResult{err: runErr, stdout: string(stdout), stderr: string(stderr)}
}

func requireExitOne(t *testing.T, err error) {
	t.Helper()

	var exitErr cli.ExitCoder
	require.ErrorAs(t, err, &exitErr)
	assert.Equal(t, 1, exitErr.ExitCode())
}

func TestGetConfigArgCount(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{
			name: "missing definition path",
			args: []string{"get-config"},
		},
		{
			name: "extra positional args",
			args: []string{"get-config", "a.step.yaml", "b.step.yaml"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := runApp(t, tt.args...)

			requireExitOne(t, res.err)
			assert.Empty(t, res.stdout)
			assert.Empty(t, res.stderr)
		})
	}
}

func TestGetConfigRelaysOverFD(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "hello.step.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
config:
  queue: hello
  middleware:
    - auth
`), 0o644))

	reader, writer, err := os.Pipe()
	require.NoError(t, err)
	defer reader.Close()

	// The channel owns its own descriptor so its Close cannot race with
	// the pipe writer's.
	fd, err := syscall.Dup(int(writer.Fd()))
	require.NoError(t, err)

	t.Setenv("STEPRELAY_CHANNEL", "fd")
	t.Setenv("NODE_CHANNEL_FD", strconv.Itoa(fd))

	res := runApp(t, "get-config", path)
	require.NoError(t, res.err)
	require.NoError(t, writer.Close())

	data, err := io.ReadAll(reader)
	require.NoError(t, err)
	assert.Equal(t, "{\"queue\":\"hello\"}\n", string(data))
	assert.Empty(t, res.stdout)
	assert.Empty(t, res.stderr)
}

func TestGetConfigLoadFailureDiagnostic(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing.step.yaml")

	res := runApp(t, "get-config", path)

	requireExitOne(t, res.err)
	assert.Empty(t, res.stdout)

	// One diagnostic line naming the definition that failed.
	assert.Equal(t, 1, strings.Count(res.stderr, "\n"))
	assert.Contains(t, res.stderr, "config extraction failed")
	assert.Contains(t, res.stderr, path)
}

func TestGetConfigChannelUnavailableDiagnostic(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "hello.step.yaml")
	require.NoError(t, os.WriteFile(path, []byte("config:\n  queue: hello\n"), 0o644))

	t.Setenv("STEPRELAY_CHANNEL", "fd")
	t.Setenv("NODE_CHANNEL_FD", "not-a-number")

	res := runApp(t, "get-config", path)

	requireExitOne(t, res.err)
	assert.Empty(t, res.stdout)
	assert.Equal(t, 1, strings.Count(res.stderr, "\n"))
	assert.Contains(t, res.stderr, "relay channel unavailable")
}

func TestGetConfigRejectsBadChannelMode(t *testing.T) {
	res := runApp(t, "--channel", "pigeon", "get-config", "worker.step.yaml")

	requireExitOne(t, res.err)
	assert.Empty(t, res.stdout)
	assert.Contains(t, res.stderr, "channel must be one of")
}
