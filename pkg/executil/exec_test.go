package executil

import (
	"context"
	"errors"
	"os/exec"
	"runtime"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRealExecutor_Run(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("uses sh")
	}

	e := &RealExecutor{}
	ctx := context.Background()

	t.Run("successful command", func(t *testing.T) {
		out, err := e.Run(ctx, "echo", "hello")
		require.NoError(t, err)
		assert.Equal(t, "hello\n", string(out))
	})

	t.Run("command not found", func(t *testing.T) {
		_, err := e.Run(ctx, "nonexistent-command-12345")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "exec nonexistent-command-12345")
	})

	t.Run("stderr becomes the message", func(t *testing.T) {
		_, err := e.Run(ctx, "sh", "-c", "echo 'no browser' >&2; exit 3")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "no browser")

		var exitErr *exec.ExitError
		require.ErrorAs(t, err, &exitErr)
		assert.Equal(t, 3, exitErr.ExitCode())
	})

	t.Run("stderr is capped", func(t *testing.T) {
		long := strings.Repeat("A", maxStderrLen*2)
		_, err := e.Run(ctx, "sh", "-c", "printf '%s' '"+long+"' >&2; exit 1")
		require.Error(t, err)
		assert.NotContains(t, err.Error(), strings.Repeat("A", maxStderrLen+1))
		assert.Contains(t, err.Error(), strings.Repeat("A", maxStderrLen))
	})
}

func TestOpenCommand(t *testing.T) {
	tests := []struct {
		goos     string
		wantCmd  string
		wantArgs []string
	}{
		{goos: "darwin", wantCmd: "open", wantArgs: []string{"https://example.com"}},
		{goos: "linux", wantCmd: "xdg-open", wantArgs: []string{"https://example.com"}},
		{goos: "freebsd", wantCmd: "xdg-open", wantArgs: []string{"https://example.com"}},
		{goos: "windows", wantCmd: "rundll32", wantArgs: []string{"url.dll,FileProtocolHandler", "https://example.com"}},
	}

	for _, tt := range tests {
		t.Run(tt.goos, func(t *testing.T) {
			cmd, args := OpenCommand(tt.goos, "https://example.com")
			assert.Equal(t, tt.wantCmd, cmd)
			assert.Equal(t, tt.wantArgs, args)
		})
	}
}

func TestOpen_UsesExecutor(t *testing.T) {
	rec := &RecordingExecutor{}
	require.NoError(t, Open(context.Background(), rec, "notes.md"))

	got := rec.Recorded()
	require.Len(t, got, 1)
	wantCmd, wantArgs := OpenCommand(runtime.GOOS, "notes.md")
	assert.Equal(t, RecordedCommand{Cmd: wantCmd, Args: wantArgs}, got[0])
}

func TestRecordingExecutor_Errors(t *testing.T) {
	boom := errors.New("boom")
	rec := &RecordingExecutor{
		Outputs: map[string][]byte{"echo": []byte("hi")},
		Errors:  map[string]error{"false": boom},
	}

	out, err := rec.Run(context.Background(), "echo")
	require.NoError(t, err)
	assert.Equal(t, "hi", string(out))

	_, err = rec.Run(context.Background(), "false")
	assert.ErrorIs(t, err, boom)
	assert.Len(t, rec.Recorded(), 2)
}
