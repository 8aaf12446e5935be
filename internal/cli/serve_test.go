package cli

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runServeCommand(t *testing.T, ctx context.Context, args ...string) (string, error) {
	t.Helper()
	out := &bytes.Buffer{}
	cmd := NewServeCommand(&RootOptions{Format: "text"})
	cmd.SetOut(out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(ctx)
	return out.String(), err
}

func TestServeCommand_StopsWithContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	out, err := runServeCommand(t, ctx, "--db", tempDB(t), "--addr", "127.0.0.1:0")
	require.NoError(t, err)
	assert.Contains(t, out, "Serving on 127.0.0.1:0")
}

func TestServeCommand_NoAddress(t *testing.T) {
	_, err := runServeCommand(t, context.Background(), "--db", tempDB(t))
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, err.Error(), "no listen address")
}

func TestServeCommand_BadAddress(t *testing.T) {
	_, err := runServeCommand(t, context.Background(), "--db", tempDB(t), "--addr", "127.0.0.1:notaport")
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
}

func TestServeCommand_AllowOrigin(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := runServeCommand(t, ctx, "--db", tempDB(t), "--addr", "127.0.0.1:0",
		"--allow-origin", "http://localhost:3000", "--allow-origin", "http://board.example")
	require.NoError(t, err)

	out, err := runServeCommand(t, context.Background(), "--help")
	require.NoError(t, err)
	assert.Contains(t, out, "--allow-origin")
}
