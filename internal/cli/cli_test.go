package cli

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/roach88/quixo/internal/quixo"
)

// envelope decodes a CLIResponse keeping Data raw.
type envelope struct {
	Status string          `json:"status"`
	Data   json.RawMessage `json:"data"`
	Error  *CLIError       `json:"error"`
}

// execute runs the root command with args and returns stdout.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()

	out := &bytes.Buffer{}
	cmd := NewRootCommand()
	cmd.SetOut(out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

// executeJSON runs args with --format json and decodes the envelope.
func executeJSON(t *testing.T, args ...string) (envelope, error) {
	t.Helper()

	out, err := execute(t, append(args, "--format", "json")...)
	var env envelope
	require.NoError(t, json.Unmarshal([]byte(out), &env), "output: %s", out)
	return env, err
}

func tempDB(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "quixo.db")
}

// newGame creates a game and returns its id.
func newGame(t *testing.T, db, mode string) string {
	t.Helper()

	env, err := executeJSON(t, "new", "--db", db, "--mode", mode)
	require.NoError(t, err)
	var v struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &v))
	require.NotEmpty(t, v.ID)
	return v.ID
}

// rowWin is a two-player game player 1 wins on row 0 in nine moves.
var rowWin = [][]string{
	{"0", "4", "0", "0"}, {"4", "4", "4", "0"},
	{"0", "4", "0", "0"}, {"4", "4", "4", "0"},
	{"0", "4", "0", "0"}, {"4", "4", "4", "0"},
	{"0", "4", "0", "0"}, {"4", "4", "4", "0"},
	{"2", "4", "0", "4"},
}

func playRowWin(t *testing.T, db, id string) {
	t.Helper()
	for i, m := range rowWin {
		args := append([]string{"move", "--db", db, id}, m...)
		_, err := execute(t, args...)
		require.NoError(t, err, "move %d", i+1)
	}
}

// encodeRow returns row r of b in board codec form.
func encodeRow(b quixo.Board, r int) string {
	return strings.Split(quixo.EncodeBoard(b), "/")[r]
}
