package cli

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/roach88/quixo/internal/quixo"
	"github.com/roach88/quixo/internal/session"
	"github.com/roach88/quixo/internal/store"
)

// addDBFlag registers --db with the environment default.
func addDBFlag(cmd *cobra.Command, target *string, rootOpts *RootOptions) {
	cmd.Flags().StringVar(target, "db", rootOpts.Env.DBPath, "path to SQLite database (default from QUIXO_DB)")
}

// openService opens the database and builds a session over it. The caller
// closes the returned store.
func openService(rootOpts *RootOptions, dbPath string, opts ...session.Option) (*session.Service, *store.Store, error) {
	if dbPath == "" {
		return nil, nil, NewExitError(ExitCommandError, "no database: pass --db or set QUIXO_DB")
	}
	st, err := store.Open(dbPath)
	if err != nil {
		return nil, nil, WrapExitError(ExitCommandError, "failed to open database", err)
	}
	slog.Debug("database ready", "path", dbPath)

	opts = append([]session.Option{session.WithLanguage(session.ParseLanguage(rootOpts.Language))}, opts...)
	return session.New(st, opts...), st, nil
}

func closeStore(st *store.Store) {
	if err := st.Close(); err != nil {
		slog.Error("error closing database", "error", err)
	}
}

func formatter(rootOpts *RootOptions, cmd *cobra.Command) *OutputFormatter {
	return &OutputFormatter{
		Format:    rootOpts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   rootOpts.Verbose,
	}
}

// lookupFailure turns a missing game or move into a reported failure and
// anything else into a command error.
func lookupFailure(out *OutputFormatter, err error) error {
	switch {
	case errors.Is(err, store.ErrNotFound):
		return out.Fail(ExitCommandError, CodeNotFound, "game not found", nil)
	case errors.Is(err, session.ErrMoveNotFound):
		return out.Fail(ExitCommandError, CodeNotFound, "move not found", nil)
	default:
		return WrapExitError(ExitCommandError, "query failed", err)
	}
}

var (
	symbolGlyph = map[quixo.Symbol]byte{quixo.Neutral: '.', quixo.Circle: 'O', quixo.Cross: 'X'}
	facingGlyph = map[quixo.Direction]byte{
		quixo.NoDirection: ' ',
		quixo.Top:         '^',
		quixo.Right:       '>',
		quixo.Bottom:      'v',
		quixo.Left:        '<',
	}
)

// renderBoard draws b with row and column indices. Four-player cubes show
// their facing after the symbol.
func renderBoard(w io.Writer, b quixo.Board) {
	fmt.Fprintln(w, "   0  1  2  3  4")
	for r := 0; r < quixo.Size; r++ {
		var sb strings.Builder
		for c := 0; c < quixo.Size; c++ {
			cell := b[r][c]
			sb.WriteByte(' ')
			sb.WriteByte(symbolGlyph[cell.Symbol])
			sb.WriteByte(facingGlyph[cell.Facing])
		}
		fmt.Fprintf(w, "%d %s\n", r, strings.TrimRight(sb.String(), " "))
	}
}

// renderGame prints the header and board of a game view.
func renderGame(w io.Writer, v session.GameView) {
	fmt.Fprintf(w, "Game %s (%s)\n", v.ID, v.Mode)
	if v.Status.IsTerminal() {
		fmt.Fprintf(w, "Status: %s, winner: %s\n", v.Status, v.Winner)
	} else {
		fmt.Fprintf(w, "Status: %s, player %d (%s) to move\n", v.Status, v.CurrentPlayer, v.CurrentSymbol)
	}
	fmt.Fprintf(w, "Moves: %d, elapsed: %s\n", v.MoveCount, v.Elapsed().Truncate(time.Second))
	renderBoard(w, v.Board)
}
