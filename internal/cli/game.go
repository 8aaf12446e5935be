package cli

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/roach88/quixo/internal/export"
	"github.com/roach88/quixo/internal/quixo"
	"github.com/roach88/quixo/internal/session"
)

// GameOptions holds flags shared by the game commands.
type GameOptions struct {
	*RootOptions
	Database string
}

// NewNewCommand creates the new command.
func NewNewCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &GameOptions{RootOptions: rootOpts}
	var mode string

	cmd := &cobra.Command{
		Use:   "new",
		Short: "Start a game",
		Long: `Start a game in its initial state and print its id.

Examples:
  quixo new
  quixo new --mode 4 --db ./quixo.db`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runNew(opts, mode, cmd)
		},
	}

	addDBFlag(cmd, &opts.Database, rootOpts)
	cmd.Flags().StringVar(&mode, "mode", "TwoPlayers", "game mode (TwoPlayers|FourPlayers, or 2|4)")

	return cmd
}

func runNew(opts *GameOptions, modeName string, cmd *cobra.Command) error {
	out := formatter(opts.RootOptions, cmd)
	mode, err := quixo.ParseMode(modeName)
	if err != nil {
		return out.Fail(ExitCommandError, CodeInvalidInput, err.Error(), nil)
	}

	svc, st, err := openService(opts.RootOptions, opts.Database)
	if err != nil {
		return err
	}
	defer closeStore(st)

	v, err := svc.NewGame(cmdContext(cmd), mode)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to create game", err)
	}
	return out.Success(v, func(w io.Writer) {
		fmt.Fprintf(w, "Created game %s\n", v.ID)
		renderGame(w, v)
	})
}

// NewMoveCommand creates the move command.
func NewMoveCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &GameOptions{RootOptions: rootOpts}
	var direction string

	cmd := &cobra.Command{
		Use:   "move <game-id> <from-row> <from-col> <to-row> <to-col>",
		Short: "Take a cube and push it back in",
		Long: `Move for the player whose turn it is: take the cube at (from-row,
from-col) and push it in at (to-row, to-col). Rows and columns are 0-4.

Exit codes:
  0 - Move applied
  1 - Move rejected by the rules
  2 - Command error (unknown game, bad arguments, etc.)

Examples:
  quixo move 0190c6e2-... 0 0 0 4
  quixo move 0190c6e2-... 4 2 0 2 --dir Left`,
		Args:          cobra.ExactArgs(5),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMove(opts, args, direction, cmd)
		},
	}

	addDBFlag(cmd, &opts.Database, rootOpts)
	cmd.Flags().StringVar(&direction, "dir", "", "point direction in four-player games (Top|Right|Bottom|Left)")

	return cmd
}

func runMove(opts *GameOptions, args []string, direction string, cmd *cobra.Command) error {
	out := formatter(opts.RootOptions, cmd)

	coords := make([]int, 4)
	for i, a := range args[1:] {
		n, err := strconv.Atoi(a)
		if err != nil {
			return out.Fail(ExitCommandError, CodeInvalidInput, fmt.Sprintf("coordinate %q is not a number", a), nil)
		}
		coords[i] = n
	}

	svc, st, err := openService(opts.RootOptions, opts.Database)
	if err != nil {
		return err
	}
	defer closeStore(st)

	res, err := svc.MakeMove(cmdContext(cmd), session.MoveRequest{
		GameID:         args[0],
		FromRow:        coords[0],
		FromCol:        coords[1],
		ToRow:          coords[2],
		ToCol:          coords[3],
		PointDirection: direction,
	})
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to apply move", err)
	}

	if !res.Success {
		exit := ExitFailure
		code := CodeRejected
		if res.Code == session.CodeGameNotFound {
			exit, code = ExitCommandError, CodeNotFound
		}
		return out.Fail(exit, code, res.Error, map[string]string{"reason": res.Code})
	}

	return out.Success(res, func(w io.Writer) {
		m := res.Move
		fmt.Fprintf(w, "Move %d: player %d (%s) %s -> %s\n", m.Number, m.Player, m.Symbol, m.From, m.To)
		renderGame(w, *res.Game)
	})
}

// NewShowCommand creates the show command.
func NewShowCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &GameOptions{RootOptions: rootOpts}
	var withMoves, withLegal bool

	cmd := &cobra.Command{
		Use:   "show <game-id>",
		Short: "Show a game",
		Long: `Show the board, status and player to move of a game. With --legal,
list every cube the player to move may take and where it may go.

Examples:
  quixo show 0190c6e2-...
  quixo show 0190c6e2-... --legal
  quixo show 0190c6e2-... --moves --format json`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runShow(opts, args[0], withMoves, withLegal, cmd)
		},
	}

	addDBFlag(cmd, &opts.Database, rootOpts)
	cmd.Flags().BoolVar(&withMoves, "moves", false, "include the move log")
	cmd.Flags().BoolVar(&withLegal, "legal", false, "include the legal moves of the player to move")

	return cmd
}

// ShowResult is the JSON payload of show.
type ShowResult struct {
	Game  session.GameView   `json:"game"`
	Moves []session.MoveView `json:"moves,omitempty"`
	Legal []LegalOrigin      `json:"legal,omitempty"`
}

// LegalOrigin is a cube the player to move may take and its destinations.
type LegalOrigin struct {
	From quixo.Position   `json:"from"`
	To   []quixo.Position `json:"to"`
}

func runShow(opts *GameOptions, id string, withMoves, withLegal bool, cmd *cobra.Command) error {
	out := formatter(opts.RootOptions, cmd)
	svc, st, err := openService(opts.RootOptions, opts.Database)
	if err != nil {
		return err
	}
	defer closeStore(st)

	ctx := cmdContext(cmd)
	v, err := svc.Game(ctx, id)
	if err != nil {
		return lookupFailure(out, err)
	}
	result := ShowResult{Game: v}
	if withMoves {
		if result.Moves, err = svc.Moves(ctx, id); err != nil {
			return lookupFailure(out, err)
		}
	}
	if withLegal {
		lm, err := svc.Legal(ctx, id, nil)
		if err != nil {
			return lookupFailure(out, err)
		}
		for _, p := range lm.Pickable {
			result.Legal = append(result.Legal, LegalOrigin{From: p, To: quixo.ValidPlacements(p.Row, p.Col)})
		}
	}

	return out.Success(result, func(w io.Writer) {
		renderGame(w, v)
		if withMoves {
			fmt.Fprintln(w)
			renderMoves(w, result.Moves)
		}
		if withLegal {
			fmt.Fprintln(w)
			renderLegal(w, v.CurrentPlayer, result.Legal)
		}
	})
}

func renderLegal(w io.Writer, player int, legal []LegalOrigin) {
	if len(legal) == 0 {
		fmt.Fprintln(w, "No legal moves.")
		return
	}
	fmt.Fprintf(w, "Legal moves for player %d:\n", player)
	for _, o := range legal {
		to := make([]string, len(o.To))
		for i, p := range o.To {
			to[i] = p.String()
		}
		fmt.Fprintf(w, "  %s -> %s\n", o.From, strings.Join(to, " "))
	}
}

func renderMoves(w io.Writer, moves []session.MoveView) {
	if len(moves) == 0 {
		fmt.Fprintln(w, "No moves yet.")
		return
	}
	for _, m := range moves {
		dir := ""
		if m.PointDirection != nil {
			dir = " facing " + *m.PointDirection
		}
		elapsed := time.Duration(m.ElapsedMs) * time.Millisecond
		fmt.Fprintf(w, "%3d  player %d %-6s %s -> %s%s  [%s]\n",
			m.Number, m.Player, m.Symbol, m.From, m.To, dir, export.FormatDuration(elapsed))
	}
}

// NewResetCommand creates the reset command.
func NewResetCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &GameOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "reset <game-id>",
		Short: "Restart a game from the initial board",
		Long: `Delete every move of a game and restore its initial state. The game
keeps its id and mode; its clock restarts.

Example:
  quixo reset 0190c6e2-...`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReset(opts, args[0], cmd)
		},
	}

	addDBFlag(cmd, &opts.Database, rootOpts)

	return cmd
}

func runReset(opts *GameOptions, id string, cmd *cobra.Command) error {
	out := formatter(opts.RootOptions, cmd)
	svc, st, err := openService(opts.RootOptions, opts.Database)
	if err != nil {
		return err
	}
	defer closeStore(st)

	v, err := svc.Reset(cmdContext(cmd), id)
	if err != nil {
		return lookupFailure(out, err)
	}
	return out.Success(v, func(w io.Writer) {
		fmt.Fprintf(w, "Game %s reset\n", v.ID)
		renderGame(w, v)
	})
}

// NewHistoryCommand creates the history command.
func NewHistoryCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &GameOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List finished games",
		Long: `List finished games, newest first, with their winner and duration.

Example:
  quixo history --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHistory(opts, cmd)
		},
	}

	addDBFlag(cmd, &opts.Database, rootOpts)

	return cmd
}

func runHistory(opts *GameOptions, cmd *cobra.Command) error {
	out := formatter(opts.RootOptions, cmd)
	svc, st, err := openService(opts.RootOptions, opts.Database)
	if err != nil {
		return err
	}
	defer closeStore(st)

	games, err := svc.History(cmdContext(cmd))
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to list games", err)
	}
	return out.Success(games, func(w io.Writer) {
		if len(games) == 0 {
			fmt.Fprintln(w, "No finished games.")
			return
		}
		for _, g := range games {
			finished := ""
			if g.FinishedAt != nil {
				finished = g.FinishedAt.UTC().Format(export.TimeLayout)
			}
			fmt.Fprintf(w, "%s  %-11s  %-9s  %3d moves  %s  %s\n",
				g.ID, g.Mode, g.Winner, g.MoveCount, export.FormatDuration(g.Elapsed()), finished)
		}
	})
}

func cmdContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
