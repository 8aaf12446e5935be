package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/roach88/quixo/internal/export"
	"github.com/roach88/quixo/internal/replay"
	"github.com/roach88/quixo/internal/store"
)

// ReplayOptions holds flags for the replay command.
type ReplayOptions struct {
	*RootOptions
	Database string
	GameID   string // optional - specific game only
	XMLFile  string // optional - verify an export instead of the database
}

// ReplayResult holds the overall replay result.
type ReplayResult struct {
	Games            []replay.Report `json:"games"`
	TotalGames       int             `json:"total_games"`
	AllDeterministic bool            `json:"all_deterministic"`
}

// NewReplayCommand creates the replay command.
func NewReplayCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ReplayOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "replay",
		Short: "Replay move logs and verify them against the rules",
		Long: `Replay every recorded move from a fresh board and check that the stored
players, symbols, facings and boards are exactly what the rules produce,
and that each game's final row matches the last replayed state.

Exit codes:
  0 - All games replay identically
  1 - A game diverged from its log
  2 - Command error (database not found, unreadable export, etc.)

Examples:
  quixo replay --db ./quixo.db
  quixo replay --db ./quixo.db --game 0190c6e2-...
  quixo replay --xml quixo_game_0190c6e2-..._20240301100130.xml
  quixo replay --db ./quixo.db --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReplay(opts, cmd)
		},
	}

	addDBFlag(cmd, &opts.Database, rootOpts)
	cmd.Flags().StringVar(&opts.GameID, "game", "", "replay specific game only")
	cmd.Flags().StringVar(&opts.XMLFile, "xml", "", "verify an exported XML file")

	return cmd
}

func runReplay(opts *ReplayOptions, cmd *cobra.Command) error {
	var (
		reports []replay.Report
		err     error
	)
	if opts.XMLFile != "" {
		reports, err = replayExport(opts.XMLFile)
	} else {
		reports, err = replayDatabase(cmdContext(cmd), opts)
	}
	if err != nil {
		return err
	}

	result := ReplayResult{
		Games:            reports,
		TotalGames:       len(reports),
		AllDeterministic: true,
	}
	for _, r := range reports {
		if !r.Deterministic {
			result.AllDeterministic = false
		}
	}

	if opts.Format == "json" {
		return outputReplayJSON(cmd, result)
	}
	return outputReplayText(cmd, result, opts.Verbose)
}

func replayExport(path string) ([]replay.Report, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "failed to open export", err)
	}
	defer f.Close()

	doc, err := export.Parse(f)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "failed to parse export", err)
	}
	g, moves, err := replay.FromExport(doc)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "invalid export", err)
	}
	return []replay.Report{replay.Verify(g, moves)}, nil
}

func replayDatabase(ctx context.Context, opts *ReplayOptions) ([]replay.Report, error) {
	if opts.Database == "" {
		return nil, NewExitError(ExitCommandError, "no database: pass --db or set QUIXO_DB")
	}
	st, err := store.Open(opts.Database)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "failed to open database", err)
	}
	defer closeStore(st)

	var games []store.Game
	if opts.GameID != "" {
		g, err := st.GetGame(ctx, opts.GameID)
		if err != nil {
			return nil, WrapExitError(ExitCommandError, fmt.Sprintf("failed to load game %s", opts.GameID), err)
		}
		games = []store.Game{g}
	} else if games, err = st.ListGames(ctx); err != nil {
		return nil, WrapExitError(ExitCommandError, "failed to list games", err)
	}

	reports := make([]replay.Report, 0, len(games))
	for _, g := range games {
		moves, err := st.ListMoves(ctx, g.ID)
		if err != nil {
			return nil, WrapExitError(ExitCommandError, fmt.Sprintf("failed to replay game %s", g.ID), err)
		}
		reports = append(reports, replay.Verify(g, moves))
	}
	return reports, nil
}

// outputReplayJSON outputs the replay result as JSON.
func outputReplayJSON(cmd *cobra.Command, result ReplayResult) error {
	response := CLIResponse{
		Status: "ok",
		Data:   result,
	}

	if !result.AllDeterministic {
		response.Status = "error"
		response.Error = &CLIError{
			Code:    CodeDivergence,
			Message: "replay diverged from the recorded log",
		}
	}

	encoder := json.NewEncoder(cmd.OutOrStdout())
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(response); err != nil {
		return err
	}

	if !result.AllDeterministic {
		return NewExitError(ExitFailure, "replay diverged from the recorded log")
	}
	return nil
}

// outputReplayText outputs the replay result as text.
func outputReplayText(cmd *cobra.Command, result ReplayResult, verbose bool) error {
	w := cmd.OutOrStdout()

	if result.TotalGames == 0 {
		fmt.Fprintln(w, "No games found.")
		return nil
	}

	fmt.Fprintf(w, "Replay Summary: %d game(s)\n", result.TotalGames)
	fmt.Fprintln(w)

	for _, g := range result.Games {
		status := "✓"
		if !g.Deterministic {
			status = "✗"
		}

		fmt.Fprintf(w, "%s Game: %s\n", status, g.GameID)
		if verbose {
			fmt.Fprintf(w, "  Mode: %s\n", g.Mode)
			fmt.Fprintf(w, "  Moves: %d\n", g.Moves)
			fmt.Fprintf(w, "  Status: %s\n", g.Status)
		} else {
			fmt.Fprintf(w, "  %d moves, %s\n", g.Moves, g.Status)
		}

		if g.Divergence != nil {
			fmt.Fprintf(w, "  Divergence: %s\n", g.Divergence)
		}
		fmt.Fprintln(w)
	}

	if result.AllDeterministic {
		fmt.Fprintln(w, "✓ All games replay identically")
		return nil
	}

	fmt.Fprintln(w, "✗ Replay verification failed")
	return NewExitError(ExitFailure, "replay diverged from the recorded log")
}
