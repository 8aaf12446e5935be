package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/roach88/quixo/internal/session"
)

// NewStatsCommand creates the stats command.
func NewStatsCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &GameOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show player and team standings",
		Long: `Show wins, games played and effectiveness for the two seats of
two-player games and the two teams of four-player games. Only finished
games count.

Example:
  quixo stats --lang es`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStats(opts, cmd)
		},
	}

	addDBFlag(cmd, &opts.Database, rootOpts)

	return cmd
}

func runStats(opts *GameOptions, cmd *cobra.Command) error {
	out := formatter(opts.RootOptions, cmd)
	svc, st, err := openService(opts.RootOptions, opts.Database)
	if err != nil {
		return err
	}
	defer closeStore(st)

	stats, err := svc.Statistics(cmdContext(cmd))
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to compute statistics", err)
	}
	return out.Success(stats, func(w io.Writer) {
		fmt.Fprintln(w, "Two players")
		renderStandings(w, stats.Players)
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Four players")
		renderStandings(w, stats.Teams)
	})
}

func renderStandings(w io.Writer, standings []session.Standing) {
	for _, s := range standings {
		fmt.Fprintf(w, "  %-12s %3d / %-3d %6.2f%%\n", s.Name, s.GamesWon, s.TotalGames, s.Effectiveness)
	}
}
