package cli

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/roach88/quixo/internal/export"
	"github.com/roach88/quixo/internal/replay"
)

// FrameOptions holds flags for the frame command.
type FrameOptions struct {
	*RootOptions
	Database string
	All      bool
}

// NewFrameCommand creates the frame command.
func NewFrameCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &FrameOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "frame <game-id> [move-number]",
		Short: "Show the board as it stood after a move",
		Long: `Show the board after a given move. Move 0 is the initial board; without
a move number the last move is shown. --all prints every frame in order.

Examples:
  quixo frame 0190c6e2-... 3
  quixo frame 0190c6e2-... --all --format json`,
		Args:          cobra.RangeArgs(1, 2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFrame(opts, args, cmd)
		},
	}

	addDBFlag(cmd, &opts.Database, rootOpts)
	cmd.Flags().BoolVar(&opts.All, "all", false, "print every frame")

	return cmd
}

func runFrame(opts *FrameOptions, args []string, cmd *cobra.Command) error {
	out := formatter(opts.RootOptions, cmd)
	n := -1
	if len(args) == 2 {
		v, err := strconv.Atoi(args[1])
		if err != nil || v < 0 {
			return out.Fail(ExitCommandError, CodeInvalidInput, fmt.Sprintf("move number %q must be a non-negative integer", args[1]), nil)
		}
		n = v
	}

	svc, st, err := openService(opts.RootOptions, opts.Database)
	if err != nil {
		return err
	}
	defer closeStore(st)

	ctx := cmdContext(cmd)
	if opts.All {
		_, moves, err := svc.Record(ctx, args[0])
		if err != nil {
			return lookupFailure(out, err)
		}
		frames := replay.Frames(moves)
		return out.Success(frames, func(w io.Writer) {
			for i, f := range frames {
				if i > 0 {
					fmt.Fprintln(w)
				}
				renderFrame(w, f.Number, f.Player, f.Elapsed)
				renderBoard(w, f.Board)
			}
		})
	}

	if n < 0 {
		v, err := svc.Game(ctx, args[0])
		if err != nil {
			return lookupFailure(out, err)
		}
		n = v.MoveCount
	}
	bs, err := svc.MoveState(ctx, args[0], n)
	if err != nil {
		return lookupFailure(out, err)
	}
	return out.Success(bs, func(w io.Writer) {
		player := 0
		if bs.Move != nil {
			player = bs.Move.Player
		}
		renderFrame(w, bs.Number, player, time.Duration(bs.ElapsedMs)*time.Millisecond)
		renderBoard(w, bs.Board)
	})
}

func renderFrame(w io.Writer, number, player int, elapsed time.Duration) {
	if number == 0 {
		fmt.Fprintln(w, "Initial board")
		return
	}
	fmt.Fprintf(w, "After move %d by player %d [%s]\n", number, player, export.FormatDuration(elapsed))
}
