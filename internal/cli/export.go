package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/roach88/quixo/internal/export"
)

// ExportOptions holds flags for the export command.
type ExportOptions struct {
	*RootOptions
	Database string
	Output   string

	// Now names the default output file. Tests pin it.
	Now func() time.Time
}

// ExportResult is the JSON payload of export.
type ExportResult struct {
	GameID string `json:"game_id"`
	Path   string `json:"path"`
	Moves  int    `json:"moves"`
}

// NewExportCommand creates the export command.
func NewExportCommand(rootOpts *RootOptions) *cobra.Command {
	return newExportCommand(rootOpts, time.Now)
}

func newExportCommand(rootOpts *RootOptions, now func() time.Time) *cobra.Command {
	opts := &ExportOptions{RootOptions: rootOpts, Now: now}

	cmd := &cobra.Command{
		Use:   "export <game-id>",
		Short: "Export a game and its moves as XML",
		Long: `Write a game, its final board and every move to an XML document.

Without --output the file is quixo_game_<id>_<yyyyMMddHHmmss>.xml in the
current directory. An output that is a directory receives that file name;
any other output gets an .xml extension if it has none. "-" writes to stdout.

Examples:
  quixo export 0190c6e2-...
  quixo export 0190c6e2-... -o ./exports/
  quixo export 0190c6e2-... -o - > game.xml`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExport(opts, args[0], cmd)
		},
	}

	addDBFlag(cmd, &opts.Database, rootOpts)
	cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "output file or directory (- for stdout)")

	return cmd
}

func runExport(opts *ExportOptions, id string, cmd *cobra.Command) error {
	out := formatter(opts.RootOptions, cmd)
	svc, st, err := openService(opts.RootOptions, opts.Database)
	if err != nil {
		return err
	}
	defer closeStore(st)

	g, moves, err := svc.Record(cmdContext(cmd), id)
	if err != nil {
		return lookupFailure(out, err)
	}
	out.VerboseLog("exporting game %s with %d moves", g.ID, len(moves))

	if opts.Output == "-" {
		if err := export.Write(cmd.OutOrStdout(), g, moves); err != nil {
			return WrapExitError(ExitCommandError, "failed to write export", err)
		}
		return nil
	}

	path := exportPath(opts.Output, g.ID, opts.Now())
	f, err := os.Create(path)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to create export file", err)
	}
	if err := export.Write(f, g, moves); err != nil {
		f.Close()
		return WrapExitError(ExitCommandError, "failed to write export", err)
	}
	if err := f.Close(); err != nil {
		return WrapExitError(ExitCommandError, "failed to write export", err)
	}

	res := ExportResult{GameID: g.ID, Path: path, Moves: len(moves)}
	return out.Success(res, func(w io.Writer) {
		fmt.Fprintf(w, "Exported game %s (%d moves) to %s\n", res.GameID, res.Moves, res.Path)
	})
}

func exportPath(output, id string, at time.Time) string {
	name := export.Filename(id, at)
	if output == "" {
		return name
	}
	if info, err := os.Stat(output); err == nil && info.IsDir() {
		return filepath.Join(output, name)
	}
	return export.EnsureXMLExtension(output)
}
