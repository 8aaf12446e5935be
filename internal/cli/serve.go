package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/roach88/quixo/internal/server"
	"github.com/roach88/quixo/internal/session"
)

const defaultShutdownTimeout = 5 * time.Second

// ServeOptions holds flags for the serve command.
type ServeOptions struct {
	*RootOptions
	Database     string
	Addr         string
	AllowOrigins []string
}

// NewServeCommand creates the serve command.
func NewServeCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ServeOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve games over HTTP",
		Long: `Start the HTTP API, including the websocket feed at
/games/:id/watch. Websocket clients from another origin are refused unless
listed with --allow-origin ("*" allows any). The server stops on SIGINT or SIGTERM and waits up to
QUIXO_SHUTDOWN_TIMEOUT for open requests.

Examples:
  quixo serve --db ./quixo.db
  quixo serve --addr 127.0.0.1:9000 --verbose
  quixo serve --allow-origin http://localhost:3000`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(opts, cmd)
		},
	}

	addDBFlag(cmd, &opts.Database, rootOpts)
	cmd.Flags().StringVar(&opts.Addr, "addr", rootOpts.Env.Addr, "listen address (default from QUIXO_ADDR)")
	cmd.Flags().StringSliceVar(&opts.AllowOrigins, "allow-origin", nil, "origins allowed to open the websocket feed (repeatable)")

	return cmd
}

func runServe(opts *ServeOptions, cmd *cobra.Command) error {
	setupLogging(cmd.ErrOrStderr(), logLevel(opts.Verbose, slog.LevelInfo))

	if opts.Addr == "" {
		return NewExitError(ExitCommandError, "no listen address: pass --addr or set QUIXO_ADDR")
	}

	hub := server.NewHub()
	svc, st, err := openService(opts.RootOptions, opts.Database, session.WithNotifier(hub))
	if err != nil {
		return err
	}
	defer closeStore(st)

	ctx, cancel := context.WithCancel(cmdContext(cmd))
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	go func() {
		select {
		case sig := <-sigChan:
			slog.Info("received signal, shutting down", "signal", sig)
			cancel()
		case <-ctx.Done():
		}
	}()

	fmt.Fprintf(cmd.OutOrStdout(), "Serving on %s. Press Ctrl-C to stop.\n", opts.Addr)
	timeout := opts.Env.ShutdownTimeout
	if timeout <= 0 {
		timeout = defaultShutdownTimeout
	}
	var serverOpts []server.Option
	if len(opts.AllowOrigins) > 0 {
		slog.Info("websocket origins allowed", "origins", opts.AllowOrigins)
		serverOpts = append(serverOpts, server.WithCheckOrigin(server.AllowOrigins(opts.AllowOrigins...)))
	}
	if err := server.New(svc, hub, serverOpts...).ListenAndServe(ctx, opts.Addr, timeout); err != nil {
		return WrapExitError(ExitFailure, "server error", err)
	}

	slog.Info("server stopped gracefully")
	return nil
}
