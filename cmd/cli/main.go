package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/tebeka/atexit"

	"github.com/SuramyaVimal/dag-cd/internal/app"
	"github.com/SuramyaVimal/dag-cd/internal/cli"
)

// main is the entrypoint for the dagcd application.
func main() {
	// Use a minimal logger until the full one is configured.
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})))

	// The real main function handles errors and exit codes. atexit runs the
	// cleanups registered by run before the process ends.
	if err := run(os.Stdin, os.Stdout, os.Args[1:]); err != nil {
		var exitErr *cli.ExitError
		if errors.As(err, &exitErr) {
			fmt.Fprintln(os.Stderr, exitErr.Message)
			atexit.Exit(exitErr.Code)
		}
		fmt.Fprintln(os.Stderr, err)
		atexit.Exit(1)
	}
	atexit.Exit(0)
}

// run encapsulates the main application logic for easier testing and error
// handling. Reports go to outW; logs and diagnostics go to stderr.
func run(stdin io.Reader, outW io.Writer, args []string) (err error) {
	appConfig, shouldExit, err := cli.Parse(args, outW)
	if err != nil {
		return err
	}
	if shouldExit {
		return nil
	}

	// Recover here so an unexpected startup or analysis panic becomes a clean
	// exit message instead of a stack trace.
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("application panicked | %v", r)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	dagcd, err := app.NewApp(ctx, outW, os.Stderr, stdin, appConfig)
	if err != nil {
		return err
	}
	atexit.Register(func() {
		if err := dagcd.Close(); err != nil {
			slog.Warn("Failed to close cache.", "error", err)
		}
	})

	return dagcd.Run(ctx)
}
