package main

import (
	"context"
	"io"
	"log/slog"
	"os"
	"os/signal"

	"github.com/vk/ts-dumper/internal/app"
	"github.com/vk/ts-dumper/internal/cli"
)

// main is the entrypoint for the ts-dumper application.
func main() {
	// Use a minimal logger until the configured one takes over.
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelWarn,
	})))

	if err := run(os.Stdout, os.Stderr, os.Args[1:]); err != nil {
		cli.PrintError(os.Stderr, err, cli.TraceEnabled(os.Args[1:]))
		os.Exit(cli.ExitCode(err))
	}
}

// run encapsulates the main application logic for easier testing and error
// handling. Help, version and prompt output go to outW; logs and progress
// to errW.
func run(outW, errW io.Writer, args []string) error {
	cfg, shouldExit, err := cli.Parse(args, outW)
	if err != nil {
		return err
	}
	if shouldExit {
		return nil
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	a := app.NewApp(errW, cfg)
	defer a.Close()
	return a.Run(ctx)
}
