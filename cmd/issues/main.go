package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/pflag"

	"entomophage/internal/app/bootstrap"
	"entomophage/internal/platform/config"
)

// Issue service entrypoint.
// Data flow:
// 1) Load config from env, then flags.
// 2) Build app wiring (store + broker + use cases + sync dispatcher).
// 3) Serve HTTP and consume issueQueue until SIGINT/SIGTERM.
func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	flagSet := pflag.NewFlagSet("issues", pflag.ContinueOnError)
	override := config.AddFlags(flagSet)
	if err := flagSet.Parse(os.Args[1:]); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return nil
		}
		return err
	}

	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	cfg, err := config.Load(override)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := bootstrap.BuildIssues(ctx, cfg, nil)
	if err != nil {
		return fmt.Errorf("build issue service: %w", err)
	}
	defer func() { _ = app.Close() }()

	return app.Run(ctx)
}
