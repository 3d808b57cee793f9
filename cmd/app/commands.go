package main

import (
	"context"
	"log/slog"

	"github.com/urfave/cli/v3"

	"github.com/allisson/fieldcrypt/internal/app"
	"github.com/allisson/fieldcrypt/internal/config"
)

func newApp(version string) *cli.Command {
	return &cli.Command{
		Name:     "fieldcrypt",
		Usage:    "Field-level encryption for database columns",
		Version:  version,
		Commands: append(getSystemCommands(version), getKeysetCommands()...),
	}
}

// containerAction runs fn with a container built from the validated environment and shuts
// the container down when fn returns.
func containerAction(fn func(ctx context.Context, cmd *cli.Command, container *app.Container) error) cli.ActionFunc {
	return func(ctx context.Context, cmd *cli.Command) error {
		cfg := config.Load()
		if err := cfg.Validate(); err != nil {
			return err
		}

		container := app.NewContainer(cfg)
		defer func() {
			if err := container.Shutdown(context.WithoutCancel(ctx)); err != nil {
				container.Logger().Error("failed to shutdown container", slog.Any("error", err))
			}
		}()

		return fn(ctx, cmd, container)
	}
}
