// Package main is the fieldcrypt command: the customers API server, migrations, and keyset
// tooling.
package main

import (
	"context"
	"log/slog"
	"os"
)

var version = "dev"

func main() {
	if err := newApp(version).Run(context.Background(), os.Args); err != nil {
		slog.Error("command failed", slog.Any("error", err))
		os.Exit(1)
	}
}
