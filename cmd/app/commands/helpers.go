// Package commands implements the fieldcrypt subcommands. Each Run function takes its
// dependencies and output writer explicitly so it can be tested without the CLI.
package commands

import (
	"fmt"
	"log/slog"

	"github.com/golang-migrate/migrate/v4"

	"github.com/allisson/fieldcrypt/internal/codec"
)

func closeMigrate(m *migrate.Migrate, logger *slog.Logger) {
	if sourceErr, dbErr := m.Close(); sourceErr != nil || dbErr != nil {
		logger.Error("failed to close migrations",
			slog.Any("source_error", sourceErr),
			slog.Any("database_error", dbErr),
		)
	}
}

// parseMode converts the --mode flag to a codec mode.
func parseMode(mode string) (codec.Mode, error) {
	switch mode {
	case "random":
		return codec.Random, nil
	case "deterministic":
		return codec.Deterministic, nil
	default:
		return 0, fmt.Errorf("invalid mode: %s (valid options: random, deterministic)", mode)
	}
}
