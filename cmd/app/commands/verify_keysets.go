package commands

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"

	keysetService "github.com/allisson/fieldcrypt/internal/keyset/service"
)

type keysetStatus struct {
	Name         string `json:"name"`
	Status       string `json:"status"`
	PrimaryKeyID uint32 `json:"primary_key_id,omitempty"`
	Error        string `json:"error,omitempty"`
}

// RunVerifyKeysets resolves every configured keyset and reports each one in text or json
// format. It fails when no keyset is configured or any keyset cannot be loaded.
func RunVerifyKeysets(
	ctx context.Context,
	keyring *keysetService.Keyring,
	logger *slog.Logger,
	writer io.Writer,
	format string,
) error {
	if format != "text" && format != "json" {
		return fmt.Errorf("invalid format: %s (valid options: text, json)", format)
	}

	if err := keyring.Validate(); err != nil {
		logger.Error("keyset configuration invalid", slog.Any("error", err))
		return err
	}

	var (
		statuses []keysetStatus
		failures []error
	)
	for _, name := range keyring.Names() {
		h, err := keyring.Handle(ctx, name)
		if err != nil {
			failures = append(failures, err)
			statuses = append(statuses, keysetStatus{Name: name, Status: "error", Error: err.Error()})
			continue
		}
		statuses = append(statuses, keysetStatus{Name: name, Status: "ok", PrimaryKeyID: h.PrimaryKeyID()})
	}

	if format == "json" {
		if err := json.NewEncoder(writer).Encode(statuses); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	} else {
		for _, s := range statuses {
			if s.Error != "" {
				_, _ = fmt.Fprintf(writer, "%s: %s (%s)\n", s.Name, s.Status, s.Error)
				continue
			}
			_, _ = fmt.Fprintf(writer, "%s: %s (primary key %d)\n", s.Name, s.Status, s.PrimaryKeyID)
		}
	}

	if len(failures) > 0 {
		return fmt.Errorf("%d of %d keysets failed verification: %w", len(failures), len(statuses), errors.Join(failures...))
	}

	logger.Debug("all keysets verified", slog.Int("count", len(statuses)))
	return nil
}
