package service

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/tink-crypto/tink-go/v2/aead"
	"github.com/tink-crypto/tink-go/v2/daead"
	"github.com/tink-crypto/tink-go/v2/insecurecleartextkeyset"
	"github.com/tink-crypto/tink-go/v2/keyset"

	keysetDomain "github.com/allisson/fieldcrypt/internal/keyset/domain"
)

// FileSource reads keysets stored as files in Tink's JSON keyset format.
type FileSource struct {
	logger *slog.Logger
}

// NewFileSource creates a FileSource. A nil logger falls back to slog.Default.
func NewFileSource(logger *slog.Logger) *FileSource {
	if logger == nil {
		logger = slog.Default()
	}
	return &FileSource{logger: logger}
}

// Resolve reads and, for wrapped keysets, unwraps the keyset at d.Location(), then builds its
// primitives. It fails only when the file cannot be read or parsed, or when the keyset yields
// neither a randomized nor a deterministic primitive. Nothing is retried.
func (s *FileSource) Resolve(ctx context.Context, d *keysetDomain.Descriptor) (*Handle, error) {
	data, err := os.ReadFile(d.Location())
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", keysetDomain.ErrKeysetFileNotFound, d.Location(), err)
	}

	kh, err := readKeyset(data, d)
	if err != nil {
		return nil, fmt.Errorf("%w: keyset %q: %w", keysetDomain.ErrInvalidKeyset, d.Name(), err)
	}

	h := &Handle{name: d.Name(), handle: kh}

	if h.aead, err = aead.New(kh); err != nil {
		h.aeadErr = fmt.Errorf("%w: keyset %q: %v", keysetDomain.ErrAEADUnavailable, d.Name(), err)
	}
	if h.deterministic, err = daead.New(kh); err != nil {
		h.detErr = fmt.Errorf(
			"%w: keyset %q: %v",
			keysetDomain.ErrDeterministicUnavailable,
			d.Name(),
			err,
		)
	}
	if h.aead == nil && h.deterministic == nil {
		return nil, fmt.Errorf("%w: keyset %q has no supported primitive", keysetDomain.ErrInvalidKeyset, d.Name())
	}

	s.logger.DebugContext(ctx, "keyset resolved",
		slog.String("keyset", d.Name()),
		slog.String("location", d.Location()),
		slog.Bool("wrapped", d.Wrapped()),
		slog.Uint64("primary_key_id", uint64(h.PrimaryKeyID())),
		slog.Bool("aead", h.aead != nil),
		slog.Bool("deterministic", h.deterministic != nil),
	)

	return h, nil
}

func readKeyset(data []byte, d *keysetDomain.Descriptor) (*keyset.Handle, error) {
	reader := keyset.NewJSONReader(bytes.NewReader(data))
	if !d.Wrapped() {
		return insecurecleartextkeyset.Read(reader)
	}
	return keyset.Read(reader, d.MasterKey())
}
