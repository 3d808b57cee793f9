package commands

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/tink-crypto/tink-go/v2/aead"
	"github.com/tink-crypto/tink-go/v2/daead"
	"github.com/tink-crypto/tink-go/v2/insecurecleartextkeyset"
	"github.com/tink-crypto/tink-go/v2/keyset"
	tinkpb "github.com/tink-crypto/tink-go/v2/proto/tink_go_proto"

	keysetDomain "github.com/allisson/fieldcrypt/internal/keyset/domain"
)

// keyTemplates lists the key types a keyset can be generated for. aes-siv is the only
// deterministic one.
var keyTemplates = map[string]func() *tinkpb.KeyTemplate{
	"aes256-gcm":         aead.AES256GCMKeyTemplate,
	"chacha20-poly1305":  aead.ChaCha20Poly1305KeyTemplate,
	"xchacha20-poly1305": aead.XChaCha20Poly1305KeyTemplate,
	"aes-siv":            daead.AESSIVKeyTemplate,
}

// RunCreateKeyset generates a single-key Tink keyset of the given key type and writes it to
// writer in JSON format. A nil masterKey writes cleartext; otherwise the keyset is wrapped.
func RunCreateKeyset(
	logger *slog.Logger,
	writer io.Writer,
	keyType string,
	masterKey keysetDomain.MasterKey,
) error {
	template, ok := keyTemplates[keyType]
	if !ok {
		return fmt.Errorf(
			"invalid key type: %s (valid options: aes256-gcm, chacha20-poly1305, xchacha20-poly1305, aes-siv)",
			keyType,
		)
	}

	h, err := keyset.NewHandle(template())
	if err != nil {
		return fmt.Errorf("failed to generate keyset: %w", err)
	}

	if masterKey == nil {
		if err := insecurecleartextkeyset.Write(h, keyset.NewJSONWriter(writer)); err != nil {
			return fmt.Errorf("failed to write keyset: %w", err)
		}
		logger.Debug("cleartext keyset generated", slog.String("key_type", keyType))
		return nil
	}

	if err := h.Write(keyset.NewJSONWriter(writer), masterKey); err != nil {
		return fmt.Errorf("failed to write wrapped keyset: %w", err)
	}
	logger.Debug("wrapped keyset generated",
		slog.String("key_type", keyType),
		slog.String("master_key_id", masterKey.ID()),
	)
	return nil
}
