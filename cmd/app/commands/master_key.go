package commands

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"io"
	"time"

	keysetDomain "github.com/allisson/fieldcrypt/internal/keyset/domain"
)

// RunCreateMasterKey generates a 32-byte master key for wrapping keysets and prints it in
// both supported configuration forms. If keyID is empty it defaults to
// "master-key-YYYY-MM-DD". Key material is zeroed after encoding.
func RunCreateMasterKey(writer io.Writer, keyID string) error {
	if keyID == "" {
		keyID = fmt.Sprintf("master-key-%s", time.Now().Format("2006-01-02"))
	}

	masterKey := make([]byte, 32)
	if _, err := rand.Read(masterKey); err != nil {
		return fmt.Errorf("failed to generate master key: %w", err)
	}
	defer keysetDomain.Zero(masterKey)

	encoded := base64.StdEncoding.EncodeToString(masterKey)

	_, _ = fmt.Fprintln(writer, "# Raw master key chain")
	_, _ = fmt.Fprintf(writer, "MASTER_KEYS=\"%s:%s\"\n", keyID, encoded)
	_, _ = fmt.Fprintf(writer, "ACTIVE_MASTER_KEY_ID=\"%s\"\n", keyID)
	_, _ = fmt.Fprintln(writer)
	_, _ = fmt.Fprintln(writer, "# Or, as a local keeper URI")
	_, err := fmt.Fprintf(writer, "MASTER_KEY_URI=\"base64key://%s\"\n", base64.URLEncoding.EncodeToString(masterKey))
	return err
}
