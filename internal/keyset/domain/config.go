package domain

import (
	"fmt"
	"strings"
)

// MasterKeyResolver returns the master key for a keyset entry. An empty id selects the
// default master key of the deployment.
type MasterKeyResolver func(id string) (MasterKey, error)

// ParseKeysets parses the KEYSETS configuration value into a Config.
//
// Format: comma-separated "name:path:mode[:masterKeyID]" entries where mode is
// "cleartext" or "wrapped". Wrapped entries obtain their master key from resolve.
//
//	KEYSETS="default:/etc/keys/aead.json:cleartext,lookup:/etc/keys/daead.json:wrapped:key1"
func ParseKeysets(raw string, resolve MasterKeyResolver) (Config, error) {
	cfg := Config{}
	if strings.TrimSpace(raw) == "" {
		return cfg, nil
	}

	for part := range strings.SplitSeq(raw, ",") {
		fields := strings.Split(strings.TrimSpace(part), ":")
		if len(fields) < 3 || len(fields) > 4 || fields[0] == "" {
			return nil, fmt.Errorf("%w: %q", ErrInvalidKeysetsFormat, part)
		}

		name, path, mode := fields[0], fields[1], fields[2]
		if _, exists := cfg[name]; exists {
			return nil, fmt.Errorf("%w: duplicate keyset %q", ErrInvalidKeysetsFormat, name)
		}

		switch mode {
		case "cleartext":
			if len(fields) == 4 {
				return nil, fmt.Errorf("%w: %q", ErrUnexpectedMasterKey, part)
			}
			cfg[name] = Entry{Path: path, Cleartext: true}
		case "wrapped":
			if resolve == nil {
				return nil, fmt.Errorf("%w: keyset %q", ErrMasterKeyRequired, name)
			}
			var masterKeyID string
			if len(fields) == 4 {
				masterKeyID = fields[3]
			}
			masterKey, err := resolve(masterKeyID)
			if err != nil {
				return nil, fmt.Errorf("keyset %q: %w", name, err)
			}
			cfg[name] = Entry{Path: path, MasterKey: masterKey}
		default:
			return nil, fmt.Errorf("%w: unknown mode %q for keyset %q", ErrInvalidKeysetsFormat, mode, name)
		}
	}

	return cfg, nil
}
