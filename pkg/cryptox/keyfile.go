package cryptox

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// LoadOrCreateKey reads key material from path, generating and writing a new
// random key (mode 0600) when the file does not exist yet.
func LoadOrCreateKey(path string) ([]byte, error) {
	path = filepath.Clean(path)

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		key := strings.TrimSpace(string(data))
		if key == "" {
			return nil, fmt.Errorf("cryptox: key file %s is empty", path)
		}
		return []byte(key), nil
	case !errors.Is(err, fs.ErrNotExist):
		return nil, fmt.Errorf("cryptox: read key file: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("cryptox: create key dir: %w", err)
	}

	key, err := GenerateToken(KeySize)
	if err != nil {
		return nil, err
	}

	if err := os.WriteFile(path, []byte(key), 0o600); err != nil {
		return nil, fmt.Errorf("cryptox: write key file: %w", err)
	}

	return []byte(key), nil
}
