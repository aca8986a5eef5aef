package store

import (
	"context"
	"encoding/base64"
	"fmt"

	"github.com/aussiebroadwan/botadmin/pkg/cryptox"
)

// Sealed encrypts every value before it reaches the wrapped store. The key
// name is bound as additional data so a value cannot be moved between keys.
type Sealed struct {
	Store
	sealer *cryptox.Sealer
}

var _ Store = (*Sealed)(nil)

func NewSealed(inner Store, sealer *cryptox.Sealer) *Sealed {
	return &Sealed{Store: inner, sealer: sealer}
}

func (s *Sealed) Get(ctx context.Context, key string) (string, error) {
	raw, err := s.Store.Get(ctx, key)
	if err != nil {
		return "", err
	}

	sealed, err := base64.RawStdEncoding.DecodeString(raw)
	if err != nil {
		return "", fmt.Errorf("store: decode sealed %q: %w", key, err)
	}

	plain, err := s.sealer.Open(sealed, []byte(key))
	if err != nil {
		return "", fmt.Errorf("store: open sealed %q: %w", key, err)
	}

	return string(plain), nil
}

func (s *Sealed) Set(ctx context.Context, key, value string) error {
	sealed, err := s.sealer.Seal([]byte(value), []byte(key))
	if err != nil {
		return fmt.Errorf("store: seal %q: %w", key, err)
	}

	return s.Store.Set(ctx, key, base64.RawStdEncoding.EncodeToString(sealed))
}
