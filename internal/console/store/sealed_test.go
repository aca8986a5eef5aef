package store_test

import (
	"context"
	"testing"

	"github.com/aussiebroadwan/botadmin/internal/console/store"
	"github.com/aussiebroadwan/botadmin/internal/console/store/drivers/memory"
	"github.com/aussiebroadwan/botadmin/pkg/cryptox"
	"github.com/stretchr/testify/require"
)

func TestSealedStore(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	sealer, err := cryptox.NewSealer([]byte("local-key"))
	require.NoError(t, err)

	inner := memory.NewStore()
	s := store.NewSealed(inner, sealer)

	require.NoError(t, s.Set(ctx, store.KeyAccessToken, "eyJ.secret.sig"))

	raw, err := inner.Get(ctx, store.KeyAccessToken)
	require.NoError(t, err)
	require.NotContains(t, raw, "secret")

	v, err := s.Get(ctx, store.KeyAccessToken)
	require.NoError(t, err)
	require.Equal(t, "eyJ.secret.sig", v)

	_, err = s.Get(ctx, store.KeyRefreshToken)
	require.ErrorIs(t, err, store.ErrNotFound)

	// A sealed value copied under another key must not open.
	require.NoError(t, inner.Set(ctx, store.KeyRefreshToken, raw))
	_, err = s.Get(ctx, store.KeyRefreshToken)
	require.Error(t, err)

	require.NoError(t, s.Delete(ctx, store.SessionKeys...))
	require.Zero(t, inner.Len())
}
