package api_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/aussiebroadwan/botadmin/internal/console/api"
	"github.com/aussiebroadwan/botadmin/internal/console/domain"
	"github.com/stretchr/testify/require"
)

// memCreds is an in-memory stand-in for the credential store.
type memCreds struct {
	mu    sync.Mutex
	creds domain.Credentials
}

func (m *memCreds) Load(context.Context) domain.Credentials {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.creds
}

func (m *memCreds) SaveTokens(_ context.Context, access, refresh string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.creds.AccessToken = access
	if refresh != "" {
		m.creds.RefreshToken = refresh
	}
}

// recordingTerminator remembers every forced logout.
type recordingTerminator struct {
	mu      sync.Mutex
	reasons []domain.LogoutReason
}

func (r *recordingTerminator) Terminate(_ context.Context, reason domain.LogoutReason) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.reasons = append(r.reasons, reason)
}

func (r *recordingTerminator) calls() []domain.LogoutReason {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]domain.LogoutReason(nil), r.reasons...)
}

// newClient starts srv and returns a pipeline client pointed at it.
func newClient(t *testing.T, h http.Handler, creds *memCreds, opts ...func(*api.Options)) (*api.Client, *recordingTerminator) {
	t.Helper()

	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	o := api.Options{BaseURL: srv.URL + "/api"}
	for _, fn := range opts {
		fn(&o)
	}

	term := &recordingTerminator{}
	c, err := api.New(o, creds, term)
	require.NoError(t, err)

	return c, term
}
