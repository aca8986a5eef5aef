package service_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/aussiebroadwan/botadmin/internal/console/api"
	"github.com/aussiebroadwan/botadmin/internal/console/service"
	"github.com/aussiebroadwan/botadmin/internal/console/store"
	"github.com/aussiebroadwan/botadmin/internal/console/store/drivers/memory"
	"github.com/aussiebroadwan/botadmin/pkg/eventbus"
	"github.com/aussiebroadwan/botadmin/pkg/tokenx"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

// requireSignedOut checks that no part of the session record is stored.
// Other keys, such as a pending redirect intent, may remain.
func requireSignedOut(t *testing.T, st *memory.Store) {
	t.Helper()
	for _, key := range store.SessionKeys {
		_, err := st.Get(context.Background(), key)
		require.ErrorIs(t, err, store.ErrNotFound, key)
	}
}

// mintToken signs a token expiring at exp. The signature is never checked
// client side.
func mintToken(t *testing.T, exp time.Time) string {
	t.Helper()

	claims := tokenx.Claims{
		RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(exp)},
		Username:         "a@b.com",
		Email:            "a@b.com",
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return token
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

type harness struct {
	store   *memory.Store
	creds   *service.CredentialStore
	bus     *eventbus.Local
	term    *service.Terminator
	client  *api.Client
	session *service.Session
}

// newHarness wires a session against a fake backend served by h.
func newHarness(t *testing.T, h http.Handler, nav service.Navigator) *harness {
	t.Helper()

	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	st := memory.NewStore()
	creds := service.NewCredentialStore(st, nil)
	bus := eventbus.New(nil)
	term := service.NewTerminator(creds, nav, bus, service.NewLogoutGuard(service.DefaultLogoutCooldown), nil)

	client, err := api.New(api.Options{BaseURL: srv.URL + "/api"}, creds, term)
	require.NoError(t, err)

	sess := service.NewSession(client, creds, term, service.SessionOptions{})
	t.Cleanup(sess.Close)

	return &harness{
		store:   st,
		creds:   creds,
		bus:     bus,
		term:    term,
		client:  client,
		session: sess,
	}
}

// events records everything published for the given types.
func (h *harness) events(types ...string) func() []eventbus.Event {
	ch := make(chan eventbus.Event, 16)
	for _, typ := range types {
		h.bus.Subscribe(typ, func(e eventbus.Event) { ch <- e })
	}
	return func() []eventbus.Event {
		var out []eventbus.Event
		for {
			select {
			case e := <-ch:
				out = append(out, e)
			default:
				return out
			}
		}
	}
}

// syncBuffer is a bytes.Buffer safe for concurrent writers.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}
