package http_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/aussiebroadwan/botadmin/internal/console/domain"
	consolehttp "github.com/aussiebroadwan/botadmin/internal/console/http"
	"github.com/aussiebroadwan/botadmin/internal/console/store"
	"github.com/aussiebroadwan/botadmin/internal/console/store/drivers/memory"
	"github.com/aussiebroadwan/botadmin/pkg/slogx"
	"github.com/aussiebroadwan/botadmin/pkg/tokenx"
	"github.com/golang-jwt/jwt/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/stretchr/testify/require"
)

type fixedSession domain.SessionState

func (f fixedSession) State() domain.SessionState { return domain.SessionState(f) }

type downStore struct{ store.Store }

func (downStore) Ping(context.Context) error { return errors.New("connection refused") }

func newRouter(t *testing.T, sess consolehttp.SessionSource, tokens consolehttp.TokenSource, st store.Store) (*consolehttp.Router, *prometheus.Registry) {
	t.Helper()

	reg := prometheus.NewRegistry()
	r := consolehttp.NewRouter("v-test", sess, tokens, st, reg, slogx.Discard())
	r.ApplyRoutes()
	return r, reg
}

func get(t *testing.T, h http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestHealthEndpoints(t *testing.T) {
	t.Parallel()

	t.Run("livez", func(t *testing.T) {
		r, _ := newRouter(t, fixedSession{}, nil, memory.NewStore())
		rec := get(t, r, "/livez")
		require.Equal(t, http.StatusOK, rec.Code)

		var body consolehttp.HealthResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		require.Equal(t, "ok", body.Status)
		require.Equal(t, "v-test", body.Version)
	})

	t.Run("readyz degraded when store is down", func(t *testing.T) {
		r, _ := newRouter(t, fixedSession{}, nil, downStore{})
		rec := get(t, r, "/readyz")
		require.Equal(t, http.StatusServiceUnavailable, rec.Code)

		var body consolehttp.HealthResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		require.Equal(t, "degraded", body.Status)
		require.Contains(t, body.Checks.Store, "connection refused")
	})
}

func TestSessionEndpoint(t *testing.T) {
	t.Parallel()

	t.Run("signed out", func(t *testing.T) {
		r, _ := newRouter(t, fixedSession{}, func() string { return "" }, memory.NewStore())
		rec := get(t, r, "/session")
		require.Equal(t, http.StatusOK, rec.Code)
		require.Equal(t, "no-store", rec.Header().Get("Cache-Control"))

		var body consolehttp.SessionResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		require.False(t, body.IsAuthenticated)
		require.Zero(t, body.RemainingSeconds)
	})

	t.Run("signed in", func(t *testing.T) {
		token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, tokenx.Claims{
			RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(time.Now().Add(3 * time.Minute))},
		}).SignedString([]byte("k"))
		require.NoError(t, err)

		sess := fixedSession{IsAuthenticated: true, Identity: &domain.Identity{DisplayName: "ops"}}
		r, _ := newRouter(t, sess, func() string { return token }, memory.NewStore())
		rec := get(t, r, "/session")

		require.NotContains(t, rec.Body.String(), token)

		var body consolehttp.SessionResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		require.True(t, body.IsAuthenticated)
		require.Equal(t, "ops", body.Identity.DisplayName)
		require.True(t, body.ExpiringSoon)
		require.Positive(t, body.RemainingSeconds)
		require.NotEmpty(t, body.ExpiresAt)
	})
}

func TestMetricsEndpoint(t *testing.T) {
	t.Parallel()

	r, reg := newRouter(t, fixedSession{}, nil, memory.NewStore())
	promauto.With(reg).NewCounter(prometheus.CounterOpts{
		Name: "botadmin_test_total",
		Help: "test counter",
	}).Inc()

	rec := get(t, r, "/metrics")
	require.Equal(t, http.StatusOK, rec.Code)
	require.True(t, strings.Contains(rec.Body.String(), "botadmin_test_total 1"))
}
