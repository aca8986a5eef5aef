package slogx_test

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/aussiebroadwan/botadmin/pkg/slogx"
	"github.com/stretchr/testify/require"
)

func TestHTTPMiddlewareTagsContextLogger(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	base := slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelInfo}))

	h := slogx.HTTPMiddleware(base)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		slogx.FromContext(r.Context()).Info("handled")
		w.WriteHeader(http.StatusNoContent)
	}))

	t.Run("keeps the caller's id", func(t *testing.T) {
		buf.Reset()
		req := httptest.NewRequest(http.MethodGet, "/livez", nil)
		req.Header.Set(slogx.RequestIDHeader, "req-42")
		rec := httptest.NewRecorder()

		h.ServeHTTP(rec, req)

		require.Equal(t, http.StatusNoContent, rec.Code)
		require.Equal(t, "req-42", rec.Header().Get(slogx.RequestIDHeader))

		var entry map[string]any
		require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
		require.Equal(t, "handled", entry["msg"])
		require.Equal(t, "req-42", entry["req_id"])
		require.Equal(t, "/livez", entry["path"])
	})

	t.Run("mints an id when none is sent", func(t *testing.T) {
		buf.Reset()
		rec := httptest.NewRecorder()

		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))

		id := rec.Header().Get(slogx.RequestIDHeader)
		require.NotEmpty(t, id)

		var entry map[string]any
		require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
		require.Equal(t, id, entry["req_id"])
	})
}

func TestWithRequestID(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	base := slog.New(slog.NewJSONHandler(&buf, nil))

	ctx := slogx.WithRequestID(slogx.WithContext(context.Background(), base), "abc")
	slogx.FromContext(ctx).Info("tagged")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	require.Equal(t, "abc", entry["req_id"])
}
