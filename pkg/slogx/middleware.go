package slogx

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/aussiebroadwan/botadmin/pkg/idx"
)

// RequestIDHeader carries the correlation id on inbound and outbound calls.
const RequestIDHeader = "X-Request-ID"

// HTTPMiddleware logs requests and attaches a contextual logger into request context.
func HTTPMiddleware(base *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rw := &responseWriter{ResponseWriter: w, status: http.StatusOK}

			reqID := r.Header.Get(RequestIDHeader)
			if reqID == "" {
				reqID = idx.New().String()
			}

			rw.Header().Set(RequestIDHeader, reqID)

			ctx := WithRequestID(WithContext(r.Context(), base), reqID)
			logger := FromContext(ctx).With(
				"method", r.Method,
				"path", r.URL.Path,
				"remote_addr", r.RemoteAddr,
			)

			r = r.WithContext(WithContext(ctx, logger))
			next.ServeHTTP(rw, r)

			logger.Debug("http_request",
				"status", rw.status,
				"duration_ms", time.Since(start).Milliseconds(),
			)
		})
	}
}

type responseWriter struct {
	http.ResponseWriter

	status int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.status = code
	rw.ResponseWriter.WriteHeader(code)
}
