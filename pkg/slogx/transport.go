package slogx

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/aussiebroadwan/botadmin/pkg/idx"
)

// Transport is an http.RoundTripper that stamps outbound requests with a
// request id and logs their outcome. The Authorization header is never logged.
type Transport struct {
	Base   http.RoundTripper
	Logger *slog.Logger
}

// NewTransport wraps base (http.DefaultTransport when nil).
func NewTransport(base http.RoundTripper, logger *slog.Logger) *Transport {
	if base == nil {
		base = http.DefaultTransport
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Transport{Base: base, Logger: logger}
}

func (t *Transport) RoundTrip(req *http.Request) (*http.Response, error) {
	start := time.Now()

	reqID := req.Header.Get(RequestIDHeader)
	if reqID == "" {
		reqID = idx.New().String()
		req = req.Clone(req.Context())
		req.Header.Set(RequestIDHeader, reqID)
	}

	logger := t.Logger.With(
		"req_id", reqID,
		"method", req.Method,
		"url", req.URL.Redacted(),
	)

	resp, err := t.Base.RoundTrip(req)
	if err != nil {
		logger.Warn("api_request_failed",
			"error", err,
			"duration_ms", time.Since(start).Milliseconds(),
		)
		return nil, err
	}

	logger.Debug("api_request",
		"status", resp.StatusCode,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return resp, nil
}
