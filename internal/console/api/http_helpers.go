package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// maxBodySize bounds how much of a response is buffered.
const maxBodySize = 8 << 20

// Request describes one logical backend call.
type Request struct {
	Method string
	Path   string
	Query  url.Values
	Body   any

	// Anonymous requests carry no bearer token and a 401 is an ordinary
	// failure (bad credentials), not a reason to refresh or log out.
	Anonymous bool

	// Passive requests carry the bearer token but leave 401 and 403 alone.
	Passive bool
}

func (r Request) intercepted() bool { return !r.Anonymous && !r.Passive }

type response struct {
	status int
	body   []byte
}

func (r response) ok() bool { return r.status >= 200 && r.status < 300 }

// dispatch performs a single HTTP exchange and buffers the body.
func (c *Client) dispatch(ctx context.Context, req Request, token string) (response, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return response{}, fmt.Errorf("rate limit: %w", err)
		}
	}

	var body io.Reader
	if req.Body != nil {
		b, err := json.Marshal(req.Body)
		if err != nil {
			return response{}, fmt.Errorf("failed to encode request: %w", err)
		}
		body = bytes.NewReader(b)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, c.url(req.Path, req.Query), body)
	if err != nil {
		return response{}, fmt.Errorf("failed to create request: %w", err)
	}

	httpReq.Header.Set("Accept", "application/json")
	if body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	if token != "" && !req.Anonymous {
		httpReq.Header.Set("Authorization", "Bearer "+token)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		c.metrics.request(req.Method, 0, time.Since(start))
		return response{}, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	b, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	c.metrics.request(req.Method, resp.StatusCode, time.Since(start))
	if err != nil {
		return response{}, fmt.Errorf("failed to read response body: %w", err)
	}

	return response{status: resp.StatusCode, body: b}, nil
}
