package api

import (
	"context"
	"net/http"

	"github.com/aussiebroadwan/botadmin/internal/console/domain"
	"github.com/aussiebroadwan/botadmin/pkg/eventbus"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Do runs one logical request through the pipeline.
//
// A 401 gets exactly one refresh-and-retry; the retried request is never
// refreshed again. A 403 ends the session without refreshing. Server errors
// are logged and returned unchanged.
func (c *Client) Do(ctx context.Context, req Request) Result {
	ctx, span := c.tracer.Start(ctx, "api "+req.Method+" "+req.Path,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("http.request.method", req.Method),
			attribute.String("botadmin.api.path", req.Path),
			attribute.Bool("botadmin.api.anonymous", req.Anonymous),
		),
	)
	defer span.End()

	res := c.do(ctx, req, span)

	span.SetAttributes(attribute.Int("http.response.status_code", res.Status))
	if !res.Success {
		span.SetStatus(codes.Error, res.Error)
	}
	return res
}

func (c *Client) do(ctx context.Context, req Request, span trace.Span) Result {
	var token string
	if !req.Anonymous {
		token = c.creds.Load(ctx).AccessToken
	}

	retried := false
	for {
		resp, err := c.dispatch(ctx, req, token)
		if err != nil {
			return transportFailure(err)
		}

		switch {
		case resp.ok():
			return succeeded(resp.status, resp.body)

		case resp.status == http.StatusUnauthorized && req.intercepted() && !retried:
			retried = true
			span.AddEvent("reauthenticate")

			next, err := c.reauthenticate(ctx, token)
			if callerGaveUp(ctx, err) {
				return transportFailure(err)
			}
			if err != nil {
				c.terminate(ctx, domain.LogoutExpired)
				return failed(resp.status, resp.body, true)
			}
			token = next
			continue

		case resp.status == http.StatusForbidden && req.intercepted():
			c.logger.Warn("access denied",
				"path", req.Path,
				"error", errorMessage(resp.status, resp.body, nil),
			)
			c.terminate(ctx, domain.LogoutForbidden)
			return failed(resp.status, resp.body, true)

		case resp.status >= http.StatusInternalServerError:
			msg := errorMessage(resp.status, resp.body, nil)
			c.logger.Error("server error",
				"path", req.Path,
				"status", resp.status,
				"error", msg,
			)
			if c.publishServerErrors {
				c.bus.Publish(eventbus.Event{Type: domain.EventServerError, Message: msg})
			}
			return failed(resp.status, resp.body, false)

		default:
			return failed(resp.status, resp.body, false)
		}
	}
}

// reauthenticate returns a token worth retrying with. When the stored token
// already differs from the one that was rejected, someone else refreshed in
// the meantime and that token is reused without another refresh call.
func (c *Client) reauthenticate(ctx context.Context, rejected string) (string, error) {
	if current := c.creds.Load(ctx).AccessToken; current != "" && current != rejected {
		c.metrics.refresh(refreshReused)
		return current, nil
	}

	token, err := c.Refresh(ctx)
	if err != nil {
		c.logger.Warn("token refresh failed", "error", err)
		return "", err
	}
	return token, nil
}

// Get is shorthand for a GET through the pipeline.
func (c *Client) Get(ctx context.Context, path string) Result {
	return c.Do(ctx, Request{Method: http.MethodGet, Path: path})
}

// Post is shorthand for a POST through the pipeline.
func (c *Client) Post(ctx context.Context, path string, body any) Result {
	return c.Do(ctx, Request{Method: http.MethodPost, Path: path, Body: body})
}
