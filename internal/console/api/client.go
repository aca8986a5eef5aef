// Package api is the authenticated request pipeline for the BOT backend.
//
// Every call goes through Client.Do, which attaches the stored bearer token,
// refreshes it at most once when the backend answers 401, and hands
// unrecoverable authorization failures to the session terminator. Calls never
// return errors for expected failures; they return a Result instead.
package api

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/aussiebroadwan/botadmin/internal/console/domain"
	"github.com/aussiebroadwan/botadmin/pkg/eventbus"
	"github.com/aussiebroadwan/botadmin/pkg/slogx"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/singleflight"
	"golang.org/x/time/rate"
)

const (
	DefaultBaseURL = "http://localhost:8080/api"
	DefaultTimeout = 10 * time.Second

	tracerName = "github.com/aussiebroadwan/botadmin/internal/console/api"
)

// Credentials is the slice of the credential store the pipeline needs.
type Credentials interface {
	Load(ctx context.Context) domain.Credentials
	SaveTokens(ctx context.Context, accessToken, refreshToken string)
}

// Terminator ends the local session after an unrecoverable auth failure.
type Terminator interface {
	Terminate(ctx context.Context, reason domain.LogoutReason)
}

type Options struct {
	BaseURL string
	Timeout time.Duration

	// HTTPClient overrides the default client. Its transport is wrapped with
	// request logging.
	HTTPClient *http.Client

	Logger  *slog.Logger
	Limiter *rate.Limiter
	Metrics *Metrics
	Tracer  trace.Tracer
	Bus     eventbus.Bus

	// PublishServerErrors emits a server-error event for 5xx responses.
	// Off by default: server errors are only logged.
	PublishServerErrors bool
}

type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
	limiter    *rate.Limiter
	metrics    *Metrics
	tracer     trace.Tracer
	bus        eventbus.Bus

	publishServerErrors bool

	creds      Credentials
	terminator Terminator

	refreshGroup singleflight.Group
}

// New builds a pipeline client. terminator may be nil, in which case auth
// failures are reported but the local session is left alone.
func New(opts Options, creds Credentials, terminator Terminator) (*Client, error) {
	if creds == nil {
		return nil, errors.New("api: credentials are required")
	}

	base := opts.BaseURL
	if base == "" {
		base = DefaultBaseURL
	}
	u, err := url.Parse(base)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, errors.New("api: base url must be absolute, got " + base)
	}

	logger := opts.Logger
	if logger == nil {
		logger = slogx.Discard()
	}

	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	hc := &http.Client{Timeout: timeout}
	if opts.HTTPClient != nil {
		clone := *opts.HTTPClient
		hc = &clone
	}
	hc.Transport = slogx.NewTransport(hc.Transport, logger)

	tracer := opts.Tracer
	if tracer == nil {
		tracer = otel.Tracer(tracerName)
	}

	bus := opts.Bus
	if bus == nil {
		bus = eventbus.Nop{}
	}

	return &Client{
		baseURL:             strings.TrimSuffix(base, "/"),
		httpClient:          hc,
		logger:              logger,
		limiter:             opts.Limiter,
		metrics:             opts.Metrics,
		tracer:              tracer,
		bus:                 bus,
		publishServerErrors: opts.PublishServerErrors,
		creds:               creds,
		terminator:          terminator,
	}, nil
}

// BaseURL returns the backend root every path is resolved against.
func (c *Client) BaseURL() string { return c.baseURL }

// url builds a complete URL by appending the path and query to the base URL.
func (c *Client) url(path string, query url.Values) string {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	return u
}

func (c *Client) terminate(ctx context.Context, reason domain.LogoutReason) {
	c.metrics.forcedLogout(reason)
	if c.terminator == nil {
		return
	}
	c.terminator.Terminate(ctx, reason)
}
