// Package http is the local status server started by `botadmin watch`.
package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/aussiebroadwan/botadmin/internal/console/domain"
	"github.com/aussiebroadwan/botadmin/internal/console/store"
	"github.com/aussiebroadwan/botadmin/pkg/httpx"
	"github.com/aussiebroadwan/botadmin/pkg/slogx"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// SessionSource reports the current session.
type SessionSource interface {
	State() domain.SessionState
}

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	buildVersion string
	startTime    time.Time
	logger       *slog.Logger
	limit        httpx.RateLimitConfig

	session  SessionSource
	store    store.Store
	gatherer prometheus.Gatherer
	tokens   TokenSource
}

func NewRouter(
	buildVersion string,
	session SessionSource,
	tokens TokenSource,
	st store.Store,
	gatherer prometheus.Gatherer,
	logger *slog.Logger,
) *Router {
	r := &Router{
		Mux:          http.NewServeMux(),
		buildVersion: buildVersion,
		startTime:    time.Now(),
		logger:       logger,
		limit:        httpx.ParseRateLimitFromEnv("LOCAL", httpx.LocalLimit),
		session:      session,
		tokens:       tokens,
		store:        st,
		gatherer:     gatherer,
	}

	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
	}

	return r
}

func (r *Router) ApplyRoutes() {
	r.registerSystem()
	r.registerSession()
	r.registerMetrics()
}

// ServeHTTP implements http.Handler for Router and applies the global middleware chain.
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

func (r *Router) registerSystem() {
	r.Mux.Handle("GET /livez",
		httpx.Chain(LivezHandler(r.startTime, r.buildVersion),
			httpx.RateLimitByIP(r.limit),
		),
	)
	r.Mux.Handle("GET /readyz",
		httpx.Chain(ReadyzHandler(r.startTime, r.buildVersion, r.store),
			httpx.RateLimitByIP(r.limit),
		),
	)
}

func (r *Router) registerSession() {
	r.Mux.Handle("GET /session",
		httpx.Chain(SessionHandler(r.session, r.tokens),
			httpx.RateLimitByIP(r.limit),
		),
	)
}

func (r *Router) registerMetrics() {
	if r.gatherer == nil {
		return
	}
	r.Mux.Handle("GET /metrics", promhttp.HandlerFor(r.gatherer, promhttp.HandlerOpts{}))
}
