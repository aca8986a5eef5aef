package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/aussiebroadwan/botadmin/internal/console/api"
	"github.com/aussiebroadwan/botadmin/internal/console/domain"
	consolehttp "github.com/aussiebroadwan/botadmin/internal/console/http"
	"github.com/aussiebroadwan/botadmin/internal/console/service"
	"github.com/aussiebroadwan/botadmin/internal/console/store"
	"github.com/aussiebroadwan/botadmin/internal/console/store/drivers/memory"
	redisstore "github.com/aussiebroadwan/botadmin/internal/console/store/drivers/redis"
	"github.com/aussiebroadwan/botadmin/internal/console/store/drivers/sqlite"
	"github.com/aussiebroadwan/botadmin/pkg/cryptox"
	"github.com/aussiebroadwan/botadmin/pkg/eventbus"
	"github.com/aussiebroadwan/botadmin/pkg/httpx"
	"github.com/aussiebroadwan/botadmin/pkg/slogx"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
)

// BuildVersion is overridden at build time via ldflags.
var BuildVersion = "v0.1.0"

// Application wires the console: credential store, request pipeline,
// session controller and the optional status server.
type Application struct {
	cfg    Config
	logger *slog.Logger
	out    io.Writer

	registry *prometheus.Registry
	bus      *eventbus.Local
	db       store.Store

	creds      *service.CredentialStore
	navigator  *service.ConsoleNavigator
	terminator *service.Terminator
	client     *api.Client
	session    *service.Session

	unsubscribe []func()

	server *http.Server
}

// New builds the application and restores any stored session. Notifications
// and sign-in hints are written to out.
func New(ctx context.Context, cfg Config, out io.Writer) (*Application, error) {
	if out == nil {
		out = io.Discard
	}

	app := &Application{
		cfg: cfg,
		out: out,
		logger: slogx.New(slogx.Config{
			Service: "botadmin",
			Version: BuildVersion,
			Env:     cfg.Env,
			Level:   cfg.LogLevel,
			Format:  cfg.LogFormat,
		}),
		registry: prometheus.NewRegistry(),
	}
	app.registry.MustRegister(collectors.NewGoCollector())

	if err := app.initStore(ctx); err != nil {
		return nil, err
	}
	if err := app.initSession(); err != nil {
		_ = app.db.Close()
		return nil, err
	}
	app.initNotifications()

	app.session.Start(ctx)
	return app, nil
}

func (app *Application) Config() Config                 { return app.cfg }
func (app *Application) Logger() *slog.Logger           { return app.logger }
func (app *Application) Client() *api.Client            { return app.client }
func (app *Application) Session() *service.Session      { return app.session }
func (app *Application) Bus() eventbus.Bus              { return app.bus }
func (app *Application) Registry() *prometheus.Registry { return app.registry }

// SetLocation records the resource the user is working on, so a forced
// logout can send them back there.
func (app *Application) SetLocation(path string) { app.navigator.SetPath(path) }

// AccessToken returns the stored access token, or "" when signed out.
func (app *Application) AccessToken(ctx context.Context) string {
	return app.creds.Load(ctx).AccessToken
}

// Close stops background work and releases the store.
func (app *Application) Close() error {
	app.session.Close()
	for _, fn := range app.unsubscribe {
		fn()
	}
	return app.db.Close()
}

// initStore opens the configured credential backend and applies migrations.
func (app *Application) initStore(ctx context.Context) error {
	var db store.Store

	switch app.cfg.Store {
	case StoreMemory:
		db = memory.NewStore()

	case StoreRedis:
		client := redis.NewClient(&redis.Options{Addr: app.cfg.RedisAddr})
		rs := redisstore.NewStoreWithPrefix(client, app.cfg.RedisPrefix)
		if err := rs.Ping(ctx); err != nil {
			_ = rs.Close()
			return fmt.Errorf("failed to reach redis at %s: %w", app.cfg.RedisAddr, err)
		}
		db = rs

	default:
		if dir := filepath.Dir(app.cfg.StorePath); dir != "." {
			if err := os.MkdirAll(dir, 0o700); err != nil {
				return fmt.Errorf("failed to create store directory: %w", err)
			}
		}
		dsn := fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)", app.cfg.StorePath)
		ss, err := sqlite.NewStore(dsn)
		if err != nil {
			return fmt.Errorf("failed to open credential store: %w", err)
		}
		db = ss
	}

	if err := db.ApplyMigrations(); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to apply store migrations: %w", err)
	}

	if app.cfg.KeyFile != "" {
		key, err := cryptox.LoadOrCreateKey(app.cfg.KeyFile)
		if err != nil {
			_ = db.Close()
			return fmt.Errorf("failed to load store key: %w", err)
		}
		sealer, err := cryptox.NewSealer(key)
		if err != nil {
			_ = db.Close()
			return fmt.Errorf("failed to init store encryption: %w", err)
		}
		db = store.NewSealed(db, sealer)
	}

	app.db = db
	app.logger.Debug("credential store ready", "backend", app.cfg.Store, "sealed", app.cfg.KeyFile != "")
	return nil
}

// initSession wires the pipeline and the session controller around the
// shared terminator.
func (app *Application) initSession() error {
	app.bus = eventbus.New(app.logger)
	app.creds = service.NewCredentialStore(app.db, app.logger)
	app.navigator = service.NewConsoleNavigator(app.out, "/")
	app.terminator = service.NewTerminator(
		app.creds,
		app.navigator,
		app.bus,
		service.NewLogoutGuard(app.cfg.LogoutCooldown),
		app.logger,
	)

	client, err := api.New(api.Options{
		BaseURL: app.cfg.BaseURL,
		Timeout: app.cfg.APITimeout,
		Logger:  app.logger,
		Limiter: httpx.NewLimiter(httpx.RateLimitConfig{
			RequestsPerWindow: app.cfg.RateLimit,
			Window:            time.Minute,
			Burst:             max(app.cfg.RateLimit/10, 1),
		}),
		Metrics:             api.NewMetrics(app.registry),
		Bus:                 app.bus,
		PublishServerErrors: app.cfg.PublishServerErrors,
	}, app.creds, app.terminator)
	if err != nil {
		return fmt.Errorf("failed to build api client: %w", err)
	}
	app.client = client

	app.session = service.NewSession(client, app.creds, app.terminator, service.SessionOptions{
		MonitorInterval: app.cfg.MonitorInterval,
		WarnMinutes:     app.cfg.ExpiryWarnMinutes,
		SettleDelay:     app.cfg.SettleDelay,
		Logger:          app.logger,
		OnExpiryWarning: func(remaining time.Duration) {
			fmt.Fprintf(app.out, "Your session expires in %s.\n", remaining.Round(time.Second))
		},
	})
	return nil
}

// initNotifications prints session notifications that carry a message.
// Identical notifications inside the dedup window are shown once.
func (app *Application) initNotifications() {
	show := eventbus.Deduplicate(func(e eventbus.Event) {
		if e.Message == "" {
			return
		}
		fmt.Fprintln(app.out, e.Message)
	}, app.cfg.NotifyDedupWindow)

	for _, typ := range []string{domain.EventSessionExpired, domain.EventAccessDenied, domain.EventServerError} {
		app.unsubscribe = append(app.unsubscribe, app.bus.Subscribe(typ, show))
	}
}

// Handler returns the status server routes.
func (app *Application) Handler() http.Handler {
	router := consolehttp.NewRouter(
		BuildVersion,
		app.session,
		func() string { return app.AccessToken(context.Background()) },
		app.db,
		app.registry,
		app.logger,
	)
	router.ApplyRoutes()
	return router
}

// Watch serves the status server and keeps the expiry monitor running until
// ctx is cancelled or a shutdown signal arrives.
func (app *Application) Watch(ctx context.Context) error {
	app.server = &http.Server{
		Addr:              app.cfg.WatchAddr,
		Handler:           app.Handler(),
		ReadHeaderTimeout: 3 * time.Second,
	}

	app.logger.Info("status server starting", "addr", app.cfg.WatchAddr, "version", BuildVersion)

	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- app.server.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(shutdown)

	select {
	case err := <-serverErrors:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("status server failed: %w", err)
		}
		return nil
	case sig := <-shutdown:
		app.logger.Info("shutdown signal received", "signal", sig)
	case <-ctx.Done():
	}

	return app.shutdownServer()
}

func (app *Application) shutdownServer() error {
	ctx, cancel := context.WithTimeout(context.Background(), app.cfg.ShutdownGracePeriod)
	defer cancel()

	if err := app.server.Shutdown(ctx); err != nil {
		app.logger.Error("graceful server shutdown failed", "error", err)
		if err := app.server.Close(); err != nil {
			app.logger.Error("error closing server", "error", err)
		}
		return err
	}

	app.logger.Info("status server stopped")
	return nil
}
