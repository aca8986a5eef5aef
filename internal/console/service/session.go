package service

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/aussiebroadwan/botadmin/internal/console/api"
	"github.com/aussiebroadwan/botadmin/internal/console/domain"
	"github.com/aussiebroadwan/botadmin/internal/console/form"
	"github.com/aussiebroadwan/botadmin/pkg/slogx"
	"github.com/aussiebroadwan/botadmin/pkg/tokenx"
)

// DefaultSettleDelay is the pause after a successful login or registration
// before control returns to the caller.
const DefaultSettleDelay = 100 * time.Millisecond

type SessionOptions struct {
	MonitorInterval time.Duration
	WarnMinutes     int
	// SettleDelay is applied after login and registration; zero skips it.
	SettleDelay time.Duration
	Inspector   tokenx.Inspector
	Logger      *slog.Logger

	// OnExpiryWarning runs once per token when it enters the warning window.
	OnExpiryWarning func(remaining time.Duration)
}

// Session owns the signed-in identity and the expiry monitor.
type Session struct {
	client     *api.Client
	creds      *CredentialStore
	terminator *Terminator
	monitor    *ExpiryMonitor
	inspector  tokenx.Inspector
	settle     time.Duration
	logger     *slog.Logger

	mu       sync.RWMutex
	identity *domain.Identity
	loading  bool
}

func NewSession(client *api.Client, creds *CredentialStore, terminator *Terminator, opts SessionOptions) *Session {
	logger := opts.Logger
	if logger == nil {
		logger = slogx.Discard()
	}
	settle := opts.SettleDelay
	if settle < 0 {
		settle = 0
	}

	s := &Session{
		client:     client,
		creds:      creds,
		terminator: terminator,
		inspector:  opts.Inspector,
		settle:     settle,
		logger:     logger,
		loading:    true,
	}

	s.monitor = NewExpiryMonitor(
		func() string { return creds.Load(context.Background()).AccessToken },
		func() { terminator.Terminate(context.Background(), domain.LogoutExpired) },
		logger,
	)
	if opts.MonitorInterval > 0 {
		s.monitor.Interval = opts.MonitorInterval
	}
	if opts.WarnMinutes > 0 {
		s.monitor.WarnMinutes = opts.WarnMinutes
	}
	s.monitor.Inspector = opts.Inspector
	s.monitor.OnWarn = opts.OnExpiryWarning

	terminator.OnTerminate(func(domain.LogoutReason) {
		s.monitor.Stop()
		s.setIdentity(nil)
	})

	return s
}

// Start restores the session from the credential store. An expired stored
// token is discarded.
func (s *Session) Start(ctx context.Context) {
	s.setLoading(true)
	defer s.setLoading(false)

	rec := s.creds.Load(ctx)
	switch {
	case rec.AccessToken == "":
		s.setIdentity(nil)
	case s.inspector.IsExpired(rec.AccessToken):
		s.logger.Info("stored session expired, clearing")
		s.creds.Clear(ctx)
		s.setIdentity(nil)
	case rec.Identity != nil:
		s.setIdentity(rec.Identity)
		s.monitor.Start()
	}
}

// Login signs in with an email and password.
func (s *Session) Login(ctx context.Context, req api.LoginRequest) api.Result {
	values := form.Values{form.FieldUsername: req.Username, form.FieldPassword: req.Password}
	if res, ok := rejectInvalid(form.LoginSchema, values); !ok {
		return res
	}

	s.setLoading(true)
	defer s.setLoading(false)

	res := s.client.Login(ctx, req)
	if !res.Success {
		return res
	}

	body, err := api.Decode[api.LoginResponse](res)
	if err != nil || body.Token == "" {
		s.logger.Warn("login response without token", "error", err)
		return api.Result{Error: "login response did not include a token", Status: res.Status}
	}

	s.establish(ctx, body.Credentials())
	return res
}

func (s *Session) Register(ctx context.Context, req api.RegisterRequest) api.Result {
	values := form.Values{
		form.FieldName:            req.Name,
		form.FieldEmail:           req.Email,
		form.FieldPhone:           req.Phone,
		form.FieldPassword:        req.Password,
		form.FieldConfirmPassword: req.ConfirmPassword,
	}
	if res, ok := rejectInvalid(form.RegisterSchema, values); !ok {
		return res
	}

	s.setLoading(true)
	defer s.setLoading(false)

	res := s.client.Register(ctx, req)
	if !res.Success {
		return res
	}

	body, err := api.Decode[api.RegisterResponse](res)
	if err != nil || body.Token == "" {
		s.logger.Warn("register response without token", "error", err)
		return api.Result{Error: "registration response did not include a token", Status: res.Status}
	}

	s.establish(ctx, body.Credentials())
	return res
}

// Logout ends the session locally whatever the backend says.
func (s *Session) Logout(ctx context.Context) api.Result {
	res := s.client.Logout(ctx)
	if !res.Success {
		s.logger.Debug("backend logout failed", "status", res.Status, "error", res.Error)
	}

	s.monitor.Stop()
	s.creds.Clear(ctx)
	s.setIdentity(nil)

	return api.Result{Success: true, Status: res.Status}
}

// Refresh exchanges the refresh token outside of a failed request.
func (s *Session) Refresh(ctx context.Context) api.Result {
	res := s.client.RefreshSession(ctx)
	if res.Success && s.State().IsAuthenticated {
		s.monitor.Start()
	}
	return res
}

func (s *Session) Profile(ctx context.Context) api.Result {
	return s.client.Profile(ctx)
}

func (s *Session) State() domain.SessionState {
	s.mu.RLock()
	defer s.mu.RUnlock()

	state := domain.SessionState{IsLoading: s.loading}
	if s.identity != nil {
		id := *s.identity
		state.Identity = &id
		state.IsAuthenticated = true
	}
	return state
}

// TakeRedirectIntent returns where the last forced logout happened, once.
func (s *Session) TakeRedirectIntent(ctx context.Context) (domain.RedirectIntent, bool) {
	return s.terminator.TakeRedirectIntent(ctx)
}

// Monitoring reports whether the expiry monitor is running.
func (s *Session) Monitoring() bool { return s.monitor.Running() }

// Close stops background work. The stored session is kept.
func (s *Session) Close() {
	s.monitor.Stop()
}

// establish replaces the stored record with a fresh one and restarts
// monitoring.
func (s *Session) establish(ctx context.Context, rec domain.Credentials) {
	s.creds.Replace(ctx, rec)
	s.terminator.Guard().Reset()

	identity := rec.Identity
	if identity == nil {
		identity = identityFromToken(rec.AccessToken)
	}
	s.setIdentity(identity)
	s.monitor.Start()

	s.wait(ctx)
}

func (s *Session) wait(ctx context.Context) {
	if s.settle <= 0 {
		return
	}
	t := time.NewTimer(s.settle)
	defer t.Stop()
	select {
	case <-t.C:
	case <-ctx.Done():
	}
}

func (s *Session) setIdentity(id *domain.Identity) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.identity = id
}

func (s *Session) setLoading(v bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading = v
}

// identityFromToken falls back to the token's own claims when the backend
// omits the identity.
func identityFromToken(token string) *domain.Identity {
	claims, ok := tokenx.Decode(token)
	if !ok || (claims.Username == "" && claims.Email == "") {
		return &domain.Identity{}
	}
	return &domain.Identity{DisplayName: claims.Username, Email: claims.Email}
}

func rejectInvalid(schema form.Schema, values form.Values) (api.Result, bool) {
	errs := schema.Validate(values)
	for _, f := range schema {
		if msg, ok := errs[f.Name]; ok {
			return api.Result{Error: msg}, false
		}
	}
	return api.Result{}, true
}
