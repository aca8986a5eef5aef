package service

import (
	"context"
	"log/slog"
	"slices"
	"sync"

	"github.com/aussiebroadwan/botadmin/internal/console/api"
	"github.com/aussiebroadwan/botadmin/internal/console/domain"
	"github.com/aussiebroadwan/botadmin/pkg/eventbus"
	"github.com/aussiebroadwan/botadmin/pkg/slogx"
)

// Terminator runs the forced logout procedure shared by the request pipeline
// and the expiry monitor.
type Terminator struct {
	creds  *CredentialStore
	nav    Navigator
	bus    eventbus.Bus
	guard  *LogoutGuard
	logger *slog.Logger

	mu    sync.Mutex
	hooks []func(domain.LogoutReason)
}

var _ api.Terminator = (*Terminator)(nil)

// NewTerminator wires the forced logout. A nil guard gets the default
// cooldown; a nil bus drops notifications.
func NewTerminator(creds *CredentialStore, nav Navigator, bus eventbus.Bus, guard *LogoutGuard, logger *slog.Logger) *Terminator {
	if guard == nil {
		guard = NewLogoutGuard(DefaultLogoutCooldown)
	}
	if bus == nil {
		bus = eventbus.Nop{}
	}
	if logger == nil {
		logger = slogx.Discard()
	}
	return &Terminator{
		creds:  creds,
		nav:    nav,
		bus:    bus,
		guard:  guard,
		logger: logger,
	}
}

// OnTerminate registers fn to run after credentials are cleared and before
// navigation. Hooks must not call Terminate.
func (t *Terminator) OnTerminate(fn func(domain.LogoutReason)) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.hooks = append(t.hooks, fn)
}

// Guard exposes the single-flight guard so tests can reset it.
func (t *Terminator) Guard() *LogoutGuard { return t.guard }

// Terminate clears the session and sends the user to login. Calls that
// arrive while an earlier one holds the guard do nothing.
func (t *Terminator) Terminate(ctx context.Context, reason domain.LogoutReason) {
	if !t.guard.TryAcquire() {
		t.logger.Debug("forced logout already in progress", "reason", reason)
		return
	}

	t.logger.Info("forced logout", "reason", reason)

	t.creds.Clear(ctx)

	t.mu.Lock()
	hooks := slices.Clone(t.hooks)
	t.mu.Unlock()
	for _, fn := range hooks {
		fn(reason)
	}

	var intent domain.RedirectIntent
	if t.nav != nil {
		if captured, ok := domain.NewRedirectIntent(t.nav.CurrentPath()); ok {
			intent = captured
		}
	}
	t.creds.SaveRedirectIntent(ctx, intent)

	switch reason {
	case domain.LogoutExpired:
		t.bus.Publish(eventbus.Event{Type: domain.EventSessionExpired, Message: domain.SessionExpiredMessage})
	case domain.LogoutForbidden:
		t.bus.Publish(eventbus.Event{Type: domain.EventAccessDenied})
	}

	if t.nav != nil {
		t.nav.Navigate(intent.LoginURL())
	}
}

// TakeRedirectIntent returns the pending intent and forgets it. The intent
// is kept in the credential store, so a later process can pick it up.
func (t *Terminator) TakeRedirectIntent(ctx context.Context) (domain.RedirectIntent, bool) {
	return t.creds.TakeRedirectIntent(ctx)
}
