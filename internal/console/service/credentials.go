package service

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"sync"

	"github.com/aussiebroadwan/botadmin/internal/console/api"
	"github.com/aussiebroadwan/botadmin/internal/console/domain"
	"github.com/aussiebroadwan/botadmin/internal/console/store"
	"github.com/aussiebroadwan/botadmin/pkg/slogx"
)

// CredentialStore persists the session record on top of a key/value driver.
// Storage failures are logged and swallowed: a broken store behaves like an
// empty one.
type CredentialStore struct {
	Store  store.Store
	Logger *slog.Logger

	mu sync.Mutex
}

var _ api.Credentials = (*CredentialStore)(nil)

func NewCredentialStore(s store.Store, logger *slog.Logger) *CredentialStore {
	if logger == nil {
		logger = slogx.Discard()
	}
	return &CredentialStore{Store: s, Logger: logger}
}

// Save writes every present field of rec. Absent fields leave stored values
// untouched.
func (c *CredentialStore) Save(ctx context.Context, rec domain.Credentials) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.save(ctx, rec)
}

// Replace swaps the whole record for rec. Readers see either the old record
// or the new one, never an empty store in between.
func (c *CredentialStore) Replace(ctx context.Context, rec domain.Credentials) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.clear(ctx)
	c.save(ctx, rec)
}

// SaveTokens stores the outcome of a refresh. The identity is left alone and
// an empty refresh token keeps the stored one.
func (c *CredentialStore) SaveTokens(ctx context.Context, accessToken, refreshToken string) {
	c.Save(ctx, domain.Credentials{AccessToken: accessToken, RefreshToken: refreshToken})
}

// Load returns whatever subset of the record is stored.
func (c *CredentialStore) Load(ctx context.Context) domain.Credentials {
	c.mu.Lock()
	defer c.mu.Unlock()

	rec := domain.Credentials{
		AccessToken:  c.get(ctx, store.KeyAccessToken),
		RefreshToken: c.get(ctx, store.KeyRefreshToken),
	}

	if raw := c.get(ctx, store.KeyIdentity); raw != "" {
		var id domain.Identity
		if err := json.Unmarshal([]byte(raw), &id); err != nil {
			c.Logger.Warn("stored identity is not valid json", "error", err)
		} else {
			rec.Identity = &id
		}
	}

	return rec
}

// Clear removes the whole record. Clearing an empty store is a no-op.
func (c *CredentialStore) Clear(ctx context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.clear(ctx)
}

// SaveRedirectIntent remembers where a forced logout happened. A zero intent
// forgets any earlier one.
func (c *CredentialStore) SaveRedirectIntent(ctx context.Context, intent domain.RedirectIntent) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if intent.TargetPath == "" {
		if err := c.Store.Delete(ctx, store.KeyRedirect); err != nil {
			c.Logger.Warn("failed to clear redirect intent", "error", err)
		}
		return
	}
	c.set(ctx, store.KeyRedirect, intent.TargetPath)
}

// TakeRedirectIntent returns the stored intent and deletes it.
func (c *CredentialStore) TakeRedirectIntent(ctx context.Context) (domain.RedirectIntent, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	path := c.get(ctx, store.KeyRedirect)
	if path == "" {
		return domain.RedirectIntent{}, false
	}
	if err := c.Store.Delete(ctx, store.KeyRedirect); err != nil {
		c.Logger.Warn("failed to consume redirect intent", "error", err)
	}
	return domain.RedirectIntent{TargetPath: path}, true
}

func (c *CredentialStore) save(ctx context.Context, rec domain.Credentials) {
	if rec.AccessToken != "" {
		c.set(ctx, store.KeyAccessToken, rec.AccessToken)
	}
	if rec.RefreshToken != "" {
		c.set(ctx, store.KeyRefreshToken, rec.RefreshToken)
	}
	if rec.Identity != nil {
		raw, err := json.Marshal(rec.Identity)
		if err != nil {
			c.Logger.Warn("failed to encode identity", "error", err)
			return
		}
		c.set(ctx, store.KeyIdentity, string(raw))
	}
}

func (c *CredentialStore) clear(ctx context.Context) {
	if err := c.Store.Delete(ctx, store.SessionKeys...); err != nil {
		c.Logger.Warn("failed to clear credentials", "error", err)
	}
}

func (c *CredentialStore) get(ctx context.Context, key string) string {
	v, err := c.Store.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			c.Logger.Warn("failed to read credential", "key", key, "error", err)
		}
		return ""
	}
	return v
}

func (c *CredentialStore) set(ctx context.Context, key, value string) {
	if err := c.Store.Set(ctx, key, value); err != nil {
		c.Logger.Warn("failed to write credential", "key", key, "error", err)
	}
}
