package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/aussiebroadwan/botadmin/internal/console/domain"
	"github.com/aussiebroadwan/botadmin/pkg/cryptox"
)

const refreshPath = "/auth/refresh"

var (
	ErrNoRefreshToken  = errors.New("api: no refresh token available")
	ErrRefreshRejected = errors.New("api: refresh rejected")
)

// RefreshError describes a refresh call the backend answered but refused.
type RefreshError struct {
	Status  int
	Message string
}

func (e *RefreshError) Error() string {
	return fmt.Sprintf("refresh rejected (%d): %s", e.Status, e.Message)
}

func (e *RefreshError) Is(target error) bool { return target == ErrRefreshRejected }

// TokenPair is what the refresh endpoint returns.
type TokenPair struct {
	Token        string `json:"token"`
	RefreshToken string `json:"refreshToken,omitempty"`
}

// Refresh exchanges the stored refresh token for a new access token and
// persists the result. Concurrent callers holding the same refresh token
// share a single backend call. The shared call is detached from any one
// caller's context; a caller that gives up gets its own ctx.Err() while the
// others keep waiting for the real outcome.
func (c *Client) Refresh(ctx context.Context) (string, error) {
	refreshToken := c.creds.Load(ctx).RefreshToken
	if refreshToken == "" {
		c.metrics.refresh(refreshMissing)
		return "", ErrNoRefreshToken
	}

	ch := c.refreshGroup.DoChan(cryptox.FingerprintToken(refreshToken), func() (any, error) {
		rctx := context.WithoutCancel(ctx)
		if timeout := c.httpClient.Timeout; timeout > 0 {
			var cancel context.CancelFunc
			rctx, cancel = context.WithTimeout(rctx, timeout)
			defer cancel()
		}
		return c.refresh(rctx, refreshToken)
	})

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case r := <-ch:
		if r.Shared {
			c.logger.Debug("refresh shared with concurrent caller")
		}
		if r.Err != nil {
			c.metrics.refresh(refreshFailed)
			return "", r.Err
		}
		c.metrics.refresh(refreshSucceeded)
		return r.Val.(string), nil
	}
}

// callerGaveUp reports whether err is the caller's own cancellation rather
// than an outcome of the refresh itself.
func callerGaveUp(ctx context.Context, err error) bool {
	ctxErr := ctx.Err()
	return ctxErr != nil && errors.Is(err, ctxErr)
}

// refresh is a dedicated call outside the 401 handling so a rejected refresh
// can never loop back into another refresh.
func (c *Client) refresh(ctx context.Context, refreshToken string) (string, error) {
	resp, err := c.dispatch(ctx, Request{
		Method:    http.MethodPost,
		Path:      refreshPath,
		Body:      map[string]string{"refreshToken": refreshToken},
		Anonymous: true,
	}, "")
	if err != nil {
		return "", fmt.Errorf("refresh: %w", err)
	}

	if !resp.ok() {
		return "", &RefreshError{Status: resp.status, Message: errorMessage(resp.status, resp.body, nil)}
	}

	var pair TokenPair
	if err := json.Unmarshal(resp.body, &pair); err != nil || pair.Token == "" {
		return "", &RefreshError{Status: resp.status, Message: "response carried no token"}
	}

	c.creds.SaveTokens(ctx, pair.Token, pair.RefreshToken)
	return pair.Token, nil
}

// RefreshSession is the caller-facing refresh. A 401 from the refresh
// endpoint is terminal and ends the session.
func (c *Client) RefreshSession(ctx context.Context) Result {
	token, err := c.Refresh(ctx)
	if err == nil {
		data, _ := json.Marshal(TokenPair{Token: token})
		return Result{Success: true, Data: data, Status: http.StatusOK}
	}

	if callerGaveUp(ctx, err) {
		return transportFailure(err)
	}

	var re *RefreshError
	if errors.As(err, &re) {
		ended := re.Status == http.StatusUnauthorized
		if ended {
			c.terminate(ctx, domain.LogoutExpired)
		}
		return Result{Error: re.Message, Status: re.Status, SessionEnded: ended}
	}

	return Result{Error: err.Error()}
}
