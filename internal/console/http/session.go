package http

import (
	"net/http"
	"time"

	"github.com/aussiebroadwan/botadmin/internal/console/domain"
	"github.com/aussiebroadwan/botadmin/pkg/httpx"
	"github.com/aussiebroadwan/botadmin/pkg/tokenx"
)

// TokenSource returns the stored access token, or "".
type TokenSource func() string

// SessionResponse is the session state plus what is known about the token.
type SessionResponse struct {
	domain.SessionState

	ExpiresAt        string `json:"expires_at,omitempty"`
	RemainingSeconds int64  `json:"remaining_seconds"`
	ExpiringSoon     bool   `json:"expiring_soon"`
}

// SessionHandler never exposes the token itself.
func SessionHandler(session SessionSource, tokens TokenSource) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		resp := SessionResponse{SessionState: session.State()}

		if tokens != nil && resp.IsAuthenticated {
			token := tokens()
			if exp, ok := tokenx.ExpiresAt(token); ok {
				resp.ExpiresAt = exp.UTC().Format(time.RFC3339)
			}
			resp.RemainingSeconds = int64(tokenx.Remaining(token).Seconds())
			resp.ExpiringSoon = tokenx.IsExpiringSoon(token, int(tokenx.DefaultExpiryWarning.Minutes()))
		}

		httpx.WriteJSON(w, http.StatusOK, resp)
	}
}
