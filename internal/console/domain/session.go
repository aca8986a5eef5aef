package domain

import "net/url"

// Navigation surfaces that never become a redirect target.
const (
	LoginPath    = "/login"
	RegisterPath = "/register"
)

// SessionState is the observable state of the session controller.
type SessionState struct {
	Identity        *Identity `json:"identity,omitempty"`
	IsAuthenticated bool      `json:"is_authenticated"`
	IsLoading       bool      `json:"is_loading"`
}

// LogoutReason tells a forced logout caused by expiry apart from one caused by
// the backend denying access.
type LogoutReason string

const (
	LogoutExpired   LogoutReason = "expired"
	LogoutForbidden LogoutReason = "forbidden"
)

// RedirectIntent is the single-use location to return to after the next login.
type RedirectIntent struct {
	TargetPath string
}

// IsAuthSurface reports whether path is the login or registration screen.
func IsAuthSurface(path string) bool {
	return path == LoginPath || path == RegisterPath
}

// NewRedirectIntent captures current unless it is an authentication surface.
func NewRedirectIntent(current string) (RedirectIntent, bool) {
	if current == "" || IsAuthSurface(current) {
		return RedirectIntent{}, false
	}
	return RedirectIntent{TargetPath: current}, true
}

// LoginURL is where the user is sent to sign in again.
func (r RedirectIntent) LoginURL() string {
	if r.TargetPath == "" {
		return LoginPath
	}
	return LoginPath + "?redirect=" + url.QueryEscape(r.TargetPath)
}
