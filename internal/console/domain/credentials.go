package domain

// Identity is the display identity returned by the backend at login.
type Identity struct {
	DisplayName string `json:"username"`
	Email       string `json:"email"`
}

// Credentials is the persisted session record. AccessToken and Identity are
// written and cleared together; RefreshToken may be absent.
type Credentials struct {
	AccessToken  string
	RefreshToken string
	Identity     *Identity
}

// HasSession reports whether an access token is present. It says nothing about
// whether the token is still valid.
func (c Credentials) HasSession() bool { return c.AccessToken != "" }
