package api

import (
	"context"
	"net/http"

	"github.com/aussiebroadwan/botadmin/internal/console/domain"
)

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginResponse is the body of a successful login.
type LoginResponse struct {
	Token        string `json:"token"`
	RefreshToken string `json:"refreshToken,omitempty"`
	Username     string `json:"username"`
	Email        string `json:"email"`
}

func (r LoginResponse) Credentials() domain.Credentials {
	return domain.Credentials{
		AccessToken:  r.Token,
		RefreshToken: r.RefreshToken,
		Identity:     &domain.Identity{DisplayName: r.Username, Email: r.Email},
	}
}

type RegisterRequest struct {
	Name            string `json:"name"`
	Email           string `json:"email"`
	Phone           string `json:"phone"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
}

// RegisterResponse is the body of a successful registration.
type RegisterResponse struct {
	Token        string           `json:"token"`
	RefreshToken string           `json:"refreshToken,omitempty"`
	User         *domain.Identity `json:"user"`
}

func (r RegisterResponse) Credentials() domain.Credentials {
	return domain.Credentials{
		AccessToken:  r.Token,
		RefreshToken: r.RefreshToken,
		Identity:     r.User,
	}
}

// Login posts credentials. It never carries a stored bearer token, and a 401
// means the credentials were wrong.
func (c *Client) Login(ctx context.Context, req LoginRequest) Result {
	return c.Do(ctx, Request{
		Method:    http.MethodPost,
		Path:      "/auth/login",
		Body:      req,
		Anonymous: true,
	})
}

func (c *Client) Register(ctx context.Context, req RegisterRequest) Result {
	return c.Do(ctx, Request{
		Method:    http.MethodPost,
		Path:      "/auth/register",
		Body:      req,
		Anonymous: true,
	})
}

// Logout tells the backend the session is over. Callers treat the outcome as
// best effort, so an expired token here does not start a refresh.
func (c *Client) Logout(ctx context.Context) Result {
	return c.Do(ctx, Request{
		Method:  http.MethodPost,
		Path:    "/auth/logout",
		Passive: true,
	})
}

func (c *Client) Profile(ctx context.Context) Result {
	return c.Get(ctx, "/auth/profile")
}
