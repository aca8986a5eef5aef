package main

import (
	"fmt"
	"os"
	"time"

	"github.com/aussiebroadwan/botadmin/internal/console/api"
	"github.com/aussiebroadwan/botadmin/internal/console/domain"
	"github.com/aussiebroadwan/botadmin/pkg/tokenx"
	"github.com/spf13/cobra"
)

func loginCmd(c *cli) *cobra.Command {
	var req api.LoginRequest

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in and store the session",
		Long: `Sign in with an email address and password.

The password is read from --password, then BOT_PASSWORD, then stdin.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := c.open(cmd.Context(), domain.LoginPath)
			if err != nil {
				return err
			}

			if req.Password == "" {
				req.Password = os.Getenv("BOT_PASSWORD")
			}
			if req.Password == "" {
				if req.Password, err = c.prompt("Password"); err != nil {
					return err
				}
			}

			res := a.Session().Login(cmd.Context(), req)
			if !res.Success {
				return c.print(res)
			}

			state := a.Session().State()
			fmt.Fprintf(c.out, "Signed in as %s.\n", state.Identity.Email)
			if intent, ok := a.Session().TakeRedirectIntent(cmd.Context()); ok {
				fmt.Fprintf(c.out, "Continue where you left off: %s\n", intent.TargetPath)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&req.Username, "username", "u", "", "Email address")
	cmd.Flags().StringVarP(&req.Password, "password", "p", "", "Password")
	_ = cmd.MarkFlagRequired("username")

	return cmd
}

func registerCmd(c *cli) *cobra.Command {
	var req api.RegisterRequest

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account and sign in",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := c.open(cmd.Context(), domain.RegisterPath)
			if err != nil {
				return err
			}
			if req.ConfirmPassword == "" {
				req.ConfirmPassword = req.Password
			}

			res := a.Session().Register(cmd.Context(), req)
			if !res.Success {
				return c.print(res)
			}
			fmt.Fprintf(c.out, "Registered and signed in as %s.\n", req.Email)
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVar(&req.Name, "name", "", "Full name")
	f.StringVar(&req.Email, "email", "", "Email address")
	f.StringVar(&req.Phone, "phone", "", "Phone number, e.g. 0912345678")
	f.StringVar(&req.Password, "password", "", "Password")
	f.StringVar(&req.ConfirmPassword, "confirm-password", "", "Password again (defaults to --password)")

	return cmd
}

func logoutCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "End the session",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := c.open(cmd.Context(), "/")
			if err != nil {
				return err
			}
			a.Session().Logout(cmd.Context())
			fmt.Fprintln(c.out, "Signed out.")
			return nil
		},
	}
}

// statusView is what `botadmin status` prints.
type statusView struct {
	domain.SessionState

	ExpiresIn string `json:"expires_in,omitempty"`
}

func statusCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the stored session",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := c.open(cmd.Context(), "/")
			if err != nil {
				return err
			}

			view := statusView{SessionState: a.Session().State()}
			if view.IsAuthenticated {
				if tok := a.AccessToken(cmd.Context()); tok != "" {
					view.ExpiresIn = tokenx.Remaining(tok).Round(time.Second).String()
				}
			}
			return c.printValue(view)
		},
	}
}

func refreshCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "refresh",
		Short: "Exchange the refresh token for a new access token",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := c.open(cmd.Context(), "/")
			if err != nil {
				return err
			}
			res := a.Session().Refresh(cmd.Context())
			if !res.Success {
				return c.print(res)
			}
			fmt.Fprintln(c.out, "Session refreshed.")
			return nil
		},
	}
}

func profileCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "profile",
		Short: "Show the signed-in user's profile",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := c.open(cmd.Context(), "/profile")
			if err != nil {
				return err
			}
			return c.print(a.Session().Profile(cmd.Context()))
		},
	}
}

func watchCmd(c *cli) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Keep the session monitored and serve local status",
		Long: `Keep running, checking the access token every monitor interval and
printing a warning shortly before it expires.

A local status server answers on --addr:
  GET /livez    liveness
  GET /readyz   credential store reachability
  GET /session  session state and token expiry
  GET /metrics  Prometheus metrics`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("addr") {
				c.cfg.WatchAddr = addr
			}
			a, err := c.open(cmd.Context(), "/")
			if err != nil {
				return err
			}
			if !a.Session().State().IsAuthenticated {
				fmt.Fprintln(c.out, "Not signed in; serving status only.")
			}
			return a.Watch(cmd.Context())
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "Status server listen address (env BOT_WATCH_ADDR)")
	return cmd
}
