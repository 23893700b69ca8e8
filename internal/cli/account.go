package cli

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/c7d5a6/goliath/internal/identity"
	"github.com/c7d5a6/goliath/internal/login"

	"github.com/spf13/cobra"
)

func (c *cli) newLoginCommand() *cobra.Command {
	var (
		email  string
		signUp bool
		google bool
	)

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in to goliath",
		Long:  "Sign in with email and password, create an account with --signup or use a Google account with --google.",
		Args:  cobra.NoArgs,
		RunE: c.run(func(cmd *cobra.Command, _ []string) error {
			auth, err := c.auth()
			if err != nil {
				return err
			}

			nav := &router{}
			view := login.NewView(auth, nav, c.env.Limiter)
			ctx := cmd.Context()

			if google {
				if err := view.SubmitGoogle(ctx); err != nil {
					return errors.New(view.State().Error)
				}
				return c.follow(cmd, nav)
			}

			if signUp {
				view.ToggleMode()
			}
			if strings.TrimSpace(email) == "" {
				email, err = c.env.Prompter.Input("Email", "")
				if err != nil {
					return err
				}
			}
			view.SetEmail(email)

			password, err := c.env.Prompter.Password("Password")
			if err != nil {
				return err
			}
			view.SetPassword(password)

			if err := view.Submit(ctx); err != nil {
				return errors.New(view.State().Error)
			}
			return c.follow(cmd, nav)
		}),
	}

	cmd.Flags().StringVarP(&email, "email", "e", "", "account email (prompted when empty)")
	cmd.Flags().BoolVar(&signUp, "signup", false, "create a new account instead of signing in")
	cmd.Flags().BoolVar(&google, "google", false, "sign in with a Google account")
	cmd.MarkFlagsMutuallyExclusive("signup", "google")

	return cmd
}

func (c *cli) newLogoutCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Sign out and forget the stored token",
		Args:  cobra.NoArgs,
		RunE: c.run(func(cmd *cobra.Command, _ []string) error {
			auth, err := c.auth()
			if err != nil {
				return err
			}
			if err := auth.SignOut(cmd.Context()); err != nil {
				return err
			}
			success(cmd.OutOrStdout(), "Signed out")
			return nil
		}),
	}
}

func (c *cli) newWhoamiCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed in account",
		Args:  cobra.NoArgs,
		RunE: c.run(func(cmd *cobra.Command, _ []string) error {
			c.printWhoami(cmd.OutOrStdout())
			return nil
		}),
	}
}

func (c *cli) printWhoami(w io.Writer) {
	user := c.User()
	if user == nil {
		warn(w, "Not signed in")
		return
	}

	success(w, "Signed in as %s", user.Email)
	if user.DisplayName != "" {
		fmt.Fprintf(w, "name:      %s\n", user.DisplayName)
	}
	fmt.Fprintf(w, "uid:       %s\n", user.UID)
	if user.ProviderID != "" {
		fmt.Fprintf(w, "provider:  %s\n", user.ProviderID)
	}
	if !user.ExpiresAt.IsZero() {
		fmt.Fprintf(w, "token exp: %s\n", user.ExpiresAt.Local().Format(time.RFC1123))
	}
}

func (c *cli) newTokenCommand() *cobra.Command {
	tokenCmd := &cobra.Command{
		Use:   "token",
		Short: "Manage the bearer token",
	}

	var show bool
	refreshCmd := &cobra.Command{
		Use:   "refresh",
		Short: "Force a token refresh and store the new token",
		Args:  cobra.NoArgs,
		RunE: c.run(func(cmd *cobra.Command, _ []string) error {
			auth, err := c.auth()
			if err != nil {
				return err
			}

			token, err := auth.RefreshToken(cmd.Context())
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			if token == "" {
				warn(w, "Not signed in")
				return nil
			}
			if exp, err := identity.ExpiresAt(token); err == nil && !exp.IsZero() {
				success(w, "Token refreshed, valid until %s", exp.Local().Format(time.RFC1123))
			} else {
				success(w, "Token refreshed")
			}
			if show {
				fmt.Fprintln(w, token)
			}
			return nil
		}),
	}
	refreshCmd.Flags().BoolVar(&show, "show", false, "print the new token")

	tokenCmd.AddCommand(refreshCmd)
	return tokenCmd
}
