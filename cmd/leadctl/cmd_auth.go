package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/leaddesk/leaddesk-dashboard/internal/models"
)

func (c *cli) loginCmd() *cobra.Command {
	var req models.LoginRequest

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in and store the session token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := c.context(cmd)
			defer cancel()

			user, err := c.auth.Login(ctx, c.store, req, "")
			if err != nil {
				return describe(err)
			}
			fmt.Fprintf(c.out, "Logged in as %s\n", userLine(user))
			return nil
		},
	}
	cmd.Flags().StringVar(&req.Email, "email", "", "Account email")
	cmd.Flags().StringVar(&req.Password, "password", "", "Account password")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}

func (c *cli) signupCmd() *cobra.Command {
	var req models.SignupRequest

	cmd := &cobra.Command{
		Use:   "signup",
		Short: "Create an account and store the session token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := c.context(cmd)
			defer cancel()

			user, err := c.auth.Signup(ctx, c.store, req, "")
			if err != nil {
				return describe(err)
			}
			fmt.Fprintf(c.out, "Signed up as %s\n", userLine(user))
			return nil
		},
	}
	cmd.Flags().StringVar(&req.Name, "name", "", "Full name")
	cmd.Flags().StringVar(&req.Email, "email", "", "Account email")
	cmd.Flags().StringVar(&req.Password, "password", "", "Account password (at least 6 characters)")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}

func (c *cli) logoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the stored session token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.auth.Logout(c.store); err != nil {
				return err
			}
			fmt.Fprintln(c.out, "Logged out")
			return nil
		},
	}
}

func (c *cli) whoamiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the user of the stored token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			token := c.store.Token()
			if token == "" {
				return errors.New("not logged in")
			}
			user, err := c.auth.CurrentUser(token)
			if err != nil {
				fmt.Fprintln(c.errOut, sessionExpiredMessage)
				return fmt.Errorf("stored token rejected: %w", err)
			}
			fmt.Fprintln(c.out, userLine(user))
			return nil
		},
	}
}

func userLine(user *models.User) string {
	if user == nil {
		return "unknown user"
	}
	if user.Name == "" {
		return user.Email
	}
	return fmt.Sprintf("%s <%s>", user.Name, user.Email)
}
