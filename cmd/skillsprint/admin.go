package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/Strob0t/SkillSprint/internal/domain/user"
	"github.com/Strob0t/SkillSprint/internal/service"
)

// passwordReader reads a password without echo. Tests replace it.
var passwordReader = func(prompt string) (string, error) {
	fmt.Fprint(os.Stderr, prompt)
	b, err := term.ReadPassword(int(os.Stdin.Fd())) //nolint:gosec // fd fits in int
	fmt.Fprintln(os.Stderr)                         // newline after password input
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func newAdminCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "admin",
		Short: "Manage user accounts",
		Example: `  skillsprint admin create-user --email ada@example.com --name "Ada"
  skillsprint admin reset-password --email ada@example.com
  skillsprint admin list-users`,
	}
	cmd.AddCommand(newCreateUserCmd(), newResetPasswordCmd(), newListUsersCmd())
	return cmd
}

// loadAdminDeps opens the store without migrating it.
func loadAdminDeps(ctx context.Context) (*service.AuthService, func(), error) {
	cfg, flush, err := loadConfig()
	if err != nil {
		return nil, nil, err
	}

	store, err := openStore(ctx, cfg.Database)
	if err != nil {
		flush()
		return nil, nil, fmt.Errorf("connect to database: %w", err)
	}

	authSvc := service.NewAuthService(store, &cfg.Auth)

	cleanup := func() {
		_ = store.Close()
		flush()
	}
	return authSvc, cleanup, nil
}

func newCreateUserCmd() *cobra.Command {
	var email, name, password string

	cmd := &cobra.Command{
		Use:   "create-user",
		Short: "Create a new user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			pass, err := passwordOrPrompt(password, "Password: ")
			if err != nil {
				return err
			}

			authSvc, cleanup, err := loadAdminDeps(cmd.Context())
			if err != nil {
				return err
			}
			defer cleanup()

			u, err := authSvc.Register(cmd.Context(), &user.CreateRequest{
				Email:    email,
				Name:     name,
				Password: pass,
			})
			if err != nil {
				return fmt.Errorf("create user: %w", err)
			}

			_, err = fmt.Fprintf(cmd.OutOrStdout(), "User created: %s (id=%d)\n", u.Email, u.ID)
			return err
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "user email address (required)")
	cmd.Flags().StringVar(&name, "name", "", "user display name (required)")
	cmd.Flags().StringVar(&password, "password", "", "password (prompted if not provided)")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("name")
	return cmd
}

func newResetPasswordCmd() *cobra.Command {
	var email, password string

	cmd := &cobra.Command{
		Use:   "reset-password",
		Short: "Reset a user's password",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			pass, err := passwordOrPrompt(password, "New password: ")
			if err != nil {
				return err
			}

			authSvc, cleanup, err := loadAdminDeps(cmd.Context())
			if err != nil {
				return err
			}
			defer cleanup()

			if err := authSvc.ResetPassword(cmd.Context(), email, pass); err != nil {
				return fmt.Errorf("reset password: %w", err)
			}

			_, err = fmt.Fprintf(cmd.OutOrStdout(), "Password reset successfully for %s\n", email)
			return err
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "user email address (required)")
	cmd.Flags().StringVar(&password, "password", "", "new password (prompted if not provided)")
	_ = cmd.MarkFlagRequired("email")
	return cmd
}

func newListUsersCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list-users",
		Short: "List all users",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			authSvc, cleanup, err := loadAdminDeps(cmd.Context())
			if err != nil {
				return err
			}
			defer cleanup()

			users, err := authSvc.ListUsers(cmd.Context())
			if err != nil {
				return fmt.Errorf("list users: %w", err)
			}

			out := cmd.OutOrStdout()
			if len(users) == 0 {
				_, err := fmt.Fprintln(out, "No users found.")
				return err
			}

			w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			_, _ = fmt.Fprintln(w, "ID\tEMAIL\tNAME\tCREATED")
			for i := range users {
				_, _ = fmt.Fprintf(w, "%d\t%s\t%s\t%s\n",
					users[i].ID, users[i].Email, users[i].Name, users[i].CreatedAt.Format(time.DateTime))
			}
			return w.Flush()
		},
	}
}

// passwordOrPrompt returns flagValue, or prompts twice when it is empty.
func passwordOrPrompt(flagValue, prompt string) (string, error) {
	if flagValue != "" {
		return flagValue, nil
	}
	pass, err := passwordReader(prompt)
	if err != nil {
		return "", fmt.Errorf("read password: %w", err)
	}
	confirm, err := passwordReader("Confirm password: ")
	if err != nil {
		return "", fmt.Errorf("read password: %w", err)
	}
	if pass != confirm {
		return "", errors.New("passwords do not match")
	}
	return pass, nil
}
