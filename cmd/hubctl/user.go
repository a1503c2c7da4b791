package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"

	"servicehub/internal/domain"
	"servicehub/internal/repository"
)

const minPasswordLength = 8

func userCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "user",
		Short: "Inspect and repair user accounts",
	}
	cmd.AddCommand(userInspectCmd())
	cmd.AddCommand(userResetPasswordCmd())
	return cmd
}

func userInspectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "inspect [email]",
		Short: "Show a user's role, status, password hash sanity, wallet and interests",
		Args:  cobra.ExactArgs(1),
		RunE: withEnv(func(cmd *cobra.Command, args []string, e *env) error {
			ctx := cmd.Context()
			user, err := findUser(cmd, e, args[0])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "User       %s\n", user.ID)
			fmt.Fprintf(out, "  Name:    %s\n", user.Name)
			fmt.Fprintf(out, "  Email:   %s\n", user.Email)
			fmt.Fprintf(out, "  Phone:   %s\n", user.Phone)
			fmt.Fprintf(out, "  Role:    %s\n", roleLabel(user))
			fmt.Fprintf(out, "  Status:  %s\n", user.Status)
			fmt.Fprintf(out, "  Hash:    %s\n", hashStatus(user.PasswordHash))
			if user.LastLoginAt != nil {
				fmt.Fprintf(out, "  Login:   %s\n", user.LastLoginAt.Format("2006-01-02 15:04:05"))
			}

			wallet, err := e.repos.Wallet.GetOrCreate(ctx, user.ID)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "\nWallet\n  Balance: %d coins (N%d)\n", wallet.BalanceCoins, wallet.BalanceCoins*e.cfg.CoinValueNaira)

			if user.IsTradesperson() {
				interests, total, err := e.repos.Interest.ListByTradesperson(ctx, user.ID, domain.DefaultPagination())
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "\nInterests (%d)\n", total)
				for _, i := range interests {
					fmt.Fprintf(out, "  %s  %-15s %s\n", i.ID, i.Status, i.JobTitle)
				}
			}
			return nil
		}),
	}
}

func userResetPasswordCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reset-password [email] [password]",
		Short: "Set a new password and revoke every session",
		Args:  cobra.ExactArgs(2),
		RunE: withEnv(func(cmd *cobra.Command, args []string, e *env) error {
			if len(args[1]) < minPasswordLength {
				return fmt.Errorf("password must be at least %d characters", minPasswordLength)
			}

			user, err := findUser(cmd, e, args[0])
			if err != nil {
				return err
			}

			hash, err := bcrypt.GenerateFromPassword([]byte(args[1]), bcrypt.DefaultCost)
			if err != nil {
				return err
			}
			if err := e.repos.User.UpdatePassword(cmd.Context(), user.ID, string(hash)); err != nil {
				return err
			}
			if err := e.repos.Session.RevokeAllForUser(cmd.Context(), user.ID); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Password updated for %s; all sessions revoked\n", user.Email)
			return nil
		}),
	}
}

func adminCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "admin",
		Short: "Manage admin accounts",
	}

	create := &cobra.Command{
		Use:   "create",
		Short: "Create an admin account",
		RunE: withEnv(func(cmd *cobra.Command, args []string, e *env) error {
			email, _ := cmd.Flags().GetString("email")
			name, _ := cmd.Flags().GetString("name")
			password, _ := cmd.Flags().GetString("password")
			role, _ := cmd.Flags().GetString("role")

			user, err := newAdmin(email, name, password, domain.AdminRole(role))
			if err != nil {
				return err
			}

			err = e.repos.User.Create(cmd.Context(), user)
			if errors.Is(err, repository.ErrDuplicate) {
				return fmt.Errorf("email %s is already registered", user.Email)
			}
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Created %s %s (%s)\n", role, user.Email, user.ID)
			return nil
		}),
	}
	create.Flags().String("email", "", "Admin email (required)")
	create.Flags().String("name", "", "Display name (required)")
	create.Flags().String("password", "", "Initial password (required)")
	create.Flags().String("role", string(domain.AdminRoleSuper), "Admin role")
	_ = create.MarkFlagRequired("email")
	_ = create.MarkFlagRequired("name")
	_ = create.MarkFlagRequired("password")

	cmd.AddCommand(create)
	return cmd
}

func newAdmin(email, name, password string, role domain.AdminRole) (*domain.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	name = strings.TrimSpace(name)

	switch {
	case !strings.Contains(email, "@"):
		return nil, fmt.Errorf("invalid email %q", email)
	case len(name) < 2:
		return nil, errors.New("name must be at least 2 characters")
	case len(password) < minPasswordLength:
		return nil, fmt.Errorf("password must be at least %d characters", minPasswordLength)
	case !role.IsValid():
		return nil, fmt.Errorf("unknown admin role %q", role)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	return &domain.User{
		ID:           uuid.New(),
		Name:         name,
		Email:        email,
		PasswordHash: string(hash),
		Role:         domain.RoleAdmin,
		AdminRole:    &role,
		Status:       domain.UserStatusActive,
		IsVerified:   true,
	}, nil
}

func findUser(cmd *cobra.Command, e *env, email string) (*domain.User, error) {
	user, err := e.repos.User.GetByEmail(cmd.Context(), strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, fmt.Errorf("no user with email %s", email)
	}
	return user, nil
}

func roleLabel(u *domain.User) string {
	if u.AdminRole != nil {
		return fmt.Sprintf("%s (%s)", u.Role, *u.AdminRole)
	}
	return string(u.Role)
}

func hashStatus(hash string) string {
	if hash == "" {
		return "MISSING"
	}
	cost, err := bcrypt.Cost([]byte(hash))
	if err != nil {
		return "INVALID (" + err.Error() + ")"
	}
	return fmt.Sprintf("bcrypt, cost %d", cost)
}
