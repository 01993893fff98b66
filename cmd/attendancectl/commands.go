package main

import (
	"errors"
	"fmt"

	"github.com/cmlabs-hris/attendance-backend-go/internal/app"
	"github.com/cmlabs-hris/attendance-backend-go/internal/config"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/user"
	authService "github.com/cmlabs-hris/attendance-backend-go/internal/service/auth"
	"github.com/spf13/cobra"
)

var errMemoryDriver = errors.New("maintenance commands need STORE_DRIVER=postgres")

// openStore loads configuration and connects to PostgreSQL.
func openStore() (*config.Config, app.Repositories, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, app.Repositories{}, err
	}
	if cfg.Database.Driver != config.StoreDriverPostgres {
		return nil, app.Repositories{}, errMemoryDriver
	}
	repos, err := app.OpenRepositories(cfg)
	if err != nil {
		return nil, app.Repositories{}, err
	}
	return cfg, repos, nil
}

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, repos, err := openStore()
			if err != nil {
				return err
			}
			defer repos.Close()

			applied, err := repos.Migrate(cmd.Context())
			if err != nil {
				return err
			}
			if len(applied) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "Schema is up to date")
				return nil
			}
			for _, name := range applied {
				fmt.Fprintf(cmd.OutOrStdout(), "Applied %s\n", name)
			}
			return nil
		},
	}
}

func createUserCmd() *cobra.Command {
	var req user.CreateUserRequest

	cmd := &cobra.Command{
		Use:   "create-user",
		Short: "Create a login account",
		Long: `Create a login account with a bcrypt-hashed password.

Examples:
  attendancectl create-user --email dev@example.com --name "Dev One" --password s3cretpass
  attendancectl create-user --email lead@example.com --name "Team Lead" --password s3cretpass --staff`,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, repos, err := openStore()
			if err != nil {
				return err
			}
			defer repos.Close()

			created, err := authService.CreateUser(cmd.Context(), repos.Users, req)
			if err != nil {
				return fmt.Errorf("failed to create user: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created user %s (%s, staff=%t)\n", created.ID, created.Email, created.IsStaff)
			return nil
		},
	}

	cmd.Flags().StringVar(&req.Email, "email", "", "login email")
	cmd.Flags().StringVar(&req.FullName, "name", "", "full name")
	cmd.Flags().StringVar(&req.Password, "password", "", "initial password, at least 8 characters")
	cmd.Flags().BoolVar(&req.IsStaff, "staff", false, "grant staff privileges")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")

	return cmd
}

func recomputeBalancesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "recompute-balances",
		Short: "Rebuild every user's leave balance from approved requests",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, repos, err := openStore()
			if err != nil {
				return err
			}
			defer repos.Close()

			services := app.NewServices(cfg, repos, nil)
			n, err := services.Leave.RecomputeAll(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Recomputed %d leave balances\n", n)
			return nil
		},
	}
}
