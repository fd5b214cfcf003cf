package main

import (
	"encoding/json"

	"github.com/spf13/cobra"

	"court-service/cmd/api/infrastructure"
	"court-service/internal/adapter/db/postgres"
	"court-service/internal/usecase/user"
)

// userCommand groups account maintenance subcommands.
func userCommand(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "user",
		Short: "Manages court accounts",
	}
	cmd.AddCommand(userCreateCommand(c))
	return cmd
}

// userCreateCommand provisions an account directly in the database. It is how
// the first administrator is created.
func userCreateCommand(c *cli) *cobra.Command {
	var req user.CreateUserRequest

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Creates a user with a bcrypt-hashed password",
		RunE: func(cmd *cobra.Command, _ []string) error {
			db, err := infrastructure.NewDatabase(c.cfg, c.log)
			if err != nil {
				return err
			}
			defer func() { _ = infrastructure.CloseDatabase(db) }()

			uc := user.New(postgres.NewUserRepoPG(db, c.log), c.log)
			u, err := uc.CreateUser(cmd.Context(), req)
			if err != nil {
				return err
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(u)
		},
	}

	cmd.Flags().StringVar(&req.Username, "username", "", "Login name")
	cmd.Flags().StringVar(&req.Email, "email", "", "Email address")
	cmd.Flags().StringVar(&req.FullName, "full-name", "", "Display name")
	cmd.Flags().StringVar(&req.Role, "role", "", "One of admin, judge, clerk, stenographer, prosecutor, defense_counsel, registrar")
	cmd.Flags().StringVar(&req.Court, "court", "", "Court the user belongs to")
	cmd.Flags().StringVar(&req.Password, "password", "", "Initial password (min 8 characters)")
	for _, name := range []string{"username", "email", "full-name", "role", "password"} {
		_ = cmd.MarkFlagRequired(name)
	}

	return cmd
}
