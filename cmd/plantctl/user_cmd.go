package main

import (
	"github.com/spf13/cobra"

	"github.com/plantops/plantops/modules/core/infrastructure/persistence"
	"github.com/plantops/plantops/modules/core/services"
	"github.com/plantops/plantops/pkg/composables"
	"github.com/plantops/plantops/pkg/configuration"
)

func newUserCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "user",
		Short: "Manage API users",
	}
	cmd.AddCommand(newUserCreateCmd())
	return cmd
}

func newUserCreateCmd() *cobra.Command {
	var name, email, password string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Register a user and print a fresh token",
		RunE: func(cmd *cobra.Command, args []string) error {
			conf := configuration.Use()
			pool, err := connectDB(cmd.Context())
			if err != nil {
				return err
			}
			defer pool.Close()

			ctx := composables.WithPool(cmd.Context(), pool)
			auth := services.NewAuthService(persistence.NewUserRepository(), services.AuthOptions{
				Secret: conf.Auth.Secret,
				TTL:    conf.Auth.TokenTTL,
			})
			res, err := auth.Register(ctx, services.RegisterInput{Name: name, Email: email, Password: password})
			if err != nil {
				return err
			}
			return writeJSON(res)
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Display name (required)")
	cmd.Flags().StringVar(&email, "email", "", "Login email (required)")
	cmd.Flags().StringVar(&password, "password", "", "Password (required)")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}
