package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/yukikurage/zen-task-api/internal/database"
	"github.com/yukikurage/zen-task-api/internal/services"
)

var (
	adminUsername string
	adminEmail    string
	adminPassword string
)

var createAdminCmd = &cobra.Command{
	Use:   "create-admin",
	Short: "Create a user with the ADMIN role",
	RunE:  runCreateAdmin,
}

func init() {
	createAdminCmd.Flags().StringVar(&adminUsername, "username", "", "Admin username")
	createAdminCmd.Flags().StringVar(&adminEmail, "email", "", "Admin email")
	createAdminCmd.Flags().StringVar(&adminPassword, "password", "", "Admin password")
	_ = createAdminCmd.MarkFlagRequired("username")
	_ = createAdminCmd.MarkFlagRequired("email")
	_ = createAdminCmd.MarkFlagRequired("password")
}

func runCreateAdmin(cmd *cobra.Command, args []string) error {
	a, err := bootstrap()
	if err != nil {
		return err
	}
	defer a.close()

	if err := database.MigrateDatabase(a.db, a.log); err != nil {
		return err
	}

	user, err := a.auth.CreateAdmin(cmd.Context(), services.RegisterInput{
		Username: adminUsername,
		Email:    adminEmail,
		Password: adminPassword,
	})
	if err != nil {
		return fmt.Errorf("failed to create admin: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "created admin %s (%s)\n", user.Username, user.ID)
	return nil
}
