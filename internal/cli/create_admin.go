package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// CreateAdminOptions are the flags of create-admin
type CreateAdminOptions struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
}

// NewCreateAdminCommand creates the create-admin command
func NewCreateAdminCommand(opts *RootOptions) *cobra.Command {
	adminOpts := &CreateAdminOptions{}

	cmd := &cobra.Command{
		Use:   "create-admin",
		Short: "Create an admin account, or promote an existing one",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(adminOpts.Password) < 6 {
				return fmt.Errorf("password must be at least 6 characters")
			}

			e, err := opts.open(cmd.Context())
			if err != nil {
				return err
			}
			defer e.backend.Close()

			user, created, err := e.auth.EnsureAdmin(cmd.Context(), adminOpts.Email, adminOpts.Password, adminOpts.FirstName, adminOpts.LastName)
			if err != nil {
				return err
			}
			if created {
				fmt.Fprintf(cmd.OutOrStdout(), "Admin %s created (id %d)\n", user.Email, user.ID)
			} else {
				fmt.Fprintf(cmd.OutOrStdout(), "%s is an admin (id %d)\n", user.Email, user.ID)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&adminOpts.Email, "email", "", "admin email")
	cmd.Flags().StringVar(&adminOpts.Password, "password", "", "admin password")
	cmd.Flags().StringVar(&adminOpts.FirstName, "first-name", "Admin", "first name")
	cmd.Flags().StringVar(&adminOpts.LastName, "last-name", "CityLinker", "last name")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")

	return cmd
}
