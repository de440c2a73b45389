package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/citylinker/backend/internal/application/services"
)

// NewSeedCommand creates the seed command
func NewSeedCommand(opts *RootOptions) *cobra.Command {
	seedOpts := services.DefaultSeedOptions()

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Create the category taxonomy, an admin and sample businesses",
		Long: `Create the category taxonomy, an admin account and sample businesses with
approved publications. Running it again leaves existing rows untouched.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := opts.open(cmd.Context())
			if err != nil {
				return err
			}
			defer e.backend.Close()

			seeder := services.NewSeedService(e.backend.Storage, e.auth)
			if err := seeder.Seed(cmd.Context(), seedOpts); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Seed completed")
			return nil
		},
	}

	cmd.Flags().StringVar(&seedOpts.AdminEmail, "admin-email", seedOpts.AdminEmail, "email of the seeded admin")
	cmd.Flags().StringVar(&seedOpts.AdminPassword, "admin-password", seedOpts.AdminPassword, "password of the seeded admin")
	cmd.Flags().StringVar(&seedOpts.BusinessPassword, "business-password", seedOpts.BusinessPassword, "password of the sample businesses")

	return cmd
}
