package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/citylinker/backend/internal/infrastructure/migrations"
	"github.com/citylinker/backend/pkg/config"
)

// NewMigrateCommand creates the migrate command and its up/down subcommands
func NewMigrateCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply or roll back database migrations",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "up",
		Short: "Apply all pending migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			url, err := migrationURL(opts)
			if err != nil {
				return err
			}
			if err := migrations.Up(url); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Migrations applied")
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "down",
		Short: "Roll back every migration, dropping all tables",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			url, err := migrationURL(opts)
			if err != nil {
				return err
			}
			if err := migrations.Down(url); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Migrations rolled back")
			return nil
		},
	})

	return cmd
}

func migrationURL(opts *RootOptions) (string, error) {
	cfg, err := opts.LoadConfig()
	if err != nil {
		return "", fmt.Errorf("failed to load configuration: %w", err)
	}
	if cfg.Database.Driver != config.StorageDriverPostgres {
		return "", fmt.Errorf("migrations need STORAGE_DRIVER=postgres, got %q", cfg.Database.Driver)
	}
	return cfg.Database.DatabaseURL(), nil
}
