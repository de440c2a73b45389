// Package cli implements the citylinker administration commands.
package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/citylinker/backend/internal/adapters/security"
	"github.com/citylinker/backend/internal/application/services"
	"github.com/citylinker/backend/internal/bootstrap"
	"github.com/citylinker/backend/internal/infrastructure/observability"
	"github.com/citylinker/backend/pkg/config"
)

// RootOptions holds what every command needs
type RootOptions struct {
	// LoadConfig is replaced in tests
	LoadConfig func() (*config.Config, error)
	// Open is replaced in tests
	Open func(ctx context.Context, cfg *config.Config) (*bootstrap.Backend, error)
}

// NewRootCommand creates the root command of the admin CLI
func NewRootCommand(opts *RootOptions) *cobra.Command {
	if opts == nil {
		opts = &RootOptions{}
	}
	if opts.LoadConfig == nil {
		opts.LoadConfig = config.Load
	}
	if opts.Open == nil {
		opts.Open = func(ctx context.Context, cfg *config.Config) (*bootstrap.Backend, error) {
			return bootstrap.Open(ctx, cfg, false)
		}
	}

	cmd := &cobra.Command{
		Use:           "citylinker",
		Short:         "CityLinker administration",
		Long:          "Database migrations, demo data and admin accounts for the CityLinker backend.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.AddCommand(NewMigrateCommand(opts))
	cmd.AddCommand(NewSeedCommand(opts))
	cmd.AddCommand(NewCreateAdminCommand(opts))

	return cmd
}

// env is the state a command runs against
type env struct {
	cfg     *config.Config
	backend *bootstrap.Backend
	auth    *services.AuthService
}

func (o *RootOptions) open(ctx context.Context) (*env, error) {
	cfg, err := o.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	observability.InitLogger("citylinker-cli", cfg.Env)

	backend, err := o.Open(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return &env{
		cfg:     cfg,
		backend: backend,
		auth:    services.NewAuthService(backend.Storage, security.NewBcryptHasher(cfg.Security.BcryptCost)),
	}, nil
}
