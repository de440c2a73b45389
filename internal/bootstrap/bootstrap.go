// Package bootstrap builds the storage and session backends selected by the
// configuration. It is shared by the API server and the admin CLI.
package bootstrap

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/citylinker/backend/internal/adapters/database"
	"github.com/citylinker/backend/internal/adapters/memory"
	"github.com/citylinker/backend/internal/adapters/session"
	"github.com/citylinker/backend/internal/application/services"
	"github.com/citylinker/backend/internal/domain/providers"
	"github.com/citylinker/backend/internal/infrastructure/clients/postgres"
	"github.com/citylinker/backend/internal/infrastructure/clients/redis"
	"github.com/citylinker/backend/internal/infrastructure/migrations"
	"github.com/citylinker/backend/pkg/config"
)

// Pinger is a dependency checked by the health endpoint
type Pinger interface {
	Ping(ctx context.Context) error
}

// Backend holds the opened storage and session backends
type Backend struct {
	Storage  *services.Storage
	Sessions providers.SessionStore
	// Checks lists the external dependencies by name, empty for in-memory backends
	Checks map[string]Pinger

	closers []func() error
}

// Open connects the storage driver from cfg and, when asked, the session
// store. Postgres is migrated first when AUTO_MIGRATE is set. Redis that
// cannot be reached is replaced by the in-memory session store.
func Open(ctx context.Context, cfg *config.Config, withSessions bool) (*Backend, error) {
	b := &Backend{Checks: map[string]Pinger{}}

	storage, err := b.openStorage(ctx, cfg)
	if err != nil {
		b.Close()
		return nil, err
	}
	b.Storage = storage

	if withSessions {
		b.Sessions = b.openSessions(ctx, cfg)
	}
	return b, nil
}

func (b *Backend) openStorage(ctx context.Context, cfg *config.Config) (*services.Storage, error) {
	if cfg.Database.Driver == config.StorageDriverMemory {
		log.Warn().Msg("Using in-memory storage, data is lost on restart")
		store := memory.NewStore()
		return services.NewStorage(store.Users(), store.Categories(), store.Publications(), store.Reviews(), store.Stats()), nil
	}

	if cfg.Database.AutoMigrate {
		if err := migrations.Up(cfg.Database.DatabaseURL()); err != nil {
			return nil, fmt.Errorf("failed to apply migrations: %w", err)
		}
		log.Info().Msg("Database migrations applied")
	}

	client, err := postgres.NewClient(ctx, &cfg.Database)
	if err != nil {
		return nil, err
	}
	b.closers = append(b.closers, client.Close)
	b.Checks["postgres"] = client

	return services.NewStorage(
		database.NewUserAdapter(client),
		database.NewCategoryAdapter(client),
		database.NewPublicationAdapter(client),
		database.NewReviewAdapter(client),
		database.NewStatsAdapter(client),
	), nil
}

func (b *Backend) openSessions(ctx context.Context, cfg *config.Config) providers.SessionStore {
	if !cfg.Redis.Enabled {
		log.Info().Msg("Redis disabled, sessions are kept in memory")
		return session.NewMemoryStore()
	}

	client, err := redis.NewClient(ctx, &cfg.Redis)
	if err != nil {
		log.Warn().Err(err).Msg("Redis unavailable, falling back to in-memory sessions")
		return session.NewMemoryStore()
	}
	b.closers = append(b.closers, client.Close)
	b.Checks["redis"] = client
	return session.NewRedisStore(client)
}

// Close releases every connection opened by Open
func (b *Backend) Close() error {
	var errs []error
	for i := len(b.closers) - 1; i >= 0; i-- {
		errs = append(errs, b.closers[i]())
	}
	b.closers = nil
	return errors.Join(errs...)
}
