package bootstrap_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/citylinker/backend/internal/adapters/session"
	"github.com/citylinker/backend/internal/bootstrap"
	"github.com/citylinker/backend/pkg/config"
)

func TestOpen_MemoryDriver(t *testing.T) {
	cfg := &config.Config{
		Database: config.DatabaseConfig{Driver: config.StorageDriverMemory},
		Redis:    config.RedisConfig{Enabled: false},
	}

	backend, err := bootstrap.Open(context.Background(), cfg, true)
	require.NoError(t, err)
	t.Cleanup(func() { assert.NoError(t, backend.Close()) })

	require.NotNil(t, backend.Storage)
	assert.IsType(t, &session.MemoryStore{}, backend.Sessions)
	assert.Empty(t, backend.Checks)

	categories, err := backend.Storage.GetCategories(context.Background())
	require.NoError(t, err)
	assert.Empty(t, categories)
}

func TestOpen_WithoutSessions(t *testing.T) {
	cfg := &config.Config{Database: config.DatabaseConfig{Driver: config.StorageDriverMemory}}

	backend, err := bootstrap.Open(context.Background(), cfg, false)
	require.NoError(t, err)
	assert.Nil(t, backend.Sessions)
}
