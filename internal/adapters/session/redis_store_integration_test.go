//go:build integration

package session

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/citylinker/backend/internal/domain/entities"
	redisclient "github.com/citylinker/backend/internal/infrastructure/clients/redis"
)

func TestRedisStore(t *testing.T) {
	ctx := context.Background()

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "redis:7-alpine",
			ExposedPorts: []string{"6379/tcp"},
			WaitingFor:   wait.ForLog("Ready to accept connections"),
		},
		Started: true,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = container.Terminate(ctx) })

	endpoint, err := container.Endpoint(ctx, "")
	require.NoError(t, err)

	client := redisclient.NewFromClient(redis.NewClient(&redis.Options{Addr: endpoint}))
	t.Cleanup(func() { client.Close() })
	store := NewRedisStore(client)

	now := time.Now().UTC().Truncate(time.Second)
	session := &entities.Session{Token: "integration-token", UserID: 12, CreatedAt: now, ExpiresAt: now.Add(time.Hour)}
	require.NoError(t, store.Save(ctx, session))

	got, err := store.Get(ctx, session.Token)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, int64(12), got.UserID)
	assert.True(t, got.ExpiresAt.Equal(session.ExpiresAt))

	ttl, err := client.Client().TTL(ctx, keyPrefix+session.Token).Result()
	require.NoError(t, err)
	assert.Greater(t, ttl, 59*time.Minute)

	require.NoError(t, store.Delete(ctx, session.Token))
	got, err = store.Get(ctx, session.Token)
	require.NoError(t, err)
	assert.Nil(t, got)

	err = store.Save(ctx, &entities.Session{Token: "stale", ExpiresAt: now.Add(-time.Minute)})
	assert.Error(t, err)
}
