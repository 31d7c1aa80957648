package integration

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

var (
	sharedRedis     testcontainers.Container
	sharedRedisAddr string
)

// NewSharedRedis returns a client on a package-wide Redis container. The
// database is flushed before the client is handed out.
func NewSharedRedis(t *testing.T) *redis.Client {
	t.Helper()

	sharedContainerMu.Lock()
	defer sharedContainerMu.Unlock()

	ctx := context.Background()

	if sharedRedis == nil {
		container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
			ContainerRequest: testcontainers.ContainerRequest{
				Image:        "redis:7-alpine",
				ExposedPorts: []string{"6379/tcp"},
				WaitingFor: wait.ForLog("Ready to accept connections").
					WithStartupTimeout(30 * time.Second),
			},
			Started: true,
		})
		require.NoError(t, err, "Failed to start Redis container")

		addr, err := container.Endpoint(ctx, "")
		require.NoError(t, err, "Failed to get Redis endpoint")

		sharedRedis = container
		sharedRedisAddr = addr
	}

	client := redis.NewClient(&redis.Options{Addr: sharedRedisAddr})
	require.NoError(t, client.FlushDB(ctx).Err(), "Failed to flush Redis")
	t.Cleanup(func() {
		_ = client.Close()
	})

	return client
}
