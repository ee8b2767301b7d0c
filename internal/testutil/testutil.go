package testutil

import (
	"context"
	"testing"

	"github.com/redis/go-redis/v9"
	redismodule "github.com/testcontainers/testcontainers-go/modules/redis"
)

// PlanStoreClient starts a throwaway Redis for plan-store integration tests
// and returns a connected client. The container and client are torn down via
// t.Cleanup. Tests skip in short mode and when no container runtime is
// available.
func PlanStoreClient(ctx context.Context, t *testing.T) *redis.Client {
	t.Helper()

	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	defer func() {
		if r := recover(); r != nil {
			t.Skipf("container runtime unavailable: %v", r)
		}
	}()

	store, err := redismodule.Run(ctx, "redis:8.2-alpine")
	if err != nil {
		t.Skipf("container runtime unavailable: %v", err)
	}
	t.Cleanup(func() {
		if err := store.Terminate(ctx); err != nil {
			t.Logf("failed to terminate plan store container: %v", err)
		}
	})

	addr, err := store.Endpoint(ctx, "")
	if err != nil {
		t.Skipf("failed to resolve plan store endpoint: %v", err)
	}

	client := redis.NewClient(&redis.Options{
		Addr: addr,
	})
	t.Cleanup(func() {
		if err := client.Close(); err != nil {
			t.Logf("failed to close plan store client: %v", err)
		}
	})

	return client
}
