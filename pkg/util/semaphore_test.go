package util_test

import (
	"context"
	"testing"

	"github.com/buildbarn/bb-zonestore/pkg/testutil"
	"github.com/buildbarn/bb-zonestore/pkg/util"
	"github.com/stretchr/testify/require"

	"golang.org/x/sync/semaphore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func TestAcquireSemaphore(t *testing.T) {
	sem := semaphore.NewWeighted(2)

	t.Run("Success", func(t *testing.T) {
		require.NoError(t, util.AcquireSemaphore(context.Background(), sem, 2))
		sem.Release(2)
	})

	t.Run("CanceledWhileAvailable", func(t *testing.T) {
		// Even though the semaphore can be acquired, a canceled
		// context should cause acquisition to fail.
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		testutil.RequireEqualStatus(t, status.Error(codes.Canceled, "context canceled"), util.AcquireSemaphore(ctx, sem, 1))
		require.True(t, sem.TryAcquire(2))
		sem.Release(2)
	})

	t.Run("DeadlineExceeded", func(t *testing.T) {
		require.True(t, sem.TryAcquire(2))
		defer sem.Release(2)

		ctx, cancel := context.WithTimeout(context.Background(), 0)
		defer cancel()
		testutil.RequireEqualStatus(t, status.Error(codes.DeadlineExceeded, "context deadline exceeded"), util.AcquireSemaphore(ctx, sem, 1))
	})
}
