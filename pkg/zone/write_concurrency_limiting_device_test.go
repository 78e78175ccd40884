package zone_test

import (
	"context"
	"testing"

	"github.com/buildbarn/bb-zonestore/internal/mock"
	"github.com/buildbarn/bb-zonestore/pkg/testutil"
	"github.com/buildbarn/bb-zonestore/pkg/zone"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"golang.org/x/sync/semaphore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func TestWriteConcurrencyLimitingDevice(t *testing.T) {
	ctrl, ctx := gomock.WithContext(context.Background(), t)

	baseDevice := mock.NewMockDevice(ctrl)
	sem := semaphore.NewWeighted(1)
	device := zone.NewWriteConcurrencyLimitingDevice(baseDevice, sem)

	t.Run("WriteSuccess", func(t *testing.T) {
		baseDevice.EXPECT().WriteVectors(ctx, [][]byte{[]byte("Hello")}, zone.Address(3), int64(8192), true).
			DoAndReturn(func(ctx context.Context, vectors [][]byte, zoneAddress zone.Address, offsetBytes int64, durable bool) error {
				// The semaphore should be held while
				// the write is in progress.
				require.False(t, sem.TryAcquire(1))
				return nil
			})

		require.NoError(t, device.WriteVectors(ctx, [][]byte{[]byte("Hello")}, 3, 8192, true))

		// The semaphore should have been released.
		require.True(t, sem.TryAcquire(1))
		sem.Release(1)
	})

	t.Run("ReadsAreNotLimited", func(t *testing.T) {
		require.True(t, sem.TryAcquire(1))
		defer sem.Release(1)

		baseDevice.EXPECT().ReadVectors(ctx, gomock.Len(1), zone.Address(3), int64(0))
		var b [5]byte
		require.NoError(t, device.ReadVectors(ctx, [][]byte{b[:]}, 3, 0))
	})

	t.Run("Canceled", func(t *testing.T) {
		require.True(t, sem.TryAcquire(1))
		defer sem.Release(1)

		canceledCtx, cancel := context.WithCancel(ctx)
		cancel()
		testutil.RequireEqualStatus(
			t,
			status.Error(codes.Canceled, "context canceled"),
			device.WriteVectors(canceledCtx, [][]byte{[]byte("Hello")}, 3, 8192, true))
	})
}
