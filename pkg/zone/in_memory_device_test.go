package zone_test

import (
	"context"
	"testing"

	"github.com/buildbarn/bb-zonestore/pkg/testutil"
	"github.com/buildbarn/bb-zonestore/pkg/zone"
	"github.com/stretchr/testify/require"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func TestInMemoryDevice(t *testing.T) {
	ctx := context.Background()
	device := zone.NewInMemoryDevice(16, 4)

	t.Run("WriteSpanningZones", func(t *testing.T) {
		// Vectors are written consecutively, and may cross the
		// boundary between two zones.
		require.NoError(t, device.WriteVectors(ctx, [][]byte{
			[]byte("Hello, "),
			[]byte("zoned world"),
		}, 1, 8, true))

		var first [10]byte
		var second [6]byte
		require.NoError(t, device.ReadVectors(ctx, [][]byte{first[:], second[:]}, 2, 0))
		require.Equal(t, []byte("oned world"), first[:])
		require.Equal(t, []byte("\x00\x00\x00\x00\x00\x00"), second[:])

		var all [18]byte
		require.NoError(t, device.ReadVectors(ctx, [][]byte{all[:]}, 1, 8))
		require.Equal(t, []byte("Hello, zoned world"), all[:])
	})

	t.Run("NonExistentZone", func(t *testing.T) {
		testutil.RequireEqualStatus(
			t,
			status.Error(codes.InvalidArgument, "Zone 4 does not exist, as the device only has 4 zones"),
			device.WriteVectors(ctx, [][]byte{[]byte("x")}, 4, 0, true))
	})

	t.Run("PastEndOfDevice", func(t *testing.T) {
		var b [8]byte
		testutil.RequireEqualStatus(
			t,
			status.Error(codes.OutOfRange, "Transfer of 8 bytes at offset 12 of zone 3 exceeds the device size of 64 bytes"),
			device.ReadVectors(ctx, [][]byte{b[:]}, 3, 12))
	})
}
