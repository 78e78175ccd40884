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

func TestNewDeviceFromConfiguration(t *testing.T) {
	t.Run("Nil", func(t *testing.T) {
		_, _, _, err := zone.NewDeviceFromConfiguration(nil, 4096)
		testutil.RequireEqualStatus(t, status.Error(codes.InvalidArgument, "Zoned device configuration not specified"), err)
	})

	t.Run("NoSource", func(t *testing.T) {
		_, _, _, err := zone.NewDeviceFromConfiguration(&zone.Configuration{
			Name:               "nvme0n2",
			ZoneCount:          8,
			ZonePages:          16,
			OptimalIOSizeBytes: 8192,
		}, 4096)
		testutil.RequireEqualStatus(t, status.Error(codes.InvalidArgument, "Configuration of zoned device \"nvme0n2\" did not contain exactly one supported device source"), err)
	})

	t.Run("InvalidGeometry", func(t *testing.T) {
		_, _, _, err := zone.NewDeviceFromConfiguration(&zone.Configuration{
			Name:               "nvme0n2",
			InMemory:           &struct{}{},
			ZoneCount:          8,
			ZonePages:          16,
			OptimalIOSizeBytes: 6000,
		}, 4096)
		testutil.RequireEqualStatus(t, status.Error(codes.InvalidArgument, "Invalid geometry for zoned device \"nvme0n2\": Optimal I/O size 6000 is not a positive multiple of page size 4096"), err)
	})

	t.Run("NegativeZonePages", func(t *testing.T) {
		// The geometry must be validated before any storage is
		// allocated for the device.
		_, _, _, err := zone.NewDeviceFromConfiguration(&zone.Configuration{
			Name:               "nvme0n2",
			InMemory:           &struct{}{},
			ZoneCount:          8,
			ZonePages:          -1,
			OptimalIOSizeBytes: 8192,
		}, 4096)
		testutil.RequireEqualStatus(t, status.Error(codes.InvalidArgument, "Invalid geometry for zoned device \"nvme0n2\": Zones must contain at least one page, while -1 pages were provided"), err)
	})

	t.Run("NoZones", func(t *testing.T) {
		_, _, _, err := zone.NewDeviceFromConfiguration(&zone.Configuration{
			Name:               "nvme0n2",
			InMemory:           &struct{}{},
			ZonePages:          16,
			OptimalIOSizeBytes: 8192,
		}, 4096)
		testutil.RequireEqualStatus(t, status.Error(codes.InvalidArgument, "Invalid geometry for zoned device \"nvme0n2\": Devices must contain at least one zone"), err)
	})

	t.Run("InMemory", func(t *testing.T) {
		device, geometry, closeDevice, err := zone.NewDeviceFromConfiguration(&zone.Configuration{
			Name:                    "nvme0n2",
			InMemory:                &struct{}{},
			ZoneCount:               8,
			ZonePages:               16,
			OptimalIOSizeBytes:      8192,
			MaximumConcurrentWrites: 4,
		}, 4096)
		require.NoError(t, err)
		require.Equal(t, zone.Geometry{
			SectorSizeBytes:    512,
			ZoneCount:          8,
			ZonePages:          16,
			OptimalIOSizeBytes: 8192,
		}, geometry)

		ctx := context.Background()
		require.NoError(t, device.WriteVectors(ctx, [][]byte{[]byte("Hello")}, 7, 0, true))
		var b [5]byte
		require.NoError(t, device.ReadVectors(ctx, [][]byte{b[:]}, 7, 0))
		require.Equal(t, []byte("Hello"), b[:])
		require.NoError(t, closeDevice())
	})
}
