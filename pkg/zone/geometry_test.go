package zone_test

import (
	"testing"

	"github.com/buildbarn/bb-zonestore/pkg/testutil"
	"github.com/buildbarn/bb-zonestore/pkg/zone"
	"github.com/stretchr/testify/require"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func TestGeometry(t *testing.T) {
	geometry := zone.Geometry{
		SectorSizeBytes:    512,
		ZoneCount:          64,
		ZonePages:          4096,
		OptimalIOSizeBytes: 8192,
	}

	t.Run("ZoneSize", func(t *testing.T) {
		require.Equal(t, int64(16*1024*1024), geometry.GetZoneSizeBytes(4096))
	})

	t.Run("Valid", func(t *testing.T) {
		require.NoError(t, geometry.Validate(4096))
	})

	t.Run("PageSizeNotPowerOfTwo", func(t *testing.T) {
		testutil.RequireEqualStatus(
			t,
			status.Error(codes.InvalidArgument, "Page size 3000 is not a power of two"),
			geometry.Validate(3000))
	})

	t.Run("SectorLargerThanPage", func(t *testing.T) {
		g := geometry
		g.SectorSizeBytes = 8192
		testutil.RequireEqualStatus(
			t,
			status.Error(codes.InvalidArgument, "Page size 4096 is not a multiple of sector size 8192"),
			g.Validate(4096))
	})

	t.Run("ContainsZones", func(t *testing.T) {
		require.True(t, geometry.ContainsZones(0, 64))
		require.True(t, geometry.ContainsZones(60, 4))
		require.False(t, geometry.ContainsZones(60, 5))
		require.False(t, geometry.ContainsZones(64, 0))
		require.False(t, geometry.ContainsZones(1<<63, 1<<31))
	})

	t.Run("NoZones", func(t *testing.T) {
		g := geometry
		g.ZoneCount = 0
		testutil.RequireEqualStatus(
			t,
			status.Error(codes.InvalidArgument, "Devices must contain at least one zone"),
			g.Validate(4096))
	})

	t.Run("EmptyZones", func(t *testing.T) {
		g := geometry
		g.ZonePages = 0
		testutil.RequireEqualStatus(
			t,
			status.Error(codes.InvalidArgument, "Zones must contain at least one page, while 0 pages were provided"),
			g.Validate(4096))
	})

	t.Run("StripeNotPageMultiple", func(t *testing.T) {
		g := geometry
		g.OptimalIOSizeBytes = 6000
		testutil.RequireEqualStatus(
			t,
			status.Error(codes.InvalidArgument, "Optimal I/O size 6000 is not a positive multiple of page size 4096"),
			g.Validate(4096))
	})

	t.Run("ZoneNotStripeMultiple", func(t *testing.T) {
		g := geometry
		g.ZonePages = 3
		testutil.RequireEqualStatus(
			t,
			status.Error(codes.InvalidArgument, "Zone size 12288 is not a multiple of optimal I/O size 8192"),
			g.Validate(4096))
	})
}
