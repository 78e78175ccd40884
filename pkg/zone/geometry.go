package zone

import (
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// Geometry of a zoned device, as discovered when the device is
// attached to a pool.
type Geometry struct {
	// Size of the sectors of the device. Pages need to consist of
	// an integer number of sectors.
	SectorSizeBytes int
	// Number of zones on the device. Zones are addressed from zero.
	ZoneCount uint64
	// Number of pages stored in a single zone.
	ZonePages int64
	// Optimal I/O size of the device, also known as the stripe
	// size. Writes need to start at a multiple of this size.
	OptimalIOSizeBytes int
}

// ContainsZones returns whether a range of zones starting at a given
// address lies fully within the device.
func (g *Geometry) ContainsZones(zoneAddress Address, zoneCount uint32) bool {
	return uint64(zoneAddress) < g.ZoneCount && uint64(zoneCount) <= g.ZoneCount-uint64(zoneAddress)
}

// GetZoneSizeBytes returns the size of a single zone in bytes.
func (g *Geometry) GetZoneSizeBytes(pageSizeBytes int) int64 {
	return g.ZonePages * int64(pageSizeBytes)
}

// Validate the geometry against the page size of the host. All
// alignment requirements enforced by the I/O layer assume that pages
// are a multiple of the sector size, and that the stripe size is a
// multiple of the page size.
func (g *Geometry) Validate(pageSizeBytes int) error {
	if pageSizeBytes <= 0 || pageSizeBytes&(pageSizeBytes-1) != 0 {
		return status.Errorf(codes.InvalidArgument, "Page size %d is not a power of two", pageSizeBytes)
	}
	if g.SectorSizeBytes <= 0 || g.SectorSizeBytes&(g.SectorSizeBytes-1) != 0 {
		return status.Errorf(codes.InvalidArgument, "Sector size %d is not a power of two", g.SectorSizeBytes)
	}
	if pageSizeBytes%g.SectorSizeBytes != 0 {
		return status.Errorf(codes.InvalidArgument, "Page size %d is not a multiple of sector size %d", pageSizeBytes, g.SectorSizeBytes)
	}
	if g.ZoneCount == 0 {
		return status.Error(codes.InvalidArgument, "Devices must contain at least one zone")
	}
	if g.ZonePages <= 0 {
		return status.Errorf(codes.InvalidArgument, "Zones must contain at least one page, while %d pages were provided", g.ZonePages)
	}
	if g.OptimalIOSizeBytes <= 0 || g.OptimalIOSizeBytes%pageSizeBytes != 0 {
		return status.Errorf(codes.InvalidArgument, "Optimal I/O size %d is not a positive multiple of page size %d", g.OptimalIOSizeBytes, pageSizeBytes)
	}
	if g.GetZoneSizeBytes(pageSizeBytes)%int64(g.OptimalIOSizeBytes) != 0 {
		return status.Errorf(codes.InvalidArgument, "Zone size %d is not a multiple of optimal I/O size %d", g.GetZoneSizeBytes(pageSizeBytes), g.OptimalIOSizeBytes)
	}
	return nil
}
