package pool

import (
	"github.com/buildbarn/bb-zonestore/pkg/util"
	"github.com/google/uuid"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// Pool of zoned devices on which objects are stored. The pool provides
// the device table through which layouts reference their devices, and
// the page size that all I/O needs to be aligned to.
type Pool struct {
	name          string
	id            uuid.UUID
	pageSizeBytes int
	devices       []*Device
}

// NewPool creates a pool from a set of devices that have already been
// attached. The geometry of every device is validated against the page
// size.
func NewPool(name string, id uuid.UUID, pageSizeBytes int, devices []*Device) (*Pool, error) {
	for i, d := range devices {
		if err := d.GetGeometry().Validate(pageSizeBytes); err != nil {
			return nil, util.StatusWrapf(err, "Invalid geometry for device %d (%#v) of pool %#v", i, d.GetName(), name)
		}
	}
	return &Pool{
		name:          name,
		id:            id,
		pageSizeBytes: pageSizeBytes,
		devices:       devices,
	}, nil
}

// GetName returns the name of the pool.
func (p *Pool) GetName() string {
	return p.name
}

// GetID returns the unique identifier of the pool.
func (p *Pool) GetID() uuid.UUID {
	return p.id
}

// GetPageSizeBytes returns the page size that all I/O against the pool
// must be aligned to.
func (p *Pool) GetPageSizeBytes() int {
	return p.pageSizeBytes
}

// GetDeviceCount returns the number of devices attached to the pool.
func (p *Pool) GetDeviceCount() int {
	return len(p.devices)
}

// GetDevice returns the device stored at a given index of the device
// table.
func (p *Pool) GetDevice(index int) (*Device, error) {
	if index < 0 || index >= len(p.devices) {
		return nil, status.Errorf(codes.InvalidArgument, "Pool %#v does not have a device with index %d", p.name, index)
	}
	return p.devices[index], nil
}
