package zone

import (
	"context"

	"github.com/buildbarn/bb-zonestore/pkg/util"

	"golang.org/x/sync/semaphore"
)

type writeConcurrencyLimitingDevice struct {
	Device
	semaphore *semaphore.Weighted
}

// NewWriteConcurrencyLimitingDevice is a decorator for Device that
// limits the number of calls to WriteVectors() that may run in
// parallel. This can be used to prevent exhaustion of operating system
// level threads, which can cause the Go runtime to crash the process.
// It also prevents a large number of durable writes from saturating
// the command queue of a device.
func NewWriteConcurrencyLimitingDevice(base Device, semaphore *semaphore.Weighted) Device {
	return &writeConcurrencyLimitingDevice{
		Device:    base,
		semaphore: semaphore,
	}
}

func (d *writeConcurrencyLimitingDevice) WriteVectors(ctx context.Context, vectors [][]byte, zoneAddress Address, offsetBytes int64, durable bool) error {
	if err := util.AcquireSemaphore(ctx, d.semaphore, 1); err != nil {
		return err
	}
	defer d.semaphore.Release(1)

	return d.Device.WriteVectors(ctx, vectors, zoneAddress, offsetBytes, durable)
}
