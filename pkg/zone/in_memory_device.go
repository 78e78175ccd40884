package zone

import (
	"context"
	"sync"
)

type inMemoryDevice struct {
	bounds deviceBounds

	lock sync.RWMutex
	data []byte
}

// NewInMemoryDevice creates a Device that stores its zones in memory,
// being backed by a simple byte slice. The byte slice is already fully
// allocated. It does not grow to the desired size lazily.
//
// This implementation is useful for testing, and for running the I/O
// layer on systems that don't have any zoned storage available.
func NewInMemoryDevice(zoneSizeBytes int64, zoneCount uint64) Device {
	d := &inMemoryDevice{
		bounds: deviceBounds{
			zoneSizeBytes: zoneSizeBytes,
			zoneCount:     zoneCount,
		},
	}
	d.data = make([]byte, d.bounds.getSizeBytes())
	return d
}

func (d *inMemoryDevice) WriteVectors(ctx context.Context, vectors [][]byte, zoneAddress Address, offsetBytes int64, durable bool) error {
	offset, err := d.bounds.getAbsoluteOffset(zoneAddress, offsetBytes, GetVectorsSizeBytes(vectors))
	if err != nil {
		return err
	}

	d.lock.Lock()
	defer d.lock.Unlock()

	for _, vector := range vectors {
		offset += int64(copy(d.data[offset:], vector))
	}
	return nil
}

func (d *inMemoryDevice) ReadVectors(ctx context.Context, vectors [][]byte, zoneAddress Address, offsetBytes int64) error {
	offset, err := d.bounds.getAbsoluteOffset(zoneAddress, offsetBytes, GetVectorsSizeBytes(vectors))
	if err != nil {
		return err
	}

	d.lock.RLock()
	defer d.lock.RUnlock()

	for _, vector := range vectors {
		offset += int64(copy(vector, d.data[offset:]))
	}
	return nil
}
