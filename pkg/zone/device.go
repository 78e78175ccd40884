package zone

import (
	"context"
	"fmt"
)

// Address of a zone on a device. Zone addresses are expressed in
// units of zones, meaning that the byte offset of a zone on its device
// is its address multiplied by the size of a zone.
type Address uint64

func (a Address) String() string {
	return fmt.Sprintf("%d", uint64(a))
}

// Device is an interface for submitting I/O to a zoned storage device,
// such as a shingled disk or a zoned namespace SSD. Zones on such
// devices can only be written sequentially, and cannot be overwritten
// without resetting them first.
//
// Transfers are expressed as lists of vectors (scatter-gather I/O).
// Offsets are relative to the start of the zone at the provided
// address. Transfers may span multiple consecutive zones, which is
// what happens when an object is placed on more than one zone.
//
// Implementations don't validate whether transfers respect the write
// pointer of the zones, nor whether they are aligned to the geometry
// of the device. Callers are responsible for that.
type Device interface {
	// WriteVectors writes the contents of all vectors consecutively,
	// starting at the provided offset. If durable is set, the call
	// only returns after the data has been persisted to stable
	// storage.
	WriteVectors(ctx context.Context, vectors [][]byte, zoneAddress Address, offsetBytes int64, durable bool) error
	// ReadVectors fills all vectors consecutively with data stored
	// at the provided offset.
	ReadVectors(ctx context.Context, vectors [][]byte, zoneAddress Address, offsetBytes int64) error
}

// GetVectorsSizeBytes returns the total size of a list of vectors.
func GetVectorsSizeBytes(vectors [][]byte) int64 {
	var sizeBytes int64
	for _, vector := range vectors {
		sizeBytes += int64(len(vector))
	}
	return sizeBytes
}
