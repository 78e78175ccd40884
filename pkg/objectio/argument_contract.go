package objectio

import (
	"fmt"

	"github.com/buildbarn/bb-zonestore/pkg/object"
	"github.com/buildbarn/bb-zonestore/pkg/pool"
	"github.com/buildbarn/bb-zonestore/pkg/util"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// Direction of a transfer.
type Direction int

const (
	// DirectionRead is used for transfers from a device.
	DirectionRead Direction = iota
	// DirectionWrite is used for transfers to a device.
	DirectionWrite
)

func (d Direction) String() string {
	switch d {
	case DirectionRead:
		return "read"
	case DirectionWrite:
		return "write"
	default:
		return fmt.Sprintf("unknown(%d)", int(d))
	}
}

// ArgumentContract validates transfers against objects stored in a
// pool, before any I/O is submitted to a device. Violations are
// reported as InvalidArgument errors. Validating a transfer never has
// any side effects on the object or the device.
//
// Lower layers assert that the requirements enforced by this type are
// met, but don't check them otherwise.
type ArgumentContract struct {
	pool            *pool.Pool
	readAheadPolicy ReadAheadPolicy
	errorLogger     util.ErrorLogger
}

// NewArgumentContract creates an ArgumentContract for objects stored
// in a given pool. Diagnostics for rejected transfers are written to
// the provided error logger.
func NewArgumentContract(p *pool.Pool, readAheadPolicy ReadAheadPolicy, errorLogger util.ErrorLogger) *ArgumentContract {
	return &ArgumentContract{
		pool:            p,
		readAheadPolicy: readAheadPolicy,
		errorLogger:     errorLogger,
	}
}

func (c *ArgumentContract) newError(layout *object.Layout, format string, args ...interface{}) error {
	return status.Errorf(
		codes.InvalidArgument,
		"Pool %#v, object %s: %s",
		c.pool.GetName(),
		layout.GetObjectID(),
		fmt.Sprintf(format, args...))
}

func (c *ArgumentContract) reject(layout *object.Layout, format string, args ...interface{}) error {
	err := c.newError(layout, format, args...)
	c.errorLogger.Log(err)
	return err
}

// CheckObjectType checks whether the type embedded in the identifier of
// an object matches the type expected by the caller.
func (c *ArgumentContract) CheckObjectType(layout *object.Layout, expectedType object.ObjectType) error {
	if expectedType != object.ObjectTypeBlock && expectedType != object.ObjectTypeLog {
		return c.newError(layout, "Objects cannot be validated against type %s", expectedType)
	}
	if actualType := layout.GetObjectID().GetType(); actualType != expectedType {
		return c.reject(layout, "Object has type %s, while type %s was expected", actualType, expectedType)
	}
	return nil
}

func (c *ArgumentContract) getDevice(layout *object.Layout) (*pool.Device, error) {
	device, err := c.pool.GetDevice(layout.GetDeviceIndex())
	if err != nil {
		err = util.StatusWrapf(err, "Object %s", layout.GetObjectID())
		c.errorLogger.Log(err)
		return nil, err
	}
	return device, nil
}

// getCapacityBytes computes the amount of space reserved for an
// object, based on the number of zones allocated to it.
func (c *ArgumentContract) getCapacityBytes(layout *object.Layout, device *pool.Device) int64 {
	switch objectType := layout.GetObjectID().GetType(); objectType {
	case object.ObjectTypeBlock, object.ObjectTypeLog:
		return int64(layout.GetZoneCount()) * device.GetGeometry().GetZoneSizeBytes(c.pool.GetPageSizeBytes())
	default:
		c.errorLogger.Log(status.Errorf(
			codes.Internal,
			"Pool %#v, object %s: Object type %s is not recognized, assuming a capacity of zero bytes",
			c.pool.GetName(),
			layout.GetObjectID(),
			objectType))
		return 0
	}
}

// GetCapacityBytes returns the amount of space reserved for an object,
// which is equal to the number of zones allocated to it, multiplied by
// the size of the zones of the device. Objects of an unknown type have
// a capacity of zero bytes.
func (c *ArgumentContract) GetCapacityBytes(layout *object.Layout) (int64, error) {
	device, err := c.getDevice(layout)
	if err != nil {
		return 0, err
	}
	return c.getCapacityBytes(layout, device), nil
}

// GetStripeSizeBytes returns the stripe size of the device backing an
// object. Writes to the object must start at a multiple of this size.
func (c *ArgumentContract) GetStripeSizeBytes(layout *object.Layout) (int64, error) {
	device, err := c.getDevice(layout)
	if err != nil {
		return 0, err
	}
	return int64(device.GetGeometry().OptimalIOSizeBytes), nil
}

// Check validates a transfer of a list of buffers to or from a block
// object, starting at a given offset. Upon success, the total length
// of the transfer is returned. The zones allocated to the object must
// lie within the device.
//
// Reads must start at a page aligned offset within the capacity of the
// object, and may not extend past its committed length, unless the
// read-ahead policy permits it. Writes must start exactly at the
// committed length of the object, at a multiple of the stripe size of
// the device, and may not extend past the capacity of the object.
func (c *ArgumentContract) Check(layout *object.Layout, buffers [][]byte, offsetBytes int64, direction Direction) (int64, error) {
	lengthBytes, _, err := c.check(layout, buffers, offsetBytes, direction)
	return lengthBytes, err
}

func (c *ArgumentContract) check(layout *object.Layout, buffers [][]byte, offsetBytes int64, direction Direction) (int64, *pool.Device, error) {
	if err := c.CheckObjectType(layout, object.ObjectTypeBlock); err != nil {
		return 0, nil, err
	}
	device, err := c.getDevice(layout)
	if err != nil {
		return 0, nil, err
	}
	geometry := device.GetGeometry()
	if zoneAddress, zoneCount := layout.GetZoneAddress(), layout.GetZoneCount(); !geometry.ContainsZones(zoneAddress, zoneCount) {
		return 0, nil, c.reject(
			layout,
			"Object spans zones [%d, %d), while device %#v only has %d zones",
			uint64(zoneAddress),
			uint64(zoneAddress)+uint64(zoneCount),
			device.GetName(),
			geometry.ZoneCount)
	}
	capacityBytes := c.getCapacityBytes(layout, device)
	stripeSizeBytes := int64(geometry.OptimalIOSizeBytes)
	pageSizeBytes := int64(c.pool.GetPageSizeBytes())

	lengthBytes, fault := GetTransferLengthAndAlignment(buffers, c.pool.GetPageSizeBytes())
	if fault != 0 {
		return 0, nil, c.reject(layout, "Buffers provided to %s are not page aligned (fault: %s)", direction, fault)
	}

	committedLengthBytes := layout.GetCommittedLengthBytes()
	switch direction {
	case DirectionRead:
		if offsetBytes < 0 || offsetBytes%pageSizeBytes != 0 {
			return 0, nil, c.reject(layout, "Read offset %d is not a multiple of page size %d", offsetBytes, pageSizeBytes)
		}
		if offsetBytes >= capacityBytes {
			return 0, nil, c.reject(layout, "Read offset %d is past capacity %d", offsetBytes, capacityBytes)
		}
		if offsetBytes+lengthBytes > capacityBytes {
			return 0, nil, c.reject(layout, "Read of %d bytes at offset %d exceeds capacity %d", lengthBytes, offsetBytes, capacityBytes)
		}
		// Reads extending past the committed length are
		// rejected without emitting a diagnostic, as they are
		// a common occurrence when page caches read ahead.
		if offsetBytes+lengthBytes > committedLengthBytes && !c.readAheadPolicy.IsReadAhead(lengthBytes, c.pool.GetPageSizeBytes()) {
			return 0, nil, c.newError(layout, "Read of %d bytes at offset %d exceeds committed length %d", lengthBytes, offsetBytes, committedLengthBytes)
		}
	case DirectionWrite:
		if offsetBytes != committedLengthBytes {
			return 0, nil, c.reject(layout, "Write offset %d does not match committed length %d", offsetBytes, committedLengthBytes)
		}
		if offsetBytes%stripeSizeBytes != 0 {
			return 0, nil, c.reject(layout, "Write offset %d is not a multiple of stripe size %d", offsetBytes, stripeSizeBytes)
		}
		if offsetBytes+lengthBytes > capacityBytes {
			return 0, nil, c.reject(layout, "Write of %d bytes at offset %d exceeds capacity %d", lengthBytes, offsetBytes, capacityBytes)
		}
	default:
		return 0, nil, c.newError(layout, "Unknown transfer direction %s", direction)
	}
	return lengthBytes, device, nil
}
