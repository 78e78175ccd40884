package object

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/buildbarn/bb-zonestore/pkg/zone"
)

// Layout describes the physical footprint of a single object: the
// device on which it is stored, the range of zones it occupies, and the
// number of bytes that have been durably written to it.
//
// All fields except the committed length are immutable. The committed
// length only grows, and is only changed by appending data while
// holding an ExclusiveLayout.
type Layout struct {
	objectID    ObjectID
	deviceIndex int
	zoneAddress zone.Address
	zoneCount   uint32

	lock                 sync.RWMutex
	committedLengthBytes atomic.Int64
}

// NewLayout creates a layout for an object whose zones have already
// been allocated. Objects that are being reopened may already contain
// data, in which case a nonzero committed length may be provided.
func NewLayout(objectID ObjectID, deviceIndex int, zoneAddress zone.Address, zoneCount uint32, committedLengthBytes int64) *Layout {
	if committedLengthBytes < 0 {
		panic(fmt.Sprintf("Negative committed length %d", committedLengthBytes))
	}
	l := &Layout{
		objectID:    objectID,
		deviceIndex: deviceIndex,
		zoneAddress: zoneAddress,
		zoneCount:   zoneCount,
	}
	l.committedLengthBytes.Store(committedLengthBytes)
	return l
}

// GetObjectID returns the identifier of the object.
func (l *Layout) GetObjectID() ObjectID {
	return l.objectID
}

// GetDeviceIndex returns the index of the device storing the object
// within the device table of the pool.
func (l *Layout) GetDeviceIndex() int {
	return l.deviceIndex
}

// GetZoneAddress returns the address of the first zone of the object.
func (l *Layout) GetZoneAddress() zone.Address {
	return l.zoneAddress
}

// GetZoneCount returns the number of consecutive zones allocated to the
// object.
func (l *Layout) GetZoneCount() uint32 {
	return l.zoneCount
}

// GetCommittedLengthBytes returns the number of bytes that have been
// durably written to the object. It is safe to call this function
// without holding any lock on the layout. The value returned never
// exceeds the amount of data that has actually been persisted.
func (l *Layout) GetCommittedLengthBytes() int64 {
	return l.committedLengthBytes.Load()
}

// LockExclusive acquires exclusive access to the object. The resulting
// handle is needed to append data to the object.
func (l *Layout) LockExclusive() *ExclusiveLayout {
	l.lock.Lock()
	return &ExclusiveLayout{layout: l}
}

// LockShared acquires shared access to the object, permitting reads
// to take place in parallel.
func (l *Layout) LockShared() *SharedLayout {
	l.lock.RLock()
	return &SharedLayout{layout: l}
}

// LockedLayout is a handle to a layout for which the caller holds
// either shared or exclusive access.
type LockedLayout interface {
	GetLayout() *Layout
}

// ExclusiveLayout is a handle to a layout for which the caller holds
// exclusive access. Only one such handle can exist for a layout at any
// given time, meaning that it serializes writers.
type ExclusiveLayout struct {
	layout *Layout
}

var _ LockedLayout = (*ExclusiveLayout)(nil)

// GetLayout returns the layout to which exclusive access is held.
func (el *ExclusiveLayout) GetLayout() *Layout {
	if el.layout == nil {
		panic("Attempted to use exclusive layout handle after unlocking")
	}
	return el.layout
}

// AdvanceCommittedLength increases the committed length of the object.
// This function must only be called after the data has been persisted.
func (el *ExclusiveLayout) AdvanceCommittedLength(deltaBytes int64) {
	if deltaBytes < 0 {
		panic(fmt.Sprintf("Attempted to decrease committed length by %d bytes", -deltaBytes))
	}
	el.GetLayout().committedLengthBytes.Add(deltaBytes)
}

// Unlock releases exclusive access to the layout. The handle may no
// longer be used afterwards.
func (el *ExclusiveLayout) Unlock() {
	l := el.GetLayout()
	el.layout = nil
	l.lock.Unlock()
}

// SharedLayout is a handle to a layout for which the caller holds
// shared access.
type SharedLayout struct {
	layout *Layout
}

var _ LockedLayout = (*SharedLayout)(nil)

// GetLayout returns the layout to which shared access is held.
func (sl *SharedLayout) GetLayout() *Layout {
	if sl.layout == nil {
		panic("Attempted to use shared layout handle after unlocking")
	}
	return sl.layout
}

// Unlock releases shared access to the layout. The handle may no
// longer be used afterwards.
func (sl *SharedLayout) Unlock() {
	l := sl.GetLayout()
	sl.layout = nil
	l.lock.RUnlock()
}
