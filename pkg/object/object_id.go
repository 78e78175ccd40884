package object

import (
	"fmt"
)

// ObjectType is the type of an object, as encoded in its identifier.
type ObjectType uint8

const (
	// ObjectTypeUndefined is the zero value of ObjectType. It is not
	// used by any valid object.
	ObjectTypeUndefined ObjectType = iota
	// ObjectTypeBlock is the type of write-once, append-only
	// block objects.
	ObjectTypeBlock
	// ObjectTypeLog is the type of log objects.
	ObjectTypeLog
)

func (t ObjectType) String() string {
	switch t {
	case ObjectTypeUndefined:
		return "undefined"
	case ObjectTypeBlock:
		return "block"
	case ObjectTypeLog:
		return "log"
	default:
		return fmt.Sprintf("unknown(%d)", uint8(t))
	}
}

const (
	objectTypeShift = 8
	objectTypeMask  = 0xf
	uniquifierShift = 12
)

// ObjectID is the identifier of an object. Next to a unique number, the
// identifier embeds the type of the object. This allows the type to be
// checked without consulting any metadata.
//
// The layout of an identifier is as follows:
//
//	bits 63-12: uniquifier
//	bits 11-8:  object type
//	bits 7-0:   reserved, zero
type ObjectID uint64

// NewObjectID creates an object identifier from a unique number and an
// object type.
func NewObjectID(uniquifier uint64, objectType ObjectType) ObjectID {
	return ObjectID(uniquifier<<uniquifierShift | uint64(objectType&objectTypeMask)<<objectTypeShift)
}

// GetType returns the object type embedded in the identifier.
func (id ObjectID) GetType() ObjectType {
	return ObjectType((uint64(id) >> objectTypeShift) & objectTypeMask)
}

// GetUniquifier returns the unique number embedded in the identifier.
func (id ObjectID) GetUniquifier() uint64 {
	return uint64(id) >> uniquifierShift
}

func (id ObjectID) String() string {
	return fmt.Sprintf("0x%x", uint64(id))
}
