package aliases

import (
	"github.com/google/uuid"
)

// This file contains interfaces for function types declared elsewhere
// in this repository. mockgen is only capable of emitting mocks for
// interfaces, so the method of each interface below has the same
// signature as the function type it represents.

// UUIDGenerator corresponds to util.UUIDGenerator.
type UUIDGenerator interface {
	Call() (uuid.UUID, error)
}
