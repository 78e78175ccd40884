package clock

import (
	"time"
)

// Clock is an interface around the standard library function that
// reports the time of day. It has been added to aid unit testing.
type Clock interface {
	// Return the current time of day. Equivalent to time.Now().
	Now() time.Time
}
