package main

import (
	"github.com/buildbarn/bb-zonestore/pkg/pool"
)

// ObjectConfiguration describes a block object that is filled with
// pseudo-random data and read back.
type ObjectConfiguration struct {
	// Index of the device within the pool storing the object.
	DeviceIndex int `json:"deviceIndex"`
	// Address of the first zone allocated to the object.
	ZoneAddress uint64 `json:"zoneAddress"`
	// Number of consecutive zones allocated to the object.
	ZoneCount uint32 `json:"zoneCount"`
	// Number of pages written by every append. Must be a multiple
	// of the stripe size of the device, except for the final
	// append.
	AppendPages int `json:"appendPages"`
	// Number of appends to perform. When zero, appends are
	// performed until the object is full.
	AppendCount int `json:"appendCount,omitempty"`
}

// ApplicationConfiguration is the top-level configuration of
// bb_zonestore_bench.
type ApplicationConfiguration struct {
	Pool pool.Configuration `json:"pool"`

	// Reads consisting of exactly one of these page counts may
	// extend past the committed length of an object.
	ReadAheadPageCounts []int64 `json:"readAheadPageCounts,omitempty"`

	Objects []ObjectConfiguration `json:"objects"`

	// Number of pages transferred by every read when verifying the
	// contents of objects.
	ReadPages int `json:"readPages"`

	// Write all metrics in the Prometheus text exposition format to
	// standard output upon completion.
	PrintMetrics bool `json:"printMetrics,omitempty"`
}
