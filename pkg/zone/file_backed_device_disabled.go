//go:build !linux
// +build !linux

package zone

import (
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// NewDeviceFromFile creates a Device that is backed by a regular file
// stored in a file system. This implementation is a stub for operating
// systems that don't provide vectored I/O with per-write flags.
func NewDeviceFromFile(path string, geometry Geometry, pageSizeBytes int, zeroInitialize bool) (Device, Geometry, func() error, error) {
	return nil, Geometry{}, nil, status.Error(codes.Unimplemented, "File backed zoned devices are not supported on this platform")
}
