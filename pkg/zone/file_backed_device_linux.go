//go:build linux
// +build linux

package zone

import (
	"context"

	"github.com/buildbarn/bb-zonestore/pkg/util"

	"golang.org/x/sys/unix"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

type fileBackedDevice struct {
	fd     int
	bounds deviceBounds
}

// maximumVectorsPerCall is the maximum number of vectors that the
// kernel accepts in a single call to preadv() or pwritev2() (IOV_MAX).
const maximumVectorsPerCall = 1024

// NewDeviceFromFile creates a Device that is backed by a regular file
// stored in a file system, or a conventional block device. Zones are
// stored consecutively. This makes it possible to run zoned storage
// on hardware that doesn't natively support it.
//
// Transfers are submitted using preadv() and pwritev2(), meaning that
// vectors are passed on to the kernel without being copied. Durable
// writes are issued with RWF_DSYNC, which on devices that support it
// translates to a write with the Force Unit Access bit set.
//
// If the geometry has no sector size set, the block size returned by
// fstat() is used. The geometry is validated before the file is
// truncated or resized, and is returned with the sector size filled
// in.
func NewDeviceFromFile(path string, geometry Geometry, pageSizeBytes int, zeroInitialize bool) (Device, Geometry, func() error, error) {
	fd, err := unix.Open(path, unix.O_CREAT|unix.O_RDWR, 0o666)
	if err != nil {
		return nil, Geometry{}, nil, util.StatusWrapfWithCode(err, codes.Internal, "Failed to open file %#v", path)
	}

	var stat unix.Stat_t
	if err := unix.Fstat(fd, &stat); err != nil {
		unix.Close(fd)
		return nil, Geometry{}, nil, util.StatusWrapfWithCode(err, codes.Internal, "Failed to obtain size of file %#v", path)
	}
	if geometry.SectorSizeBytes == 0 {
		geometry.SectorSizeBytes = int(stat.Blksize)
	}
	if err := geometry.Validate(pageSizeBytes); err != nil {
		unix.Close(fd)
		return nil, Geometry{}, nil, util.StatusWrapf(err, "Invalid geometry for file %#v", path)
	}

	d := &fileBackedDevice{
		fd: fd,
		bounds: deviceBounds{
			zoneSizeBytes: geometry.GetZoneSizeBytes(pageSizeBytes),
			zoneCount:     geometry.ZoneCount,
		},
	}
	isRegularFile := stat.Mode&unix.S_IFMT == unix.S_IFREG
	if isRegularFile && zeroInitialize && stat.Size > 0 {
		if err := unix.Ftruncate(fd, 0); err != nil {
			unix.Close(fd)
			return nil, Geometry{}, nil, util.StatusWrapfWithCode(err, codes.Internal, "Failed to discard contents of file %#v", path)
		}
		stat.Size = 0
	}
	sizeBytes := d.bounds.getSizeBytes()
	if isRegularFile && stat.Size < sizeBytes {
		if err := unix.Ftruncate(fd, sizeBytes); err != nil {
			unix.Close(fd)
			return nil, Geometry{}, nil, util.StatusWrapfWithCode(err, codes.Internal, "Failed to truncate file %#v to %d bytes", path, sizeBytes)
		}
	}
	return d, geometry, d.close, nil
}

func limitVectors(vectors [][]byte) [][]byte {
	if len(vectors) > maximumVectorsPerCall {
		return vectors[:maximumVectorsPerCall]
	}
	return vectors
}

func (d *fileBackedDevice) WriteVectors(ctx context.Context, vectors [][]byte, zoneAddress Address, offsetBytes int64, durable bool) error {
	remaining := GetVectorsSizeBytes(vectors)
	offset, err := d.bounds.getAbsoluteOffset(zoneAddress, offsetBytes, remaining)
	if err != nil {
		return err
	}

	writeFlags := 0
	if durable {
		writeFlags = unix.RWF_DSYNC
	}
	needsSync := false
	for remaining > 0 {
		n, err := unix.Pwritev2(d.fd, limitVectors(vectors), offset, writeFlags)
		if err == unix.EOPNOTSUPP && writeFlags != 0 {
			// Kernel does not support per-write flags. Fall
			// back to a plain write, followed by fdatasync().
			writeFlags = 0
			needsSync = true
			continue
		}
		if err != nil {
			return util.StatusWrapfWithCode(err, codes.Internal, "pwritev2() at absolute offset %d failed", offset)
		}
		if n == 0 {
			return status.Errorf(codes.Internal, "Short write of %d bytes at offset %d", remaining, offset)
		}
		vectors = advanceVectors(vectors, n)
		offset += int64(n)
		remaining -= int64(n)
	}

	if needsSync {
		if err := unix.Fdatasync(d.fd); err != nil {
			return util.StatusWrapWithCode(err, codes.Internal, "Failed to synchronize data")
		}
	}
	return nil
}

func (d *fileBackedDevice) ReadVectors(ctx context.Context, vectors [][]byte, zoneAddress Address, offsetBytes int64) error {
	remaining := GetVectorsSizeBytes(vectors)
	offset, err := d.bounds.getAbsoluteOffset(zoneAddress, offsetBytes, remaining)
	if err != nil {
		return err
	}

	for remaining > 0 {
		n, err := unix.Preadv(d.fd, limitVectors(vectors), offset)
		if err != nil {
			return util.StatusWrapfWithCode(err, codes.Internal, "preadv() at absolute offset %d failed", offset)
		}
		if n == 0 {
			return status.Errorf(codes.Internal, "Unexpected end of file while reading %d bytes at offset %d", remaining, offset)
		}
		vectors = advanceVectors(vectors, n)
		offset += int64(n)
		remaining -= int64(n)
	}
	return nil
}

func (d *fileBackedDevice) close() error {
	var errs []error
	if err := unix.Fsync(d.fd); err != nil {
		errs = append(errs, util.StatusWrapWithCode(err, codes.Internal, "Failed to synchronize file"))
	}
	if err := unix.Close(d.fd); err != nil {
		errs = append(errs, util.StatusWrapWithCode(err, codes.Internal, "Failed to close file descriptor"))
	}
	return util.StatusFromMultiple(errs)
}
