package objectio

import (
	"context"
	"sync"

	"github.com/buildbarn/bb-zonestore/pkg/object"
	"github.com/buildbarn/bb-zonestore/pkg/pool"
	"github.com/buildbarn/bb-zonestore/pkg/util"
	"github.com/prometheus/client_golang/prometheus"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

var (
	blockObjectIOPrometheusMetrics sync.Once

	blockObjectIOOperationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "buildbarn",
			Subsystem: "zonestore",
			Name:      "block_object_io_operations_total",
			Help:      "Number of appends and reads against block objects, by result.",
		},
		[]string{"pool", "operation", "grpc_code"})
	blockObjectIOTransferredBytesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "buildbarn",
			Subsystem: "zonestore",
			Name:      "block_object_io_transferred_bytes_total",
			Help:      "Number of bytes successfully appended to and read from block objects.",
		},
		[]string{"pool", "operation"})
)

// BlockObjectIO provides the write and read path for block objects.
// Block objects are append-only: data is written sequentially, and
// only data that has been committed may be read back.
//
// Neither operation locks the object. Callers are expected to obtain
// exclusive access to the object when appending, and at least shared
// access when reading. Both operations block until the underlying
// device completes the transfer. Failed transfers are not retried.
type BlockObjectIO interface {
	// Append the contents of a list of page aligned buffers to an
	// object. The offset must be equal to the committed length of
	// the object. Data is persisted before the committed length is
	// advanced. The number of bytes appended is returned.
	Append(ctx context.Context, layout *object.ExclusiveLayout, buffers [][]byte, offsetBytes int64) (int64, error)
	// Read data stored in an object at a given offset into a list
	// of page aligned buffers. The number of bytes read is
	// returned.
	Read(ctx context.Context, layout object.LockedLayout, buffers [][]byte, offsetBytes int64) (int64, error)
}

type zonedBlockObjectIO struct {
	contract *ArgumentContract
	pool     *pool.Pool

	appendedBytesTotal prometheus.Counter
	readBytesTotal     prometheus.Counter
}

// NewZonedBlockObjectIO creates a BlockObjectIO that submits transfers
// directly to the zoned devices of a pool. Transfers are validated
// using the provided ArgumentContract first.
//
// When a device fails to complete a transfer, the device is marked
// offline and the error returned by the device is propagated verbatim.
// The committed length of the object remains unchanged. Transfers that
// fail because the context is done, or because the device rejected
// the request, leave the device online.
func NewZonedBlockObjectIO(p *pool.Pool, contract *ArgumentContract) BlockObjectIO {
	blockObjectIOPrometheusMetrics.Do(func() {
		prometheus.MustRegister(blockObjectIOOperationsTotal)
		prometheus.MustRegister(blockObjectIOTransferredBytesTotal)
	})

	return &zonedBlockObjectIO{
		contract: contract,
		pool:     p,

		appendedBytesTotal: blockObjectIOTransferredBytesTotal.WithLabelValues(p.GetName(), "Append"),
		readBytesTotal:     blockObjectIOTransferredBytesTotal.WithLabelValues(p.GetName(), "Read"),
	}
}

// isDeviceFailure returns whether an error returned by a device
// indicates that the device itself is unhealthy.
func isDeviceFailure(ctx context.Context, err error) bool {
	if ctx.Err() != nil {
		return false
	}
	switch status.Code(err) {
	case codes.Canceled, codes.DeadlineExceeded, codes.InvalidArgument, codes.OutOfRange:
		return false
	default:
		return true
	}
}

func (bo *zonedBlockObjectIO) countOperation(operation string, err error) {
	blockObjectIOOperationsTotal.WithLabelValues(bo.pool.GetName(), operation, status.Code(err).String()).Inc()
}

func (bo *zonedBlockObjectIO) Append(ctx context.Context, exclusiveLayout *object.ExclusiveLayout, buffers [][]byte, offsetBytes int64) (int64, error) {
	lengthBytes, err := bo.append(ctx, exclusiveLayout, buffers, offsetBytes)
	bo.countOperation("Append", err)
	return lengthBytes, err
}

func (bo *zonedBlockObjectIO) append(ctx context.Context, exclusiveLayout *object.ExclusiveLayout, buffers [][]byte, offsetBytes int64) (int64, error) {
	layout := exclusiveLayout.GetLayout()
	lengthBytes, device, err := bo.contract.check(layout, buffers, offsetBytes, DirectionWrite)
	if err != nil {
		return 0, err
	}
	if lengthBytes == 0 {
		return 0, nil
	}

	pages := splitIntoPages(buffers, lengthBytes, offsetBytes, bo.pool.GetPageSizeBytes())
	if err := device.GetZoneDevice().WriteVectors(ctx, pages, layout.GetZoneAddress(), offsetBytes, true); err != nil {
		if isDeviceFailure(ctx, err) {
			device.MarkOffline(util.StatusWrapf(
				err,
				"Pool %#v, object %s: Failed to write %d bytes at offset %d",
				bo.pool.GetName(),
				layout.GetObjectID(),
				lengthBytes,
				offsetBytes))
		}
		return 0, err
	}
	exclusiveLayout.AdvanceCommittedLength(lengthBytes)
	bo.appendedBytesTotal.Add(float64(lengthBytes))
	return lengthBytes, nil
}

func (bo *zonedBlockObjectIO) Read(ctx context.Context, lockedLayout object.LockedLayout, buffers [][]byte, offsetBytes int64) (int64, error) {
	lengthBytes, err := bo.read(ctx, lockedLayout, buffers, offsetBytes)
	bo.countOperation("Read", err)
	return lengthBytes, err
}

func (bo *zonedBlockObjectIO) read(ctx context.Context, lockedLayout object.LockedLayout, buffers [][]byte, offsetBytes int64) (int64, error) {
	layout := lockedLayout.GetLayout()
	lengthBytes, device, err := bo.contract.check(layout, buffers, offsetBytes, DirectionRead)
	if err != nil {
		return 0, err
	}
	if lengthBytes == 0 {
		return 0, nil
	}

	pages := splitIntoPages(buffers, lengthBytes, offsetBytes, bo.pool.GetPageSizeBytes())
	if err := device.GetZoneDevice().ReadVectors(ctx, pages, layout.GetZoneAddress(), offsetBytes); err != nil {
		if isDeviceFailure(ctx, err) {
			device.MarkOffline(util.StatusWrapf(
				err,
				"Pool %#v, object %s: Failed to read %d bytes at offset %d",
				bo.pool.GetName(),
				layout.GetObjectID(),
				lengthBytes,
				offsetBytes))
		}
		return 0, err
	}
	bo.readBytesTotal.Add(float64(lengthBytes))
	return lengthBytes, nil
}
