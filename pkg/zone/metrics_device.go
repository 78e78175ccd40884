package zone

import (
	"context"
	"strconv"
	"sync"
	"time"

	"github.com/buildbarn/bb-zonestore/pkg/clock"
	"github.com/buildbarn/bb-zonestore/pkg/util"
	"github.com/prometheus/client_golang/prometheus"

	"google.golang.org/grpc/status"
)

var (
	deviceMetricsOnce sync.Once

	deviceOperationsDurationSeconds = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "buildbarn",
			Subsystem: "zonestore",
			Name:      "device_operations_duration_seconds",
			Help:      "Amount of time spent per operation on zoned devices, in seconds.",
			Buckets:   util.DecimalExponentialBuckets(-6, 7, 2),
		},
		[]string{"name", "operation", "durable", "grpc_code"})
	deviceOperationsSizeBytes = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "buildbarn",
			Subsystem: "zonestore",
			Name:      "device_operations_size_bytes",
			Help:      "Size of transfers submitted to zoned devices, in bytes.",
			Buckets:   prometheus.ExponentialBuckets(4096, 2, 16),
		},
		[]string{"name", "operation"})
)

type metricsDevice struct {
	base  Device
	clock clock.Clock
	name  string

	readSizeBytes  prometheus.Observer
	writeSizeBytes prometheus.Observer
}

// NewMetricsDevice creates a decorator for Device that exposes the
// duration and size of transfers as Prometheus metrics.
func NewMetricsDevice(base Device, clock clock.Clock, name string) Device {
	deviceMetricsOnce.Do(func() {
		prometheus.MustRegister(deviceOperationsDurationSeconds)
		prometheus.MustRegister(deviceOperationsSizeBytes)
	})

	return &metricsDevice{
		base:  base,
		clock: clock,
		name:  name,

		readSizeBytes:  deviceOperationsSizeBytes.WithLabelValues(name, "ReadVectors"),
		writeSizeBytes: deviceOperationsSizeBytes.WithLabelValues(name, "WriteVectors"),
	}
}

func (d *metricsDevice) observeDuration(operation string, durable bool, timeStart time.Time, err error) {
	deviceOperationsDurationSeconds.WithLabelValues(
		d.name,
		operation,
		strconv.FormatBool(durable),
		status.Code(err).String(),
	).Observe(d.clock.Now().Sub(timeStart).Seconds())
}

func (d *metricsDevice) WriteVectors(ctx context.Context, vectors [][]byte, zoneAddress Address, offsetBytes int64, durable bool) error {
	d.writeSizeBytes.Observe(float64(GetVectorsSizeBytes(vectors)))
	timeStart := d.clock.Now()
	err := d.base.WriteVectors(ctx, vectors, zoneAddress, offsetBytes, durable)
	d.observeDuration("WriteVectors", durable, timeStart, err)
	return err
}

func (d *metricsDevice) ReadVectors(ctx context.Context, vectors [][]byte, zoneAddress Address, offsetBytes int64) error {
	d.readSizeBytes.Observe(float64(GetVectorsSizeBytes(vectors)))
	timeStart := d.clock.Now()
	err := d.base.ReadVectors(ctx, vectors, zoneAddress, offsetBytes)
	d.observeDuration("ReadVectors", false, timeStart, err)
	return err
}
