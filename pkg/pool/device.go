package pool

import (
	"sync"
	"sync/atomic"

	"github.com/buildbarn/bb-zonestore/pkg/util"
	"github.com/buildbarn/bb-zonestore/pkg/zone"
	"github.com/prometheus/client_golang/prometheus"
)

// DeviceStatus is the health of a device, as observed by the I/O
// layer.
type DeviceStatus uint32

const (
	// DeviceStatusOnline indicates that the device is healthy.
	DeviceStatusOnline DeviceStatus = iota
	// DeviceStatusOffline indicates that an I/O error occurred
	// against the device. Callers should stop routing new I/O to
	// the device. Devices never transition back to online while
	// attached to a pool.
	DeviceStatusOffline
)

func (s DeviceStatus) String() string {
	switch s {
	case DeviceStatusOnline:
		return "online"
	case DeviceStatusOffline:
		return "offline"
	default:
		return "unknown"
	}
}

var (
	devicePrometheusMetrics sync.Once

	deviceStatus = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "buildbarn",
			Subsystem: "zonestore",
			Name:      "device_status",
			Help:      "Status of devices attached to pools, where 0 means online and 1 means offline.",
		},
		[]string{"pool", "device"})
	deviceStatusTransitionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "buildbarn",
			Subsystem: "zonestore",
			Name:      "device_status_transitions_total",
			Help:      "Number of times devices attached to pools transitioned to a different status.",
		},
		[]string{"pool", "device", "status"})
)

// Device that is attached to a pool. In addition to providing access
// to the zoned device and its geometry, it tracks the status of the
// device. The status is shared by all objects stored on the device.
type Device struct {
	name        string
	zoneDevice  zone.Device
	geometry    zone.Geometry
	errorLogger util.ErrorLogger

	status                  atomic.Uint32
	statusGauge             prometheus.Gauge
	offlineTransitionsTotal prometheus.Counter
}

// NewDevice attaches a zoned device to a pool. The device starts out
// being online.
func NewDevice(poolName, name string, zoneDevice zone.Device, geometry zone.Geometry, errorLogger util.ErrorLogger) *Device {
	devicePrometheusMetrics.Do(func() {
		prometheus.MustRegister(deviceStatus)
		prometheus.MustRegister(deviceStatusTransitionsTotal)
	})

	d := &Device{
		name:        name,
		zoneDevice:  zoneDevice,
		geometry:    geometry,
		errorLogger: errorLogger,

		statusGauge:             deviceStatus.WithLabelValues(poolName, name),
		offlineTransitionsTotal: deviceStatusTransitionsTotal.WithLabelValues(poolName, name, DeviceStatusOffline.String()),
	}
	d.statusGauge.Set(float64(DeviceStatusOnline))
	return d
}

// GetName returns the name of the device.
func (d *Device) GetName() string {
	return d.name
}

// GetZoneDevice returns the zoned device to which I/O may be
// submitted.
func (d *Device) GetZoneDevice() zone.Device {
	return d.zoneDevice
}

// GetGeometry returns the geometry of the device.
func (d *Device) GetGeometry() *zone.Geometry {
	return &d.geometry
}

// GetStatus returns the current status of the device.
func (d *Device) GetStatus() DeviceStatus {
	return DeviceStatus(d.status.Load())
}

// MarkOffline transitions the device to the offline status, due to an
// I/O error having occurred. This function may be called concurrently,
// and calling it on a device that is already offline has no effect.
// The return value indicates whether this call performed the
// transition.
func (d *Device) MarkOffline(cause error) bool {
	if !d.status.CompareAndSwap(uint32(DeviceStatusOnline), uint32(DeviceStatusOffline)) {
		return false
	}
	d.statusGauge.Set(float64(DeviceStatusOffline))
	d.offlineTransitionsTotal.Inc()
	d.errorLogger.Log(util.StatusWrapf(cause, "Marked device %#v offline", d.name))
	return true
}
