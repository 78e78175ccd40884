package zone

import (
	"github.com/buildbarn/bb-zonestore/pkg/clock"
	"github.com/buildbarn/bb-zonestore/pkg/util"

	"go.opentelemetry.io/otel"
	"golang.org/x/sync/semaphore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// FileConfiguration describes a zoned device that is emulated on top
// of a regular file or conventional block device.
type FileConfiguration struct {
	// Path of the file or device node.
	Path string `json:"path"`
	// Discard any existing contents of the file when opening it.
	ZeroInitialize bool `json:"zeroInitialize"`
}

// Configuration of a single zoned device.
type Configuration struct {
	// Name of the device, used in diagnostics and metrics.
	Name string `json:"name"`

	// Storage backing the device. Exactly one must be set.
	File     *FileConfiguration `json:"file,omitempty"`
	InMemory *struct{}          `json:"inMemory,omitempty"`

	// Geometry of the device. The sector size is optional. When
	// left unset, the block size reported by the file system is
	// used, or 512 bytes for in-memory devices.
	ZoneCount          uint64 `json:"zoneCount"`
	ZonePages          int64  `json:"zonePages"`
	SectorSizeBytes    int    `json:"sectorSizeBytes,omitempty"`
	OptimalIOSizeBytes int    `json:"optimalIoSizeBytes"`

	// If nonzero, the maximum number of writes that may be
	// submitted to the device in parallel.
	MaximumConcurrentWrites int64 `json:"maximumConcurrentWrites,omitempty"`

	// Create an OpenTelemetry span for every transfer, using the
	// globally registered tracer provider.
	EnableTracing bool `json:"enableTracing,omitempty"`
}

// NewDeviceFromConfiguration creates a Device based on parameters
// provided in a configuration file. In addition to the device, its
// geometry is returned, together with a function that must be called
// to release any resources held by the device.
func NewDeviceFromConfiguration(configuration *Configuration, pageSizeBytes int) (Device, Geometry, func() error, error) {
	if configuration == nil {
		return nil, Geometry{}, nil, status.Error(codes.InvalidArgument, "Zoned device configuration not specified")
	}

	geometry := Geometry{
		SectorSizeBytes:    configuration.SectorSizeBytes,
		ZoneCount:          configuration.ZoneCount,
		ZonePages:          configuration.ZonePages,
		OptimalIOSizeBytes: configuration.OptimalIOSizeBytes,
	}

	var device Device
	closeDevice := func() error { return nil }
	switch {
	case configuration.File != nil && configuration.InMemory == nil:
		// The sector size may only be known after opening the
		// file. Geometry validation happens before the file is
		// resized or truncated.
		var err error
		device, geometry, closeDevice, err = NewDeviceFromFile(
			configuration.File.Path,
			geometry,
			pageSizeBytes,
			configuration.File.ZeroInitialize)
		if err != nil {
			return nil, Geometry{}, nil, util.StatusWrapf(err, "Failed to create zoned device %#v", configuration.Name)
		}
	case configuration.InMemory != nil && configuration.File == nil:
		if geometry.SectorSizeBytes == 0 {
			geometry.SectorSizeBytes = 512
		}
		if err := geometry.Validate(pageSizeBytes); err != nil {
			return nil, Geometry{}, nil, util.StatusWrapf(err, "Invalid geometry for zoned device %#v", configuration.Name)
		}
		device = NewInMemoryDevice(geometry.GetZoneSizeBytes(pageSizeBytes), geometry.ZoneCount)
	default:
		return nil, Geometry{}, nil, status.Errorf(codes.InvalidArgument, "Configuration of zoned device %#v did not contain exactly one supported device source", configuration.Name)
	}

	if configuration.MaximumConcurrentWrites > 0 {
		device = NewWriteConcurrencyLimitingDevice(device, semaphore.NewWeighted(configuration.MaximumConcurrentWrites))
	}
	device = NewMetricsDevice(device, clock.SystemClock, configuration.Name)
	if configuration.EnableTracing {
		device = NewTracingDevice(device, otel.GetTracerProvider())
	}
	return device, geometry, closeDevice, nil
}
