package pool

import (
	"os"

	"github.com/buildbarn/bb-zonestore/pkg/util"
	"github.com/buildbarn/bb-zonestore/pkg/zone"
	"github.com/google/uuid"

	"google.golang.org/grpc/codes"
)

// Configuration of a pool.
type Configuration struct {
	// Name of the pool, used in diagnostics and metrics.
	Name string `json:"name"`
	// Unique identifier of the pool. A random identifier is
	// generated when left empty.
	ID string `json:"id,omitempty"`
	// Page size to which all I/O needs to be aligned. Defaults to
	// the page size of the operating system.
	PageSizeBytes int `json:"pageSizeBytes,omitempty"`
	// Devices attached to the pool, in the order in which they are
	// referenced by object layouts.
	Devices []zone.Configuration `json:"devices"`
}

// NewPoolFromConfiguration creates a Pool and attaches all of its
// devices, based on parameters provided in a configuration file. The
// function that is returned must be called to detach all devices. The
// UUID generator is only invoked when the configuration does not
// contain an identifier.
func NewPoolFromConfiguration(configuration *Configuration, uuidGenerator util.UUIDGenerator, errorLogger util.ErrorLogger) (*Pool, func() error, error) {
	var id uuid.UUID
	var err error
	if configuration.ID == "" {
		if id, err = uuidGenerator(); err != nil {
			return nil, nil, util.StatusWrapWithCode(err, codes.Internal, "Failed to generate pool identifier")
		}
	} else if id, err = uuid.Parse(configuration.ID); err != nil {
		return nil, nil, util.StatusWrapfWithCode(err, codes.InvalidArgument, "Invalid identifier for pool %#v", configuration.Name)
	}

	pageSizeBytes := configuration.PageSizeBytes
	if pageSizeBytes == 0 {
		pageSizeBytes = os.Getpagesize()
	}

	var devices []*Device
	var closers []func() error
	closeDevices := func() error {
		var errs []error
		for _, closeDevice := range closers {
			if err := closeDevice(); err != nil {
				errs = append(errs, err)
			}
		}
		return util.StatusFromMultiple(errs)
	}
	for i := range configuration.Devices {
		deviceConfiguration := &configuration.Devices[i]
		zoneDevice, geometry, closeDevice, err := zone.NewDeviceFromConfiguration(deviceConfiguration, pageSizeBytes)
		if err != nil {
			closeDevices()
			return nil, nil, util.StatusWrapf(err, "Failed to attach device %d of pool %#v", i, configuration.Name)
		}
		closers = append(closers, closeDevice)
		devices = append(devices, NewDevice(configuration.Name, deviceConfiguration.Name, zoneDevice, geometry, errorLogger))
	}

	p, err := NewPool(configuration.Name, id, pageSizeBytes, devices)
	if err != nil {
		closeDevices()
		return nil, nil, err
	}
	return p, closeDevices, nil
}
