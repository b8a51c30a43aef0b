package peripheral

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-ble/ble"
)

// GATTDevice is the part of ble.Device used to publish a service
type GATTDevice interface {
	AddService(svc *ble.Service) error
	RemoveAllServices() error
	AdvertiseNameAndServices(ctx context.Context, name string, uuids ...ble.UUID) error
	Stop() error
}

// DeviceOptions selects the local adapter
type DeviceOptions struct {
	// HCIDevice is the Linux HCI index; negative picks the first adapter. Ignored elsewhere.
	HCIDevice int
}

// DeviceFactory creates the platform GATT device (can be overridden in tests)
//
//nolint:revive // DeviceFactory name is intentional for test mocking as peripheral.DeviceFactory
var DeviceFactory = func(opts DeviceOptions) (GATTDevice, error) {
	return newPlatformDevice(opts)
}

// NewDevice creates the local GATT device. Any failure means the host cannot
// act as a peripheral and is reported as ErrPeripheralUnsupported unless a more
// specific cause is known.
func NewDevice(opts DeviceOptions) (GATTDevice, error) {
	dev, err := DeviceFactory(opts)
	if err != nil {
		err = NormalizeError(err)
		if errors.Is(err, ErrBluetoothOff) || errors.Is(err, ErrPeripheralUnsupported) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", ErrPeripheralUnsupported, err)
	}
	return dev, nil
}
