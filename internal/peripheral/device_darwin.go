//go:build darwin

package peripheral

import (
	"github.com/go-ble/ble"
	"github.com/go-ble/ble/darwin"
)

func newPlatformDevice(_ DeviceOptions) (GATTDevice, error) {
	dev, err := darwin.NewDevice(ble.OptPeripheralRole())
	if err != nil {
		return nil, err
	}
	return dev, nil
}
