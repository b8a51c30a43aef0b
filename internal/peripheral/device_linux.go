//go:build linux

package peripheral

import (
	"github.com/go-ble/ble"
	"github.com/go-ble/ble/linux"
)

func newPlatformDevice(opts DeviceOptions) (GATTDevice, error) {
	var bleOpts []ble.Option
	if opts.HCIDevice >= 0 {
		bleOpts = append(bleOpts, ble.OptDeviceID(opts.HCIDevice))
	}
	dev, err := linux.NewDevice(bleOpts...)
	if err != nil {
		return nil, err
	}
	return dev, nil
}
