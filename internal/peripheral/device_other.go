//go:build !linux && !darwin

package peripheral

func newPlatformDevice(_ DeviceOptions) (GATTDevice, error) {
	return nil, ErrPeripheralUnsupported
}
