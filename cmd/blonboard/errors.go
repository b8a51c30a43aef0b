package main

import (
	"errors"
	"fmt"

	"github.com/srg/blonboard/internal/peripheral"
	"github.com/srg/blonboard/internal/wifi"
)

// Command-level errors
var (
	// ErrInvalidFormat indicates an unsupported --format value.
	ErrInvalidFormat = errors.New("invalid output format")

	// ErrAdvertisingAborted indicates that the stack stopped advertising on its own.
	ErrAdvertisingAborted = errors.New("advertising aborted")
)

// FormatUserError turns known errors into a message with a hint on how to fix the cause
func FormatUserError(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, peripheral.ErrBluetoothOff):
		return fmt.Sprintf("%v\n  Turn Bluetooth on and try again", err)
	case errors.Is(err, peripheral.ErrPeripheralUnsupported):
		return fmt.Sprintf("%v\n  This host cannot act as a BLE peripheral. On Linux run as root or grant CAP_NET_ADMIN and CAP_NET_RAW, and check the --hci index", err)
	case errors.Is(err, wifi.ErrAccessDenied):
		return fmt.Sprintf("%v\n  Access to NetworkManager was denied. Run as root or allow wifi scans through polkit", err)
	case errors.Is(err, wifi.ErrAdapterNotFound):
		return fmt.Sprintf("%v\n  No WiFi device is managed by NetworkManager. Use --wifi-backend static to serve a fixed list", err)
	default:
		return err.Error()
	}
}
