package peripheral

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrPeripheralUnsupported indicates that the local adapter cannot act as a GATT server.
	ErrPeripheralUnsupported = errors.New("peripheral role not supported")

	// ErrBluetoothOff indicates that the local adapter is powered off.
	ErrBluetoothOff = errors.New("bluetooth is turned off")

	ErrAlreadyStarted = errors.New("service already started")
	ErrNotStarted     = errors.New("service not started")
)

// ServiceError reports a failure to publish the GATT service or one of its characteristics
type ServiceError struct {
	Stage string // "parse", "add service"
	UUID  string
	Err   error
}

func (e *ServiceError) Error() string {
	return fmt.Sprintf("could not %s %s: %v", e.Stage, e.UUID, e.Err)
}

func (e *ServiceError) Unwrap() error {
	return e.Err
}

// NormalizeError maps known go-ble error strings to package errors.
// Returns wrapped errors to preserve original context.
func NormalizeError(err error) error {
	if err == nil {
		return nil
	}

	msg := err.Error()
	switch {
	case msg == "central manager has invalid state: have=4 want=5: is Bluetooth turned on?":
		return fmt.Errorf("%w: %v", ErrBluetoothOff, err)
	case containsIgnoreCase(msg, "bluetooth is turned off"),
		containsIgnoreCase(msg, "is bluetooth turned on"):
		return fmt.Errorf("%w: %v", ErrBluetoothOff, err)
	case containsIgnoreCase(msg, "can't init hci"),
		containsIgnoreCase(msg, "no devices available"),
		containsIgnoreCase(msg, "unsupported"):
		return fmt.Errorf("%w: %v", ErrPeripheralUnsupported, err)
	default:
		return err
	}
}

// containsIgnoreCase checks the substring case-insensitively
func containsIgnoreCase(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}
