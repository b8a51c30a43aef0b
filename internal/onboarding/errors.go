package onboarding

import "errors"

var (
	// ErrInvalidOffset indicates a read or write offset beyond the characteristic value.
	ErrInvalidOffset = errors.New("invalid offset")

	// ErrInvalidRequest indicates an onboarding request payload that is not valid UTF-8 text.
	ErrInvalidRequest = errors.New("invalid onboarding request")

	// ErrWiFiUnavailable indicates that no WiFi scan report could be produced.
	ErrWiFiUnavailable = errors.New("wifi networks unavailable")

	// ErrUnknownCharacteristic indicates a lookup of a UUID that is not part of the service.
	ErrUnknownCharacteristic = errors.New("unknown characteristic")
)
