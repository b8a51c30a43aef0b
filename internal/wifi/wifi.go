// Package wifi provides the WiFi scan results reported by the onboarding
// service. Scanning itself is performed by the host (NetworkManager); this
// package only requests scans and reads back the access points found.
package wifi

import (
	"context"
	"errors"
	"time"
)

var (
	ErrAdapterNotFound = errors.New("wifi adapter not found")
	ErrAccessDenied    = errors.New("wifi access denied")
	ErrNotInitialized  = errors.New("wifi adapter not initialized")
)

// Network is an access point seen by the last scan
type Network struct {
	SSID     string `json:"ssid"`
	BSSID    string `json:"bssid,omitempty"`
	Strength uint8  `json:"strength,omitempty"` // percent, 0 when unknown
}

// Report is the result of one scan
type Report struct {
	Networks  []Network `json:"networks"`
	ScannedAt time.Time `json:"scanned_at"`
}

// Scanner requests scans from the host and lists the access points it found
type Scanner interface {
	// Scan asks the adapter for a fresh scan and waits until it completes or ctx ends.
	Scan(ctx context.Context) error
	// AccessPoints returns the access points of the most recent scan, in adapter order.
	AccessPoints(ctx context.Context) ([]Network, error)
}
