package onboarding

import (
	"encoding/binary"
	"encoding/json"
	"fmt"

	"github.com/srg/blonboard/internal/wifi"
)

// WiFiNetwork is a single entry of the WiFi list characteristic
type WiFiNetwork struct {
	Ssid string `json:"Ssid"`
}

// WiFiNetworkPayload is the JSON document served by the WiFi list characteristic
type WiFiNetworkPayload struct {
	AvailableAdapters []WiFiNetwork `json:"AvailableAdapters"`
}

// EncodeResultCode encodes an onboarding result as a little-endian int32
func EncodeResultCode(code int32) []byte {
	buf := make([]byte, 4)
	binary.LittleEndian.PutUint32(buf, uint32(code))
	return buf
}

// EncodeString encodes a string characteristic value as UTF-8
func EncodeString(s string) []byte {
	return []byte(s)
}

// NewWiFiNetworkPayload mirrors a scan report, keeping report order and duplicates
func NewWiFiNetworkPayload(networks []wifi.Network) WiFiNetworkPayload {
	payload := WiFiNetworkPayload{AvailableAdapters: make([]WiFiNetwork, 0, len(networks))}
	for _, n := range networks {
		payload.AvailableAdapters = append(payload.AvailableAdapters, WiFiNetwork{Ssid: n.SSID})
	}
	return payload
}

// EncodeWiFiNetworks serializes a scan report into the WiFi list JSON document
func EncodeWiFiNetworks(networks []wifi.Network) ([]byte, error) {
	data, err := json.Marshal(NewWiFiNetworkPayload(networks))
	if err != nil {
		return nil, fmt.Errorf("failed to encode wifi networks: %w", err)
	}
	return data, nil
}

// SliceForOffset returns the part of value a read at offset must return
func SliceForOffset(value []byte, offset int) ([]byte, error) {
	if offset < 0 || offset > len(value) {
		return nil, fmt.Errorf("%w: %d exceeds value length %d", ErrInvalidOffset, offset, len(value))
	}
	return value[offset:], nil
}
