package onboarding

import (
	"testing"

	"github.com/srg/blonboard/internal/wifi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeResultCode(t *testing.T) {
	tests := []struct {
		code     int32
		expected []byte
	}{
		{400, []byte{0x90, 0x01, 0x00, 0x00}},
		{0, []byte{0x00, 0x00, 0x00, 0x00}},
		{-2, []byte{0xfe, 0xff, 0xff, 0xff}},
		{0x01020304, []byte{0x04, 0x03, 0x02, 0x01}},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.expected, EncodeResultCode(tt.code), "code %d", tt.code)
	}
}

func TestEncodeWiFiNetworks(t *testing.T) {
	t.Run("nil report", func(t *testing.T) {
		data, err := EncodeWiFiNetworks(nil)
		require.NoError(t, err)
		assert.Equal(t, `{"AvailableAdapters":[]}`, string(data))
	})

	t.Run("keeps order and escapes", func(t *testing.T) {
		data, err := EncodeWiFiNetworks([]wifi.Network{
			{SSID: `quote"d`},
			{SSID: "café"},
			{SSID: "a"},
		})
		require.NoError(t, err)
		assert.Equal(t, `{"AvailableAdapters":[{"Ssid":"quote\"d"},{"Ssid":"café"},{"Ssid":"a"}]}`, string(data))
	})
}

func TestNewWiFiNetworkPayload(t *testing.T) {
	payload := NewWiFiNetworkPayload([]wifi.Network{{SSID: "x", Strength: 10}, {SSID: "x", Strength: 20}})
	assert.Equal(t, []WiFiNetwork{{Ssid: "x"}, {Ssid: "x"}}, payload.AvailableAdapters)
}

func TestSliceForOffset(t *testing.T) {
	value := []byte("1.5.14.0")

	got, err := SliceForOffset(value, 0)
	require.NoError(t, err)
	assert.Equal(t, value, got)

	got, err = SliceForOffset(value, 4)
	require.NoError(t, err)
	assert.Equal(t, []byte("14.0"), got)

	got, err = SliceForOffset(value, len(value))
	require.NoError(t, err)
	assert.Empty(t, got)

	_, err = SliceForOffset(value, len(value)+1)
	assert.ErrorIs(t, err, ErrInvalidOffset)

	_, err = SliceForOffset(value, -1)
	assert.ErrorIs(t, err, ErrInvalidOffset)
}

func TestProperty_String(t *testing.T) {
	assert.Equal(t, "none", Property(0).String())
	assert.Equal(t, "read", PropRead.String())
	assert.Equal(t, "write,write-without-response", (PropWrite | PropWriteWithoutResponse).String())
	assert.True(t, (PropRead | PropWrite).Has(PropRead))
	assert.False(t, PropRead.Has(PropRead|PropWrite))
}

func TestProtectionLevel_String(t *testing.T) {
	assert.Equal(t, "plain", ProtectionPlain.String())
	assert.Equal(t, "authentication-required", ProtectionAuthenticationRequired.String())
	assert.Equal(t, "encryption-required", ProtectionEncryptionRequired.String())
	assert.Equal(t, "encryption-and-authentication-required", ProtectionEncryptionAndAuthenticationRequired.String())
	assert.Equal(t, "unknown", ProtectionLevel(9).String())
}

func TestNormalizeUUID(t *testing.T) {
	assert.Equal(t, "3b8d9532abd44f22b1a5717589ee84cb", NormalizeUUID(ServiceUUID))
	assert.Equal(t, "2901", NormalizeUUID(" 0x2901 "))
}
