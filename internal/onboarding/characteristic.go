package onboarding

import (
	"context"
	"strings"
)

// Property is a set of GATT characteristic property flags
type Property uint8

const (
	PropRead Property = 1 << iota
	PropWrite
	PropWriteWithoutResponse
)

// Has reports whether all flags in p are set
func (p Property) Has(flags Property) bool {
	return p&flags == flags
}

func (p Property) String() string {
	var names []string
	if p.Has(PropRead) {
		names = append(names, "read")
	}
	if p.Has(PropWrite) {
		names = append(names, "write")
	}
	if p.Has(PropWriteWithoutResponse) {
		names = append(names, "write-without-response")
	}
	if len(names) == 0 {
		return "none"
	}
	return strings.Join(names, ",")
}

// ProtectionLevel is the link security a client needs to access a characteristic value
type ProtectionLevel int

const (
	ProtectionPlain ProtectionLevel = iota
	ProtectionAuthenticationRequired
	ProtectionEncryptionRequired
	ProtectionEncryptionAndAuthenticationRequired
)

func (l ProtectionLevel) String() string {
	switch l {
	case ProtectionPlain:
		return "plain"
	case ProtectionAuthenticationRequired:
		return "authentication-required"
	case ProtectionEncryptionRequired:
		return "encryption-required"
	case ProtectionEncryptionAndAuthenticationRequired:
		return "encryption-and-authentication-required"
	default:
		return "unknown"
	}
}

// ReadRequest describes a read of a characteristic value
type ReadRequest struct {
	Remote string // address of the central, empty when unknown
	Offset int
}

// WriteRequest describes a write to a characteristic value
type WriteRequest struct {
	Remote string
	Offset int
	Data   []byte
}

// ReadFunc produces the full characteristic value; offsets are applied by the caller
type ReadFunc func(ctx context.Context, req ReadRequest) ([]byte, error)

// WriteFunc consumes a written characteristic value
type WriteFunc func(ctx context.Context, req WriteRequest) error

// Characteristic describes one characteristic of the onboarding service
type Characteristic struct {
	Name            string
	UUID            string
	Properties      Property
	ReadProtection  ProtectionLevel
	WriteProtection ProtectionLevel
	Description     string

	Read  ReadFunc
	Write WriteFunc
}

// NormalizeUUID converts a UUID string to lowercase without dashes or a 0x prefix
func NormalizeUUID(uuid string) string {
	u := strings.ToLower(strings.TrimSpace(uuid))
	u = strings.TrimPrefix(u, "0x")
	return strings.ReplaceAll(u, "-", "")
}
