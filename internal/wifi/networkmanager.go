package wifi

import (
	"context"
	"errors"
	"fmt"
	"net"
	"time"

	"github.com/godbus/dbus/v5"
	"github.com/sirupsen/logrus"
)

// NetworkManager D-Bus names, see
// https://networkmanager.dev/docs/api/latest/spec.html
const (
	nmDest          = "org.freedesktop.NetworkManager"
	nmPath          = dbus.ObjectPath("/org/freedesktop/NetworkManager")
	nmIface         = "org.freedesktop.NetworkManager"
	nmDeviceIface   = "org.freedesktop.NetworkManager.Device"
	nmWirelessIface = "org.freedesktop.NetworkManager.Device.Wireless"
	nmAPIface       = "org.freedesktop.NetworkManager.AccessPoint"
	propertiesGet   = "org.freedesktop.DBus.Properties.Get"

	nmDeviceTypeWiFi = uint32(2)
)

// D-Bus error names mapped to package errors
const (
	dbusAccessDenied      = "org.freedesktop.DBus.Error.AccessDenied"
	dbusServiceUnknown    = "org.freedesktop.DBus.Error.ServiceUnknown"
	nmPermissionDenied    = "org.freedesktop.NetworkManager.PermissionDenied"
	nmDeviceNotAllowed    = "org.freedesktop.NetworkManager.Device.NotAllowed"
	nmDeviceNotActive     = "org.freedesktop.NetworkManager.Device.NotActive"
	defaultScanPollPeriod = 500 * time.Millisecond
)

// busClient is the subset of a D-Bus connection the scanner needs
type busClient interface {
	Call(ctx context.Context, path dbus.ObjectPath, method string, args ...any) *dbus.Call
	Close() error
}

type systemBus struct {
	conn *dbus.Conn
}

func (b *systemBus) Call(ctx context.Context, path dbus.ObjectPath, method string, args ...any) *dbus.Call {
	return b.conn.Object(nmDest, path).CallWithContext(ctx, method, 0, args...)
}

func (b *systemBus) Close() error {
	return b.conn.Close()
}

// NetworkManagerScanner reads scan results of the first WiFi device known to NetworkManager
type NetworkManagerScanner struct {
	bus        busClient
	iface      string // restrict to this interface name when set
	logger     *logrus.Logger
	pollPeriod time.Duration

	device dbus.ObjectPath
}

// NewNetworkManagerScanner connects to the system bus. iface may be empty to use
// the first WiFi device.
func NewNetworkManagerScanner(iface string, logger *logrus.Logger) (*NetworkManagerScanner, error) {
	conn, err := dbus.ConnectSystemBus()
	if err != nil {
		return nil, fmt.Errorf("failed to connect to system bus: %w", NormalizeError(err))
	}
	return newNetworkManagerScanner(&systemBus{conn: conn}, iface, logger), nil
}

func newNetworkManagerScanner(bus busClient, iface string, logger *logrus.Logger) *NetworkManagerScanner {
	if logger == nil {
		logger = logrus.New()
	}
	return &NetworkManagerScanner{
		bus:        bus,
		iface:      iface,
		logger:     logger,
		pollPeriod: defaultScanPollPeriod,
	}
}

// Close releases the bus connection
func (s *NetworkManagerScanner) Close() error {
	return s.bus.Close()
}

// Device resolves and caches the WiFi device object path
func (s *NetworkManagerScanner) Device(ctx context.Context) (dbus.ObjectPath, error) {
	if s.device != "" {
		return s.device, nil
	}

	var devices []dbus.ObjectPath
	if err := s.bus.Call(ctx, nmPath, nmIface+".GetDevices").Store(&devices); err != nil {
		return "", fmt.Errorf("failed to list network devices: %w", NormalizeError(err))
	}

	for _, path := range devices {
		var devType uint32
		if err := s.property(ctx, path, nmDeviceIface, "DeviceType", &devType); err != nil {
			return "", err
		}
		if devType != nmDeviceTypeWiFi {
			continue
		}
		if s.iface != "" {
			var name string
			if err := s.property(ctx, path, nmDeviceIface, "Interface", &name); err != nil {
				return "", err
			}
			if name != s.iface {
				continue
			}
		}
		s.logger.WithField("device", path).Debug("Using WiFi device")
		s.device = path
		return path, nil
	}

	if s.iface != "" {
		return "", fmt.Errorf("%w: no WiFi interface named %q", ErrAdapterNotFound, s.iface)
	}
	return "", ErrAdapterNotFound
}

// Scan requests a scan and waits for LastScan to change
func (s *NetworkManagerScanner) Scan(ctx context.Context) error {
	dev, err := s.Device(ctx)
	if err != nil {
		return err
	}

	var before int64
	if err := s.property(ctx, dev, nmWirelessIface, "LastScan", &before); err != nil {
		return err
	}

	err = s.bus.Call(ctx, dev, nmWirelessIface+".RequestScan", map[string]dbus.Variant{}).Err
	if err != nil {
		var derr dbus.Error
		// NetworkManager rate-limits scans; the previous results are still valid
		if errors.As(err, &derr) && (derr.Name == nmDeviceNotAllowed || derr.Name == nmDeviceNotActive) {
			s.logger.WithError(err).Debug("Scan request refused, using previous scan results")
			return nil
		}
		return fmt.Errorf("failed to request scan: %w", NormalizeError(err))
	}

	ticker := time.NewTicker(s.pollPeriod)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}

		var last int64
		if err := s.property(ctx, dev, nmWirelessIface, "LastScan", &last); err != nil {
			return err
		}
		if last != before {
			s.logger.WithField("last_scan", last).Debug("WiFi scan completed")
			return nil
		}
	}
}

// AccessPoints lists access points of the last scan
func (s *NetworkManagerScanner) AccessPoints(ctx context.Context) ([]Network, error) {
	dev, err := s.Device(ctx)
	if err != nil {
		return nil, err
	}

	var paths []dbus.ObjectPath
	if err := s.bus.Call(ctx, dev, nmWirelessIface+".GetAllAccessPoints").Store(&paths); err != nil {
		return nil, fmt.Errorf("failed to list access points: %w", NormalizeError(err))
	}

	networks := make([]Network, 0, len(paths))
	for _, path := range paths {
		var ssid []byte
		if err := s.property(ctx, path, nmAPIface, "Ssid", &ssid); err != nil {
			return nil, err
		}
		n := Network{SSID: string(ssid)}

		// Optional details; access points can vanish between the listing and these reads
		var hw string
		if err := s.property(ctx, path, nmAPIface, "HwAddress", &hw); err == nil {
			if mac, perr := net.ParseMAC(hw); perr == nil {
				n.BSSID = mac.String()
			}
		}
		var strength uint8
		if err := s.property(ctx, path, nmAPIface, "Strength", &strength); err == nil {
			n.Strength = strength
		}
		networks = append(networks, n)
	}
	return networks, nil
}

func (s *NetworkManagerScanner) property(ctx context.Context, path dbus.ObjectPath, iface, name string, out any) error {
	var v dbus.Variant
	if err := s.bus.Call(ctx, path, propertiesGet, iface, name).Store(&v); err != nil {
		return fmt.Errorf("failed to read %s.%s of %s: %w", iface, name, path, NormalizeError(err))
	}
	if err := dbus.Store([]any{v.Value()}, out); err != nil {
		return fmt.Errorf("unexpected type for %s.%s: %w", iface, name, err)
	}
	return nil
}

// NormalizeError maps D-Bus errors to package errors, keeping the original in the chain
func NormalizeError(err error) error {
	if err == nil {
		return nil
	}

	var derr dbus.Error
	if !errors.As(err, &derr) {
		return err
	}
	switch derr.Name {
	case dbusAccessDenied, nmPermissionDenied:
		return fmt.Errorf("%w: %w", ErrAccessDenied, err)
	case dbusServiceUnknown:
		return fmt.Errorf("%w: NetworkManager is not running: %w", ErrAdapterNotFound, err)
	default:
		return err
	}
}
