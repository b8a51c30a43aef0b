package main

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/go-ble/ble"
	"github.com/srg/blonboard/internal/onboarding"
	"github.com/srg/blonboard/internal/peripheral"
	"github.com/srg/blonboard/internal/testutils"
	"github.com/srg/blonboard/pkg/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type ServeTestSuite struct {
	CommandTestSuite
	dev *mockDevice
}

func (s *ServeTestSuite) SetupTest() {
	s.CommandTestSuite.SetupTest()
	s.dev = &mockDevice{}
	s.UseDevice(s.dev, nil)
}

func (s *ServeTestSuite) TearDownTest() {
	s.dev.AssertExpectations(s.T())
	s.CommandTestSuite.TearDownTest()
}

func (s *ServeTestSuite) serviceUUIDs() []ble.UUID {
	return []ble.UUID{ble.MustParse(onboarding.ServiceUUID)}
}

func (s *ServeTestSuite) TestServeUntilCancelled() {
	s.dev.On("AddService", mock.AnythingOfType("*ble.Service")).Return(nil).Once()
	s.dev.On("AdvertiseNameAndServices", mock.Anything, "Kitchen", s.serviceUUIDs()).
		Run(func(args mock.Arguments) {
			<-args.Get(0).(context.Context).Done()
		}).Return(context.Canceled).Once()
	s.dev.On("RemoveAllServices").Return(nil).Once()
	s.dev.On("Stop").Return(nil).Once()

	ctx, cancel := context.WithTimeout(context.Background(), 300*time.Millisecond)
	defer cancel()

	stdout, _, err := s.ExecuteCommandContext(ctx, "serve", "--name", "Kitchen", "--static-network", "home,office")
	s.Require().NoError(err)

	testutils.NewTextAsserter(s.T()).WithOptions(testutils.WithTrimSpace(true)).Assert(stdout, `
New Advertisement Status: Started
Service successfully started
New Advertisement Status: Stopped
Onboarding requests received: 0`)
}

func (s *ServeTestSuite) TestServeNameOnlyAdvertisement() {
	s.dev.On("AddService", mock.AnythingOfType("*ble.Service")).Return(nil).Once()
	s.dev.On("AdvertiseNameAndServices", mock.Anything, "Onboarding", []ble.UUID(nil)).
		Run(func(args mock.Arguments) {
			<-args.Get(0).(context.Context).Done()
		}).Return(context.Canceled).Once()
	s.dev.On("RemoveAllServices").Return(nil).Once()
	s.dev.On("Stop").Return(nil).Once()

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()

	_, _, err := s.ExecuteCommandContext(ctx, "serve", "--no-service-uuid", "--static-network", "home")
	s.Require().NoError(err)
}

func (s *ServeTestSuite) TestServeHonoursContextAfterEarlierRun() {
	_, _, err := s.ExecuteCommand("serve", "--log-level", "loud")
	s.Require().Error(err)
	resetFlags(rootCmd)

	s.dev.On("AddService", mock.AnythingOfType("*ble.Service")).Return(nil).Once()
	s.dev.On("AdvertiseNameAndServices", mock.Anything, "Onboarding", s.serviceUUIDs()).
		Run(func(args mock.Arguments) {
			<-args.Get(0).(context.Context).Done()
		}).Return(context.Canceled).Once()
	s.dev.On("RemoveAllServices").Return(nil).Once()
	s.dev.On("Stop").Return(nil).Once()

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()

	done := make(chan error, 1)
	go func() {
		_, _, err := s.ExecuteCommandContext(ctx, "serve", "--static-network", "home")
		done <- err
	}()

	select {
	case err := <-done:
		s.NoError(err)
	case <-time.After(5 * time.Second):
		s.FailNow("serve ignored the context of the second run")
	}
}

func (s *ServeTestSuite) TestServeDeviceUnavailable() {
	s.UseDevice(nil, errors.New("can't init hci: no devices available"))

	stdout, _, err := s.ExecuteCommand("serve", "--static-network", "home")
	s.Require().ErrorIs(err, peripheral.ErrPeripheralUnsupported)

	s.Contains(stdout, "Could not create service provider: ")
	s.Contains(stdout, "Service not started")
	s.NotContains(stdout, "Service successfully started")
}

func (s *ServeTestSuite) TestServeAdvertisingAborted() {
	s.dev.On("AddService", mock.AnythingOfType("*ble.Service")).Return(nil).Once()
	s.dev.On("AdvertiseNameAndServices", mock.Anything, "Onboarding", s.serviceUUIDs()).
		Return(errors.New("bluetooth is turned off")).Once()
	s.dev.On("RemoveAllServices").Return(nil).Once()
	s.dev.On("Stop").Return(nil).Once()

	stdout, _, err := s.ExecuteCommand("serve", "--static-network", "home")
	s.Require().ErrorIs(err, ErrAdvertisingAborted)
	s.ErrorIs(err, peripheral.ErrBluetoothOff)

	s.Contains(stdout, "Service successfully started")
	s.Contains(stdout, "New Advertisement Status: Aborted")
	s.Contains(stdout, "Advertising aborted: ")
}

func (s *ServeTestSuite) TestServeAddServiceFails() {
	s.dev.On("AddService", mock.AnythingOfType("*ble.Service")).Return(errors.New("att: duplicate handle")).Once()
	s.dev.On("Stop").Return(nil).Once()

	stdout, _, err := s.ExecuteCommand("serve", "--static-network", "home")

	var svcErr *peripheral.ServiceError
	s.Require().ErrorAs(err, &svcErr)
	s.Contains(stdout, "Could not create service provider: ")
	s.Contains(stdout, "Service not started")
}

func (s *ServeTestSuite) TestServeInvalidConfiguration() {
	_, _, err := s.ExecuteCommand("serve", "--name", "", "--static-network", "home")
	s.Require().Error(err)
	s.Contains(err.Error(), "peripheral.device_name must not be empty")
}

func (s *ServeTestSuite) TestServeInvalidLogLevel() {
	_, _, err := s.ExecuteCommand("serve", "--log-level", "trace", "--static-network", "home")
	s.Require().Error(err)
	s.Contains(err.Error(), "invalid log level: trace")
}

func TestServeTestSuite(t *testing.T) {
	suite.Run(t, new(ServeTestSuite))
}

func TestStartWiFi(t *testing.T) {
	h := testutils.NewTestHelper(t)

	cancelled, cancel := context.WithCancel(context.Background())
	cancel()

	t.Run("optional adapter", func(t *testing.T) {
		var out bytes.Buffer
		monitor, err := startWiFi(cancelled, config.WiFiConfig{Backend: config.BackendStatic}, h.Logger, newStatusPrinter(&out))
		require.NoError(t, err)
		assert.Nil(t, monitor)
		assert.Contains(t, out.String(), "WiFi adapter not available")
	})

	t.Run("required adapter", func(t *testing.T) {
		var out bytes.Buffer
		monitor, err := startWiFi(cancelled, config.WiFiConfig{Backend: config.BackendStatic, Required: true}, h.Logger, newStatusPrinter(&out))
		assert.ErrorIs(t, err, context.Canceled)
		assert.Nil(t, monitor)
	})

	t.Run("static networks", func(t *testing.T) {
		var out bytes.Buffer
		monitor, err := startWiFi(context.Background(), config.WiFiConfig{
			Backend:        config.BackendStatic,
			StaticNetworks: []string{"home"},
		}, h.Logger, newStatusPrinter(&out))
		require.NoError(t, err)
		require.NotNil(t, monitor)

		networks, err := monitor.Networks(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "home", networks[0].SSID)
		assert.Empty(t, out.String())
	})
}
