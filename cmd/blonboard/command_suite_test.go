package main

import (
	"bytes"
	"context"

	"github.com/fatih/color"
	"github.com/go-ble/ble"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/srg/blonboard/internal/peripheral"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type mockDevice struct {
	mock.Mock
}

func (m *mockDevice) AddService(svc *ble.Service) error {
	return m.Called(svc).Error(0)
}

func (m *mockDevice) RemoveAllServices() error {
	return m.Called().Error(0)
}

func (m *mockDevice) AdvertiseNameAndServices(ctx context.Context, name string, uuids ...ble.UUID) error {
	return m.Called(ctx, name, uuids).Error(0)
}

func (m *mockDevice) Stop() error {
	return m.Called().Error(0)
}

// CommandTestSuite runs commands through rootCmd with a mocked Bluetooth device.
// All cmd/blonboard test suites should embed it.
type CommandTestSuite struct {
	suite.Suite

	originalDeviceFactory func(peripheral.DeviceOptions) (peripheral.GATTDevice, error)
	originalNoColor       bool
}

func (s *CommandTestSuite) SetupSuite() {
	s.originalNoColor = color.NoColor
	color.NoColor = true
}

func (s *CommandTestSuite) TearDownSuite() {
	color.NoColor = s.originalNoColor
}

func (s *CommandTestSuite) SetupTest() {
	s.originalDeviceFactory = peripheral.DeviceFactory
	resetFlags(rootCmd)
}

func (s *CommandTestSuite) TearDownTest() {
	peripheral.DeviceFactory = s.originalDeviceFactory
}

// UseDevice makes the peripheral package hand out dev
func (s *CommandTestSuite) UseDevice(dev peripheral.GATTDevice, err error) {
	peripheral.DeviceFactory = func(peripheral.DeviceOptions) (peripheral.GATTDevice, error) {
		if err != nil {
			return nil, err
		}
		return dev, nil
	}
}

// ExecuteCommand runs rootCmd with args and returns stdout, stderr and the error.
func (s *CommandTestSuite) ExecuteCommand(args ...string) (string, string, error) {
	return s.ExecuteCommandContext(context.Background(), args...)
}

// ExecuteCommandContext is ExecuteCommand with a context, used to end long running commands.
func (s *CommandTestSuite) ExecuteCommandContext(ctx context.Context, args ...string) (string, string, error) {
	stdout, stderr := new(bytes.Buffer), new(bytes.Buffer)
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)
	rootCmd.SetArgs(args)
	defer func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
	}()

	// cobra hands the root context to a subcommand only while the subcommand has none,
	// so the context of an earlier run would otherwise stick
	setContext(rootCmd, ctx)

	err := rootCmd.ExecuteContext(ctx)
	return stdout.String(), stderr.String(), err
}

func setContext(cmd *cobra.Command, ctx context.Context) {
	cmd.SetContext(ctx)
	for _, sub := range cmd.Commands() {
		setContext(sub, ctx)
	}
}

// resetFlags restores every flag of cmd and its subcommands to its default,
// so a flag set by one test does not leak into the next.
func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		if sv, ok := f.Value.(pflag.SliceValue); ok {
			_ = sv.Replace(nil)
		} else {
			_ = f.Value.Set(f.DefValue)
		}
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, sub := range cmd.Commands() {
		resetFlags(sub)
	}
}
