package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/srg/blonboard/internal/groutine"
	"github.com/srg/blonboard/internal/onboarding"
	"github.com/srg/blonboard/internal/peripheral"
	"github.com/srg/blonboard/internal/wifi"
	"github.com/srg/blonboard/pkg/config"
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Publish and advertise the onboarding service",
	Long: `Publish the onboarding GATT service on the local Bluetooth adapter and
advertise it until interrupted.

A central can then read the protocol version, ROSS version, onboarding result
and the list of visible WiFi networks, and write onboarding requests. Every
request is printed as it arrives.`,
	Example: `  blonboard serve
  blonboard serve --name Kitchen --hci 1
  blonboard serve --static-network home,office --rescan 30s`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

var (
	serveName          string
	serveHCI           int
	serveRescan        time.Duration
	serveNoServiceUUID bool
)

func init() {
	serveCmd.Flags().StringVarP(&serveName, "name", "n", "", "Advertised local name (default \"Onboarding\")")
	serveCmd.Flags().IntVar(&serveHCI, "hci", -1, "HCI adapter index on Linux, -1 for the first one")
	serveCmd.Flags().DurationVar(&serveRescan, "rescan", 0, "Rescan WiFi networks at this interval (0 disables)")
	serveCmd.Flags().BoolVar(&serveNoServiceUUID, "no-service-uuid", false, "Advertise the local name only")
	addWiFiFlags(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	flags := cmd.Flags()
	if flags.Changed("name") {
		cfg.Peripheral.DeviceName = serveName
	}
	if flags.Changed("hci") {
		cfg.Peripheral.HCIDevice = serveHCI
	}
	if flags.Changed("rescan") {
		cfg.WiFi.RescanInterval = serveRescan
	}
	if flags.Changed("no-service-uuid") {
		cfg.Peripheral.Discoverable = !serveNoServiceUUID
	}
	if err := validateConfig(cfg); err != nil {
		return err
	}

	logger, err := configureLogger(cmd, "verbose", cfg.NewLogger())
	if err != nil {
		return err
	}

	// arguments validated, don't show usage on runtime errors
	cmd.SilenceUsage = true

	parent := cmd.Context()
	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	out := newStatusPrinter(cmd.OutOrStdout())

	monitor, err := startWiFi(ctx, cfg.WiFi, logger, out)
	if err != nil {
		out.Result(false)
		return err
	}
	var networks onboarding.NetworkSource
	if monitor != nil {
		defer monitor.Close()
		networks = monitor
	}

	requests := onboarding.NewRequestLog(cfg.Onboarding.RequestHistory)
	svc := onboarding.NewService(onboarding.Values{
		ProtocolVersion: cfg.Onboarding.ProtocolVersion,
		FirmwareVersion: cfg.Onboarding.FirmwareVersion,
		ResultCode:      cfg.Onboarding.ResultCode,
	}, networks, logger,
		onboarding.WithStatus(out.Status),
		onboarding.WithRequestLog(requests),
	)

	dev, err := peripheral.NewDevice(peripheral.DeviceOptions{HCIDevice: cfg.Peripheral.HCIDevice})
	if err != nil {
		out.Status(onboarding.ErrorMessage, fmt.Sprintf("Could not create service provider: %v", err))
		out.Result(false)
		return err
	}

	provider := peripheral.NewProvider(dev, svc, peripheral.Options{
		Name:         cfg.Peripheral.DeviceName,
		Discoverable: cfg.Peripheral.Discoverable,
		Status:       out.Status,
	}, logger)
	defer func() {
		if err := provider.Close(); err != nil {
			logger.WithError(err).Warn("Failed to release bluetooth device")
		}
	}()

	if err := provider.Start(ctx); err != nil {
		out.Result(false)
		return err
	}
	out.Result(true)

	if monitor != nil && cfg.WiFi.RescanInterval > 0 {
		rescanDone := groutine.Go(ctx, "wifi-rescan", func(ctx context.Context) {
			monitor.Run(ctx, cfg.WiFi.RescanInterval)
		})
		defer func() {
			stop()
			<-rescanDone
		}()
	}

	select {
	case <-ctx.Done():
		logger.Info("Shutting down onboarding service")
	case <-provider.Done():
	}

	stopErr := provider.Stop()
	if err := provider.Err(); err != nil {
		return fmt.Errorf("%w: %w", ErrAdvertisingAborted, err)
	}
	if stopErr != nil {
		logger.WithError(stopErr).Warn("Failed to remove onboarding service")
	}

	printSummary(out, requests, provider.Clients())
	return nil
}

// startWiFi initializes the WiFi monitor. Without a usable adapter it reports the
// failure and returns a nil monitor, unless the adapter is required.
func startWiFi(ctx context.Context, cfg config.WiFiConfig, logger *logrus.Logger, out *statusPrinter) (*wifi.Monitor, error) {
	scanner, err := wifi.NewScanner(cfg, logger)
	if err == nil {
		monitor := wifi.NewMonitor(scanner, cfg.ScanTimeout, logger)
		if err = monitor.Init(ctx); err == nil {
			return monitor, nil
		}
		_ = monitor.Close()
	}

	out.Status(onboarding.ErrorMessage, fmt.Sprintf("WiFi adapter not available: %v", err))
	if cfg.Required {
		return nil, err
	}
	logger.WithError(err).Warn("Continuing without WiFi networks")
	return nil, nil
}

func printSummary(out *statusPrinter, requests *onboarding.RequestLog, clients []peripheral.ClientStats) {
	out.Printf("Onboarding requests received: %d\n", requests.Total())
	for _, c := range clients {
		out.Printf("  %s: %d reads, %d writes, last seen %s\n",
			c.Address, c.Reads, c.Writes, c.LastSeen.Format(time.RFC3339))
	}
}
