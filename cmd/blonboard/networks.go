package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"slices"
	"syscall"
	"text/tabwriter"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/srg/blonboard/internal/onboarding"
	"github.com/srg/blonboard/internal/wifi"
)

// networksCmd represents the networks command
var networksCmd = &cobra.Command{
	Use:   "networks",
	Short: "Scan WiFi networks and print the WiFi list",
	Long: `Run one WiFi scan through the configured backend and print the result.

The json format is exactly the value a central reads from the WiFi list
characteristic.`,
	Args: cobra.NoArgs,
	RunE: runNetworks,
}

var networksFormat string

func init() {
	networksCmd.Flags().StringVarP(&networksFormat, "format", "f", "json", "Output format (json, table)")
	addWiFiFlags(networksCmd)
}

func runNetworks(cmd *cobra.Command, _ []string) error {
	if err := checkFormat(networksFormat, "json", "table"); err != nil {
		return err
	}

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if err := validateConfig(cfg); err != nil {
		return err
	}

	// stderr carries the progress line, logs appear only when asked for
	quiet := cfg.NewLogger()
	quiet.SetLevel(logrus.PanicLevel)
	logger, err := configureLogger(cmd, "verbose", quiet)
	if err != nil {
		return err
	}

	cmd.SilenceUsage = true

	parent := cmd.Context()
	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	scanner, err := wifi.NewScanner(cfg.WiFi, logger)
	if err != nil {
		return err
	}
	monitor := wifi.NewMonitor(scanner, cfg.WiFi.ScanTimeout, logger)
	defer monitor.Close()

	progress := NewProgressPrinter(cmd.ErrOrStderr(), "Scanning WiFi networks", "scanning", cfg.WiFi.ScanTimeout)
	progress.Start()
	err = monitor.Init(ctx)
	progress.Stop()
	if err != nil {
		return err
	}

	report, _ := monitor.Report()
	if networksFormat == "table" {
		return displayNetworksTable(cmd.OutOrStdout(), report.Networks)
	}

	data, err := onboarding.EncodeWiFiNetworks(report.Networks)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), string(data))
	return err
}

func displayNetworksTable(out io.Writer, networks []wifi.Network) error {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "SSID\tBSSID\tSTRENGTH")
	fmt.Fprintln(w, "----\t-----\t--------")

	for _, n := range networks {
		ssid := n.SSID
		if ssid == "" {
			ssid = "<hidden>"
		}
		bssid := n.BSSID
		if bssid == "" {
			bssid = "-"
		}
		strength := "-"
		if n.Strength > 0 {
			strength = fmt.Sprintf("%d%%", n.Strength)
		}
		fmt.Fprintf(w, "%s\t%s\t%s\n", ssid, bssid, strength)
	}
	return w.Flush()
}

func checkFormat(format string, valid ...string) error {
	if !slices.Contains(valid, format) {
		return fmt.Errorf("%w '%s': must be one of %v", ErrInvalidFormat, format, valid)
	}
	return nil
}
