package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/srg/blonboard/pkg/config"
)

// WiFi flags shared by serve and networks
var (
	wifiBackend   string
	wifiInterface string
	wifiStatic    []string
	wifiRequired  bool
)

func addWiFiFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&wifiBackend, "wifi-backend", "", "WiFi scan source (networkmanager, static)")
	cmd.Flags().StringVar(&wifiInterface, "wifi-interface", "", "WiFi interface to scan with (default: first WiFi device)")
	cmd.Flags().StringSliceVar(&wifiStatic, "static-network", nil, "SSIDs served by the static backend (implies --wifi-backend static)")
	cmd.Flags().BoolVar(&wifiRequired, "wifi-required", false, "Fail when the WiFi adapter cannot be initialized")
}

// loadConfig reads --config and applies the WiFi flags set on the command line
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("static-network") {
		cfg.WiFi.Backend = config.BackendStatic
		cfg.WiFi.StaticNetworks = wifiStatic
	}
	if flags.Changed("wifi-backend") {
		cfg.WiFi.Backend = wifiBackend
	}
	if flags.Changed("wifi-interface") {
		cfg.WiFi.Interface = wifiInterface
	}
	if flags.Changed("wifi-required") {
		cfg.WiFi.Required = wifiRequired
	}
	return cfg, nil
}

// validateConfig re-checks the configuration once command line overrides are applied
func validateConfig(cfg *config.Config) error {
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}
