package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/mcuadros/go-defaults"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

// WiFi scan-result backends
const (
	BackendNetworkManager = "networkmanager"
	BackendStatic         = "static"
)

// Config holds application configuration
type Config struct {
	LogLevel   string           `yaml:"log_level" default:"info"`
	Peripheral PeripheralConfig `yaml:"peripheral"`
	Onboarding OnboardingConfig `yaml:"onboarding"`
	WiFi       WiFiConfig       `yaml:"wifi"`
}

// PeripheralConfig controls the local GATT server and its advertisement
type PeripheralConfig struct {
	DeviceName string `yaml:"device_name" default:"Onboarding"`
	// HCIDevice selects the Linux HCI adapter; -1 picks the first available one.
	HCIDevice    int  `yaml:"hci_device" default:"-1"`
	Discoverable bool `yaml:"discoverable" default:"true"`
}

// OnboardingConfig holds the values served by the onboarding characteristics
type OnboardingConfig struct {
	ProtocolVersion string `yaml:"protocol_version" default:"0"`
	FirmwareVersion string `yaml:"firmware_version" default:"1.5.14.0"`
	ResultCode      int32  `yaml:"result_code" default:"400"`
	RequestHistory  int    `yaml:"request_history" default:"16"`
}

// WiFiConfig selects where WiFi scan results come from
type WiFiConfig struct {
	Backend        string        `yaml:"backend" default:"networkmanager"`
	Interface      string        `yaml:"interface"`
	Required       bool          `yaml:"required"`
	ScanTimeout    time.Duration `yaml:"scan_timeout" default:"10s"`
	RescanInterval time.Duration `yaml:"rescan_interval"`
	StaticNetworks []string      `yaml:"static_networks"`
}

// DefaultConfig returns default configuration values
func DefaultConfig() *Config {
	cfg := &Config{}
	defaults.SetDefaults(cfg)
	defaults.SetDefaults(&cfg.Peripheral)
	defaults.SetDefaults(&cfg.Onboarding)
	defaults.SetDefaults(&cfg.WiFi)
	return cfg
}

// Load reads a YAML configuration file on top of the defaults.
// An empty path returns the defaults unchanged.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks that the configuration can be used to start the peripheral
func (c *Config) Validate() error {
	var errs []error

	if _, err := logrus.ParseLevel(c.LogLevel); err != nil {
		errs = append(errs, fmt.Errorf("log_level: %w", err))
	}
	if c.Peripheral.DeviceName == "" {
		errs = append(errs, errors.New("peripheral.device_name must not be empty"))
	}
	if c.Onboarding.ProtocolVersion == "" {
		errs = append(errs, errors.New("onboarding.protocol_version must not be empty"))
	}
	if c.Onboarding.FirmwareVersion == "" {
		errs = append(errs, errors.New("onboarding.firmware_version must not be empty"))
	}
	if c.Onboarding.RequestHistory <= 0 {
		errs = append(errs, fmt.Errorf("onboarding.request_history must be positive, got %d", c.Onboarding.RequestHistory))
	}
	switch c.WiFi.Backend {
	case BackendNetworkManager, BackendStatic:
	default:
		errs = append(errs, fmt.Errorf("wifi.backend %q is not one of %s, %s", c.WiFi.Backend, BackendNetworkManager, BackendStatic))
	}
	if c.WiFi.RescanInterval < 0 {
		errs = append(errs, errors.New("wifi.rescan_interval must not be negative"))
	}

	return errors.Join(errs...)
}

// NewLogger creates a configured logger instance
func (c *Config) NewLogger() *logrus.Logger {
	level, err := logrus.ParseLevel(c.LogLevel)
	if err != nil {
		level = logrus.InfoLevel
	}

	logger := logrus.New()
	logger.SetLevel(level)

	// Use structured logging format
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: time.RFC3339,
	})

	return logger
}
