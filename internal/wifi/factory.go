package wifi

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/srg/blonboard/pkg/config"
)

// NewScanner creates the scanner selected by the configured backend
func NewScanner(cfg config.WiFiConfig, logger *logrus.Logger) (Scanner, error) {
	switch cfg.Backend {
	case config.BackendStatic:
		return NewStaticScanner(cfg.StaticNetworks...), nil
	case config.BackendNetworkManager:
		s, err := NewNetworkManagerScanner(cfg.Interface, logger)
		if err != nil {
			return nil, err
		}
		return s, nil
	default:
		return nil, fmt.Errorf("unknown wifi backend %q", cfg.Backend)
	}
}
