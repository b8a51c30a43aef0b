package wifi

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// Monitor keeps the latest scan report of a Scanner
type Monitor struct {
	scanner     Scanner
	logger      *logrus.Logger
	scanTimeout time.Duration
	now         func() time.Time

	mu     sync.RWMutex
	report *Report
}

// NewMonitor creates a monitor; scanTimeout bounds each scan, 0 means no bound
func NewMonitor(scanner Scanner, scanTimeout time.Duration, logger *logrus.Logger) *Monitor {
	if logger == nil {
		logger = logrus.New()
	}
	return &Monitor{
		scanner:     scanner,
		logger:      logger,
		scanTimeout: scanTimeout,
		now:         time.Now,
	}
}

// Init acquires the adapter and performs the first scan
func (m *Monitor) Init(ctx context.Context) error {
	if err := m.Refresh(ctx); err != nil {
		return fmt.Errorf("failed to initialize wifi adapter: %w", err)
	}
	return nil
}

// Refresh runs a scan and replaces the stored report.
// A scan that times out still publishes whatever the adapter currently reports.
func (m *Monitor) Refresh(ctx context.Context) error {
	scanCtx := ctx
	if m.scanTimeout > 0 {
		var cancel context.CancelFunc
		scanCtx, cancel = context.WithTimeout(ctx, m.scanTimeout)
		defer cancel()
	}

	if err := m.scanner.Scan(scanCtx); err != nil {
		if !errors.Is(err, context.DeadlineExceeded) || ctx.Err() != nil {
			return err
		}
		m.logger.WithField("timeout", m.scanTimeout).Warn("WiFi scan did not complete in time, using current results")
	}

	networks, err := m.scanner.AccessPoints(ctx)
	if err != nil {
		return err
	}

	report := &Report{Networks: networks, ScannedAt: m.now()}
	m.mu.Lock()
	m.report = report
	m.mu.Unlock()

	m.logger.WithField("network_count", len(networks)).Info("WiFi scan report updated")
	return nil
}

// Report returns the latest report
func (m *Monitor) Report() (Report, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.report == nil {
		return Report{}, false
	}
	r := *m.report
	r.Networks = append([]Network(nil), m.report.Networks...)
	return r, true
}

// Networks returns the networks of the latest report
func (m *Monitor) Networks(_ context.Context) ([]Network, error) {
	r, ok := m.Report()
	if !ok {
		return nil, ErrNotInitialized
	}
	return r.Networks, nil
}

// Run rescans every interval until ctx is done. Failures are logged and retried
// on the next tick.
func (m *Monitor) Run(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := m.Refresh(ctx); err != nil && ctx.Err() == nil {
				m.logger.WithError(err).Warn("WiFi rescan failed")
			}
		}
	}
}

// Close releases the scanner when it holds resources
func (m *Monitor) Close() error {
	if c, ok := m.scanner.(io.Closer); ok {
		return c.Close()
	}
	return nil
}
