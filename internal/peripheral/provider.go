package peripheral

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/cornelk/hashmap"
	"github.com/go-ble/ble"
	"github.com/sirupsen/logrus"
	"github.com/srg/blonboard/internal/groutine"
	"github.com/srg/blonboard/internal/onboarding"
)

// userDescriptionUUID is the Characteristic User Description descriptor
var userDescriptionUUID = ble.UUID16(0x2901)

// Options configures the advertisement of a Provider
type Options struct {
	// Name is the advertised local name.
	Name string
	// Discoverable adds the service UUID to the advertisement.
	Discoverable bool
	// Status receives user-facing status messages; defaults to the logger.
	Status onboarding.StatusFunc
}

// Provider publishes the onboarding service on a GATT device and advertises it.
// A Provider can be started and stopped repeatedly.
type Provider struct {
	dev     GATTDevice
	svc     *onboarding.Service
	opts    Options
	logger  *logrus.Logger
	clients *ClientRegistry

	// longReads holds the value each central is reading with Read Blob requests
	longReads *hashmap.Map[string, []byte]

	mu       sync.Mutex
	status   AdvertisementStatus
	started  bool
	stopping bool
	runCtx   context.Context
	cancel   context.CancelFunc
	done     <-chan struct{}
	advErr   error
}

// NewProvider creates a provider in the Created state
func NewProvider(dev GATTDevice, svc *onboarding.Service, opts Options, logger *logrus.Logger) *Provider {
	if logger == nil {
		logger = logrus.New()
	}
	if opts.Status == nil {
		opts.Status = onboarding.LogStatus(logger)
	}
	return &Provider{
		dev:       dev,
		svc:       svc,
		opts:      opts,
		logger:    logger,
		clients:   NewClientRegistry(),
		longReads: hashmap.NewSized[string, []byte](clientRegistrySize),
		status:    Created,
	}
}

// BuildService translates the onboarding characteristic table into a GATT service
func (p *Provider) BuildService() (*ble.Service, error) {
	svcUUID, err := ble.Parse(p.svc.UUID())
	if err != nil {
		return nil, &ServiceError{Stage: "parse service", UUID: p.svc.UUID(), Err: err}
	}
	service := ble.NewService(svcUUID)

	for _, ch := range p.svc.Characteristics() {
		uuid, err := ble.Parse(ch.UUID)
		if err != nil {
			return nil, &ServiceError{Stage: "parse characteristic", UUID: ch.UUID, Err: err}
		}

		c := ble.NewCharacteristic(uuid)
		if ch.Read != nil {
			c.HandleRead(p.readHandler(ch))
		}
		if ch.Write != nil {
			c.HandleWrite(p.writeHandler(ch))
		}
		c.Property = bleProperty(ch.Properties)
		c.NewDescriptor(userDescriptionUUID).SetValue([]byte(ch.Description))
		service.AddCharacteristic(c)
	}
	return service, nil
}

// bleProperty converts onboarding property flags to GATT property bits
func bleProperty(props onboarding.Property) ble.Property {
	var out ble.Property
	if props.Has(onboarding.PropRead) {
		out |= ble.CharRead
	}
	if props.Has(onboarding.PropWrite) {
		out |= ble.CharWrite
	}
	if props.Has(onboarding.PropWriteWithoutResponse) {
		out |= ble.CharWriteNR
	}
	return out
}

// Start publishes the service and starts advertising until ctx is done or Stop is called
func (p *Provider) Start(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.started || p.stopping {
		return ErrAlreadyStarted
	}

	service, err := p.BuildService()
	if err != nil {
		p.notify(onboarding.ErrorMessage, "Could not create service provider: %v", err)
		return err
	}
	if err := p.dev.AddService(service); err != nil {
		err = &ServiceError{Stage: "add service", UUID: p.svc.UUID(), Err: NormalizeError(err)}
		p.notify(onboarding.ErrorMessage, "Could not create service provider: %v", err)
		return err
	}

	var uuids []ble.UUID
	if p.opts.Discoverable {
		uuids = append(uuids, service.UUID)
	}

	runCtx, cancel := context.WithCancel(ctx)
	p.runCtx = runCtx
	p.cancel = cancel
	p.advErr = nil
	p.started = true
	p.setStatusLocked(Started)

	p.logger.WithFields(logrus.Fields{
		"name":         p.opts.Name,
		"service":      p.svc.UUID(),
		"discoverable": p.opts.Discoverable,
	}).Info("Advertising onboarding service")

	p.done = groutine.Go(runCtx, "advertise", func(ctx context.Context) {
		err := p.dev.AdvertiseNameAndServices(ctx, p.opts.Name, uuids...)
		p.advertisingEnded(ctx, err)
	})
	return nil
}

func (p *Provider) advertisingEnded(ctx context.Context, err error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if ctx.Err() != nil || err == nil || errors.Is(err, context.Canceled) {
		p.setStatusLocked(Stopped)
		return
	}

	p.advErr = NormalizeError(err)
	p.setStatusLocked(Aborted)
	p.notify(onboarding.ErrorMessage, "Advertising aborted: %v", p.advErr)
}

// Stop cancels advertising and removes the service
func (p *Provider) Stop() error {
	p.mu.Lock()
	if !p.started {
		p.mu.Unlock()
		return ErrNotStarted
	}
	cancel, done := p.cancel, p.done
	p.started = false
	p.stopping = true
	p.mu.Unlock()

	cancel()
	<-done

	var errs []error
	if err := p.dev.RemoveAllServices(); err != nil {
		errs = append(errs, fmt.Errorf("failed to remove services: %w", NormalizeError(err)))
	}

	p.mu.Lock()
	p.runCtx = nil
	p.stopping = false
	p.setStatusLocked(Stopped)
	p.mu.Unlock()

	p.logger.WithField("clients", p.clients.Len()).Info("Onboarding service stopped")
	return errors.Join(errs...)
}

// Close stops the provider if needed and releases the device
func (p *Provider) Close() error {
	var errs []error
	if err := p.Stop(); err != nil && !errors.Is(err, ErrNotStarted) {
		errs = append(errs, err)
	}
	if err := p.dev.Stop(); err != nil {
		errs = append(errs, fmt.Errorf("failed to stop device: %w", NormalizeError(err)))
	}
	return errors.Join(errs...)
}

// Status returns the current advertisement status
func (p *Provider) Status() AdvertisementStatus {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.status
}

// Done returns a channel closed when the current advertisement ends, or nil before Start
func (p *Provider) Done() <-chan struct{} {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.done
}

// Err returns the error that aborted advertising, if any
func (p *Provider) Err() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.advErr
}

// Clients returns per-central request statistics
func (p *Provider) Clients() []ClientStats {
	return p.clients.Snapshot()
}

// setStatusLocked must be called with p.mu held
func (p *Provider) setStatusLocked(status AdvertisementStatus) {
	if p.status == status {
		return
	}
	p.status = status
	p.notify(onboarding.StatusMessage, "New Advertisement Status: %s", status)
}

func (p *Provider) notify(kind onboarding.StatusKind, format string, args ...any) {
	p.opts.Status(kind, fmt.Sprintf(format, args...))
}
