package onboarding

import (
	"context"
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/sirupsen/logrus"
	"github.com/srg/blonboard/internal/wifi"
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// NetworkSource supplies the most recent WiFi scan report
type NetworkSource interface {
	Networks(ctx context.Context) ([]wifi.Network, error)
}

// Values are the constants served by the read characteristics
type Values struct {
	ProtocolVersion string
	FirmwareVersion string
	ResultCode      int32
}

// DefaultValues returns the values the onboarding service ships with
func DefaultValues() Values {
	return Values{
		ProtocolVersion: DefaultProtocolVersion,
		FirmwareVersion: DefaultFirmwareVersion,
		ResultCode:      DefaultResultCode,
	}
}

// Option configures a Service
type Option func(*Service)

// WithStatus routes user-facing status messages to fn
func WithStatus(fn StatusFunc) Option {
	return func(s *Service) {
		if fn != nil {
			s.status = fn
		}
	}
}

// WithRequestLog records onboarding requests into log
func WithRequestLog(log *RequestLog) Option {
	return func(s *Service) {
		if log != nil {
			s.requests = log
		}
	}
}

// WithClock overrides the time source used for request records
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// Service answers reads and writes of the onboarding characteristics.
// All handlers are safe for concurrent use.
type Service struct {
	values   Values
	networks NetworkSource
	logger   *logrus.Logger
	status   StatusFunc
	requests *RequestLog
	now      func() time.Time

	chars *orderedmap.OrderedMap[string, *Characteristic]
}

// NewService creates the onboarding service. networks may be nil, in which case
// reads of the WiFi list fail with ErrWiFiUnavailable.
func NewService(values Values, networks NetworkSource, logger *logrus.Logger, opts ...Option) *Service {
	if logger == nil {
		logger = logrus.New()
	}

	s := &Service{
		values:   values,
		networks: networks,
		logger:   logger,
		requests: NewRequestLog(16),
		now:      time.Now,
	}
	s.status = LogStatus(logger)
	for _, opt := range opts {
		opt(s)
	}

	s.chars = orderedmap.New[string, *Characteristic]()
	for _, c := range s.buildCharacteristics() {
		s.chars.Set(NormalizeUUID(c.UUID), c)
	}
	return s
}

// UUID returns the service UUID
func (s *Service) UUID() string {
	return ServiceUUID
}

// Values returns the served constants
func (s *Service) Values() Values {
	return s.values
}

// Requests returns the onboarding request log
func (s *Service) Requests() *RequestLog {
	return s.requests
}

// Notify sends a message to the status sink
func (s *Service) Notify(kind StatusKind, format string, args ...any) {
	s.status(kind, fmt.Sprintf(format, args...))
}

// Characteristics returns the characteristic table in registration order
func (s *Service) Characteristics() []Characteristic {
	out := make([]Characteristic, 0, s.chars.Len())
	for pair := s.chars.Oldest(); pair != nil; pair = pair.Next() {
		out = append(out, *pair.Value)
	}
	return out
}

// Lookup finds a characteristic by UUID in any textual form
func (s *Service) Lookup(uuid string) (Characteristic, error) {
	c, ok := s.chars.Get(NormalizeUUID(uuid))
	if !ok {
		return Characteristic{}, fmt.Errorf("%w: %s", ErrUnknownCharacteristic, uuid)
	}
	return *c, nil
}

// buildCharacteristics lists the characteristics in the order they are added to the GATT service
func (s *Service) buildCharacteristics() []*Characteristic {
	return []*Characteristic{
		{
			Name:            "protocol-version",
			UUID:            ProtocolVersionCharUUID,
			Properties:      PropRead,
			WriteProtection: ProtectionPlain,
			Description:     ProtocolVersionDescription,
			Read:            s.readProtocolVersion,
		},
		{
			Name:            "ross-version",
			UUID:            RossVersionCharUUID,
			Properties:      PropRead,
			WriteProtection: ProtectionPlain,
			Description:     RossVersionDescription,
			Read:            s.readFirmwareVersion,
		},
		{
			Name:            "wifi-list",
			UUID:            WiFiListCharUUID,
			Properties:      PropRead,
			WriteProtection: ProtectionPlain,
			Description:     WiFiListDescription,
			Read:            s.readWiFiList,
		},
		{
			Name:            "onboarding-result",
			UUID:            OnboardingResultCharUUID,
			Properties:      PropRead,
			WriteProtection: ProtectionPlain,
			Description:     OnboardingResultDescription,
			Read:            s.readOnboardingResult,
		},
		{
			Name:            "onboarding-request",
			UUID:            OnboardingRequestCharUUID,
			Properties:      PropWrite | PropWriteWithoutResponse,
			WriteProtection: ProtectionPlain,
			Description:     OnboardingRequestDescription,
			Write:           s.writeOnboardingRequest,
		},
	}
}

func (s *Service) readOnboardingResult(_ context.Context, req ReadRequest) ([]byte, error) {
	s.logRead("onboarding-result", req)
	return EncodeResultCode(s.values.ResultCode), nil
}

func (s *Service) readProtocolVersion(_ context.Context, req ReadRequest) ([]byte, error) {
	s.logRead("protocol-version", req)
	return EncodeString(s.values.ProtocolVersion), nil
}

func (s *Service) readFirmwareVersion(_ context.Context, req ReadRequest) ([]byte, error) {
	s.logRead("ross-version", req)
	return EncodeString(s.values.FirmwareVersion), nil
}

func (s *Service) readWiFiList(ctx context.Context, req ReadRequest) ([]byte, error) {
	s.logRead("wifi-list", req)

	if s.networks == nil {
		s.Notify(ErrorMessage, "WiFi adapter not available")
		return nil, ErrWiFiUnavailable
	}

	networks, err := s.networks.Networks(ctx)
	if err != nil {
		s.Notify(ErrorMessage, "Could not read WiFi networks: %v", err)
		return nil, fmt.Errorf("%w: %w", ErrWiFiUnavailable, err)
	}
	return EncodeWiFiNetworks(networks)
}

func (s *Service) writeOnboardingRequest(_ context.Context, req WriteRequest) error {
	if req.Offset != 0 {
		return fmt.Errorf("%w: onboarding request written at offset %d", ErrInvalidOffset, req.Offset)
	}
	if !utf8.Valid(req.Data) {
		s.Notify(ErrorMessage, "Onboarding Request rejected: payload is not UTF-8 text")
		return ErrInvalidRequest
	}

	text := string(req.Data)
	s.requests.Add(RequestRecord{
		Remote:     req.Remote,
		Text:       text,
		ReceivedAt: s.now(),
	})

	s.logger.WithFields(logrus.Fields{
		"remote": req.Remote,
		"bytes":  len(req.Data),
	}).Debug("Onboarding request received")
	s.Notify(StatusMessage, "Onboarding Request : %s", text)
	return nil
}

func (s *Service) logRead(name string, req ReadRequest) {
	s.logger.WithFields(logrus.Fields{
		"characteristic": name,
		"remote":         req.Remote,
		"offset":         req.Offset,
	}).Debug("Read requested")
}
