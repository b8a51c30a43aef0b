package peripheral

import (
	"context"
	"sync"

	"github.com/go-ble/ble"
	"github.com/srg/blonboard/internal/onboarding"
	"github.com/stretchr/testify/mock"
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

// blockUntilCancelled makes an AdvertiseNameAndServices expectation behave like
// the real stack: advertise until the context ends.
func blockUntilCancelled(args mock.Arguments) {
	<-args.Get(0).(context.Context).Done()
}

type fakeRequest struct {
	data   []byte
	offset int
}

func (r *fakeRequest) Conn() ble.Conn { return nil }
func (r *fakeRequest) Data() []byte   { return r.data }
func (r *fakeRequest) Offset() int    { return r.offset }

type fakeResponse struct {
	buf      []byte
	capacity int
	status   ble.ATTError
}

func newFakeResponse(capacity int) *fakeResponse {
	return &fakeResponse{capacity: capacity}
}

func (r *fakeResponse) Write(b []byte) (int, error) {
	if len(b) > r.capacity-len(r.buf) {
		return 0, ble.ErrInvalAttrValueLen
	}
	r.buf = append(r.buf, b...)
	return len(b), nil
}

func (r *fakeResponse) Status() ble.ATTError     { return r.status }
func (r *fakeResponse) SetStatus(s ble.ATTError) { r.status = s }
func (r *fakeResponse) Len() int                 { return len(r.buf) }
func (r *fakeResponse) Cap() int                 { return r.capacity }

// statusRecorder collects status messages in order
type statusRecorder struct {
	mu       sync.Mutex
	messages []string
	errors   []string
}

func (s *statusRecorder) record(kind onboarding.StatusKind, msg string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if kind == onboarding.ErrorMessage {
		s.errors = append(s.errors, msg)
		return
	}
	s.messages = append(s.messages, msg)
}

func (s *statusRecorder) Messages() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.messages...)
}

func (s *statusRecorder) Errors() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.errors...)
}
