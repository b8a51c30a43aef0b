package onboarding

import (
	"sync"
	"time"
)

// RequestRecord is one onboarding request received from a central
type RequestRecord struct {
	Remote     string    `json:"remote,omitempty"`
	Text       string    `json:"text"`
	ReceivedAt time.Time `json:"received_at"`
}

// RequestLog keeps the most recent onboarding requests, oldest dropped first
type RequestLog struct {
	mu       sync.Mutex
	records  []RequestRecord
	capacity int
	total    uint64
}

// NewRequestLog creates a log retaining at most capacity records
func NewRequestLog(capacity int) *RequestLog {
	if capacity <= 0 {
		panic("onboarding: request log capacity must be > 0")
	}
	return &RequestLog{
		records:  make([]RequestRecord, 0, capacity),
		capacity: capacity,
	}
}

// Add appends a record, discarding the oldest one when full
func (l *RequestLog) Add(rec RequestRecord) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if len(l.records) == l.capacity {
		copy(l.records, l.records[1:])
		l.records = l.records[:l.capacity-1]
	}
	l.records = append(l.records, rec)
	l.total++
}

// Records returns a snapshot, oldest first
func (l *RequestLog) Records() []RequestRecord {
	l.mu.Lock()
	defer l.mu.Unlock()

	out := make([]RequestRecord, len(l.records))
	copy(out, l.records)
	return out
}

// Last returns the most recent record
func (l *RequestLog) Last() (RequestRecord, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if len(l.records) == 0 {
		return RequestRecord{}, false
	}
	return l.records[len(l.records)-1], true
}

// Total returns how many requests were ever added, including discarded ones
func (l *RequestLog) Total() uint64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.total
}
