package peripheral

import (
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/cornelk/hashmap"
)

// ClientStats summarises the requests of one central
type ClientStats struct {
	Address   string    `json:"address"`
	Reads     uint64    `json:"reads"`
	Writes    uint64    `json:"writes"`
	FirstSeen time.Time `json:"first_seen"`
	LastSeen  time.Time `json:"last_seen"`
}

type clientEntry struct {
	reads     atomic.Uint64
	writes    atomic.Uint64
	firstSeen time.Time
	mu        sync.Mutex
	lastSeen  time.Time
}

// clientRegistrySize is the initial capacity of the registry map. cornelk/hashmap
// can lose keys while it grows, so the map is sized well above the number of
// centrals a peripheral serves.
const clientRegistrySize = 1024

// ClientRegistry tracks centrals that accessed the service, keyed by remote address
type ClientRegistry struct {
	clients *hashmap.Map[string, *clientEntry]
	now     func() time.Time
}

// NewClientRegistry creates an empty registry
func NewClientRegistry() *ClientRegistry {
	return &ClientRegistry{
		clients: hashmap.NewSized[string, *clientEntry](clientRegistrySize),
		now:     time.Now,
	}
}

func (r *ClientRegistry) touch(addr string) *clientEntry {
	now := r.now()
	entry, _ := r.clients.GetOrInsert(addr, &clientEntry{firstSeen: now})
	entry.mu.Lock()
	if now.After(entry.lastSeen) {
		entry.lastSeen = now
	}
	entry.mu.Unlock()
	return entry
}

// RecordRead counts a read by addr; requests without a known address are not tracked
func (r *ClientRegistry) RecordRead(addr string) {
	if addr == "" {
		return
	}
	r.touch(addr).reads.Add(1)
}

// RecordWrite counts a write by addr
func (r *ClientRegistry) RecordWrite(addr string) {
	if addr == "" {
		return
	}
	r.touch(addr).writes.Add(1)
}

// Len returns the number of distinct centrals seen
func (r *ClientRegistry) Len() int {
	return r.clients.Len()
}

// Stats returns the statistics of one central
func (r *ClientRegistry) Stats(addr string) (ClientStats, bool) {
	e, ok := r.clients.Get(addr)
	if !ok {
		return ClientStats{}, false
	}
	return e.stats(addr), true
}

func (e *clientEntry) stats(addr string) ClientStats {
	e.mu.Lock()
	last := e.lastSeen
	e.mu.Unlock()
	return ClientStats{
		Address:   addr,
		Reads:     e.reads.Load(),
		Writes:    e.writes.Load(),
		FirstSeen: e.firstSeen,
		LastSeen:  last,
	}
}

// Snapshot returns per-central statistics sorted by address
func (r *ClientRegistry) Snapshot() []ClientStats {
	out := make([]ClientStats, 0, r.clients.Len())
	r.clients.Range(func(addr string, e *clientEntry) bool {
		out = append(out, e.stats(addr))
		return true
	})
	sort.Slice(out, func(i, j int) bool {
		return out[i].Address < out[j].Address
	})
	return out
}
