package cluster

import (
	"sync"
	"time"

	"github.com/voidshard/slipway/pkg/structs"
)

// Cache holds resource snapshots per host for a bounded time. It's an
// injected component rather than ambient state so tests can swap in a
// deterministic clock.
type Cache interface {
	// Get returns the cached snapshot & its age, if one exists and hasn't
	// expired.
	Get(host string) (*structs.ResourceSnapshot, time.Duration, bool)

	// Put stores a snapshot for a host.
	Put(host string, snap *structs.ResourceSnapshot)

	// GetPartitions / PutPartitions do the same for partition listings,
	// which change even less often than GPU availability.
	GetPartitions(host string) ([]string, bool)
	PutPartitions(host string, parts []string)
}

type cacheEntry struct {
	snap     *structs.ResourceSnapshot
	storedAt time.Time
}

type partitionEntry struct {
	parts    []string
	storedAt time.Time
}

// TTLCache is the default Cache: in-memory, per-host, fixed TTL.
// Concurrent readers are safe; refresh writes race benignly (they're pure
// refreshes of the same key, last write wins).
type TTLCache struct {
	ttl time.Duration
	now func() time.Time

	mu         sync.RWMutex
	entries    map[string]*cacheEntry
	partitions map[string]*partitionEntry
}

// NewTTLCache returns a TTLCache. A nil clock uses time.Now.
func NewTTLCache(ttl time.Duration, clock func() time.Time) *TTLCache {
	if clock == nil {
		clock = time.Now
	}
	return &TTLCache{
		ttl:        ttl,
		now:        clock,
		entries:    map[string]*cacheEntry{},
		partitions: map[string]*partitionEntry{},
	}
}

func (c *TTLCache) Get(host string) (*structs.ResourceSnapshot, time.Duration, bool) {
	c.mu.RLock()
	e, ok := c.entries[host]
	c.mu.RUnlock()
	if !ok {
		return nil, 0, false
	}
	age := c.now().Sub(e.storedAt)
	if age >= c.ttl {
		return nil, 0, false
	}
	return e.snap, age, true
}

func (c *TTLCache) Put(host string, snap *structs.ResourceSnapshot) {
	c.mu.Lock()
	c.entries[host] = &cacheEntry{snap: snap, storedAt: c.now()}
	c.mu.Unlock()
}

func (c *TTLCache) GetPartitions(host string) ([]string, bool) {
	c.mu.RLock()
	e, ok := c.partitions[host]
	c.mu.RUnlock()
	if !ok || c.now().Sub(e.storedAt) >= c.ttl {
		return nil, false
	}
	return e.parts, true
}

func (c *TTLCache) PutPartitions(host string, parts []string) {
	c.mu.Lock()
	c.partitions[host] = &partitionEntry{parts: parts, storedAt: c.now()}
	c.mu.Unlock()
}
