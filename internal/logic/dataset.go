package logic

import (
	"sync"
	"time"
)

// Dataset is free text a session asked the system to remember for later
// analytic commands.
type Dataset struct {
	Content  string
	Lines    int
	Words    int
	StoredAt time.Time
}

// DatasetCache holds one dataset per session id. It is bounded and entries
// expire after a TTL; the clock is injected so expiry is testable.
type DatasetCache struct {
	mu       sync.Mutex
	entries  map[string]Dataset
	ttl      time.Duration
	capacity int
	now      func() time.Time
}

func NewDatasetCache(ttl time.Duration, capacity int, clock func() time.Time) *DatasetCache {
	if clock == nil {
		clock = time.Now
	}
	if capacity <= 0 {
		capacity = 1024
	}
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}
	return &DatasetCache{
		entries:  make(map[string]Dataset),
		ttl:      ttl,
		capacity: capacity,
		now:      clock,
	}
}

// Put replaces any prior dataset for the session. When the cache is full
// the oldest entry is evicted first.
func (c *DatasetCache) Put(sessionID, content string) Dataset {
	lines := countLines(content)
	words := len(tokenize(content))
	d := Dataset{Content: content, Lines: lines, Words: words, StoredAt: c.now()}

	c.mu.Lock()
	defer c.mu.Unlock()
	if _, exists := c.entries[sessionID]; !exists && len(c.entries) >= c.capacity {
		c.evictOldestLocked()
	}
	c.entries[sessionID] = d
	return d
}

// Get returns the session's dataset if present and not expired.
func (c *DatasetCache) Get(sessionID string) (Dataset, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	d, ok := c.entries[sessionID]
	if !ok {
		return Dataset{}, false
	}
	if c.now().Sub(d.StoredAt) > c.ttl {
		delete(c.entries, sessionID)
		return Dataset{}, false
	}
	return d, true
}

// Sweep drops every expired entry and returns how many were removed.
// Called periodically by the maintenance scheduler.
func (c *DatasetCache) Sweep() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	cutoff := c.now().Add(-c.ttl)
	removed := 0
	for id, d := range c.entries {
		if d.StoredAt.Before(cutoff) {
			delete(c.entries, id)
			removed++
		}
	}
	return removed
}

func (c *DatasetCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

func (c *DatasetCache) evictOldestLocked() {
	var oldestID string
	var oldest time.Time
	first := true
	for id, d := range c.entries {
		if first || d.StoredAt.Before(oldest) {
			oldestID, oldest = id, d.StoredAt
			first = false
		}
	}
	if oldestID != "" {
		delete(c.entries, oldestID)
	}
}
