package cache

import (
	"log"
	"sync"
	"time"

	"BourseWatch/internal/model"
)

// Loader produces a fresh extraction result.
type Loader func() ([]model.AssetSignal, error)

// SignalCache memoizes the most recent successful extraction for a TTL.
// A Get either returns data younger than the TTL, refreshes, serves the
// last-known-good data when the refresh fails, or propagates the failure
// when nothing was ever cached. The mutex serializes the cron and polling
// goroutines that share the cache.
type SignalCache struct {
	mu   sync.Mutex
	ttl  time.Duration
	load Loader
	now  func() time.Time

	data      []model.AssetSignal
	fetchedAt time.Time
	has       bool
}

// New creates a cache around the given loader.
func New(ttl time.Duration, load Loader) *SignalCache {
	return &SignalCache{ttl: ttl, load: load, now: time.Now}
}

// Get returns the cached signals, refreshing through the loader when the
// TTL has expired.
func (c *SignalCache) Get() ([]model.AssetSignal, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.has && c.now().Sub(c.fetchedAt) < c.ttl {
		return c.data, nil
	}

	data, err := c.load()
	if err != nil {
		if c.has {
			log.Printf("[WARN] refresh failed, serving stale data: %v", err)
			return c.data, nil
		}
		return nil, err
	}

	c.data = data
	c.fetchedAt = c.now()
	c.has = true
	return c.data, nil
}
