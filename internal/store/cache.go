package store

import (
	"sync"
	"time"

	"github.com/hyperjump/vanban/internal/models"
)

// ResultCache keeps completed pipeline results in memory for a bounded
// time so result endpoints avoid re-reading exports from disk.
type ResultCache struct {
	mu      sync.RWMutex
	entries map[string]cacheEntry
	ttl     time.Duration
	done    chan struct{}
	once    sync.Once
}

type cacheEntry struct {
	result  *models.Result
	expires time.Time
}

// NewResultCache builds a cache whose entries expire after ttl. A
// background sweeper removes expired entries every sweep interval.
func NewResultCache(ttl, sweep time.Duration) *ResultCache {
	if ttl <= 0 {
		ttl = time.Hour
	}
	if sweep <= 0 {
		sweep = 5 * time.Minute
	}
	c := &ResultCache{
		entries: make(map[string]cacheEntry),
		ttl:     ttl,
		done:    make(chan struct{}),
	}
	go c.sweepLoop(sweep)
	return c
}

// Put stores the result for a document, resetting its expiry.
func (c *ResultCache) Put(documentID string, result *models.Result) {
	c.mu.Lock()
	c.entries[documentID] = cacheEntry{result: result, expires: time.Now().Add(c.ttl)}
	c.mu.Unlock()
}

// Get returns the cached result, or nil when absent or expired.
func (c *ResultCache) Get(documentID string) *models.Result {
	c.mu.RLock()
	entry, ok := c.entries[documentID]
	c.mu.RUnlock()
	if !ok || time.Now().After(entry.expires) {
		return nil
	}
	return entry.result
}

// Delete removes the cached result for a document.
func (c *ResultCache) Delete(documentID string) {
	c.mu.Lock()
	delete(c.entries, documentID)
	c.mu.Unlock()
}

// Len returns the number of live entries.
func (c *ResultCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Close stops the background sweeper.
func (c *ResultCache) Close() {
	c.once.Do(func() { close(c.done) })
}

func (c *ResultCache) sweepLoop(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-c.done:
			return
		case <-ticker.C:
			now := time.Now()
			c.mu.Lock()
			for id, entry := range c.entries {
				if now.After(entry.expires) {
					delete(c.entries, id)
				}
			}
			c.mu.Unlock()
		}
	}
}
