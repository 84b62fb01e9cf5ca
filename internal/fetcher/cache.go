package fetcher

import (
	"sync"
	"time"

	"market-sentiment/internal/types"
)

// articleCache stores fetched articles temporarily, keyed by URL
type articleCache struct {
	mu   sync.RWMutex
	data map[string]*cacheEntry
	ttl  time.Duration
	stop chan struct{}
	once sync.Once
}

type cacheEntry struct {
	article   types.Article
	timestamp time.Time
}

// newArticleCache creates a cache and starts its cleanup goroutine.
// A non-positive ttl disables caching.
func newArticleCache(ttl time.Duration) *articleCache {
	cache := &articleCache{
		data: make(map[string]*cacheEntry),
		ttl:  ttl,
		stop: make(chan struct{}),
	}
	if ttl > 0 {
		go cache.cleanupLoop()
	}
	return cache
}

// get retrieves a cached article if still valid
func (c *articleCache) get(url string) (*types.Article, bool) {
	if c.ttl <= 0 {
		return nil, false
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, exists := c.data[url]
	if !exists || time.Since(entry.timestamp) > c.ttl {
		return nil, false
	}

	a := entry.article
	return &a, true
}

// set stores an article in the cache
func (c *articleCache) set(url string, article *types.Article) {
	if c.ttl <= 0 || article == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	c.data[url] = &cacheEntry{
		article:   *article,
		timestamp: time.Now(),
	}
}

// cleanupLoop periodically removes expired entries
func (c *articleCache) cleanupLoop() {
	ticker := time.NewTicker(10 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			c.cleanup()
		case <-c.stop:
			return
		}
	}
}

// cleanup removes expired entries
func (c *articleCache) cleanup() {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now()
	for url, entry := range c.data {
		if now.Sub(entry.timestamp) > c.ttl {
			delete(c.data, url)
		}
	}
}

func (c *articleCache) close() {
	c.once.Do(func() { close(c.stop) })
}

func (c *articleCache) len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.data)
}
