package fetcher

import (
	"context"
	"sync"
	"sync/atomic"
	"time"
)

// PageCache is a concurrent-safe LRU cache of fetched pages with TTL
// expiration. It is shared across the extraction and history stages so a URL
// fetched by one stage is not re-fetched by the next within the TTL window.
type PageCache struct {
	mu         sync.Mutex
	entries    map[string]*cacheEntry
	order      []string // LRU order: front=oldest, back=newest
	maxEntries int
	ttl        time.Duration
	hits       atomic.Int64
	misses     atomic.Int64
}

type cacheEntry struct {
	page      *Page
	createdAt time.Time
}

// CacheStats contains cache performance counters.
type CacheStats struct {
	Entries    int     `json:"entries"`
	MaxEntries int     `json:"max_entries"`
	Hits       int64   `json:"hits"`
	Misses     int64   `json:"misses"`
	HitRate    float64 `json:"hit_rate"`
}

// NewPageCache creates a PageCache with the given capacity and TTL.
func NewPageCache(maxEntries int, ttl time.Duration) *PageCache {
	if maxEntries <= 0 {
		maxEntries = 2000
	}
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &PageCache{
		entries:    make(map[string]*cacheEntry),
		maxEntries: maxEntries,
		ttl:        ttl,
	}
}

// Get retrieves a cached page. Returns nil on miss or expiration.
func (c *PageCache) Get(url string) *Page {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[url]
	if !ok {
		c.misses.Add(1)
		return nil
	}

	if time.Since(entry.createdAt) > c.ttl {
		delete(c.entries, url)
		c.removeFromOrder(url)
		c.misses.Add(1)
		return nil
	}

	// Move to back (most recently used).
	c.removeFromOrder(url)
	c.order = append(c.order, url)
	c.hits.Add(1)
	return entry.page
}

// Put stores a page, evicting the oldest entry if at capacity.
func (c *PageCache) Put(url string, page *Page) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.entries[url]; ok {
		c.entries[url] = &cacheEntry{page: page, createdAt: time.Now()}
		c.removeFromOrder(url)
		c.order = append(c.order, url)
		return
	}

	for len(c.entries) >= c.maxEntries && len(c.order) > 0 {
		oldest := c.order[0]
		c.order = c.order[1:]
		delete(c.entries, oldest)
	}

	c.entries[url] = &cacheEntry{page: page, createdAt: time.Now()}
	c.order = append(c.order, url)
}

// Stats returns a snapshot of cache counters.
func (c *PageCache) Stats() CacheStats {
	c.mu.Lock()
	entries := len(c.entries)
	c.mu.Unlock()

	hits := c.hits.Load()
	misses := c.misses.Load()
	total := hits + misses
	rate := 0.0
	if total > 0 {
		rate = float64(hits) / float64(total)
	}
	return CacheStats{
		Entries:    entries,
		MaxEntries: c.maxEntries,
		Hits:       hits,
		Misses:     misses,
		HitRate:    rate,
	}
}

func (c *PageCache) removeFromOrder(key string) {
	for i, k := range c.order {
		if k == key {
			c.order = append(c.order[:i], c.order[i+1:]...)
			return
		}
	}
}

// CachingClient wraps a Client with a PageCache. Only successful fetches are
// cached; failures always hit the underlying client on the next call.
type CachingClient struct {
	inner Client
	cache *PageCache
}

// NewCachingClient wraps inner with the given cache.
func NewCachingClient(inner Client, cache *PageCache) *CachingClient {
	return &CachingClient{inner: inner, cache: cache}
}

// FetchPage returns the cached page when fresh, otherwise delegates to the
// underlying client and caches the result.
func (c *CachingClient) FetchPage(ctx context.Context, url string) (*Page, error) {
	if page := c.cache.Get(url); page != nil {
		return page, nil
	}
	page, err := c.inner.FetchPage(ctx, url)
	if err != nil {
		return nil, err
	}
	c.cache.Put(url, page)
	return page, nil
}

// Stats exposes the underlying cache counters.
func (c *CachingClient) Stats() CacheStats {
	return c.cache.Stats()
}
