package cache

import (
	"context"
	"sync"
	"time"

	appshipping "github.com/commerceos/backend/internal/application/shipping"
	"github.com/commerceos/backend/internal/domain/courier"
)

// InMemoryQuoteCache is a process-local quote cache for single-instance
// deployments and tests. Entries expire lazily on read.
type InMemoryQuoteCache struct {
	mu      sync.RWMutex
	entries map[string]quoteEntry
}

type quoteEntry struct {
	quotes    []courier.Quote
	expiresAt time.Time
}

// NewInMemoryQuoteCache creates an empty in-memory quote cache
func NewInMemoryQuoteCache() *InMemoryQuoteCache {
	return &InMemoryQuoteCache{entries: make(map[string]quoteEntry)}
}

// Get retrieves cached quotes, dropping expired entries
func (c *InMemoryQuoteCache) Get(ctx context.Context, key string) ([]courier.Quote, bool) {
	c.mu.RLock()
	entry, ok := c.entries[key]
	c.mu.RUnlock()
	if !ok {
		return nil, false
	}
	if time.Now().After(entry.expiresAt) {
		c.mu.Lock()
		delete(c.entries, key)
		c.mu.Unlock()
		return nil, false
	}
	return entry.quotes, true
}

// Set stores quotes with a TTL
func (c *InMemoryQuoteCache) Set(ctx context.Context, key string, quotes []courier.Quote, ttl time.Duration) {
	c.mu.Lock()
	c.entries[key] = quoteEntry{quotes: quotes, expiresAt: time.Now().Add(ttl)}
	c.mu.Unlock()
}

// Ensure InMemoryQuoteCache implements the application port
var _ appshipping.QuoteCache = (*InMemoryQuoteCache)(nil)
