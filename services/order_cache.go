package services

import (
	"fmt"
	"sync"
	"time"

	"github.com/ella-marsh/handyhub-api/models"
)

// OrderCache is a short-lived read-through cache in front of the ledger's
// read operations, keyed by query shape. It is invalidated wholesale on every
// successful mutation to any order, and it lives entirely outside the
// transactional core: correctness never depends on a hit.
type OrderCache struct {
	mu      sync.RWMutex
	entries map[string]orderCacheEntry
	ttl     time.Duration
}

type orderCacheEntry struct {
	views     []OrderView
	expiresAt time.Time
}

// DefaultOrderCacheTTL bounds how stale a cached read can get even without a
// mutation
const DefaultOrderCacheTTL = 30 * time.Second

// NewOrderCache creates a cache with the given entry TTL
func NewOrderCache(ttl time.Duration) *OrderCache {
	return &OrderCache{
		entries: make(map[string]orderCacheEntry),
		ttl:     ttl,
	}
}

// Cache keys, one per read query shape
func orderCacheKeyAll() string                           { return "all" }
func orderCacheKeyID(id uint) string                     { return fmt.Sprintf("id:%d", id) }
func orderCacheKeyCustomer(customerID uint) string       { return fmt.Sprintf("customer:%d", customerID) }
func orderCacheKeyProvider(providerID uint) string       { return fmt.Sprintf("provider:%d", providerID) }
func orderCacheKeyStatus(status models.OrderStatus) string { return fmt.Sprintf("status:%s", status) }

// Get returns the cached views for a key, or false when absent or expired
func (c *OrderCache) Get(key string) ([]OrderView, bool) {
	c.mu.RLock()
	entry, ok := c.entries[key]
	c.mu.RUnlock()

	if !ok || time.Now().After(entry.expiresAt) {
		return nil, false
	}

	// Copy so callers cannot mutate the cached slice
	views := make([]OrderView, len(entry.views))
	copy(views, entry.views)
	return views, true
}

// Set stores views under a key
func (c *OrderCache) Set(key string, views []OrderView) {
	stored := make([]OrderView, len(views))
	copy(stored, views)

	c.mu.Lock()
	c.entries[key] = orderCacheEntry{
		views:     stored,
		expiresAt: time.Now().Add(c.ttl),
	}
	c.mu.Unlock()
}

// Invalidate drops every entry. Called after each successful order mutation.
func (c *OrderCache) Invalidate() {
	c.mu.Lock()
	c.entries = make(map[string]orderCacheEntry)
	c.mu.Unlock()
}

// Len returns the number of live entries (expired entries included until
// their next Get)
func (c *OrderCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
