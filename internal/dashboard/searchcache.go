package dashboard

import (
	"strings"
	"sync"
	"time"

	"github.com/ksahdev/stockdeck/internal/common"
	"github.com/ksahdev/stockdeck/internal/models"
)

// searchCache holds recent search results keyed by normalized query.
// Capacity is bounded: inserting above cap evicts the oldest entry,
// so a long session cannot grow the cache without limit. Lookups run
// on debounce timer goroutines, so access is guarded by its own lock.
type searchCache struct {
	mu      sync.Mutex
	cap     int
	ttl     time.Duration
	entries map[string]searchEntry
	order   []string // insertion order, oldest first
	now     func() time.Time
}

type searchEntry struct {
	results   []models.SearchResult
	timestamp time.Time
}

func newSearchCache(capacity int, ttl time.Duration) *searchCache {
	if capacity <= 0 {
		capacity = 128
	}
	return &searchCache{
		cap:     capacity,
		ttl:     ttl,
		entries: make(map[string]searchEntry),
		now:     time.Now,
	}
}

// normalizeQuery is the cache key form: trimmed, lowercased.
func normalizeQuery(query string) string {
	return strings.ToLower(strings.TrimSpace(query))
}

// get returns cached results when present and still fresh.
func (c *searchCache) get(query string) ([]models.SearchResult, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[normalizeQuery(query)]
	if !ok || !common.IsFresh(entry.timestamp, c.ttl) {
		return nil, false
	}
	return entry.results, true
}

// put stores results, evicting the oldest entry when full.
func (c *searchCache) put(query string, results []models.SearchResult) {
	c.mu.Lock()
	defer c.mu.Unlock()

	key := normalizeQuery(query)
	if _, exists := c.entries[key]; !exists {
		for len(c.order) >= c.cap {
			oldest := c.order[0]
			c.order = c.order[1:]
			delete(c.entries, oldest)
		}
		c.order = append(c.order, key)
	}
	c.entries[key] = searchEntry{results: results, timestamp: c.now()}
}

func (c *searchCache) len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
