package dashboard

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/ksahdev/stockdeck/internal/models"
)

func TestSearchCacheHitAndNormalization(t *testing.T) {
	cache := newSearchCache(4, time.Minute)
	results := []models.SearchResult{{Symbol: "TCS", Name: "Tata Consultancy"}}

	cache.put("  TCS ", results)

	got, ok := cache.get("tcs")
	assert.True(t, ok)
	assert.Equal(t, results, got)

	_, ok = cache.get("infy")
	assert.False(t, ok)
}

func TestSearchCacheExpiry(t *testing.T) {
	cache := newSearchCache(4, time.Minute)
	cache.now = func() time.Time { return time.Now().Add(-2 * time.Minute) }

	cache.put("tcs", []models.SearchResult{{Symbol: "TCS"}})

	_, ok := cache.get("tcs")
	assert.False(t, ok, "entries older than the ttl are stale")
}

func TestSearchCacheEvictsOldestAboveCap(t *testing.T) {
	cache := newSearchCache(3, time.Minute)

	for i := 0; i < 4; i++ {
		cache.put(fmt.Sprintf("q%d", i), nil)
	}

	assert.Equal(t, 3, cache.len())
	_, ok := cache.get("q0")
	assert.False(t, ok, "oldest entry evicted")
	_, ok = cache.get("q3")
	assert.True(t, ok)
}

func TestSearchCacheConcurrentAccess(t *testing.T) {
	cache := newSearchCache(8, time.Minute)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				q := fmt.Sprintf("q%d", (i+j)%12)
				cache.put(q, []models.SearchResult{{Symbol: q}})
				cache.get(q)
			}
		}(i)
	}
	wg.Wait()

	assert.LessOrEqual(t, cache.len(), 8)
}

func TestSearchCacheUpdateDoesNotGrow(t *testing.T) {
	cache := newSearchCache(2, time.Minute)
	cache.put("a", nil)
	cache.put("b", nil)
	cache.put("a", []models.SearchResult{{Symbol: "A"}})

	assert.Equal(t, 2, cache.len())
	_, ok := cache.get("b")
	assert.True(t, ok, "updating an existing key must not evict")
}
