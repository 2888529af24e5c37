package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"sync"
	"time"

	"knowledge/internal/domain"
)

// QueryCache memoizes retrieval results per (query, k). Entries are
// stamped with the corpus generation that produced them, so a rebuild
// swap invalidates the whole cache without touching it.
type QueryCache struct {
	mu      sync.RWMutex
	entries map[string]*cacheEntry
	order   []string
	maxSize int
	ttl     time.Duration
}

type cacheEntry struct {
	result     *domain.RetrievalResult
	timestamp  time.Time
	generation uint64
}

// NewQueryCache creates a cache holding at most maxSize results for ttl.
func NewQueryCache(maxSize int, ttl time.Duration) *QueryCache {
	if maxSize <= 0 {
		maxSize = 100
	}
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &QueryCache{
		entries: make(map[string]*cacheEntry),
		order:   make([]string, 0, maxSize),
		maxSize: maxSize,
		ttl:     ttl,
	}
}

func cacheKey(query string, k int) string {
	data := []byte(query)
	data = append(data, byte(k>>8), byte(k))
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:16])
}

// Get returns the cached result for the query if it is fresh and was
// produced against the given corpus generation.
func (c *QueryCache) Get(query string, k int, generation uint64) (*domain.RetrievalResult, bool) {
	key := cacheKey(query, k)

	c.mu.RLock()
	entry, exists := c.entries[key]
	c.mu.RUnlock()

	if !exists {
		return nil, false
	}
	if entry.generation != generation || time.Since(entry.timestamp) > c.ttl {
		return nil, false
	}
	return entry.result, true
}

// Put stores a result stamped with the corpus generation.
func (c *QueryCache) Put(query string, k int, generation uint64, result *domain.RetrievalResult) {
	key := cacheKey(query, k)

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.entries[key]; !exists {
		if len(c.order) >= c.maxSize {
			oldest := c.order[0]
			c.order = c.order[1:]
			delete(c.entries, oldest)
		}
		c.order = append(c.order, key)
	}

	c.entries[key] = &cacheEntry{
		result:     result,
		timestamp:  time.Now(),
		generation: generation,
	}
}

// Len returns the number of cached entries.
func (c *QueryCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
