package cache

import (
	"container/list"
	"sync"
	"time"

	"clinicbot/internal/domain"
	"clinicbot/internal/port"
)

// QueryCache is an LRU cache of retrieval results with a TTL. Results are
// keyed by the exact query text and k; the corpus is static for the life
// of the process, so a hit returns what a fresh search would.
type QueryCache struct {
	mu      sync.Mutex
	entries map[cacheKey]*list.Element
	lru     *list.List // front is most recently used
	maxSize int
	ttl     time.Duration
}

type cacheKey struct {
	query string
	k     int
}

type cacheEntry struct {
	key      cacheKey
	results  []domain.ScoredParagraph
	storedAt time.Time
}

func NewQueryCache(maxSize int, ttl time.Duration) *QueryCache {
	if maxSize <= 0 {
		maxSize = 128
	}
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	return &QueryCache{
		entries: make(map[cacheKey]*list.Element, maxSize),
		lru:     list.New(),
		maxSize: maxSize,
		ttl:     ttl,
	}
}

// Get returns a copy of the cached results for query and k.
func (c *QueryCache) Get(query string, k int) ([]domain.ScoredParagraph, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	el, ok := c.entries[cacheKey{query, k}]
	if !ok {
		return nil, false
	}
	entry := el.Value.(*cacheEntry)
	if time.Since(entry.storedAt) > c.ttl {
		c.remove(el)
		return nil, false
	}

	c.lru.MoveToFront(el)
	return cloneResults(entry.results), true
}

// Put stores a copy of results, evicting the least recently used entry
// when full.
func (c *QueryCache) Put(query string, k int, results []domain.ScoredParagraph) {
	results = cloneResults(results)
	key := cacheKey{query, k}

	c.mu.Lock()
	defer c.mu.Unlock()

	if el, ok := c.entries[key]; ok {
		entry := el.Value.(*cacheEntry)
		entry.results = results
		entry.storedAt = time.Now()
		c.lru.MoveToFront(el)
		return
	}

	for c.lru.Len() >= c.maxSize {
		c.remove(c.lru.Back())
	}
	c.entries[key] = c.lru.PushFront(&cacheEntry{key: key, results: results, storedAt: time.Now()})
}

// Invalidate drops every entry.
func (c *QueryCache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries = make(map[cacheKey]*list.Element, c.maxSize)
	c.lru.Init()
}

func (c *QueryCache) Size() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lru.Len()
}

func (c *QueryCache) remove(el *list.Element) {
	c.lru.Remove(el)
	delete(c.entries, el.Value.(*cacheEntry).key)
}

func cloneResults(results []domain.ScoredParagraph) []domain.ScoredParagraph {
	if results == nil {
		return nil
	}
	out := make([]domain.ScoredParagraph, len(results))
	copy(out, results)
	return out
}

// CachedRetriever wraps a Retriever with a QueryCache.
type CachedRetriever struct {
	retriever port.Retriever
	cache     *QueryCache
}

func NewCachedRetriever(retriever port.Retriever, cache *QueryCache) *CachedRetriever {
	return &CachedRetriever{
		retriever: retriever,
		cache:     cache,
	}
}

func (r *CachedRetriever) Retrieve(query string, k int) ([]domain.ScoredParagraph, error) {
	if results, hit := r.cache.Get(query, k); hit {
		return results, nil
	}

	results, err := r.retriever.Retrieve(query, k)
	if err != nil {
		return nil, err
	}

	r.cache.Put(query, k, results)
	return results, nil
}
