package explain

import (
	"container/list"
	"context"
	"sync"
)

// Cache is a bounded LRU map from request keys to explanations. It is safe for concurrent use.
type Cache struct {
	mu       sync.Mutex
	capacity int
	items    map[string]*list.Element
	lru      *list.List
}

type cacheEntry struct {
	key  string
	text string
}

// NewCache returns a cache holding at most capacity entries. A capacity below 1 is treated as 1.
func NewCache(capacity int) *Cache {
	return &Cache{
		capacity: max(capacity, 1),
		items:    make(map[string]*list.Element),
		lru:      list.New(),
	}
}

// Get returns the cached explanation for key and marks it recently used.
func (c *Cache) Get(key string) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	elem, ok := c.items[key]
	if !ok {
		return "", false
	}
	c.lru.MoveToFront(elem)
	return elem.Value.(*cacheEntry).text, true
}

// Put stores text for key, evicting the least recently used entry when full.
func (c *Cache) Put(key, text string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if elem, ok := c.items[key]; ok {
		elem.Value.(*cacheEntry).text = text
		c.lru.MoveToFront(elem)
		return
	}
	if c.lru.Len() >= c.capacity {
		if oldest := c.lru.Back(); oldest != nil {
			c.lru.Remove(oldest)
			delete(c.items, oldest.Value.(*cacheEntry).key)
		}
	}
	c.items[key] = c.lru.PushFront(&cacheEntry{key: key, text: text})
}

func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lru.Len()
}

// Cached wraps an Explainer with a Cache. Errors are not cached.
type Cached struct {
	Explainer Explainer
	Cache     *Cache
}

func (c Cached) Explain(ctx context.Context, req Request) (string, error) {
	key := req.Key()
	if text, ok := c.Cache.Get(key); ok {
		return text, nil
	}
	text, err := c.Explainer.Explain(ctx, req)
	if err != nil {
		return "", err
	}
	c.Cache.Put(key, text)
	return text, nil
}
