// Package cache provides a generic fixed-capacity LRU cache.
//
// It backs the bounded incidental caches in the rendering pipeline: the
// color-conversion cache in mark builders (colors may be computed per datum,
// so the cache must not grow without bound) and the compiled-expression cache
// in param mediators.
//
// The cache is not safe for concurrent use. The pipeline runs on one logical
// thread, so callers need no synchronization.
package cache

// node is an entry in the doubly-linked recency list.
// Head is most recently used, tail is least recently used.
type node[K comparable, V any] struct {
	key   K
	value V
	prev  *node[K, V]
	next  *node[K, V]
}

// Cache is a fixed-capacity LRU cache. Inserting into a full cache evicts
// the least recently used entry; Get refreshes recency.
type Cache[K comparable, V any] struct {
	capacity int
	entries  map[K]*node[K, V]
	head     *node[K, V]
	tail     *node[K, V]
}

// New creates a cache holding at most capacity entries.
// Capacities below 1 are raised to 1.
func New[K comparable, V any](capacity int) *Cache[K, V] {
	if capacity < 1 {
		capacity = 1
	}
	return &Cache[K, V]{
		capacity: capacity,
		entries:  make(map[K]*node[K, V], capacity),
	}
}

// Capacity returns the maximum number of entries.
func (c *Cache[K, V]) Capacity() int { return c.capacity }

// Len returns the current number of entries.
func (c *Cache[K, V]) Len() int { return len(c.entries) }

// Get returns the cached value and marks it most recently used.
func (c *Cache[K, V]) Get(key K) (V, bool) {
	n, found := c.entries[key]
	if !found {
		var zero V
		return zero, false
	}
	c.moveToFront(n)
	return n.value, true
}

// Set stores a value, evicting the least recently used entry when the
// cache is full.
func (c *Cache[K, V]) Set(key K, value V) {
	if n, found := c.entries[key]; found {
		n.value = value
		c.moveToFront(n)
		return
	}
	if len(c.entries) >= c.capacity {
		c.evictOldest()
	}
	n := &node[K, V]{key: key, value: value}
	c.entries[key] = n
	c.pushFront(n)
}

// GetOrCreate returns the cached value for key, calling create and caching
// its result on a miss.
func (c *Cache[K, V]) GetOrCreate(key K, create func() V) V {
	if v, found := c.Get(key); found {
		return v
	}
	v := create()
	c.Set(key, v)
	return v
}

// Clear removes all entries.
func (c *Cache[K, V]) Clear() {
	clear(c.entries)
	c.head = nil
	c.tail = nil
}

func (c *Cache[K, V]) evictOldest() {
	if c.tail == nil {
		return
	}
	old := c.tail
	c.unlink(old)
	delete(c.entries, old.key)
}

func (c *Cache[K, V]) pushFront(n *node[K, V]) {
	n.next = c.head
	n.prev = nil
	if c.head != nil {
		c.head.prev = n
	}
	c.head = n
	if c.tail == nil {
		c.tail = n
	}
}

func (c *Cache[K, V]) moveToFront(n *node[K, V]) {
	if n == c.head {
		return
	}
	c.unlink(n)
	c.pushFront(n)
}

func (c *Cache[K, V]) unlink(n *node[K, V]) {
	if n.prev != nil {
		n.prev.next = n.next
	} else {
		c.head = n.next
	}
	if n.next != nil {
		n.next.prev = n.prev
	} else {
		c.tail = n.prev
	}
	n.prev = nil
	n.next = nil
}
