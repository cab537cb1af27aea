package cache

import (
	"sync/atomic"

	lru "github.com/hashicorp/golang-lru/v2"
)

// Compiled is a rendered statement: %s placeholders and their parameters.
type Compiled struct {
	SQL  string
	Args []any
}

// QueryCache maps a statement fingerprint to its compiled form.
type QueryCache interface {
	Get(fingerprint uint64) (*Compiled, bool)
	Set(fingerprint uint64, c *Compiled)
	Len() int
}

// DefaultSize is used when a non-positive size is requested.
const DefaultSize = 1024

type lruQueryCache struct {
	cache  *lru.Cache[uint64, *Compiled]
	hits   atomic.Uint64
	misses atomic.Uint64
}

// NewQueryCache returns an LRU cache holding at most size statements.
func NewQueryCache(size int) QueryCache {
	if size <= 0 {
		size = DefaultSize
	}
	c, _ := lru.New[uint64, *Compiled](size)
	return &lruQueryCache{cache: c}
}

func (c *lruQueryCache) Get(fp uint64) (*Compiled, bool) {
	q, ok := c.cache.Get(fp)
	if ok {
		c.hits.Add(1)
	} else {
		c.misses.Add(1)
	}
	return q, ok
}

func (c *lruQueryCache) Set(fp uint64, q *Compiled) {
	c.cache.Add(fp, q)
}

func (c *lruQueryCache) Len() int {
	return c.cache.Len()
}

// Stats reports hit and miss counts of caches built by NewQueryCache.
func Stats(c QueryCache) (hits, misses uint64) {
	if l, ok := c.(*lruQueryCache); ok {
		return l.hits.Load(), l.misses.Load()
	}
	return 0, 0
}
