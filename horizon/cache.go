package horizon

import (
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

type staticKey struct {
	size  int
	style Style
}

// StaticCache hands out shared Statics so that instruments with the same
// size and style reuse one foreground bitmap, for hosts that show several
// instruments. It is safe for concurrent use.
type StaticCache struct {
	cache *expirable.LRU[staticKey, *Static]
}

// NewStaticCache keeps up to n Statics, each for at most ttl after it was
// built; a zero ttl never expires them.
func NewStaticCache(n int, ttl time.Duration) *StaticCache {
	return &StaticCache{cache: expirable.NewLRU[staticKey, *Static](n, nil, ttl)}
}

// Get returns the cached Static for size and style, building it on a miss.
// Concurrent misses may each build one; the last to finish is kept.
func (c *StaticCache) Get(size int, style Style) (*Static, error) {
	k := staticKey{size: size, style: style}
	if s, ok := c.cache.Get(k); ok {
		return s, nil
	}

	s, err := NewStatic(size, style)
	if err != nil {
		return nil, err
	}
	c.cache.Add(k, s)
	return s, nil
}

// Len is the number of cached Statics.
func (c *StaticCache) Len() int {
	return c.cache.Len()
}
