package cache

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQueryCacheEvictsLeastRecentlyUsed(t *testing.T) {
	c := NewQueryCache(2)
	c.Set(1, &Compiled{SQL: "SELECT 1"})
	c.Set(2, &Compiled{SQL: "SELECT 2"})

	_, ok := c.Get(1)
	require.True(t, ok)

	c.Set(3, &Compiled{SQL: "SELECT 3"})
	assert.Equal(t, 2, c.Len())

	_, ok = c.Get(2)
	assert.False(t, ok)

	got, ok := c.Get(3)
	require.True(t, ok)
	assert.Equal(t, "SELECT 3", got.SQL)

	hits, misses := Stats(c)
	assert.Equal(t, uint64(2), hits)
	assert.Equal(t, uint64(1), misses)
}

func TestQueryCacheDefaultSize(t *testing.T) {
	c := NewQueryCache(0)
	for i := 0; i < DefaultSize+10; i++ {
		c.Set(uint64(i), &Compiled{})
	}
	assert.Equal(t, DefaultSize, c.Len())
}
