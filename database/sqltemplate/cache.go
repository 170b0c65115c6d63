package sqltemplate

import (
	lru "github.com/hashicorp/golang-lru/v2"
)

// scanCache remembers the tokens of recently built templates.  Cached token
// slices are shared between builds and must not be modified.
type scanCache struct {
	cache *lru.Cache[string, []Token]
}

func newScanCache(size int) (*scanCache, error) {
	cache, err := lru.New[string, []Token](size)
	if err != nil {
		return nil, err
	}
	return &scanCache{cache: cache}, nil
}

// scan returns the cached tokens of template, scanning it on a miss.
func (c *scanCache) scan(template string) (tokens []Token, hit bool) {
	if tokens, ok := c.cache.Get(template); ok {
		return tokens, true
	}
	tokens = Scan(template)
	c.cache.Add(template, tokens)
	return tokens, false
}

func (c *scanCache) len() int {
	return c.cache.Len()
}
