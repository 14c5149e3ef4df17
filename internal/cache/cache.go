// Package cache keeps rendered search responses keyed by list revision and
// query, so repeated keystrokes on an unchanged list skip re-rendering.
package cache

import (
	"strconv"
	"strings"

	"github.com/coocood/freecache"
	"github.com/rs/zerolog/log"
)

type SearchCache interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte)
}

type FreeCache struct {
	cache *freecache.Cache
	ttl   int
}

// New returns a freecache-backed cache of sizeMB megabytes, or a no-op cache
// when sizeMB is zero.
func New(sizeMB int) SearchCache {
	if sizeMB <= 0 {
		log.Info().Msg("search cache disabled")
		return &noopCache{}
	}

	log.Info().Int("size_mb", sizeMB).Msg("search cache initialized")

	return &FreeCache{
		cache: freecache.NewCache(sizeMB * 1024 * 1024),
		ttl:   300,
	}
}

// Key builds a cache key. Queries are normalized the same way the search
// itself normalizes them.
func Key(revision uint64, query string) string {
	return strconv.FormatUint(revision, 10) + "|" + strings.ToLower(strings.TrimSpace(query))
}

func (c *FreeCache) Get(key string) ([]byte, bool) {
	val, err := c.cache.Get([]byte(key))
	if err != nil {
		return nil, false
	}
	return val, true
}

func (c *FreeCache) Set(key string, value []byte) {
	if err := c.cache.Set([]byte(key), value, c.ttl); err != nil {
		log.Debug().Err(err).Str("key", key).Msg("search cache set failed")
	}
}

type noopCache struct{}

func (n *noopCache) Get(_ string) ([]byte, bool) { return nil, false }
func (n *noopCache) Set(_ string, _ []byte)      {}
