package imaging

import (
	"crypto/sha256"
	"encoding/hex"

	lru "github.com/hashicorp/golang-lru/v2"
)

// DefaultCacheEntries bounds the preview cache
const DefaultCacheEntries = 32

// CachedThumbnailer memoizes previews by content hash, so re-selecting an
// unchanged file skips the decode and resize
type CachedThumbnailer struct {
	thumbnailer *Thumbnailer
	cache       *lru.Cache[string, string]
}

// NewCachedThumbnailer wraps a Thumbnailer with an LRU of entries previews
func NewCachedThumbnailer(maxSize, entries int) (*CachedThumbnailer, error) {
	if entries <= 0 {
		entries = DefaultCacheEntries
	}
	cache, err := lru.New[string, string](entries)
	if err != nil {
		return nil, err
	}
	return &CachedThumbnailer{thumbnailer: NewThumbnailer(maxSize), cache: cache}, nil
}

// Preview returns the cached data URL for data or renders a new one.
// Failures are not cached.
func (c *CachedThumbnailer) Preview(data []byte) (string, error) {
	sum := sha256.Sum256(data)
	key := hex.EncodeToString(sum[:])

	if preview, ok := c.cache.Get(key); ok {
		return preview, nil
	}

	preview, err := c.thumbnailer.Preview(data)
	if err != nil {
		return "", err
	}
	c.cache.Add(key, preview)
	return preview, nil
}

// Len reports how many previews are cached
func (c *CachedThumbnailer) Len() int {
	return c.cache.Len()
}
