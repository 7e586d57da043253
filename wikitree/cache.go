package wikitree

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/codeGROOVE-dev/sfcache"
	"github.com/codeGROOVE-dev/sfcache/pkg/persist/localfs"
	"github.com/codeGROOVE-dev/sfcache/pkg/store/null"
)

// Cacher allows external cache implementations for sharing across packages.
type Cacher interface {
	GetSet(ctx context.Context, key string, fetch func(context.Context) ([]byte, error), ttl ...time.Duration) ([]byte, error)
	TTL() time.Duration
}

// Cache wraps sfcache for API response caching with thundering herd
// prevention.
type Cache struct {
	*sfcache.TieredCache[string, []byte]

	ttl time.Duration
}

// NewCache creates a Cache with disk persistence at ~/.cache/bridgefinder.
func NewCache(ttl time.Duration) (*Cache, error) {
	cacheDir, err := os.UserCacheDir()
	if err != nil {
		cacheDir = os.TempDir()
	}
	return NewCacheWithPath(ttl, filepath.Join(cacheDir, "bridgefinder"))
}

// NewNullCache creates a Cache with no persistence (all gets miss, all sets discard).
func NewNullCache() *Cache {
	tc, err := sfcache.NewTiered[string, []byte](null.New[string, []byte]())
	if err != nil {
		panic("sfcache.NewTiered with null store: " + err.Error())
	}
	return &Cache{TieredCache: tc, ttl: 0}
}

// NewCacheWithPath creates a Cache with disk persistence at the specified path.
func NewCacheWithPath(ttl time.Duration, cachePath string) (*Cache, error) {
	if err := os.MkdirAll(cachePath, 0o750); err != nil {
		return nil, fmt.Errorf("create cache directory: %w", err)
	}

	persist, err := localfs.New[string, []byte]("bridgefinder", cachePath)
	if err != nil {
		return nil, fmt.Errorf("create persistence layer: %w", err)
	}

	tc, err := sfcache.NewTiered[string, []byte](persist, sfcache.TTL(ttl))
	if err != nil {
		return nil, fmt.Errorf("create cache: %w", err)
	}

	return &Cache{TieredCache: tc, ttl: ttl}, nil
}

// TTL returns the default TTL for cache entries.
func (c *Cache) TTL() time.Duration {
	return c.ttl
}

// requestKey derives a cache key from the endpoint and the encoded form body.
func requestKey(base, form string) string {
	hash := sha256.Sum256([]byte(base + "?" + form))
	return hex.EncodeToString(hash[:])
}
