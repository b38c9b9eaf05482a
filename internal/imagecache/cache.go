// Package imagecache provides a session-lifetime, content-addressed cache of
// downloaded image bytes keyed by a hash of the source URL.
package imagecache

import (
	"bytes"
	"context"
	"crypto/md5"
	"encoding/hex"
	"strings"
	"sync"
	"time"

	"github.com/disintegration/imaging"
	"github.com/go-resty/resty/v2"
)

// DefaultTTL is how long a cached entry is served without revalidation.
const DefaultTTL = 24 * time.Hour

type entry struct {
	data        []byte
	contentType string
	fetchedAt   time.Time
}

// Cache is an in-process image byte cache. Entries expire logically after
// the TTL but are only evicted lazily on the next access to the same key;
// there is no background sweep and no size-based eviction.
type Cache struct {
	client *resty.Client
	ttl    time.Duration
	now    func() time.Time

	mu      sync.Mutex
	entries map[string]entry
}

// New creates a cache using the given HTTP client. A non-positive ttl falls
// back to DefaultTTL.
func New(client *resty.Client, ttl time.Duration) *Cache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Cache{
		client:  client,
		ttl:     ttl,
		now:     time.Now,
		entries: make(map[string]entry),
	}
}

// Key returns the cache key for a URL: the hex md5 of the URL string.
func Key(url string) string {
	sum := md5.Sum([]byte(url))
	return hex.EncodeToString(sum[:])
}

// EnsureCached fetches and stores the image at url unless a fresh entry
// already exists. Corrupt or non-image responses are discarded silently;
// no error is ever surfaced to the caller.
func (c *Cache) EnsureCached(ctx context.Context, url string) {
	if url == "" {
		return
	}
	key := Key(url)

	c.mu.Lock()
	if e, ok := c.entries[key]; ok && c.now().Sub(e.fetchedAt) < c.ttl {
		c.mu.Unlock()
		return
	}
	c.mu.Unlock()

	resp, err := c.client.R().SetContext(ctx).Get(url)
	if err != nil {
		return
	}
	contentType := resp.Header().Get("Content-Type")
	if resp.StatusCode() < 200 || resp.StatusCode() >= 300 ||
		!strings.HasPrefix(contentType, "image/") {
		return
	}
	data := resp.Body()
	// Verify the bytes decode as a real image before storing.
	if _, err := imaging.Decode(bytes.NewReader(data)); err != nil {
		return
	}

	c.mu.Lock()
	c.entries[key] = entry{data: data, contentType: contentType, fetchedAt: c.now()}
	c.mu.Unlock()
}

// GetCached returns the cached bytes and content type for url, if a fresh
// entry exists. Expired entries are evicted on access.
func (c *Cache) GetCached(url string) ([]byte, string, bool) {
	if url == "" {
		return nil, "", false
	}
	key := Key(url)

	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[key]
	if !ok {
		return nil, "", false
	}
	if c.now().Sub(e.fetchedAt) >= c.ttl {
		delete(c.entries, key)
		return nil, "", false
	}
	return e.data, e.contentType, true
}
