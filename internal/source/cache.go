package source

import (
	"context"
	"log/slog"
	"sync"

	"github.com/ironsheep/photo-redact/internal/logging"
)

// Cache memoises decoded images by target in front of another Source.
//
// Cache is safe for concurrent use by multiple goroutines. Every Acquire
// returns an independent copy, so sessions editing the same target never share
// pixels with each other or with the cache.
//
// # Memory Management
//
// Cached images remain in memory until explicitly removed via Evict() or
// Clear().
type Cache struct {
	next   Source
	logger *slog.Logger

	mu     sync.RWMutex
	images map[string]*Decoded
}

// NewCache wraps next with a decoded-image cache.
func NewCache(next Source) *Cache {
	return &Cache{
		next:   next,
		logger: logging.Nop(),
		images: make(map[string]*Decoded),
	}
}

// WithLogger sets the logger used for cache hits and misses.
func (c *Cache) WithLogger(l *slog.Logger) *Cache {
	if l != nil {
		c.logger = l
	}
	return c
}

// Acquire returns a copy of the cached image for target, acquiring it from the
// wrapped source on a miss. Failed acquisitions are not cached.
func (c *Cache) Acquire(ctx context.Context, target string) (*Decoded, error) {
	c.mu.RLock()
	d, ok := c.images[target]
	c.mu.RUnlock()
	if ok {
		c.logger.Debug("image cache hit", "target", target)
		return d.clone(), nil
	}

	d, err := c.next.Acquire(ctx, target)
	if err != nil {
		return nil, err
	}
	c.logger.Debug("image cache miss", "target", target, "width", d.Width(), "height", d.Height())

	c.mu.Lock()
	c.images[target] = d
	c.mu.Unlock()

	return d.clone(), nil
}

// Len returns the number of cached images.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.images)
}

// Evict removes target from the cache. Unknown targets are ignored.
func (c *Cache) Evict(target string) {
	c.mu.Lock()
	delete(c.images, target)
	c.mu.Unlock()
}

// Clear removes every cached image.
func (c *Cache) Clear() {
	c.mu.Lock()
	c.images = make(map[string]*Decoded)
	c.mu.Unlock()
}
