package processing

import (
	"image"
	"sync"
)

// ImageCache keeps decoded images keyed by path so object images picked for
// many samples are read from disk once.
//
// ImageCache is safe for concurrent use. Cached images are shared: callers
// must clone before mutating.
type ImageCache struct {
	mu        sync.RWMutex
	images    map[string]*image.NRGBA
	processor *Processor
}

// NewImageCache creates an empty cache that loads through p
func NewImageCache(p *Processor) *ImageCache {
	if p == nil {
		p = NewProcessor()
	}
	return &ImageCache{
		images:    make(map[string]*image.NRGBA),
		processor: p,
	}
}

// Load returns the cached image for path, decoding it on first use
func (c *ImageCache) Load(path string) (*image.NRGBA, error) {
	c.mu.RLock()
	if img, ok := c.images[path]; ok {
		c.mu.RUnlock()
		return img, nil
	}
	c.mu.RUnlock()

	img, err := c.processor.LoadImage(path)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.images[path] = img
	c.mu.Unlock()

	return img, nil
}

// Len returns the number of cached images
func (c *ImageCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.images)
}

// Evict removes a single path from the cache
func (c *ImageCache) Evict(path string) {
	c.mu.Lock()
	delete(c.images, path)
	c.mu.Unlock()
}

// Clear drops every cached image
func (c *ImageCache) Clear() {
	c.mu.Lock()
	c.images = make(map[string]*image.NRGBA)
	c.mu.Unlock()
}
