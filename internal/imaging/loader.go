package imaging

import (
	"fmt"
	"os"
	"sync"
)

// ImageCache provides thread-safe caching of decoded images to avoid redundant
// disk reads and float conversion.
//
// Images are keyed by the exact path string given to Load. The cached *Image
// is shared: callers that need to modify pixels must Clone it first. The
// pipeline does this when an image becomes its input.
//
// # Memory Management
//
// Float images take 16 bytes per pixel. Cached images stay in memory until
// removed with Evict or Clear.
//
// # Example Usage
//
//	cache := imaging.NewImageCache()
//	img, err := cache.Load("/path/to/plate.tif")
//	if err != nil {
//	    return err
//	}
//	p.SetInput(img)
type ImageCache struct {
	mu     sync.RWMutex
	images map[string]*Image
}

// NewImageCache creates and initializes a new empty image cache.
func NewImageCache() *ImageCache {
	return &ImageCache{
		images: make(map[string]*Image),
	}
}

// Load retrieves an image from the cache or decodes it from disk.
//
// Returns an error if the file does not exist or is not a supported image.
func (c *ImageCache) Load(path string) (*Image, error) {
	c.mu.RLock()
	if img, ok := c.images[path]; ok {
		c.mu.RUnlock()
		return img, nil
	}
	c.mu.RUnlock()

	img, err := Open(path)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.images[path] = img
	c.mu.Unlock()

	return img, nil
}

// Evict removes a specific image from the cache by its path.
// If the path is not in the cache, this method does nothing.
func (c *ImageCache) Evict(path string) {
	c.mu.Lock()
	delete(c.images, path)
	c.mu.Unlock()
}

// Len returns the number of cached images.
func (c *ImageCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.images)
}

// ImageInfo contains metadata about a loaded image file.
type ImageInfo struct {
	// Width is the image width in pixels.
	Width int `json:"width"`

	// Height is the image height in pixels.
	Height int `json:"height"`

	// Channels is the number of channels of the decoded float buffer.
	Channels int `json:"channels"`

	// Format is the detected file format: "png", "jpeg", "gif", "tiff",
	// "bmp" or "unknown". Detection is based on file extension.
	Format string `json:"format"`

	// ColorDepth indicates the bit depth per channel of the source file:
	// "8-bit" or "16-bit".
	ColorDepth string `json:"color_depth"`

	// HasAlpha indicates whether the source carries an alpha channel.
	HasAlpha bool `json:"has_alpha"`

	// FileSizeBytes is the size of the image file on disk in bytes.
	FileSizeBytes int64 `json:"file_size_bytes"`
}

// LoadImageInfo loads an image through the cache and returns its metadata.
func LoadImageInfo(cache *ImageCache, path string) (*ImageInfo, error) {
	img, err := cache.Load(path)
	if err != nil {
		return nil, err
	}

	stat, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat file: %w", err)
	}

	return &ImageInfo{
		Width:         img.Width,
		Height:        img.Height,
		Channels:      img.Channels,
		Format:        img.Source.Format,
		ColorDepth:    img.Source.ColorDepth,
		HasAlpha:      img.Source.HasAlpha,
		FileSizeBytes: stat.Size(),
	}, nil
}
