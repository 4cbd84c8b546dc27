// Package texture loads panorama images from disk or the network and turns them into
// RGBA staging data for the renderer. Large images are downscaled to the renderer's
// maximum texture width and the result can be cached on disk as webp.
package texture

import (
	"context"
	"fmt"
	"log"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/Carmen-Shannon/oxy-explorer/common"
)

// DefaultMaxWidth is the widest texture the loader hands to the renderer.
const DefaultMaxWidth = 8192

type loaderImpl struct {
	mu sync.RWMutex

	maxWidth int
	cacheDir string

	textureCache map[string]*common.TextureStagingData

	file loaderBackend
	http loaderBackend
}

// Loader defines the interface for loading and caching panorama textures.
// Sources are either local file paths or http(s) URLs; the backend is selected from the source.
type Loader interface {
	// Load fetches, decodes and downscales the image at source.
	// If the texture is already cached in memory the cached version is returned.
	//
	// Parameters:
	//   - ctx: cancels a remote fetch including its retries
	//   - source: a file path or http(s) URL
	//
	// Returns:
	//   - *common.TextureStagingData: the RGBA pixels ready for upload
	//   - error: error if fetching or decoding fails
	Load(ctx context.Context, source string) (*common.TextureStagingData, error)

	// Get retrieves a cached texture. Returns nil if not found.
	//
	// Parameters:
	//   - source: the cache key to look up
	//
	// Returns:
	//   - *common.TextureStagingData: the cached texture or nil
	Get(source string) *common.TextureStagingData

	// Evict drops a texture from the in-memory cache. The disk cache is left alone.
	//
	// Parameters:
	//   - source: the cache key to drop
	Evict(source string)

	// MaxWidth returns the width textures are downscaled to.
	//
	// Returns:
	//   - int: the maximum texture width in pixels
	MaxWidth() int
}

var _ Loader = &loaderImpl{}

// NewLoader creates a new texture Loader with the file and http backends and the options applied.
//
// Parameters:
//   - options: a variadic list of LoaderBuilderOption functions to configure the Loader
//
// Returns:
//   - Loader: the configured loader
func NewLoader(options ...LoaderBuilderOption) Loader {
	l := &loaderImpl{
		maxWidth:     DefaultMaxWidth,
		textureCache: make(map[string]*common.TextureStagingData),
		file:         newFileLoaderBackend(),
		http:         newHTTPLoaderBackend(nil, 30*time.Second),
	}
	for _, option := range options {
		option(l)
	}
	if l.maxWidth <= 0 {
		l.maxWidth = DefaultMaxWidth
	}
	return l
}

func (l *loaderImpl) Load(ctx context.Context, source string) (*common.TextureStagingData, error) {
	if source == "" {
		return nil, fmt.Errorf("texture: empty source")
	}

	l.mu.RLock()
	if cached, ok := l.textureCache[source]; ok {
		l.mu.RUnlock()
		return cached, nil
	}
	l.mu.RUnlock()

	if staged, ok := l.readDiskCache(source); ok {
		l.store(source, staged)
		return staged, nil
	}

	data, err := l.resolveBackend(source).Fetch(ctx, source)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", source, err)
	}

	img, err := decodeImage(data, source)
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", source, err)
	}

	rgba, scaled := downscale(img, l.maxWidth)
	staged := toStaging(rgba, source)

	if l.cacheDir != "" {
		if err := writeDiskCache(l.cacheDir, source, rgba); err != nil {
			log.Printf("[Texture] cache write failed for %s: %v", source, err)
		} else if scaled {
			log.Printf("[Texture] cached %s at %dx%d", source, staged.Width, staged.Height)
		}
	}

	l.store(source, staged)
	return staged, nil
}

func (l *loaderImpl) Get(source string) *common.TextureStagingData {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.textureCache[source]
}

func (l *loaderImpl) Evict(source string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.textureCache, source)
}

func (l *loaderImpl) MaxWidth() int {
	return l.maxWidth
}

func (l *loaderImpl) store(source string, staged *common.TextureStagingData) {
	l.mu.Lock()
	l.textureCache[source] = staged
	l.mu.Unlock()
}

func (l *loaderImpl) readDiskCache(source string) (*common.TextureStagingData, bool) {
	if l.cacheDir == "" {
		return nil, false
	}
	img, err := readDiskCache(l.cacheDir, source)
	if err != nil {
		return nil, false
	}
	rgba, _ := downscale(img, l.maxWidth)
	return toStaging(rgba, source), true
}

// resolveBackend selects the http backend for http(s) URLs and the file backend otherwise.
func (l *loaderImpl) resolveBackend(source string) loaderBackend {
	if isRemote(source) {
		return l.http
	}
	return l.file
}

func isRemote(source string) bool {
	u, err := url.Parse(source)
	if err != nil {
		return false
	}
	scheme := strings.ToLower(u.Scheme)
	return scheme == "http" || scheme == "https"
}
