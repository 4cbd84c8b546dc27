package texture

import (
	"net/http"
	"time"

	"github.com/Carmen-Shannon/oxy-explorer/common"
)

// LoaderBuilderOption is a functional option for configuring a Loader via NewLoader.
type LoaderBuilderOption func(*loaderImpl)

// WithMaxWidth sets the width textures are downscaled to.
//
// Parameters:
//   - width: maximum texture width in pixels; values <= 0 keep the default
//
// Returns:
//   - LoaderBuilderOption: a function that applies the width option to a loader
func WithMaxWidth(width int) LoaderBuilderOption {
	return func(l *loaderImpl) {
		l.maxWidth = width
	}
}

// WithCacheDir enables the on-disk webp cache of decoded, downscaled textures.
//
// Parameters:
//   - dir: the cache directory; created on first write
//
// Returns:
//   - LoaderBuilderOption: a function that applies the cache option to a loader
func WithCacheDir(dir string) LoaderBuilderOption {
	return func(l *loaderImpl) {
		l.cacheDir = dir
	}
}

// WithHTTPClient sets the client and total retry window used for remote sources.
//
// Parameters:
//   - client: the http client; nil uses a client with a one minute timeout
//   - maxElapsed: how long failed fetches are retried before giving up
//
// Returns:
//   - LoaderBuilderOption: a function that applies the http option to a loader
func WithHTTPClient(client *http.Client, maxElapsed time.Duration) LoaderBuilderOption {
	return func(l *loaderImpl) {
		l.http = newHTTPLoaderBackend(client, maxElapsed)
	}
}

// WithTexture pre-populates the in-memory cache.
//
// Parameters:
//   - source: the cache key
//   - tex: the staged texture
//
// Returns:
//   - LoaderBuilderOption: a function that applies the texture option to a loader
func WithTexture(source string, tex *common.TextureStagingData) LoaderBuilderOption {
	return func(l *loaderImpl) {
		l.textureCache[source] = tex
	}
}
