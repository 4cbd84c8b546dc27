package scene

import (
	"fmt"
	"sync"

	"github.com/Carmen-Shannon/oxy-explorer/common"
)

// TextureHandle identifies a texture owned by the renderer. Zero means no texture.
type TextureHandle uint64

// TextureBinder is the renderer side of a texture upload.
type TextureBinder interface {
	// Bind uploads tex with the given sampler and returns its handle.
	//
	// Parameters:
	//   - tex: RGBA pixels to upload
	//   - sampler: the sampler configuration to pair with the texture
	//
	// Returns:
	//   - TextureHandle: the non-zero handle of the bound texture
	//   - error: error if the upload fails
	Bind(tex *common.TextureStagingData, sampler common.SamplerStagingData) (TextureHandle, error)

	// Release frees a texture returned by Bind. Unknown handles are ignored.
	//
	// Parameters:
	//   - h: the handle to free
	Release(h TextureHandle)
}

// BoundTexture is a texture held by a StagingBinder.
type BoundTexture struct {
	Texture *common.TextureStagingData
	Sampler common.SamplerStagingData
}

// StagingBinder is an in-process TextureBinder. It keeps bound textures in memory so a
// renderer running in the same process (or a test) can read them back by handle.
type StagingBinder struct {
	mu    sync.Mutex
	next  TextureHandle
	bound map[TextureHandle]BoundTexture
}

var _ TextureBinder = &StagingBinder{}

// NewStagingBinder creates an empty StagingBinder.
func NewStagingBinder() *StagingBinder {
	return &StagingBinder{bound: make(map[TextureHandle]BoundTexture)}
}

func (b *StagingBinder) Bind(tex *common.TextureStagingData, sampler common.SamplerStagingData) (TextureHandle, error) {
	if tex == nil || tex.Width == 0 || tex.Height == 0 {
		return 0, fmt.Errorf("staging binder: empty texture")
	}
	if want := int(tex.Width) * int(tex.Height) * 4; tex.Bytes() != want {
		return 0, fmt.Errorf("staging binder: expected %d bytes for %dx%d, got %d", want, tex.Width, tex.Height, tex.Bytes())
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.next++
	b.bound[b.next] = BoundTexture{Texture: tex, Sampler: sampler}
	return b.next, nil
}

func (b *StagingBinder) Release(h TextureHandle) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.bound, h)
}

// Bound returns the texture bound under h.
func (b *StagingBinder) Bound(h TextureHandle) (BoundTexture, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	t, ok := b.bound[h]
	return t, ok
}

// Len returns the number of live textures.
func (b *StagingBinder) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.bound)
}
