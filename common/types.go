// package common contains common types that are used throughout this engine. They are not interface-wrapped structs, just plain structs that express
// commonly used data-types.
package common

import (
	"github.com/cogentcore/webgpu/wgpu"
)

// TextureStagingData holds RGBA pixel data for a texture pending upload by the renderer.
type TextureStagingData struct {
	// Pixels is the RGBA pixel data, 4 bytes per pixel, row-major.
	Pixels []byte
	// Width is the width of the texture in pixels.
	Width uint32
	// Height is the height of the texture in pixels.
	Height uint32
	// Source identifies where the pixels came from (file path or URL).
	Source string
}

// Bytes returns the size of the pixel buffer.
func (t *TextureStagingData) Bytes() int {
	if t == nil {
		return 0
	}
	return len(t.Pixels)
}

// SamplerStagingData holds the configuration for a sampler pending creation by the renderer.
type SamplerStagingData struct {
	// AddressModeU, AddressModeV, AddressModeW specify the addressing mode for texture coordinates outside the [0, 1] range.
	AddressModeU, AddressModeV, AddressModeW wgpu.AddressMode
	// MagFilter and MinFilter specify the filtering mode for magnification and minification.
	MagFilter, MinFilter wgpu.FilterMode
	// MipmapFilter specifies the filtering mode for mipmap level selection.
	MipmapFilter wgpu.MipmapFilterMode
	// LodMinClamp and LodMaxClamp specify the minimum and maximum level of detail.
	LodMinClamp, LodMaxClamp float32
	// MaxAnisotropy specifies the maximum anisotropy level.
	MaxAnisotropy uint16
	// RepeatU and RepeatV scale texture coordinates before sampling.
	// A stereo over/under panorama samples the top half with RepeatV = 0.5.
	RepeatU, RepeatV float32
}

// PanoramaSampler returns the sampler used for equirectangular backgrounds.
// Horizontal wrap repeats so the seam at u = 0/1 is continuous; vertical clamps at the poles.
//
// Parameters:
//   - overUnder: whether the image is a stereo over/under pair
//
// Returns:
//   - SamplerStagingData: the sampler configuration
func PanoramaSampler(overUnder bool) SamplerStagingData {
	s := SamplerStagingData{
		AddressModeU:  wgpu.AddressModeRepeat,
		AddressModeV:  wgpu.AddressModeClampToEdge,
		AddressModeW:  wgpu.AddressModeClampToEdge,
		MagFilter:     wgpu.FilterModeLinear,
		MinFilter:     wgpu.FilterModeLinear,
		MipmapFilter:  wgpu.MipmapFilterModeLinear,
		LodMinClamp:   0,
		LodMaxClamp:   32,
		MaxAnisotropy: 1,
		RepeatU:       1,
		RepeatV:       1,
	}
	if overUnder {
		s.RepeatV = 0.5
	}
	return s
}
