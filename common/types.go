// package common contains common types that are used throughout this engine. They are not interface-wrapped structs, just plain structs that express
// commonly used data-types.
package common

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/h2non/filetype"
	_ "golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// MaxTextureDimension is the WebGPU default limit for maxTextureDimension2D.
// Images larger than this on either axis are scaled down before upload.
const MaxTextureDimension = 8192

// ErrNotAnImage is returned by DecodeTexture when the bytes are not a recognized image format.
var ErrNotAnImage = errors.New("data is not a recognized image")

// TextureStagingData holds RGBA pixel data for a texture binding pending GPU upload.
// This is primarily used in the BindGroupProvider to stage texture data before creating the GPU texture and bind group.
type TextureStagingData struct {
	// Pixels is the byte slice representing the actual pixel data for the texture. It should be in RGBA format, with 4 bytes per pixel.
	Pixels []byte
	// Width is the width of the texture in pixels. This is required to correctly create the GPU texture and interpret the pixel data.
	Width uint32
	// Height is the height of the texture in pixels. This is required to correctly create the GPU texture and interpret the pixel data.
	Height uint32
}

// SamplerStagingData holds the configuration for a sampler binding pending GPU creation.
// This is primarily used in the BindGroupProvider to stage sampler data before creating the GPU sampler and bind group.
type SamplerStagingData struct {
	// AddressModeU, AddressModeV, AddressModeW specify the addressing mode for texture coordinates outside the [0, 1] range in each dimension (U, V, W).
	AddressModeU, AddressModeV, AddressModeW wgpu.AddressMode
	// MagFilter and MinFilter specify the filtering mode for magnification and minification.
	MagFilter, MinFilter wgpu.FilterMode
	// MipmapFilter specifies the filtering mode for mipmap level selection.
	MipmapFilter wgpu.MipmapFilterMode
	// LodMinClamp and LodMaxClamp specify the minimum and maximum level of detail (LOD) for mipmapping.
	LodMinClamp, LodMaxClamp float32
	// MaxAnisotropy specifies the maximum anisotropy level for anisotropic filtering.
	MaxAnisotropy uint16
}

// DecodeTexture decodes encoded image bytes (PNG, JPEG, GIF, BMP, TIFF or WebP) into
// RGBA staging data ready for upload. The bytes are sniffed first so that non-image
// input fails with ErrNotAnImage instead of a generic decoder error. Images larger than
// MaxTextureDimension are scaled down, preserving aspect ratio.
//
// Parameters:
//   - data: the encoded image bytes
//
// Returns:
//   - TextureStagingData: the decoded RGBA pixels and dimensions
//   - error: an error if the bytes are not an image or fail to decode
func DecodeTexture(data []byte) (TextureStagingData, error) {
	if len(data) == 0 {
		return TextureStagingData{}, fmt.Errorf("decode texture: %w: empty input", ErrNotAnImage)
	}
	kind, err := filetype.Match(data)
	if err != nil {
		return TextureStagingData{}, fmt.Errorf("decode texture: %w", err)
	}
	if !filetype.IsImage(data) {
		return TextureStagingData{}, fmt.Errorf("decode texture: %w: detected %q", ErrNotAnImage, kind.MIME.Value)
	}

	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return TextureStagingData{}, fmt.Errorf("decode texture (%s): %w", kind.MIME.Value, err)
	}

	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if w == 0 || h == 0 {
		return TextureStagingData{}, fmt.Errorf("decode texture (%s): image has zero size", format)
	}

	dstW, dstH := fitWithin(w, h, MaxTextureDimension)
	rgba := image.NewRGBA(image.Rect(0, 0, dstW, dstH))
	if dstW == w && dstH == h {
		draw.Draw(rgba, rgba.Bounds(), img, bounds.Min, draw.Src)
	} else {
		draw.CatmullRom.Scale(rgba, rgba.Bounds(), img, bounds, draw.Src, nil)
	}

	return TextureStagingData{
		Pixels: rgba.Pix,
		Width:  uint32(dstW),
		Height: uint32(dstH),
	}, nil
}

// fitWithin scales (w, h) down so neither side exceeds limit.
func fitWithin(w, h, limit int) (int, int) {
	if w <= limit && h <= limit {
		return w, h
	}
	if w >= h {
		return limit, max(1, h*limit/w)
	}
	return max(1, w*limit/h), limit
}
