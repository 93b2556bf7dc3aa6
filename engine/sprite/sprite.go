// Package sprite holds the textured quad the engine draws: its geometry and the texture,
// sampler and bind group the fragment shader samples.
package sprite

import (
	_ "embed"
	"fmt"

	"github.com/Carmen-Shannon/oxy-stoy/common"
	"github.com/Carmen-Shannon/oxy-stoy/engine/renderer/bind_group_provider"
	"github.com/cogentcore/webgpu/wgpu"
)

// DefaultTexture is the PNG used when no texture is configured.
//
//go:embed assets/default.png
var DefaultTexture []byte

const (
	// TextureBinding is the @binding of the sampled texture within the sprite group.
	TextureBinding = 0
	// SamplerBinding is the @binding of the sampler within the sprite group.
	SamplerBinding = 1
)

// TextureUploader creates the GPU objects a sprite needs. Renderer satisfies it.
type TextureUploader interface {
	InitTextureView(provider bind_group_provider.BindGroupProvider, bindingKey int, stagingData common.TextureStagingData) error
	InitSampler(provider bind_group_provider.BindGroupProvider, bindingKey int, samplerStagingData common.SamplerStagingData) error
	InitBindGroup(provider bind_group_provider.BindGroupProvider, descriptor wgpu.BindGroupLayoutDescriptor) error
}

// sprite is the implementation of the Sprite interface.
type sprite struct {
	staging  common.TextureStagingData
	sampler  common.SamplerStagingData
	provider bind_group_provider.BindGroupProvider
}

// Sprite is a decoded texture paired with its sampler and the bind group exposing both.
type Sprite interface {
	// Width returns the texture width in pixels.
	Width() uint32

	// Height returns the texture height in pixels.
	Height() uint32

	// Provider returns the provider owning the texture view, sampler and bind group.
	//
	// Returns:
	//   - bind_group_provider.BindGroupProvider: the provider
	Provider() bind_group_provider.BindGroupProvider

	// LayoutDescriptor returns the two-entry layout: a float 2D texture at binding 0 and a
	// filtering sampler at binding 1, both visible to the fragment stage.
	//
	// Returns:
	//   - wgpu.BindGroupLayoutDescriptor: the layout descriptor
	LayoutDescriptor() wgpu.BindGroupLayoutDescriptor

	// Upload creates the texture, sampler and bind group on the GPU. The decoded pixels are
	// dropped afterwards.
	//
	// Parameters:
	//   - u: the uploader creating GPU objects
	//
	// Returns:
	//   - error: an error if any GPU object could not be created
	Upload(u TextureUploader) error
}

var _ Sprite = &sprite{}

// NewSprite decodes encoded image bytes into a sprite. Nothing is created on the GPU until Upload.
//
// Parameters:
//   - label: debug label for GPU objects
//   - data: encoded image bytes (PNG, JPEG, GIF, BMP, TIFF or WebP)
//   - options: functional options configuring the sampler
//
// Returns:
//   - Sprite: the decoded sprite
//   - error: an error if the bytes are not a decodable image
func NewSprite(label string, data []byte, options ...SpriteBuilderOption) (Sprite, error) {
	staging, err := common.DecodeTexture(data)
	if err != nil {
		return nil, fmt.Errorf("sprite %s: %w", label, err)
	}
	s := &sprite{
		staging: staging,
		sampler: common.SamplerStagingData{
			AddressModeU: wgpu.AddressModeClampToEdge,
			AddressModeV: wgpu.AddressModeClampToEdge,
			AddressModeW: wgpu.AddressModeClampToEdge,
			MagFilter:    wgpu.FilterModeLinear,
			MinFilter:    wgpu.FilterModeNearest,
			MipmapFilter: wgpu.MipmapFilterModeNearest,
		},
		provider: bind_group_provider.NewBindGroupProvider(label),
	}
	for _, opt := range options {
		opt(s)
	}
	return s, nil
}

func (s *sprite) Width() uint32 {
	return s.staging.Width
}

func (s *sprite) Height() uint32 {
	return s.staging.Height
}

func (s *sprite) Provider() bind_group_provider.BindGroupProvider {
	return s.provider
}

func (s *sprite) LayoutDescriptor() wgpu.BindGroupLayoutDescriptor {
	return wgpu.BindGroupLayoutDescriptor{
		Label: s.provider.Label() + " Layout",
		Entries: []wgpu.BindGroupLayoutEntry{
			{
				Binding:    TextureBinding,
				Visibility: wgpu.ShaderStageFragment,
				Texture: wgpu.TextureBindingLayout{
					SampleType:    wgpu.TextureSampleTypeFloat,
					ViewDimension: wgpu.TextureViewDimension2D,
					Multisampled:  false,
				},
			},
			{
				Binding:    SamplerBinding,
				Visibility: wgpu.ShaderStageFragment,
				Sampler: wgpu.SamplerBindingLayout{
					Type: wgpu.SamplerBindingTypeFiltering,
				},
			},
		},
	}
}

func (s *sprite) Upload(u TextureUploader) error {
	if err := u.InitTextureView(s.provider, TextureBinding, s.staging); err != nil {
		return fmt.Errorf("sprite %s: texture: %w", s.provider.Label(), err)
	}
	if err := u.InitSampler(s.provider, SamplerBinding, s.sampler); err != nil {
		return fmt.Errorf("sprite %s: sampler: %w", s.provider.Label(), err)
	}
	if err := u.InitBindGroup(s.provider, s.LayoutDescriptor()); err != nil {
		return fmt.Errorf("sprite %s: bind group: %w", s.provider.Label(), err)
	}
	s.staging.Pixels = nil
	return nil
}
