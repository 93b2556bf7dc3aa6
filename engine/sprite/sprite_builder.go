package sprite

import "github.com/cogentcore/webgpu/wgpu"

// SpriteBuilderOption is a functional option applied to a sprite during NewSprite.
type SpriteBuilderOption func(*sprite)

// WithAddressMode sets the sampler address mode on all three axes. The default is clamp-to-edge.
//
// Parameters:
//   - mode: the address mode
//
// Returns:
//   - SpriteBuilderOption: a function that applies the address mode
func WithAddressMode(mode wgpu.AddressMode) SpriteBuilderOption {
	return func(s *sprite) {
		s.sampler.AddressModeU = mode
		s.sampler.AddressModeV = mode
		s.sampler.AddressModeW = mode
	}
}

// WithFilter sets the sampler magnification and minification filters.
//
// Parameters:
//   - mag: the magnification filter
//   - min: the minification filter
//
// Returns:
//   - SpriteBuilderOption: a function that applies the filters
func WithFilter(mag, min wgpu.FilterMode) SpriteBuilderOption {
	return func(s *sprite) {
		s.sampler.MagFilter = mag
		s.sampler.MinFilter = min
	}
}
