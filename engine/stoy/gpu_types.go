package stoy

import (
	_ "embed"
	"encoding/binary"
	"math"
	"unsafe"
)

// GPUMainUniformsSource is the canonical WGSL definition of the MainUniforms struct.
// Matches GPUMainUniforms layout exactly (32 bytes).
//
//go:embed assets/main_uniforms.wgsl
var GPUMainUniformsSource string

// QuadVertexSource is the WGSL vertex input struct matching sprite.QuadVertexLayout.
//
//go:embed assets/quad_vertex.wgsl
var QuadVertexSource string

// DefaultShader is the shader used when no shader file exists yet.
//
//go:embed assets/sprite.wgsl
var DefaultShader string

// GPUMainUniforms is the GPU-aligned per-frame uniform record bound at group 2.
// Matches the WGSL MainUniforms struct layout exactly (see GPUMainUniformsSource).
// Size: 32 bytes.
type GPUMainUniforms struct {
	Time       float32    // offset 0
	Padding    float32    // offset 4: aligns Resolution to 8 bytes
	Resolution [2]float32 // offset 8: window size in pixels
	Mouse      [2]float32 // offset 16: pointer position in window coordinates
	Zoom       [2]float32 // offset 24: absolute accumulated scroll
}

// DefaultMainUniforms returns the record uploaded before the first Update.
//
// Returns:
//   - GPUMainUniforms: the initial record
func DefaultMainUniforms() GPUMainUniforms {
	return GPUMainUniforms{
		Padding:    10,
		Resolution: [2]float32{10, 10},
	}
}

// Size returns the size of the GPUMainUniforms struct in bytes.
//
// Returns:
//   - int: the struct size in bytes (32)
func (g *GPUMainUniforms) Size() int {
	return int(unsafe.Sizeof(*g))
}

// Marshal serializes the GPUMainUniforms struct into a byte buffer suitable for GPU upload.
//
// Returns:
//   - []byte: the serialized byte buffer
func (g *GPUMainUniforms) Marshal() []byte {
	buf := make([]byte, g.Size())
	fields := [8]float32{
		g.Time, g.Padding,
		g.Resolution[0], g.Resolution[1],
		g.Mouse[0], g.Mouse[1],
		g.Zoom[0], g.Zoom[1],
	}
	for i, f := range fields {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(f))
	}
	return buf
}
