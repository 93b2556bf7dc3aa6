package camera

import (
	_ "embed"
	"encoding/binary"
	"math"
	"unsafe"
)

// GPUCamera2DUniformSource is the canonical WGSL definition of the Camera2DUniform struct.
// Matches GPUCamera2DUniform layout exactly (64 bytes).
//
//go:embed assets/camera2d_uniform.wgsl
var GPUCamera2DUniformSource string

// GPUCamera2DUniform is the GPU-aligned representation of the 2D camera uniform buffer.
// Matches the WGSL Camera2DUniform struct layout exactly (see GPUCamera2DUniformSource).
// Size: 64 bytes.
type GPUCamera2DUniform struct {
	ViewProj [16]float32 // offset 0: orthographic view-projection matrix (mat4x4<f32>, column-major)
}

// Size returns the size of the GPUCamera2DUniform struct in bytes.
//
// Returns:
//   - int: the struct size in bytes (64)
func (g *GPUCamera2DUniform) Size() int {
	return int(unsafe.Sizeof(*g))
}

// Marshal serializes the GPUCamera2DUniform struct into a byte buffer suitable for GPU upload.
//
// Returns:
//   - []byte: the serialized byte buffer
func (g *GPUCamera2DUniform) Marshal() []byte {
	buf := make([]byte, g.Size())
	for i := range 16 {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(g.ViewProj[i]))
	}
	return buf
}
