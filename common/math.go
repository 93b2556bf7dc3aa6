package common

import (
	"github.com/chewxy/math32"
)

// OpenGLToWGPU remaps OpenGL clip-space depth [-1, 1] into the WebGPU range [0, 1].
// Stored column-major; apply it as the left-most factor of a projection.
var OpenGLToWGPU = [16]float32{
	1, 0, 0, 0,
	0, 1, 0, 0,
	0, 0, 0.5, 0,
	0, 0, 0.5, 1,
}

// Identity resets a 4x4 matrix (flat slice) to the identity matrix.
// The matrix is stored in column-major order.
//
// Parameters:
//   - m: destination slice (must be at least 16 elements)
func Identity(m []float32) {
	for i := range m {
		m[i] = 0
	}
	m[0], m[5], m[10], m[15] = 1, 1, 1, 1
}

// Mul4 multiplies two 4x4 matrices and stores the result in out.
// All matrices are stored in column-major order (OpenGL/WebGPU convention).
// Result: out = a * b
//
// Parameters:
//   - out: destination slice (must be at least 16 elements)
//   - a: left-hand matrix (16 elements)
//   - b: right-hand matrix (16 elements)
func Mul4(out, a, b []float32) {
	var buf [16]float32
	for i := 0; i < 4; i++ { // column of B
		for j := 0; j < 4; j++ { // row of A
			sum := float32(0)
			for k := 0; k < 4; k++ {
				sum += a[k*4+j] * b[i*4+k]
			}
			buf[i*4+j] = sum
		}
	}
	copy(out, buf[:])
}

// Ortho writes a right-handed orthographic projection into out using the OpenGL
// depth convention (near maps to -1, far maps to 1). Combine with OpenGLToWGPU
// before handing the matrix to WebGPU.
//
// Parameters:
//   - out: destination slice (must be at least 16 elements)
//   - left, right: horizontal extents of the view volume
//   - bottom, top: vertical extents of the view volume
//   - near, far: depth extents of the view volume
func Ortho(out []float32, left, right, bottom, top, near, far float32) {
	Identity(out)
	out[0] = 2 / (right - left)
	out[5] = 2 / (top - bottom)
	out[10] = -2 / (far - near)
	out[12] = -(right + left) / (right - left)
	out[13] = -(top + bottom) / (top - bottom)
	out[14] = -(far + near) / (far - near)
}

// Translate writes a translation matrix into out.
//
// Parameters:
//   - out: destination slice (must be at least 16 elements)
//   - x, y, z: translation components
func Translate(out []float32, x, y, z float32) {
	Identity(out)
	out[12], out[13], out[14] = x, y, z
}

// TransformPoint multiplies the column-major matrix m by the point (x, y, z, 1) and
// returns the resulting homogeneous coordinates.
//
// Parameters:
//   - m: the 4x4 matrix (16 elements)
//   - x, y, z: the point to transform
//
// Returns:
//   - [4]float32: the transformed point (x, y, z, w)
func TransformPoint(m []float32, x, y, z float32) [4]float32 {
	var out [4]float32
	for row := range 4 {
		out[row] = m[row]*x + m[4+row]*y + m[8+row]*z + m[12+row]
	}
	return out
}

// ApproxEqual reports whether two matrices differ by no more than eps in every element.
//
// Parameters:
//   - a, b: matrices to compare (16 elements each)
//   - eps: per-element tolerance
//
// Returns:
//   - bool: true if all elements are within eps
func ApproxEqual(a, b []float32, eps float32) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if math32.Abs(a[i]-b[i]) > eps {
			return false
		}
	}
	return true
}
