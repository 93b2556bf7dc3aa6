package camera

import (
	"strconv"
	"sync"
	"sync/atomic"

	"github.com/Carmen-Shannon/oxy-stoy/common"
	"github.com/Carmen-Shannon/oxy-stoy/engine/renderer/bind_group_provider"
	"github.com/Carmen-Shannon/oxy-stoy/engine/renderer/uniform"
	"github.com/cogentcore/webgpu/wgpu"
)

// cameraCount is an atomic counter used to generate unique bind group provider names for each camera instance.
var cameraCount atomic.Uint64

const (
	// DefaultDesignWidth is the logical width of the orthographic volume.
	DefaultDesignWidth float32 = 800
	// DefaultDesignHeight is the logical height of the orthographic volume.
	DefaultDesignHeight float32 = 600
	// DefaultNear is the near plane of the orthographic volume.
	DefaultNear float32 = -50
	// DefaultFar is the far plane of the orthographic volume.
	DefaultFar float32 = 50
)

type camera2D struct {
	mu *sync.Mutex

	position [3]float32
	scale    [2]float32

	designWidth  float32
	designHeight float32
	near         float32
	far          float32

	block uniform.Block[*GPUCamera2DUniform]
}

// Camera2D defines the interface for the orthographic 2D camera.
// The projection covers a fixed logical design volume centered on the camera position and
// is independent of the window size; resizing only changes the presentation viewport.
type Camera2D interface {
	// Position returns the camera's translation.
	//
	// Returns:
	//   - [3]float32: the camera position
	Position() [3]float32

	// Scale returns the viewport scale. A scale of 2 halves the visible extent on that axis.
	//
	// Returns:
	//   - [2]float32: the x and y viewport scale
	Scale() [2]float32

	// DesignSize returns the logical width and height of the orthographic volume.
	//
	// Returns:
	//   - width, height: the design resolution
	DesignSize() (width, height float32)

	// Update moves the camera to position and recomputes the view-projection matrix as
	// OpenGLToWGPU × Ortho(design volume) × Translate(-position). The GPU copy is refreshed
	// by the next Write.
	//
	// Parameters:
	//   - position: the new camera position
	Update(position [3]float32)

	// SetScale sets the viewport scale and recomputes the matrix at the current position.
	//
	// Parameters:
	//   - sx, sy: the x and y viewport scale (non-positive values are ignored)
	SetScale(sx, sy float32)

	// Uniform returns a copy of the current uniform record.
	//
	// Returns:
	//   - GPUCamera2DUniform: the uniform record
	Uniform() GPUCamera2DUniform

	// BindGroupProvider returns the camera's bind group provider for GPU resources.
	//
	// Returns:
	//   - bind_group_provider.BindGroupProvider: the bind group provider
	BindGroupProvider() bind_group_provider.BindGroupProvider

	// LayoutDescriptor returns the bind group layout for the camera's uniform buffer.
	//
	// Returns:
	//   - wgpu.BindGroupLayoutDescriptor: the layout descriptor
	LayoutDescriptor() wgpu.BindGroupLayoutDescriptor

	// Write returns a buffer write uploading the current uniform record.
	//
	// Returns:
	//   - bind_group_provider.BufferWrite: the write
	Write() bind_group_provider.BufferWrite
}

var _ Camera2D = &camera2D{}

// NewCamera2D creates a Camera2D centered on the origin with an 800×600 design volume.
//
// Parameters:
//   - options: functional options to configure the camera
//
// Returns:
//   - Camera2D: the newly created camera
func NewCamera2D(options ...Camera2DBuilderOption) Camera2D {
	c := &camera2D{
		mu:           &sync.Mutex{},
		scale:        [2]float32{1, 1},
		designWidth:  DefaultDesignWidth,
		designHeight: DefaultDesignHeight,
		near:         DefaultNear,
		far:          DefaultFar,
		block: uniform.NewBlock(
			"camera2d_"+strconv.FormatUint(cameraCount.Add(1)-1, 10),
			&GPUCamera2DUniform{},
			uniform.WithVisibility(wgpu.ShaderStageVertex|wgpu.ShaderStageFragment),
		),
	}
	for _, option := range options {
		option(c)
	}
	c.updateMatrix()
	return c
}

func (c *camera2D) Position() [3]float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.position
}

func (c *camera2D) Scale() [2]float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.scale
}

func (c *camera2D) DesignSize() (float32, float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.designWidth, c.designHeight
}

func (c *camera2D) Update(position [3]float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.position = position
	c.updateMatrix()
}

func (c *camera2D) SetScale(sx, sy float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if sx <= 0 || sy <= 0 {
		return
	}
	c.scale = [2]float32{sx, sy}
	c.updateMatrix()
}

func (c *camera2D) Uniform() GPUCamera2DUniform {
	c.mu.Lock()
	defer c.mu.Unlock()
	return *c.block.Data()
}

func (c *camera2D) BindGroupProvider() bind_group_provider.BindGroupProvider {
	return c.block.Provider()
}

func (c *camera2D) LayoutDescriptor() wgpu.BindGroupLayoutDescriptor {
	return c.block.LayoutDescriptor()
}

func (c *camera2D) Write() bind_group_provider.BufferWrite {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.block.Write()
}

// updateMatrix recomputes the view-projection matrix. Caller must hold the mutex.
func (c *camera2D) updateMatrix() {
	halfW := c.designWidth / c.scale[0] / 2
	halfH := c.designHeight / c.scale[1] / 2

	var ortho, view, proj [16]float32
	common.Ortho(ortho[:], -halfW, halfW, -halfH, halfH, c.near, c.far)
	common.Translate(view[:], -c.position[0], -c.position[1], -c.position[2])

	common.Mul4(proj[:], common.OpenGLToWGPU[:], ortho[:])
	common.Mul4(c.block.Data().ViewProj[:], proj[:], view[:])
}
