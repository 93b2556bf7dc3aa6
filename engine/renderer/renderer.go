package renderer

import (
	"fmt"
	"sync"

	"github.com/Carmen-Shannon/oxy-stoy/common"
	"github.com/Carmen-Shannon/oxy-stoy/engine/renderer/bind_group_provider"
	"github.com/Carmen-Shannon/oxy-stoy/engine/renderer/pipeline"
	"github.com/cogentcore/webgpu/wgpu"
)

// SurfaceTarget is the window-side source of a presentable surface.
type SurfaceTarget interface {
	SurfaceDescriptor() *wgpu.SurfaceDescriptor
	Width() int
	Height() int
}

// MinSurfaceWidth and MinSurfaceHeight bound every surface configuration from below.
const (
	MinSurfaceWidth  = 800
	MinSurfaceHeight = 600
)

// clampSurfaceSize raises a surface size to at least MinSurfaceWidth × MinSurfaceHeight.
// A zero or negative size is passed through so the backend can skip it.
func clampSurfaceSize(width, height int) (int, int) {
	if width <= 0 || height <= 0 {
		return width, height
	}
	return max(width, MinSurfaceWidth), max(height, MinSurfaceHeight)
}

// renderer is the implementation of the Renderer interface.
type renderer struct {
	mu *sync.Mutex

	backendType RendererBackendType
	backend     RendererBackend

	// Pre-creation config collected from builder options
	forceFallbackAdapter bool
	presentMode          PresentMode
	clearColor           wgpu.Color
}

// Renderer defines the interface for the rendering system.
//
// It owns the GPU device and the presentable surface, creates GPU resources on behalf of
// bind group providers and pipelines, and records exactly one render pass per frame.
type Renderer interface {
	// Resize reconfigures the surface for a new size, clamped to at least
	// MinSurfaceWidth × MinSurfaceHeight.
	//
	// Parameters:
	//   - width: the new width of the surface in pixels
	//   - height: the new height of the surface in pixels
	Resize(width, height int)

	// SurfaceFormat returns the texture format the surface was configured with.
	//
	// Returns:
	//   - wgpu.TextureFormat: the surface format
	SurfaceFormat() wgpu.TextureFormat

	// MaxBindGroups returns the number of bind groups the device accepts in one pipeline layout.
	//
	// Returns:
	//   - int: the device limit
	MaxBindGroups() int

	// InitMeshBuffers creates a GPU vertex buffer from raw byte data and stores it on the given
	// BindGroupProvider together with its vertex count.
	//
	// Parameters:
	//   - provider: the BindGroupProvider to store the created buffer on
	//   - vertexData: the raw vertex data bytes to upload to the GPU
	//   - vertexCount: the number of vertices in vertexData
	//
	// Returns:
	//   - error: an error if buffer creation fails
	InitMeshBuffers(provider bind_group_provider.BindGroupProvider, vertexData []byte, vertexCount int) error

	// InitBindGroup creates the layout, any missing uniform buffers and the bind group described by
	// descriptor and stores them on the given BindGroupProvider. Textures and samplers must be
	// initialized via InitTextureView and InitSampler first.
	//
	// Parameters:
	//   - provider: the BindGroupProvider to store the created bind group on
	//   - descriptor: the layout descriptor defining the bind group entries
	//
	// Returns:
	//   - error: an error if bind group creation fails
	InitBindGroup(provider bind_group_provider.BindGroupProvider, descriptor wgpu.BindGroupLayoutDescriptor) error

	// InitTextureView creates an sRGB GPU texture from staging data and stores its view on the given
	// BindGroupProvider at the specified binding index.
	//
	// Parameters:
	//   - provider: the BindGroupProvider to store the created texture view on
	//   - bindingKey: the binding index for this texture
	//   - stagingData: the pixel data and dimensions for the texture
	//
	// Returns:
	//   - error: an error if texture creation fails
	InitTextureView(provider bind_group_provider.BindGroupProvider, bindingKey int, stagingData common.TextureStagingData) error

	// InitSampler creates a GPU sampler from staging data and stores it on the given BindGroupProvider
	// at the specified binding index. Zero fields fall back to linear filtering and repeat addressing.
	//
	// Parameters:
	//   - provider: the BindGroupProvider to store the created sampler on
	//   - bindingKey: the binding index for this sampler
	//   - samplerStagingData: the sampler configuration
	//
	// Returns:
	//   - error: an error if sampler creation fails
	InitSampler(provider bind_group_provider.BindGroupProvider, bindingKey int, samplerStagingData common.SamplerStagingData) error

	// CreatePipelineLayout creates a pipeline layout whose group i is the bind group layout of providers[i].
	// Every provider must have been initialized with InitBindGroup.
	//
	// Parameters:
	//   - label: debug label for the layout
	//   - providers: the providers in group order
	//
	// Returns:
	//   - *wgpu.PipelineLayout: the created layout, owned by the caller
	//   - error: an error if a provider has no layout or creation fails
	CreatePipelineLayout(label string, providers ...bind_group_provider.BindGroupProvider) (*wgpu.PipelineLayout, error)

	// CompileRenderPipeline creates the GPU shader module and render pipeline for p and stores the
	// result on p. The pipeline is compiled against p.Layout().
	//
	// Parameters:
	//   - p: the pipeline to compile
	//
	// Returns:
	//   - error: an error if module or pipeline creation fails
	CompileRenderPipeline(p pipeline.Pipeline) error

	// WriteBuffers writes all staged buffer writes to the GPU queue.
	// Each BufferWrite targets a specific buffer on a BindGroupProvider at a given binding and offset.
	//
	// Parameters:
	//   - writes: the data to write
	WriteBuffers(writes ...bind_group_provider.BufferWrite)

	// BeginFrame acquires the surface texture and begins the frame's render pass, cleared to the
	// clear color. If the surface texture cannot be acquired the surface is reconfigured and an
	// error wrapping ErrFrameSkipped is returned.
	//
	// Returns:
	//   - error: nil on success, ErrFrameSkipped if the frame should be skipped, or another error
	BeginFrame() error

	// Draw encodes one non-indexed draw in the current render pass. The pipeline is set, bindGroups[i]
	// is bound to group i, and the mesh's vertex buffer is bound to slot 0.
	//
	// Parameters:
	//   - p: the compiled pipeline to draw with
	//   - mesh: the provider holding the vertex buffer
	//   - vertexCount: the number of vertices to draw
	//   - instanceCount: the number of instances to draw
	//   - bindGroups: providers whose bind groups are bound in group order
	//
	// Returns:
	//   - error: an error if no frame is in progress or the pipeline is not compiled
	Draw(p pipeline.Pipeline, mesh bind_group_provider.BindGroupProvider, vertexCount, instanceCount uint32, bindGroups []bind_group_provider.BindGroupProvider) error

	// EndFrame ends the current render pass and submits the command buffer to the GPU.
	// Does not present the surface, call Present after EndFrame to display the frame.
	//
	// Returns:
	//   - error: an error if the command buffer could not be finished
	EndFrame() error

	// Present presents the surface to the display and releases the surface texture.
	// Must be called once per frame after EndFrame.
	Present()

	// Release frees the device, surface and all frame state.
	Release()
}

var _ Renderer = &renderer{}

// NewRenderer creates a new Renderer for the given surface target and configures the surface to the
// target's current size, clamped to at least MinSurfaceWidth × MinSurfaceHeight. Adapter and device negotiation failures are returned.
//
// Parameters:
//   - backendType: the type of rendering backend to use (e.g., WGPU)
//   - target: the window providing the surface descriptor and initial size
//   - options: variadic list of RendererBuilderOption functions to configure the Renderer
//
// Returns:
//   - Renderer: a new instance of Renderer configured with the specified backend and options
//   - error: an error if no adapter or device could be acquired
func NewRenderer(backendType RendererBackendType, target SurfaceTarget, options ...RendererBuilderOption) (Renderer, error) {
	r := &renderer{
		mu:          &sync.Mutex{},
		backendType: backendType,
		presentMode: PresentModeVSync,
	}

	// Apply options first so config flags (e.g. forceFallbackAdapter) are
	// available before the backend requests a GPU adapter.
	for _, opt := range options {
		opt(r)
	}

	switch backendType {
	case BackendTypeWGPU:
		fallthrough
	default:
		backend, err := newWGPURendererBackend(target.SurfaceDescriptor(), r.forceFallbackAdapter, r.presentMode, r.clearColor)
		if err != nil {
			return nil, fmt.Errorf("renderer: %w", err)
		}
		r.backend = backend
	}

	width, height := clampSurfaceSize(target.Width(), target.Height())
	r.backend.ConfigureSurface(width, height)
	common.Logger().Info("renderer ready", "format", r.backend.SurfaceFormat(), "width", width, "height", height)
	return r, nil
}

func (r *renderer) Resize(width, height int) {
	r.backend.ConfigureSurface(clampSurfaceSize(width, height))
}

func (r *renderer) SurfaceFormat() wgpu.TextureFormat {
	return r.backend.SurfaceFormat()
}

func (r *renderer) MaxBindGroups() int {
	return r.backend.MaxBindGroups()
}

func (r *renderer) InitMeshBuffers(provider bind_group_provider.BindGroupProvider, vertexData []byte, vertexCount int) error {
	return r.backend.InitMeshBuffers(provider, vertexData, vertexCount)
}

func (r *renderer) InitBindGroup(provider bind_group_provider.BindGroupProvider, descriptor wgpu.BindGroupLayoutDescriptor) error {
	return r.backend.InitBindGroup(provider, descriptor)
}

func (r *renderer) InitTextureView(provider bind_group_provider.BindGroupProvider, bindingKey int, stagingData common.TextureStagingData) error {
	return r.backend.InitTextureView(provider, bindingKey, stagingData)
}

func (r *renderer) InitSampler(provider bind_group_provider.BindGroupProvider, bindingKey int, samplerStagingData common.SamplerStagingData) error {
	return r.backend.InitSampler(provider, bindingKey, samplerStagingData)
}

func (r *renderer) CreatePipelineLayout(label string, providers ...bind_group_provider.BindGroupProvider) (*wgpu.PipelineLayout, error) {
	layouts := make([]*wgpu.BindGroupLayout, len(providers))
	for i, p := range providers {
		if p.BindGroupLayout() == nil {
			return nil, fmt.Errorf("pipeline layout %s: group %d (%s) has no bind group layout", label, i, p.Label())
		}
		layouts[i] = p.BindGroupLayout()
	}
	return r.backend.CreatePipelineLayout(label, layouts)
}

func (r *renderer) CompileRenderPipeline(p pipeline.Pipeline) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.backend.CompileRenderPipeline(p)
}

func (r *renderer) WriteBuffers(writes ...bind_group_provider.BufferWrite) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.backend.WriteBuffers(writes)
}

func (r *renderer) BeginFrame() error {
	return r.backend.BeginFrame()
}

func (r *renderer) Draw(p pipeline.Pipeline, mesh bind_group_provider.BindGroupProvider, vertexCount, instanceCount uint32, bindGroups []bind_group_provider.BindGroupProvider) error {
	if p == nil || p.RenderPipeline() == nil {
		return fmt.Errorf("draw: pipeline is not compiled")
	}
	return r.backend.Draw(p, mesh, vertexCount, instanceCount, bindGroups)
}

func (r *renderer) EndFrame() error {
	return r.backend.EndFrame()
}

func (r *renderer) Present() {
	r.backend.Present()
}

func (r *renderer) Release() {
	r.backend.Release()
}
