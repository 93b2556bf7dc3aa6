package pipeline

import (
	"sync/atomic"

	"github.com/Carmen-Shannon/oxy-stoy/engine/renderer/shader"
	"github.com/cogentcore/webgpu/wgpu"
)

// generations hands out pipeline generation numbers. Every constructed pipeline gets the next one.
var generations atomic.Uint64

// pipeline is the implementation of the Pipeline interface.
// It holds the compiled render pipeline together with every setting used to create it.
type pipeline struct {
	// pipelineKey is the identifier for this pipeline, used in GPU labels and logs
	pipelineKey string
	// generation increases with every pipeline constructed in this process
	generation uint64

	// shader is the validated shader the pipeline was compiled from
	shader shader.Shader
	// vertexEntryPoint and fragmentEntryPoint name the functions called by each stage
	vertexEntryPoint, fragmentEntryPoint string

	// layout is the shared pipeline layout. It is owned by whoever created it, not by the pipeline.
	layout *wgpu.PipelineLayout
	// vertexLayouts describes the vertex buffers bound in slot order
	vertexLayouts []wgpu.VertexBufferLayout

	// renderPipeline is the compiled GPU object, nil until SetRenderPipeline is called
	renderPipeline *wgpu.RenderPipeline

	cullMode   wgpu.CullMode
	topology   wgpu.PrimitiveTopology
	frontFace  wgpu.FrontFace
	writeMask  wgpu.ColorWriteMask
	blendState *wgpu.BlendState
}

// Pipeline defines the interface for a render pipeline built from a vertex and fragment entry point
// pair in one shader module. It holds all configuration required to compile the GPU object and the
// compiled object itself once the renderer has produced it.
type Pipeline interface {
	// PipelineKey returns the key associated with this pipeline.
	//
	// Returns:
	//   - string: the key for this pipeline
	PipelineKey() string

	// Generation returns the construction sequence number of this pipeline. A pipeline built later
	// always has a higher generation.
	//
	// Returns:
	//   - uint64: the generation number
	Generation() uint64

	// Shader returns the shader this pipeline is compiled from.
	//
	// Returns:
	//   - shader.Shader: the shader
	Shader() shader.Shader

	// VertexEntryPoint returns the name of the vertex stage function.
	//
	// Returns:
	//   - string: the entry point name
	VertexEntryPoint() string

	// FragmentEntryPoint returns the name of the fragment stage function.
	//
	// Returns:
	//   - string: the entry point name
	FragmentEntryPoint() string

	// Layout returns the pipeline layout this pipeline is compiled against.
	//
	// Returns:
	//   - *wgpu.PipelineLayout: the layout, or nil if none was provided
	Layout() *wgpu.PipelineLayout

	// VertexLayouts returns the vertex buffer layouts in slot order.
	//
	// Returns:
	//   - []wgpu.VertexBufferLayout: the vertex buffer layouts
	VertexLayouts() []wgpu.VertexBufferLayout

	// RenderPipeline returns the compiled GPU pipeline.
	//
	// Returns:
	//   - *wgpu.RenderPipeline: the compiled pipeline, or nil before compilation
	RenderPipeline() *wgpu.RenderPipeline

	// CullMode returns the cull mode configured for this pipeline.
	//
	// Returns:
	//   - wgpu.CullMode: the cull mode for this pipeline
	CullMode() wgpu.CullMode

	// Topology returns the primitive topology configured for this pipeline.
	//
	// Returns:
	//   - wgpu.PrimitiveTopology: the primitive topology for this pipeline
	Topology() wgpu.PrimitiveTopology

	// FrontFace returns the front face winding order configured for this pipeline.
	//
	// Returns:
	//   - wgpu.FrontFace: the front face winding order for this pipeline
	FrontFace() wgpu.FrontFace

	// WriteMask returns the color write mask configured for this pipeline.
	//
	// Returns:
	//   - wgpu.ColorWriteMask: the color write mask for this pipeline
	WriteMask() wgpu.ColorWriteMask

	// BlendState returns the blend state configured for this pipeline.
	//
	// Returns:
	//   - *wgpu.BlendState: the blend state, or nil if blending is disabled
	BlendState() *wgpu.BlendState

	// SetRenderPipeline sets the compiled render pipeline.
	//
	// Parameters:
	//   - p: the WebGPU render pipeline to set
	SetRenderPipeline(p *wgpu.RenderPipeline)

	// Release frees the compiled GPU pipeline. The layout is left alone since it is shared.
	// Safe to call more than once.
	Release()
}

var _ Pipeline = &pipeline{}

// DefaultBlendState returns the blend used for sprite rendering: color is added on top of the
// destination weighted by source alpha, and destination alpha is preserved.
//
// Returns:
//   - *wgpu.BlendState: a new blend state
func DefaultBlendState() *wgpu.BlendState {
	return &wgpu.BlendState{
		Color: wgpu.BlendComponent{
			SrcFactor: wgpu.BlendFactorSrcAlpha,
			DstFactor: wgpu.BlendFactorOne,
			Operation: wgpu.BlendOperationAdd,
		},
		Alpha: wgpu.BlendComponent{
			SrcFactor: wgpu.BlendFactorZero,
			DstFactor: wgpu.BlendFactorOne,
			Operation: wgpu.BlendOperationAdd,
		},
	}
}

// NewPipeline creates a new render Pipeline for the given shader. The GPU object is not created
// here; the renderer compiles it and calls SetRenderPipeline.
//
// Parameters:
//   - pipelineKey: the key for this pipeline
//   - s: the validated shader to compile
//   - opts: a variadic list of PipelineBuilderOption functions to configure the pipeline
//
// Returns:
//   - Pipeline: a new Pipeline instance with the next generation number
func NewPipeline(pipelineKey string, s shader.Shader, opts ...PipelineBuilderOption) Pipeline {
	p := &pipeline{
		pipelineKey:        pipelineKey,
		generation:         generations.Add(1),
		shader:             s,
		vertexEntryPoint:   "vs_main",
		fragmentEntryPoint: "fs_main",
		cullMode:           wgpu.CullModeNone,
		topology:           wgpu.PrimitiveTopologyTriangleList,
		frontFace:          wgpu.FrontFaceCCW,
		writeMask:          wgpu.ColorWriteMaskAll,
		blendState:         DefaultBlendState(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *pipeline) PipelineKey() string {
	return p.pipelineKey
}

func (p *pipeline) Generation() uint64 {
	return p.generation
}

func (p *pipeline) Shader() shader.Shader {
	return p.shader
}

func (p *pipeline) VertexEntryPoint() string {
	return p.vertexEntryPoint
}

func (p *pipeline) FragmentEntryPoint() string {
	return p.fragmentEntryPoint
}

func (p *pipeline) Layout() *wgpu.PipelineLayout {
	return p.layout
}

func (p *pipeline) VertexLayouts() []wgpu.VertexBufferLayout {
	return p.vertexLayouts
}

func (p *pipeline) RenderPipeline() *wgpu.RenderPipeline {
	return p.renderPipeline
}

func (p *pipeline) CullMode() wgpu.CullMode {
	return p.cullMode
}

func (p *pipeline) Topology() wgpu.PrimitiveTopology {
	return p.topology
}

func (p *pipeline) FrontFace() wgpu.FrontFace {
	return p.frontFace
}

func (p *pipeline) WriteMask() wgpu.ColorWriteMask {
	return p.writeMask
}

func (p *pipeline) BlendState() *wgpu.BlendState {
	return p.blendState
}

func (p *pipeline) SetRenderPipeline(rp *wgpu.RenderPipeline) {
	p.renderPipeline = rp
}

func (p *pipeline) Release() {
	if p.renderPipeline != nil {
		p.renderPipeline.Release()
		p.renderPipeline = nil
	}
}
