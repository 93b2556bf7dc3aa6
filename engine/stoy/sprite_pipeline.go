package stoy

import (
	"github.com/Carmen-Shannon/oxy-stoy/engine/renderer/pipeline"
	"github.com/Carmen-Shannon/oxy-stoy/engine/renderer/shader"
	"github.com/Carmen-Shannon/oxy-stoy/engine/sprite"
	"github.com/cogentcore/webgpu/wgpu"
)

const spritePipelineKey = "stoy_sprite"

// newSpritePipeline describes the single quad pipeline: one vertex buffer, additive alpha
// blending, triangle list, no culling and no depth.
func newSpritePipeline(s shader.Shader, layout *wgpu.PipelineLayout, vertexEntry, fragmentEntry string) pipeline.Pipeline {
	return pipeline.NewPipeline(spritePipelineKey, s,
		pipeline.WithEntryPoints(vertexEntry, fragmentEntry),
		pipeline.WithLayout(layout),
		pipeline.WithVertexLayouts(sprite.QuadVertexLayout()),
		pipeline.WithBlendState(pipeline.DefaultBlendState()),
		pipeline.WithCullMode(wgpu.CullModeNone),
		pipeline.WithTopology(wgpu.PrimitiveTopologyTriangleList),
		pipeline.WithFrontFace(wgpu.FrontFaceCCW),
		pipeline.WithWriteMask(wgpu.ColorWriteMaskAll),
	)
}
