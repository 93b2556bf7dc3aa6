package stoy

import (
	"github.com/Carmen-Shannon/oxy-stoy/engine/camera"
	"github.com/Carmen-Shannon/oxy-stoy/engine/renderer/shader"
	"github.com/cogentcore/webgpu/wgpu"
)

// Struct keys accepted by @stoy:include and @stoy:group.
const (
	StructCamera2D     shader.AnnotationArg = "camera2d"
	StructMainUniforms shader.AnnotationArg = "main_uniforms"
	StructQuadVertex   shader.AnnotationArg = "quad_vertex"
)

// Bind group indices of the sprite pipeline layout.
const (
	GroupCamera = iota
	GroupSprite
	GroupMainUniforms
)

// NewPreProcessor returns a pre-processor that knows every engine struct.
//
// Returns:
//   - shader.PreProcessor: the pre-processor
func NewPreProcessor() shader.PreProcessor {
	return shader.NewPreProcessor(
		shader.WithStruct(StructCamera2D, camera.GPUCamera2DUniformSource, "Camera2DUniform"),
		shader.WithStruct(StructMainUniforms, GPUMainUniformsSource, "MainUniforms"),
		shader.WithStruct(StructQuadVertex, QuadVertexSource, "QuadVertex"),
	)
}

// newTarget builds the contract every shader must satisfy to be bound to the sprite pipeline.
// groups must be in bind group order: camera, sprite, main uniforms.
func newTarget(vertexEntry, fragmentEntry string, maxBindGroups int, groups ...wgpu.BindGroupLayoutDescriptor) shader.Target {
	return shader.Target{
		VertexEntryPoint:   vertexEntry,
		FragmentEntryPoint: fragmentEntry,
		Groups:             groups,
		MaxBindGroups:      maxBindGroups,
	}
}
