package sprite

import (
	"encoding/binary"
	"math"

	"github.com/Carmen-Shannon/oxy-stoy/engine/renderer/bind_group_provider"
	"github.com/cogentcore/webgpu/wgpu"
)

// QuadVertexSize is the byte stride of one QuadVertex.
const QuadVertexSize = 20

// QuadVertexCount is the number of vertices in a quad drawn as two triangles.
const QuadVertexCount = 6

// QuadVertex is one vertex of the sprite quad: a position in design units and a texture coordinate.
type QuadVertex struct {
	Position  [3]float32
	TexCoords [2]float32
}

// Size returns the byte size of the vertex. Always 20.
func (v QuadVertex) Size() int {
	return QuadVertexSize
}

// Marshal serializes the vertex as five little-endian float32 values.
func (v QuadVertex) Marshal() []byte {
	buf := make([]byte, QuadVertexSize)
	for i, f := range v.Position {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(f))
	}
	binary.LittleEndian.PutUint32(buf[12:], math.Float32bits(v.TexCoords[0]))
	binary.LittleEndian.PutUint32(buf[16:], math.Float32bits(v.TexCoords[1]))
	return buf
}

// QuadVertexLayout returns the vertex buffer layout matching QuadVertex:
// float32x3 position at location 0 and float32x2 texture coordinates at location 1.
func QuadVertexLayout() wgpu.VertexBufferLayout {
	return wgpu.VertexBufferLayout{
		ArrayStride: QuadVertexSize,
		StepMode:    wgpu.VertexStepModeVertex,
		Attributes: []wgpu.VertexAttribute{
			{Format: wgpu.VertexFormatFloat32x3, Offset: 0, ShaderLocation: 0},
			{Format: wgpu.VertexFormatFloat32x2, Offset: 12, ShaderLocation: 1},
		},
	}
}

// QuadVertices returns the two counter-clockwise triangles of a width×height quad centered on the
// origin at z = 0. Texture v grows downward, so (0,0) is the top-left texel.
func QuadVertices(width, height float32) []QuadVertex {
	hw, hh := width/2, height/2
	bl := QuadVertex{Position: [3]float32{-hw, -hh, 0}, TexCoords: [2]float32{0, 1}}
	br := QuadVertex{Position: [3]float32{hw, -hh, 0}, TexCoords: [2]float32{1, 1}}
	tr := QuadVertex{Position: [3]float32{hw, hh, 0}, TexCoords: [2]float32{1, 0}}
	tl := QuadVertex{Position: [3]float32{-hw, hh, 0}, TexCoords: [2]float32{0, 0}}
	return []QuadVertex{bl, br, tr, bl, tr, tl}
}

// MeshUploader creates vertex buffers. Renderer.InitMeshBuffers satisfies it.
type MeshUploader interface {
	InitMeshBuffers(provider bind_group_provider.BindGroupProvider, vertexData []byte, vertexCount int) error
}

// quadMesh is the implementation of the QuadMesh interface.
type quadMesh struct {
	vertices []QuadVertex
	provider bind_group_provider.BindGroupProvider
}

// QuadMesh is the static vertex data of one quad and the provider its GPU buffer lives on.
type QuadMesh interface {
	// Vertices returns the quad's vertices in draw order.
	Vertices() []QuadVertex

	// Marshal serializes all vertices back to back.
	Marshal() []byte

	// Provider returns the provider holding the vertex buffer once uploaded.
	Provider() bind_group_provider.BindGroupProvider

	// Upload creates the GPU vertex buffer.
	Upload(u MeshUploader) error
}

var _ QuadMesh = &quadMesh{}

// NewQuadMesh builds a quad mesh of the given design size.
//
// Parameters:
//   - label: debug label for the vertex buffer
//   - width: quad width in design units
//   - height: quad height in design units
//
// Returns:
//   - QuadMesh: the mesh, not yet uploaded
func NewQuadMesh(label string, width, height float32) QuadMesh {
	return &quadMesh{
		vertices: QuadVertices(width, height),
		provider: bind_group_provider.NewBindGroupProvider(label),
	}
}

func (q *quadMesh) Vertices() []QuadVertex {
	return q.vertices
}

func (q *quadMesh) Marshal() []byte {
	out := make([]byte, 0, len(q.vertices)*QuadVertexSize)
	for _, v := range q.vertices {
		out = append(out, v.Marshal()...)
	}
	return out
}

func (q *quadMesh) Provider() bind_group_provider.BindGroupProvider {
	return q.provider
}

func (q *quadMesh) Upload(u MeshUploader) error {
	return u.InitMeshBuffers(q.provider, q.Marshal(), len(q.vertices))
}
