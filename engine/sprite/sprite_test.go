package sprite

import (
	"encoding/binary"
	"errors"
	"math"
	"testing"

	"github.com/Carmen-Shannon/oxy-stoy/common"
	"github.com/Carmen-Shannon/oxy-stoy/engine/renderer/bind_group_provider"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingUploader struct {
	calls       []string
	staging     common.TextureStagingData
	sampler     common.SamplerStagingData
	layout      wgpu.BindGroupLayoutDescriptor
	vertexData  []byte
	vertexCount int
	failOn      string
}

func (u *recordingUploader) step(name string) error {
	u.calls = append(u.calls, name)
	if u.failOn == name {
		return errors.New("boom")
	}
	return nil
}

func (u *recordingUploader) InitTextureView(_ bind_group_provider.BindGroupProvider, _ int, staging common.TextureStagingData) error {
	u.staging = staging
	return u.step("texture")
}

func (u *recordingUploader) InitSampler(_ bind_group_provider.BindGroupProvider, _ int, sampler common.SamplerStagingData) error {
	u.sampler = sampler
	return u.step("sampler")
}

func (u *recordingUploader) InitBindGroup(_ bind_group_provider.BindGroupProvider, desc wgpu.BindGroupLayoutDescriptor) error {
	u.layout = desc
	return u.step("bind_group")
}

func (u *recordingUploader) InitMeshBuffers(_ bind_group_provider.BindGroupProvider, data []byte, count int) error {
	u.vertexData = data
	u.vertexCount = count
	return u.step("mesh")
}

func TestQuadVertex_Marshal(t *testing.T) {
	v := QuadVertex{Position: [3]float32{1, -2, 0.5}, TexCoords: [2]float32{0.25, 1}}
	b := v.Marshal()
	require.Len(t, b, QuadVertexSize)
	assert.Equal(t, QuadVertexSize, v.Size())

	want := []float32{1, -2, 0.5, 0.25, 1}
	for i, f := range want {
		assert.Equal(t, f, math.Float32frombits(binary.LittleEndian.Uint32(b[i*4:])))
	}
}

func TestQuadVertexLayout(t *testing.T) {
	l := QuadVertexLayout()
	assert.EqualValues(t, 20, l.ArrayStride)
	require.Len(t, l.Attributes, 2)
	assert.Equal(t, wgpu.VertexFormatFloat32x3, l.Attributes[0].Format)
	assert.EqualValues(t, 0, l.Attributes[0].ShaderLocation)
	assert.Equal(t, wgpu.VertexFormatFloat32x2, l.Attributes[1].Format)
	assert.EqualValues(t, 12, l.Attributes[1].Offset)
	assert.EqualValues(t, 1, l.Attributes[1].ShaderLocation)
}

func TestQuadVertices_CoverDesignSize(t *testing.T) {
	vs := QuadVertices(800, 600)
	require.Len(t, vs, QuadVertexCount)
	for _, v := range vs {
		assert.Equal(t, float32(400), float32(math.Abs(float64(v.Position[0]))))
		assert.Equal(t, float32(300), float32(math.Abs(float64(v.Position[1]))))
		assert.Zero(t, v.Position[2])
	}

	// Both triangles wind counter-clockwise.
	for tri := 0; tri < 2; tri++ {
		a, b, c := vs[tri*3].Position, vs[tri*3+1].Position, vs[tri*3+2].Position
		cross := (b[0]-a[0])*(c[1]-a[1]) - (b[1]-a[1])*(c[0]-a[0])
		assert.Positive(t, cross)
	}
}

func TestQuadMesh_Upload(t *testing.T) {
	m := NewQuadMesh("quad", 800, 600)
	u := &recordingUploader{}
	require.NoError(t, m.Upload(u))
	assert.Equal(t, QuadVertexCount, u.vertexCount)
	assert.Len(t, u.vertexData, QuadVertexCount*QuadVertexSize)
	assert.Equal(t, "quad", m.Provider().Label())
}

func TestNewSprite_DefaultTexture(t *testing.T) {
	s, err := NewSprite("sprite", DefaultTexture)
	require.NoError(t, err)
	assert.EqualValues(t, 64, s.Width())
	assert.EqualValues(t, 64, s.Height())

	desc := s.LayoutDescriptor()
	require.Len(t, desc.Entries, 2)
	assert.Equal(t, wgpu.TextureSampleTypeFloat, desc.Entries[0].Texture.SampleType)
	assert.Equal(t, wgpu.TextureViewDimension2D, desc.Entries[0].Texture.ViewDimension)
	assert.Equal(t, wgpu.SamplerBindingTypeFiltering, desc.Entries[1].Sampler.Type)
}

func TestNewSprite_NotAnImage(t *testing.T) {
	_, err := NewSprite("sprite", []byte("definitely not a png"))
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrNotAnImage)
}

func TestSprite_Upload(t *testing.T) {
	s, err := NewSprite("sprite", DefaultTexture, WithAddressMode(wgpu.AddressModeRepeat))
	require.NoError(t, err)

	u := &recordingUploader{}
	require.NoError(t, s.Upload(u))
	assert.Equal(t, []string{"texture", "sampler", "bind_group"}, u.calls)
	assert.Len(t, u.staging.Pixels, 64*64*4)
	assert.Equal(t, wgpu.AddressModeRepeat, u.sampler.AddressModeU)
	assert.Len(t, u.layout.Entries, 2)
}

func TestSprite_UploadStopsOnError(t *testing.T) {
	s, err := NewSprite("sprite", DefaultTexture)
	require.NoError(t, err)

	u := &recordingUploader{failOn: "sampler"}
	err = s.Upload(u)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "sampler")
	assert.Equal(t, []string{"texture", "sampler"}, u.calls)
}
