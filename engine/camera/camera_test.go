package camera

import (
	"encoding/binary"
	"math"
	"testing"
	"time"

	"github.com/Carmen-Shannon/oxy-stoy/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGPUCamera2DUniformLayout(t *testing.T) {
	u := &GPUCamera2DUniform{}
	for i := range u.ViewProj {
		u.ViewProj[i] = float32(i)
	}
	assert.Equal(t, 64, u.Size())

	buf := u.Marshal()
	require.Len(t, buf, 64)
	assert.Equal(t, float32(5), math.Float32frombits(binary.LittleEndian.Uint32(buf[20:])))
	assert.Contains(t, GPUCamera2DUniformSource, "struct Camera2DUniform")
}

func TestDefaultProjectionIsCentered(t *testing.T) {
	c := NewCamera2D()
	m := c.Uniform().ViewProj

	center := common.TransformPoint(m[:], 0, 0, 0)
	assert.InDelta(t, 0, center[0], 1e-6)
	assert.InDelta(t, 0, center[1], 1e-6)
	assert.InDelta(t, 0.5, center[2], 1e-6)

	corner := common.TransformPoint(m[:], 400, 300, 0)
	assert.InDelta(t, 1, corner[0], 1e-6)
	assert.InDelta(t, 1, corner[1], 1e-6)
}

func TestUpdateMatchesExpectedMatrix(t *testing.T) {
	c := NewCamera2D()
	c.Update([3]float32{100, -50, 0})

	var ortho, view, proj, want [16]float32
	common.Ortho(ortho[:], -400, 400, -300, 300, -50, 50)
	common.Translate(view[:], -100, 50, 0)
	common.Mul4(proj[:], common.OpenGLToWGPU[:], ortho[:])
	common.Mul4(want[:], proj[:], view[:])

	got := c.Uniform().ViewProj
	assert.True(t, common.ApproxEqual(want[:], got[:], 1e-6))
	assert.Equal(t, [3]float32{100, -50, 0}, c.Position())

	p := common.TransformPoint(got[:], 100, -50, 0)
	assert.InDelta(t, 0, p[0], 1e-6)
	assert.InDelta(t, 0, p[1], 1e-6)
}

func TestDepthRangeMapsToZeroOne(t *testing.T) {
	c := NewCamera2D()
	m := c.Uniform().ViewProj

	near := common.TransformPoint(m[:], 0, 0, 50)
	far := common.TransformPoint(m[:], 0, 0, -50)
	assert.InDelta(t, 0, near[2], 1e-6)
	assert.InDelta(t, 1, far[2], 1e-6)
}

func TestScaleNarrowsVisibleExtent(t *testing.T) {
	c := NewCamera2D(WithScale(2, 2))
	m := c.Uniform().ViewProj
	p := common.TransformPoint(m[:], 200, 150, 0)
	assert.InDelta(t, 1, p[0], 1e-6)
	assert.InDelta(t, 1, p[1], 1e-6)

	before := c.Uniform()
	c.SetScale(0, 1)
	assert.Equal(t, before, c.Uniform())
}

func TestWriteUploadsCurrentMatrix(t *testing.T) {
	c := NewCamera2D(WithDesignSize(1024, 768))
	w, h := c.DesignSize()
	assert.Equal(t, float32(1024), w)
	assert.Equal(t, float32(768), h)

	u := c.Uniform()
	write := c.Write()
	assert.Equal(t, u.Marshal(), write.Data)
	assert.Same(t, c.BindGroupProvider(), write.Provider)

	desc := c.LayoutDescriptor()
	require.Len(t, desc.Entries, 1)
	assert.Equal(t, uint64(64), desc.Entries[0].Buffer.MinBindingSize)
}

func TestControllerAdvance(t *testing.T) {
	held := map[int]bool{common.KeyRight: true, common.KeyW: true}
	isDown := func(k int) bool { return held[k] }

	cc := NewController2D(WithPanSpeed(100))
	moved := cc.Advance(500*time.Millisecond, isDown)
	assert.True(t, moved)
	assert.Equal(t, [3]float32{50, 50, 0}, cc.Position())

	held = map[int]bool{}
	assert.False(t, cc.Advance(time.Second, isDown))
	assert.False(t, cc.Advance(0, func(int) bool { return true }))
	assert.Equal(t, [3]float32{50, 50, 0}, cc.Position())
}

func TestControllerOpposingKeysCancel(t *testing.T) {
	cc := NewController2D(WithStartPosition(1, 2, 3))
	moved := cc.Advance(time.Second, func(k int) bool { return k == common.KeyLeft || k == common.KeyRight })
	assert.False(t, moved)
	assert.Equal(t, [3]float32{1, 2, 3}, cc.Position())
}
