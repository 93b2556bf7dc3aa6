package bind_group_provider

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
)

type fixedRecord struct{ v uint32 }

func (r fixedRecord) Size() int { return 4 }
func (r fixedRecord) Marshal() []byte {
	buf := make([]byte, 4)
	binary.LittleEndian.PutUint32(buf, r.v)
	return buf
}

func TestNewBindGroupProviderKeepsLabel(t *testing.T) {
	p := NewBindGroupProvider("camera2d")
	assert.Equal(t, "camera2d", p.Label())
	assert.Nil(t, p.BindGroup())
	assert.Nil(t, p.Buffer(0))
	assert.Zero(t, p.VertexCount())
}

func TestSetVertexBufferRecordsCount(t *testing.T) {
	p := NewBindGroupProvider("quad")
	p.SetVertexBuffer(nil, 6)
	assert.Equal(t, 6, p.VertexCount())

	p.Release()
	assert.Zero(t, p.VertexCount())
}

func TestNewBufferWrite(t *testing.T) {
	p := NewBindGroupProvider("main_uniforms")
	w := NewBufferWrite(p, 0, fixedRecord{v: 7})
	assert.Same(t, p, w.Provider)
	assert.Equal(t, 0, w.Binding)
	assert.Equal(t, uint64(0), w.Offset)
	assert.Equal(t, []byte{7, 0, 0, 0}, w.Data)
}
