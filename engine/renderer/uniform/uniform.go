package uniform

import (
	"github.com/Carmen-Shannon/oxy-stoy/engine/renderer/bind_group_provider"
	"github.com/cogentcore/webgpu/wgpu"
)

// block is the implementation of the Block interface.
type block[T bind_group_provider.GPUData] struct {
	data       T
	binding    int
	visibility wgpu.ShaderStage
	provider   bind_group_provider.BindGroupProvider
}

// Block pairs a fixed-layout record with the GPU buffer it is uploaded to.
// The record is mutated in place through Data and uploaded with Write; there is no
// dirty tracking, every Write uploads the whole record.
type Block[T bind_group_provider.GPUData] interface {
	// Data returns the record backing this block. Mutations are visible to the next Write.
	//
	// Returns:
	//   - T: the backing record
	Data() T

	// Provider returns the bind group provider owning the uniform buffer.
	//
	// Returns:
	//   - bind_group_provider.BindGroupProvider: the provider
	Provider() bind_group_provider.BindGroupProvider

	// LayoutDescriptor returns the single-entry bind group layout describing this block.
	// The buffer's minimum binding size equals the record size.
	//
	// Returns:
	//   - wgpu.BindGroupLayoutDescriptor: the layout descriptor
	LayoutDescriptor() wgpu.BindGroupLayoutDescriptor

	// Write serializes the record into a buffer write for Renderer.WriteBuffers.
	//
	// Returns:
	//   - bind_group_provider.BufferWrite: the full-buffer write
	Write() bind_group_provider.BufferWrite
}

var _ Block[bind_group_provider.GPUData] = &block[bind_group_provider.GPUData]{}

// NewBlock creates a uniform Block around data.
//
// Parameters:
//   - label: debug label for the underlying provider and its GPU resources
//   - data: the record to upload, typically a pointer to a GPU struct
//   - options: functional options to configure the block
//
// Returns:
//   - Block[T]: the new block
func NewBlock[T bind_group_provider.GPUData](label string, data T, options ...BlockBuilderOption) Block[T] {
	cfg := blockConfig{
		binding:    0,
		visibility: wgpu.ShaderStageVertex | wgpu.ShaderStageFragment,
	}
	for _, opt := range options {
		opt(&cfg)
	}
	return &block[T]{
		data:       data,
		binding:    cfg.binding,
		visibility: cfg.visibility,
		provider:   bind_group_provider.NewBindGroupProvider(label),
	}
}

func (b *block[T]) Data() T {
	return b.data
}

func (b *block[T]) Provider() bind_group_provider.BindGroupProvider {
	return b.provider
}

func (b *block[T]) LayoutDescriptor() wgpu.BindGroupLayoutDescriptor {
	return wgpu.BindGroupLayoutDescriptor{
		Label: b.provider.Label() + " Layout",
		Entries: []wgpu.BindGroupLayoutEntry{
			{
				Binding:    uint32(b.binding),
				Visibility: b.visibility,
				Buffer: wgpu.BufferBindingLayout{
					Type:           wgpu.BufferBindingTypeUniform,
					MinBindingSize: uint64(b.data.Size()),
				},
			},
		},
	}
}

func (b *block[T]) Write() bind_group_provider.BufferWrite {
	return bind_group_provider.NewBufferWrite(b.provider, b.binding, b.data)
}
