package bind_group_provider

// BufferWrite describes a single GPU buffer write operation targeting a specific binding
// on a BindGroupProvider at a given byte offset.
type BufferWrite struct {
	Provider BindGroupProvider
	Binding  int
	Offset   uint64
	Data     []byte
}

// GPUData is implemented by fixed-layout records that can be uploaded to a GPU buffer.
type GPUData interface {
	// Size returns the record's size in bytes.
	Size() int

	// Marshal serializes the record into its little-endian wire layout.
	Marshal() []byte
}

// NewBufferWrite builds a full-buffer write of data to the given binding.
//
// Parameters:
//   - provider: the provider owning the target buffer
//   - binding: the binding index of the target buffer
//   - data: the record to serialize
//
// Returns:
//   - BufferWrite: the write, starting at offset 0
func NewBufferWrite(provider BindGroupProvider, binding int, data GPUData) BufferWrite {
	return BufferWrite{
		Provider: provider,
		Binding:  binding,
		Data:     data.Marshal(),
	}
}
