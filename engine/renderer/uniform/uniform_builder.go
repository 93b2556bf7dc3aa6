package uniform

import "github.com/cogentcore/webgpu/wgpu"

// blockConfig collects builder options before the generic block is instantiated.
type blockConfig struct {
	binding    int
	visibility wgpu.ShaderStage
}

// BlockBuilderOption is a functional option applied to a Block during construction via NewBlock.
type BlockBuilderOption func(*blockConfig)

// WithBinding sets the binding index of the uniform buffer within its group. Defaults to 0.
//
// Parameters:
//   - binding: the binding index
//
// Returns:
//   - BlockBuilderOption: a function that sets the binding index
func WithBinding(binding int) BlockBuilderOption {
	return func(c *blockConfig) {
		c.binding = binding
	}
}

// WithVisibility sets the shader stages that can read the block. Defaults to vertex and fragment.
//
// Parameters:
//   - stages: the visible shader stages
//
// Returns:
//   - BlockBuilderOption: a function that sets the visibility
func WithVisibility(stages wgpu.ShaderStage) BlockBuilderOption {
	return func(c *blockConfig) {
		c.visibility = stages
	}
}
