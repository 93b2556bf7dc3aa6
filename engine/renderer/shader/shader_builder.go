package shader

// ShaderBuilderOption is a functional option applied to a shader before parsing.
type ShaderBuilderOption func(*shader)

// WithPreProcessor sets the pre-processor used to expand @stoy: annotations.
// Without it a pre-processor with no registered structs is used.
//
// Parameters:
//   - pp: the pre-processor
//
// Returns:
//   - ShaderBuilderOption: a function that applies the pre-processor
func WithPreProcessor(pp PreProcessor) ShaderBuilderOption {
	return func(s *shader) {
		s.pp = pp
	}
}
