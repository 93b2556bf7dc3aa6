package shader

// PreProcessorOption is a functional option applied to a PreProcessor during construction.
type PreProcessorOption func(*preProcessor)

// WithStruct registers a WGSL struct under key so @stoy:include and @stoy:group can reference it.
//
// Parameters:
//   - key: the annotation argument naming the struct (e.g. "camera2d")
//   - source: the WGSL struct definition
//   - typeName: the WGSL type name declared by source
//
// Returns:
//   - PreProcessorOption: a function that registers the struct
func WithStruct(key AnnotationArg, source, typeName string) PreProcessorOption {
	return func(p *preProcessor) {
		p.structRegistry[key] = StructEntry{Source: source, Type: typeName}
	}
}
