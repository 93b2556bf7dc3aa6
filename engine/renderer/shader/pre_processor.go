// pre_processor.go implements the WGSL shader pre-processor. It scans shader source for
// @stoy: annotations, replaces them with registered struct sources or generated binding
// declarations, and records the generated declarations.
package shader

import (
	"fmt"
	"strings"
)

// StructEntry pairs a WGSL struct source string (embedded from a .wgsl asset file)
// with the WGSL type name it declares.
type StructEntry struct {
	// Source is the raw WGSL struct definition text injected by @stoy:include.
	Source string

	// Type is the WGSL type name emitted in @stoy:group declarations (e.g. "Camera2DUniform").
	Type string
}

// preProcessor is the implementation of the PreProcessor interface.
type preProcessor struct {
	// structRegistry maps struct type argument keys to their embedded WGSL source and type name.
	structRegistry map[AnnotationArg]StructEntry

	// addressSpaceRegistry maps address space argument keys to WGSL var<> syntax strings.
	addressSpaceRegistry map[AnnotationArg]string
}

// PreProcessor processes raw WGSL shader source code containing @stoy: annotations.
// A PreProcessor is stateless between calls and safe to share.
type PreProcessor interface {
	// Process replaces @stoy: annotations with their WGSL output. @stoy:include lines become
	// the registered struct source; @stoy:group lines become @group/@binding declarations.
	// Each struct is included at most once even if requested several times.
	//
	// Parameters:
	//   - source: the raw WGSL shader source code
	//
	// Returns:
	//   - string: the processed WGSL source
	//   - []Annotation: the @stoy:group declarations in source order
	//   - error: an error if any annotation is malformed or references an unknown struct
	Process(source string) (string, []Annotation, error)

	// Structs returns the registered struct keys.
	//
	// Returns:
	//   - []AnnotationArg: the registered keys
	Structs() []AnnotationArg
}

var _ PreProcessor = &preProcessor{}

// NewPreProcessor creates a PreProcessor with the given struct registrations.
//
// Parameters:
//   - options: functional options registering struct types
//
// Returns:
//   - PreProcessor: a ready-to-use pre-processor instance
func NewPreProcessor(options ...PreProcessorOption) PreProcessor {
	p := &preProcessor{
		structRegistry: make(map[AnnotationArg]StructEntry),
		addressSpaceRegistry: map[AnnotationArg]string{
			annotationArgSpaceUniform:          "var<uniform>",
			annotationArgSpaceStorageRead:      "var<storage, read>",
			annotationArgSpaceStorageReadWrite: "var<storage, read_write>",
		},
	}
	for _, opt := range options {
		opt(p)
	}
	return p
}

func (p *preProcessor) Process(source string) (string, []Annotation, error) {
	var declarations []Annotation
	included := make(map[AnnotationArg]bool)

	lines := strings.Split(source, "\n")
	out := make([]string, 0, len(lines))

	for i, line := range lines {
		a, err := parseAnnotation(line, i+1)
		if err != nil {
			return "", nil, err
		}
		if a == nil {
			out = append(out, line)
			continue
		}

		switch a.Type {
		case AnnotationTypeInclude:
			entry, ok := p.structRegistry[a.Args[0]]
			if !ok {
				return "", nil, fmt.Errorf("line %d: unknown @stoy:include struct %q", a.Line, a.Args[0])
			}
			if included[a.Args[0]] {
				continue
			}
			included[a.Args[0]] = true
			out = append(out, strings.TrimRight(entry.Source, "\n"))
		case AnnotationTypeBindingGroup:
			entry, ok := p.structRegistry[a.Args[2]]
			if !ok {
				return "", nil, fmt.Errorf("line %d: unknown @stoy:group struct %q", a.Line, a.Args[2])
			}
			addrSpace := p.addressSpaceRegistry[a.Args[0]]
			out = append(out, fmt.Sprintf("@group(%d) @binding(%d) %s %s: %s;", *a.Group, *a.Binding, addrSpace, a.Args[1], entry.Type))
			declarations = append(declarations, *a)
		}
	}
	return strings.Join(out, "\n"), declarations, nil
}

func (p *preProcessor) Structs() []AnnotationArg {
	keys := make([]AnnotationArg, 0, len(p.structRegistry))
	for k := range p.structRegistry {
		keys = append(keys, k)
	}
	return keys
}
