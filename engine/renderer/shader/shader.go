package shader

import (
	"fmt"
	"os"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/gogpu/naga"
	"github.com/gogpu/naga/ir"
)

// shader is the implementation of the Shader interface.
// It holds the pre-processed WGSL text, the lowered module and its reflected resources.
type shader struct {
	key          string
	rawSource    string
	source       string
	module       *ir.Module
	resources    []Resource
	declarations []Annotation

	pp PreProcessor
}

// Shader is a parsed WGSL shader. Parsing succeeds for any syntactically valid module; whether
// the shader fits a given pipeline is decided separately by Validate.
type Shader interface {
	// Key retrieves the identifier the shader was parsed under, normally its file path.
	//
	// Returns:
	//   - string: the shader's key
	Key() string

	// RawSource retrieves the WGSL text as it was read, before pre-processing.
	//
	// Returns:
	//   - string: the unprocessed source
	RawSource() string

	// Source retrieves the pre-processed WGSL text handed to the GPU.
	//
	// Returns:
	//   - string: the processed source
	Source() string

	// Module retrieves the lowered naga IR module.
	//
	// Returns:
	//   - *ir.Module: the module
	Module() *ir.Module

	// Resources retrieves every @group/@binding global, ordered by group then binding.
	//
	// Returns:
	//   - []Resource: the bound resources
	Resources() []Resource

	// Declarations retrieves the @stoy:group annotations expanded by the pre-processor.
	//
	// Returns:
	//   - []Annotation: the group declarations in source order
	Declarations() []Annotation

	// HasEntryPoint reports whether the module declares an entry point with the given name and stage.
	//
	// Parameters:
	//   - name: the entry point function name
	//   - stage: the pipeline stage
	//
	// Returns:
	//   - bool: true if such an entry point exists
	HasEntryPoint(name string, stage ir.ShaderStage) bool

	// Validate runs naga's module validator and then checks entry points and every bound
	// resource against the target. All problems are collected into one *ValidationError.
	//
	// Parameters:
	//   - target: the pipeline contract to check against
	//
	// Returns:
	//   - error: nil if the shader fits, otherwise an error wrapping ErrValidation
	Validate(target Target) error

	// ModuleDescriptor builds the descriptor used to create the GPU shader module.
	//
	// Returns:
	//   - *wgpu.ShaderModuleDescriptor: the descriptor with the processed source
	ModuleDescriptor() *wgpu.ShaderModuleDescriptor
}

var _ Shader = &shader{}

// Parse pre-processes, parses and lowers WGSL source. Any failure is returned as a *ParseError
// wrapping ErrParse.
//
// Parameters:
//   - key: the identifier for the shader, normally its file path
//   - source: the WGSL source text
//   - options: functional options applied before parsing
//
// Returns:
//   - Shader: the parsed shader
//   - error: a *ParseError if the source could not be turned into a module
func Parse(key, source string, options ...ShaderBuilderOption) (Shader, error) {
	s := &shader{
		key:       key,
		rawSource: source,
	}
	for _, opt := range options {
		opt(s)
	}
	if s.pp == nil {
		s.pp = NewPreProcessor()
	}

	processed, decls, err := s.pp.Process(source)
	if err != nil {
		return nil, &ParseError{Key: key, Err: err}
	}
	module, err := lower(processed)
	if err != nil {
		return nil, &ParseError{Key: key, Err: err}
	}

	s.source = processed
	s.declarations = decls
	s.module = module
	s.resources = reflectResources(module)
	return s, nil
}

// lower parses and lowers WGSL with naga. naga can panic on malformed input, so a panic is
// returned as an error.
func lower(source string) (module *ir.Module, err error) {
	defer func() {
		if r := recover(); r != nil {
			module, err = nil, fmt.Errorf("naga: %v", r)
		}
	}()
	ast, err := naga.Parse(source)
	if err != nil {
		return nil, err
	}
	return naga.LowerWithSource(ast, source)
}

// Load reads a WGSL file and parses it with the path as key. Read failures are returned as-is,
// not as parse errors.
//
// Parameters:
//   - path: the WGSL file path
//   - options: functional options forwarded to Parse
//
// Returns:
//   - Shader: the parsed shader
//   - error: an error if the file cannot be read or parsed
func Load(path string, options ...ShaderBuilderOption) (Shader, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read shader source %q: %w", path, err)
	}
	return Parse(path, string(data), options...)
}

func (s *shader) Key() string {
	return s.key
}

func (s *shader) RawSource() string {
	return s.rawSource
}

func (s *shader) Source() string {
	return s.source
}

func (s *shader) Module() *ir.Module {
	return s.module
}

func (s *shader) Resources() []Resource {
	return s.resources
}

func (s *shader) Declarations() []Annotation {
	return s.declarations
}

func (s *shader) HasEntryPoint(name string, stage ir.ShaderStage) bool {
	return hasEntryPoint(s.module, name, stage)
}

func (s *shader) Validate(target Target) error {
	var problems []string

	problems = append(problems, validateModule(s.module)...)
	problems = append(problems, target.check(s.module, s.resources)...)

	if len(problems) > 0 {
		return &ValidationError{Key: s.key, Problems: problems}
	}
	return nil
}

// validateModule runs naga's validator and returns one message per problem. A validator panic
// becomes a single problem.
func validateModule(m *ir.Module) (problems []string) {
	defer func() {
		if r := recover(); r != nil {
			problems = append(problems, fmt.Sprintf("naga: %v", r))
		}
	}()
	verrs, err := naga.Validate(m)
	if err != nil {
		problems = append(problems, err.Error())
	}
	for _, ve := range verrs {
		problems = append(problems, ve.Error())
	}
	return problems
}

func (s *shader) ModuleDescriptor() *wgpu.ShaderModuleDescriptor {
	return &wgpu.ShaderModuleDescriptor{
		Label: s.key,
		WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{
			Code: s.source,
		},
	}
}
