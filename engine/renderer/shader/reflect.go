package shader

import (
	"slices"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/gogpu/naga/ir"
)

// ResourceKind classifies a bound shader resource by how it is bound.
type ResourceKind int

const (
	ResourceUnknown ResourceKind = iota
	ResourceUniformBuffer
	ResourceStorageBuffer
	ResourceTexture
	ResourceSampler
	ResourceComparisonSampler
	ResourceStorageTexture
)

func (k ResourceKind) String() string {
	switch k {
	case ResourceUniformBuffer:
		return "uniform buffer"
	case ResourceStorageBuffer:
		return "storage buffer"
	case ResourceTexture:
		return "texture"
	case ResourceSampler:
		return "sampler"
	case ResourceComparisonSampler:
		return "comparison sampler"
	case ResourceStorageTexture:
		return "storage texture"
	default:
		return "unknown resource"
	}
}

// Resource is a global variable the shader binds through @group/@binding.
type Resource struct {
	// Name is the WGSL variable name.
	Name string

	// Group and Binding are the @group and @binding indices.
	Group, Binding uint32

	// Kind is how the resource binds.
	Kind ResourceKind

	// Size is the byte size of a buffer's type under WGSL layout rules. It is 0 for handles,
	// and counts one element of a runtime-sized array.
	Size uint32

	// ViewDimension and SampleType describe texture resources. Undefined otherwise.
	ViewDimension wgpu.TextureViewDimension
	SampleType    wgpu.TextureSampleType
}

// reflectResources walks the module's global variables and classifies every bound resource.
// The result is ordered by group then binding.
func reflectResources(m *ir.Module) []Resource {
	var out []Resource
	for _, g := range m.GlobalVariables {
		if g.Binding == nil {
			continue
		}
		res := Resource{
			Name:    g.Name,
			Group:   g.Binding.Group,
			Binding: g.Binding.Binding,
		}
		var inner ir.TypeInner
		if int(g.Type) < len(m.Types) {
			inner = m.Types[g.Type].Inner
		}
		switch g.Space {
		case ir.SpaceUniform:
			res.Kind = ResourceUniformBuffer
			res.Size = ir.TypeSize(m, g.Type)
		case ir.SpaceStorage:
			res.Kind = ResourceStorageBuffer
			res.Size = ir.TypeSize(m, g.Type)
		case ir.SpaceHandle:
			classifyHandle(&res, inner)
		}
		out = append(out, res)
	}
	slices.SortFunc(out, func(a, b Resource) int {
		if a.Group != b.Group {
			return int(a.Group) - int(b.Group)
		}
		return int(a.Binding) - int(b.Binding)
	})
	return out
}

// classifyHandle fills in the kind and texture properties for handle-space globals.
func classifyHandle(res *Resource, inner ir.TypeInner) {
	switch t := inner.(type) {
	case ir.SamplerType:
		if t.Comparison {
			res.Kind = ResourceComparisonSampler
		} else {
			res.Kind = ResourceSampler
		}
	case ir.ImageType:
		res.ViewDimension = viewDimension(t.Dim, t.Arrayed)
		switch t.Class {
		case ir.ImageClassStorage:
			res.Kind = ResourceStorageTexture
		case ir.ImageClassDepth:
			res.Kind = ResourceTexture
			res.SampleType = wgpu.TextureSampleTypeDepth
		default:
			res.Kind = ResourceTexture
			switch t.SampledKind {
			case ir.ScalarSint:
				res.SampleType = wgpu.TextureSampleTypeSint
			case ir.ScalarUint:
				res.SampleType = wgpu.TextureSampleTypeUint
			default:
				res.SampleType = wgpu.TextureSampleTypeFloat
			}
		}
	default:
		res.Kind = ResourceUnknown
	}
}

func viewDimension(dim ir.ImageDimension, arrayed bool) wgpu.TextureViewDimension {
	switch dim {
	case ir.Dim1D:
		return wgpu.TextureViewDimension1D
	case ir.Dim3D:
		return wgpu.TextureViewDimension3D
	case ir.DimCube:
		if arrayed {
			return wgpu.TextureViewDimensionCubeArray
		}
		return wgpu.TextureViewDimensionCube
	default:
		if arrayed {
			return wgpu.TextureViewDimension2DArray
		}
		return wgpu.TextureViewDimension2D
	}
}

// entryKind classifies a layout entry the same way reflectResources classifies shader globals,
// so the two sides can be compared.
func entryKind(e wgpu.BindGroupLayoutEntry) ResourceKind {
	switch {
	case e.Texture.SampleType != wgpu.TextureSampleTypeUndefined:
		return ResourceTexture
	case e.Sampler.Type == wgpu.SamplerBindingTypeComparison:
		return ResourceComparisonSampler
	case e.Sampler.Type != wgpu.SamplerBindingTypeUndefined:
		return ResourceSampler
	}
	switch e.Buffer.Type {
	case wgpu.BufferBindingTypeUniform:
		return ResourceUniformBuffer
	case wgpu.BufferBindingTypeStorage, wgpu.BufferBindingTypeReadOnlyStorage:
		return ResourceStorageBuffer
	}
	return ResourceUnknown
}
