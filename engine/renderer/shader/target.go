package shader

import (
	"fmt"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/gogpu/naga/ir"
)

// DefaultMaxBindGroups is the WebGPU default limit for maxBindGroups.
const DefaultMaxBindGroups = 4

// Target describes the pipeline a shader must fit: the entry points the pipeline calls and
// the bind group layouts the engine provides. Groups is indexed by @group.
type Target struct {
	VertexEntryPoint   string
	FragmentEntryPoint string
	Groups             []wgpu.BindGroupLayoutDescriptor
	MaxBindGroups      int
}

// check compares the shader's entry points and resources against the target and returns
// one message per problem.
func (t Target) check(m *ir.Module, resources []Resource) []string {
	var problems []string

	if !hasEntryPoint(m, t.VertexEntryPoint, ir.StageVertex) {
		problems = append(problems, fmt.Sprintf("missing @vertex entry point %q", t.VertexEntryPoint))
	}
	if !hasEntryPoint(m, t.FragmentEntryPoint, ir.StageFragment) {
		problems = append(problems, fmt.Sprintf("missing @fragment entry point %q", t.FragmentEntryPoint))
	}

	maxGroups := t.MaxBindGroups
	if maxGroups <= 0 {
		maxGroups = DefaultMaxBindGroups
	}

	for _, r := range resources {
		if int(r.Group) >= maxGroups {
			problems = append(problems, fmt.Sprintf("%s uses @group(%d), the device allows %d bind groups", r.Name, r.Group, maxGroups))
			continue
		}
		if int(r.Group) >= len(t.Groups) {
			problems = append(problems, fmt.Sprintf("%s uses @group(%d), the pipeline provides groups 0..%d", r.Name, r.Group, len(t.Groups)-1))
			continue
		}
		entry, ok := findEntry(t.Groups[r.Group], r.Binding)
		if !ok {
			problems = append(problems, fmt.Sprintf("%s at @group(%d) @binding(%d) has no matching engine resource", r.Name, r.Group, r.Binding))
			continue
		}
		if want := entryKind(entry); want != r.Kind {
			problems = append(problems, fmt.Sprintf("%s at @group(%d) @binding(%d) is a %s, expected %s", r.Name, r.Group, r.Binding, r.Kind, want))
			continue
		}
		switch r.Kind {
		case ResourceUniformBuffer:
			if limit := entry.Buffer.MinBindingSize; limit > 0 && uint64(r.Size) > limit {
				problems = append(problems, fmt.Sprintf("%s at @group(%d) @binding(%d) is %d bytes, the engine binds %d", r.Name, r.Group, r.Binding, r.Size, limit))
			}
		case ResourceTexture:
			if r.ViewDimension != entry.Texture.ViewDimension {
				problems = append(problems, fmt.Sprintf("%s at @group(%d) @binding(%d) has the wrong texture dimension", r.Name, r.Group, r.Binding))
			} else if r.SampleType != entry.Texture.SampleType {
				problems = append(problems, fmt.Sprintf("%s at @group(%d) @binding(%d) has the wrong texture sample type", r.Name, r.Group, r.Binding))
			}
		}
	}
	return problems
}

func hasEntryPoint(m *ir.Module, name string, stage ir.ShaderStage) bool {
	for _, ep := range m.EntryPoints {
		if ep.Name == name && ep.Stage == stage {
			return true
		}
	}
	return false
}

func findEntry(desc wgpu.BindGroupLayoutDescriptor, binding uint32) (wgpu.BindGroupLayoutEntry, bool) {
	for _, e := range desc.Entries {
		if e.Binding == binding {
			return e, true
		}
	}
	return wgpu.BindGroupLayoutEntry{}, false
}
