package hotreload

import (
	"context"
	"log/slog"
	"sync"
	"testing"

	"github.com/Carmen-Shannon/oxy-stoy/common"
	"github.com/Carmen-Shannon/oxy-stoy/engine/renderer/pipeline"
	"github.com/Carmen-Shannon/oxy-stoy/engine/renderer/shader"
	"github.com/cogentcore/webgpu/wgpu"
)

// recordHandler keeps every log record so tests can assert on them.
type recordHandler struct {
	mu      *sync.Mutex
	records *[]slog.Record
}

func (h recordHandler) Enabled(context.Context, slog.Level) bool { return true }

func (h recordHandler) Handle(_ context.Context, r slog.Record) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	*h.records = append(*h.records, r.Clone())
	return nil
}

func (h recordHandler) WithAttrs([]slog.Attr) slog.Handler { return h }
func (h recordHandler) WithGroup(string) slog.Handler      { return h }

// errorStages returns the "stage" attribute of every error-level record.
func (h recordHandler) errorStages() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	var stages []string
	for _, r := range *h.records {
		if r.Level != slog.LevelError {
			continue
		}
		r.Attrs(func(a slog.Attr) bool {
			if a.Key == "stage" {
				stages = append(stages, a.Value.String())
				return false
			}
			return true
		})
	}
	return stages
}

func captureLogs(t *testing.T) recordHandler {
	t.Helper()
	h := recordHandler{mu: &sync.Mutex{}, records: &[]slog.Record{}}
	common.SetLogger(slog.New(h))
	t.Cleanup(func() { common.SetLogger(nil) })
	return h
}

// countingCompiler builds pipelines without a GPU and counts calls.
type countingCompiler struct {
	calls int
	err   error
}

func (c *countingCompiler) Compile(s shader.Shader) (pipeline.Pipeline, error) {
	c.calls++
	if c.err != nil {
		return nil, c.err
	}
	return pipeline.NewPipeline("sprite", s), nil
}

func uniformEntry(size uint64) wgpu.BindGroupLayoutEntry {
	return wgpu.BindGroupLayoutEntry{
		Binding:    0,
		Visibility: wgpu.ShaderStageVertex | wgpu.ShaderStageFragment,
		Buffer: wgpu.BufferBindingLayout{
			Type:           wgpu.BufferBindingTypeUniform,
			MinBindingSize: size,
		},
	}
}

func spriteTarget() shader.Target {
	return shader.Target{
		VertexEntryPoint:   "vs_main",
		FragmentEntryPoint: "fs_main",
		Groups: []wgpu.BindGroupLayoutDescriptor{
			{Label: "camera", Entries: []wgpu.BindGroupLayoutEntry{uniformEntry(64)}},
			{Label: "sprite", Entries: []wgpu.BindGroupLayoutEntry{
				{
					Binding:    0,
					Visibility: wgpu.ShaderStageFragment,
					Texture: wgpu.TextureBindingLayout{
						SampleType:    wgpu.TextureSampleTypeFloat,
						ViewDimension: wgpu.TextureViewDimension2D,
					},
				},
				{
					Binding:    1,
					Visibility: wgpu.ShaderStageFragment,
					Sampler:    wgpu.SamplerBindingLayout{Type: wgpu.SamplerBindingTypeFiltering},
				},
			}},
			{Label: "main_uniforms", Entries: []wgpu.BindGroupLayoutEntry{uniformEntry(32)}},
		},
		MaxBindGroups: shader.DefaultMaxBindGroups,
	}
}
