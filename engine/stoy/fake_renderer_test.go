package stoy

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"testing"

	"github.com/Carmen-Shannon/oxy-stoy/common"
	"github.com/Carmen-Shannon/oxy-stoy/engine/renderer"
	"github.com/Carmen-Shannon/oxy-stoy/engine/renderer/bind_group_provider"
	"github.com/Carmen-Shannon/oxy-stoy/engine/renderer/pipeline"
	"github.com/cogentcore/webgpu/wgpu"
)

// fakeRenderer records what the engine asks of the GPU without creating anything.
type fakeRenderer struct {
	mu *sync.Mutex

	resizes    [][2]int
	writes     [][]bind_group_provider.BufferWrite
	compiled   []pipeline.Pipeline
	draws      []pipeline.Pipeline
	drawGroups [][]bind_group_provider.BindGroupProvider
	frames     int
	presents   int

	compileErr error
	beginErr   error
}

var _ renderer.Renderer = &fakeRenderer{}

func newFakeRenderer() *fakeRenderer {
	return &fakeRenderer{mu: &sync.Mutex{}}
}

func (f *fakeRenderer) Resize(width, height int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.resizes = append(f.resizes, [2]int{width, height})
}

func (f *fakeRenderer) SurfaceFormat() wgpu.TextureFormat {
	return wgpu.TextureFormatBGRA8UnormSrgb
}

func (f *fakeRenderer) MaxBindGroups() int {
	return 4
}

func (f *fakeRenderer) InitMeshBuffers(provider bind_group_provider.BindGroupProvider, vertexData []byte, vertexCount int) error {
	return nil
}

func (f *fakeRenderer) InitBindGroup(provider bind_group_provider.BindGroupProvider, descriptor wgpu.BindGroupLayoutDescriptor) error {
	return nil
}

func (f *fakeRenderer) InitTextureView(provider bind_group_provider.BindGroupProvider, bindingKey int, stagingData common.TextureStagingData) error {
	return nil
}

func (f *fakeRenderer) InitSampler(provider bind_group_provider.BindGroupProvider, bindingKey int, samplerStagingData common.SamplerStagingData) error {
	return nil
}

func (f *fakeRenderer) CreatePipelineLayout(label string, providers ...bind_group_provider.BindGroupProvider) (*wgpu.PipelineLayout, error) {
	return nil, nil
}

func (f *fakeRenderer) CompileRenderPipeline(p pipeline.Pipeline) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.compileErr != nil {
		return f.compileErr
	}
	f.compiled = append(f.compiled, p)
	return nil
}

func (f *fakeRenderer) WriteBuffers(writes ...bind_group_provider.BufferWrite) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.writes = append(f.writes, writes)
}

func (f *fakeRenderer) BeginFrame() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.beginErr != nil {
		return f.beginErr
	}
	f.frames++
	return nil
}

func (f *fakeRenderer) Draw(p pipeline.Pipeline, mesh bind_group_provider.BindGroupProvider, vertexCount, instanceCount uint32, bindGroups []bind_group_provider.BindGroupProvider) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if p == nil {
		return errors.New("draw: pipeline is not compiled")
	}
	f.draws = append(f.draws, p)
	f.drawGroups = append(f.drawGroups, bindGroups)
	return nil
}

func (f *fakeRenderer) EndFrame() error {
	return nil
}

func (f *fakeRenderer) Present() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.presents++
}

func (f *fakeRenderer) Release() {}

func (f *fakeRenderer) lastDraw() pipeline.Pipeline {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.draws) == 0 {
		return nil
	}
	return f.draws[len(f.draws)-1]
}

func (f *fakeRenderer) lastWrites() []bind_group_provider.BufferWrite {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.writes) == 0 {
		return nil
	}
	return f.writes[len(f.writes)-1]
}

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

// hasError reports whether an error record with the given stage attribute was logged.
func (h recordHandler) hasError(stage string) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, r := range *h.records {
		if r.Level != slog.LevelError {
			continue
		}
		found := false
		r.Attrs(func(a slog.Attr) bool {
			if a.Key == "stage" && a.Value.String() == stage {
				found = true
				return false
			}
			return true
		})
		if found {
			return true
		}
	}
	return false
}

func captureLogs(t *testing.T) recordHandler {
	t.Helper()
	h := recordHandler{mu: &sync.Mutex{}, records: &[]slog.Record{}}
	common.SetLogger(slog.New(h))
	t.Cleanup(func() { common.SetLogger(nil) })
	return h
}
