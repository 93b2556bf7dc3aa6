package stoy

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/Carmen-Shannon/oxy-stoy/common"
	"github.com/Carmen-Shannon/oxy-stoy/engine/camera"
	"github.com/Carmen-Shannon/oxy-stoy/engine/hotreload"
	"github.com/Carmen-Shannon/oxy-stoy/engine/input"
	"github.com/Carmen-Shannon/oxy-stoy/engine/renderer"
	"github.com/Carmen-Shannon/oxy-stoy/engine/renderer/shader"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeShaderFile writes src into a fresh shaders directory and returns the file path.
func writeShaderFile(t *testing.T, src string) string {
	t.Helper()
	dir := filepath.Join(t.TempDir(), "shaders")
	require.NoError(t, os.Mkdir(dir, 0o755))
	path := filepath.Join(dir, "sprite.wgsl")
	require.NoError(t, os.WriteFile(path, []byte(src), 0o644))
	return path
}

// manualClock is a clock that only moves when advanced.
type manualClock struct {
	mu  *sync.Mutex
	now time.Time
}

func newManualClock() *manualClock {
	return &manualClock{mu: &sync.Mutex{}, now: time.Unix(1_700_000_000, 0)}
}

func (c *manualClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *manualClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// rewriteAndSettle writes src to the watched shader, waits for the watcher to see it and moves
// the clock past the quiet period.
func rewriteAndSettle(t *testing.T, s *stoy, clk *manualClock, path, src string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(src), 0o644))
	require.Eventually(t, func() bool {
		_, ok := s.cell.Pending()
		return ok
	}, 2*time.Second, 10*time.Millisecond)
	clk.Advance(time.Second)
}

func newTestStoy(t *testing.T, options ...StoyBuilderOption) (*stoy, *fakeRenderer, string) {
	t.Helper()
	path := writeShaderFile(t, DefaultShader)
	fr := newFakeRenderer()
	s, err := NewStoy(fr, append([]StoyBuilderOption{WithShaderPath(path)}, options...)...)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s.(*stoy), fr, path
}

func TestGPUMainUniforms_Layout(t *testing.T) {
	u := DefaultMainUniforms()
	assert.Equal(t, 32, u.Size())

	buf := u.Marshal()
	require.Len(t, buf, 32)
	// Padding is 10.0f at offset 4, Resolution.x is 10.0f at offset 8.
	assert.Equal(t, []byte{0x00, 0x00, 0x20, 0x41}, buf[4:8])
	assert.Equal(t, []byte{0x00, 0x00, 0x20, 0x41}, buf[8:12])
	assert.Equal(t, make([]byte, 16), buf[16:])
}

func TestDefaultShader_SatisfiesContract(t *testing.T) {
	sh, err := shader.Parse("default", DefaultShader, shader.WithPreProcessor(NewPreProcessor()))
	require.NoError(t, err)

	res := sh.Resources()
	require.Len(t, res, 4)
	assert.Equal(t, "camera", res[0].Name)
	assert.EqualValues(t, 64, res[0].Size)
	assert.Equal(t, "main_uniforms", res[3].Name)
	assert.EqualValues(t, 32, res[3].Size)
	assert.Len(t, sh.Declarations(), 2)
}

func TestNewStoy_BuildsInitialPipeline(t *testing.T) {
	s, fr, path := newTestStoy(t)

	require.NotNil(t, s.Pipeline())
	assert.Equal(t, "vs_main", s.Pipeline().VertexEntryPoint())
	assert.Equal(t, "fs_main", s.Pipeline().FragmentEntryPoint())
	assert.Len(t, s.Pipeline().VertexLayouts(), 1)
	assert.EqualValues(t, 20, s.Pipeline().VertexLayouts()[0].ArrayStride)
	assert.Len(t, fr.compiled, 1)

	assert.Equal(t, DefaultMainUniforms(), s.Uniforms())
	require.NotNil(t, s.Reloader())
	assert.Equal(t, path, s.Reloader().Path())
	require.NotNil(t, s.Watcher())
	assert.Equal(t, filepath.Dir(path), s.Watcher().Root())

	// The initial camera and uniform records are uploaded once during setup.
	require.Len(t, fr.writes, 1)
	assert.Len(t, fr.writes[0], 2)
}

func TestNewStoy_WithoutShaderPathUsesDefault(t *testing.T) {
	fr := newFakeRenderer()
	s, err := NewStoy(fr, WithShaderPath(""))
	require.NoError(t, err)
	defer s.Close()

	assert.Nil(t, s.Reloader())
	assert.Nil(t, s.Watcher())
	assert.Equal(t, "default", s.Pipeline().Shader().Key())
}

func TestNewStoy_InitialShaderErrorsAreFatal(t *testing.T) {
	t.Run("parse", func(t *testing.T) {
		path := writeShaderFile(t, "fn nope( {")
		_, err := NewStoy(newFakeRenderer(), WithShaderPath(path))
		assert.ErrorIs(t, err, shader.ErrParse)
	})

	t.Run("validate", func(t *testing.T) {
		src := strings.Replace(DefaultShader, "fn fs_main(", "fn fs_other(", 1)
		path := writeShaderFile(t, src)
		_, err := NewStoy(newFakeRenderer(), WithShaderPath(path))
		assert.ErrorIs(t, err, shader.ErrValidation)
	})

	t.Run("compile", func(t *testing.T) {
		path := writeShaderFile(t, DefaultShader)
		fr := newFakeRenderer()
		fr.compileErr = errors.New("device rejected pipeline")
		_, err := NewStoy(fr, WithShaderPath(path))
		assert.ErrorContains(t, err, "device rejected pipeline")
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := NewStoy(newFakeRenderer(), WithShaderPath(filepath.Join(t.TempDir(), "none.wgsl")))
		assert.ErrorIs(t, err, os.ErrNotExist)
	})

	t.Run("watch dir", func(t *testing.T) {
		path := writeShaderFile(t, DefaultShader)
		_, err := NewStoy(newFakeRenderer(), WithShaderPath(path), WithWatchDir(filepath.Join(t.TempDir(), "gone")))
		assert.Error(t, err)
	})

	t.Run("texture", func(t *testing.T) {
		path := writeShaderFile(t, DefaultShader)
		_, err := NewStoy(newFakeRenderer(), WithShaderPath(path), WithTexture([]byte("not an image")))
		assert.ErrorIs(t, err, common.ErrNotAnImage)
	})
}

func TestUpdate_FixedStepIsDeterministic(t *testing.T) {
	a, _, _ := newTestStoy(t, WithHotReload(false))
	b, _, _ := newTestStoy(t, WithHotReload(false))

	const n = 100
	for range n {
		a.Update(16 * time.Millisecond)
		b.Update(50 * time.Millisecond)
	}

	assert.InDelta(t, float32(n)*DefaultTimeStep, a.Uniforms().Time, 1e-4)
	assert.Equal(t, a.Uniforms(), b.Uniforms(), "frame time does not affect fixed-step uniforms")
}

func TestUpdate_ElapsedMode(t *testing.T) {
	s, _, _ := newTestStoy(t, WithHotReload(false), WithTimeMode(TimeModeElapsed))
	s.Update(16 * time.Millisecond)
	s.Update(34 * time.Millisecond)
	assert.InDelta(t, 0.05, s.Uniforms().Time, 1e-6)
}

func TestUpdate_EndToEndUniforms(t *testing.T) {
	s, fr, _ := newTestStoy(t, WithHotReload(false))

	s.Resize(800, 600)
	s.Input(input.Event{Kind: input.EventCursorMoved, X: 100, Y: 200})
	s.Update(16 * time.Millisecond)

	want := GPUMainUniforms{
		Time:       0.01,
		Padding:    10,
		Resolution: [2]float32{800, 600},
		Mouse:      [2]float32{100, 200},
		Zoom:       [2]float32{0, 0},
	}
	assert.Equal(t, want, s.Uniforms())

	writes := fr.lastWrites()
	require.Len(t, writes, 2)
	assert.Equal(t, s.Camera().Write().Data, writes[0].Data)
	assert.Equal(t, want.Marshal(), writes[1].Data)
}

func TestUpdate_ZoomIsAbsoluteScroll(t *testing.T) {
	s, _, _ := newTestStoy(t, WithHotReload(false))

	s.Input(input.Event{Kind: input.EventMouseWheel, X: -1, Y: -3})
	s.Input(input.Event{Kind: input.EventMouseWheel, X: 0, Y: 1})
	s.Input(input.Event{Kind: input.EventMouseWheel, X: 5, Y: 5, Phase: input.PhaseEnded})
	s.Update(0)

	assert.Equal(t, [2]float32{1, 2}, s.Uniforms().Zoom)
}

func TestResize(t *testing.T) {
	s, fr, _ := newTestStoy(t, WithHotReload(false))
	before := s.Camera().Uniform()

	s.Resize(0, 600)
	s.Resize(1024, 0)
	assert.Empty(t, fr.resizes)

	s.Resize(400, 300)
	s.Resize(1920, 1080)
	assert.Equal(t, [][2]int{{800, 600}, {1920, 1080}}, fr.resizes)

	s.Update(0)
	assert.Equal(t, [2]float32{1920, 1080}, s.Uniforms().Resolution)
	assert.Equal(t, before, s.Camera().Uniform(), "resizing never changes the projection")
}

func TestUpdate_CameraController(t *testing.T) {
	ctrl := camera.NewController2D(camera.WithPanSpeed(100))
	s, _, _ := newTestStoy(t, WithHotReload(false), WithCameraController(ctrl))
	before := s.Camera().Uniform()

	s.Input(input.Event{Kind: input.EventKeyDown, Key: common.KeyRight})
	s.Update(time.Second)

	assert.Equal(t, [3]float32{100, 0, 0}, s.Camera().Position())
	assert.NotEqual(t, before, s.Camera().Uniform())
}

func TestRender_DrawsWithAllGroups(t *testing.T) {
	s, fr, _ := newTestStoy(t, WithHotReload(false))

	require.NoError(t, s.Render())

	require.Len(t, fr.draws, 1)
	assert.Equal(t, s.Pipeline(), fr.draws[0])
	groups := fr.drawGroups[0]
	require.Len(t, groups, 3)
	assert.True(t, groups[GroupCamera] == s.Camera().BindGroupProvider())
	assert.True(t, groups[GroupSprite] == s.sprite.Provider())
	assert.True(t, groups[GroupMainUniforms] == s.uniforms.Provider())
	assert.Equal(t, 1, fr.presents)
}

func TestRender_SkipsFrameWhenAcquireFails(t *testing.T) {
	s, fr, _ := newTestStoy(t, WithHotReload(false))
	fr.beginErr = fmt.Errorf("%w: surface outdated", renderer.ErrFrameSkipped)

	assert.NoError(t, s.Render())
	assert.Empty(t, fr.draws)
	assert.Zero(t, fr.presents)

	fr.beginErr = errors.New("device lost")
	assert.ErrorContains(t, s.Render(), "device lost")
}

func TestRender_SwapsReloadedPipeline(t *testing.T) {
	logs := captureLogs(t)
	clk := newManualClock()
	s, fr, path := newTestStoy(t, WithClock(clk.Now))
	old := s.Pipeline()

	src := strings.Replace(DefaultShader, "* 2.0 +", "* 3.0 +", 1)
	require.NotEqual(t, DefaultShader, src)
	require.NoError(t, os.WriteFile(path, []byte(src), 0o644))
	require.Eventually(t, func() bool {
		_, ok := s.cell.Pending()
		return ok
	}, 2*time.Second, 10*time.Millisecond)

	require.NoError(t, s.Render())
	assert.Equal(t, old, s.Pipeline(), "nothing is read before the quiet period")
	assert.Equal(t, hotreload.StateDebouncePending, s.Reloader().State())

	clk.Advance(time.Second)
	require.NoError(t, s.Render())

	assert.EqualValues(t, 1, s.Reloader().Reloads())
	assert.Equal(t, hotreload.StateRebuilt, s.Reloader().State())
	assert.NotEqual(t, old, s.Pipeline())
	assert.Greater(t, s.Pipeline().Generation(), old.Generation())
	assert.Equal(t, s.Pipeline(), fr.lastDraw(), "the frame is drawn with the new pipeline")
	assert.Equal(t, src, s.Pipeline().Shader().RawSource())
	assert.False(t, logs.hasError("parse"))
}

func TestRender_InvalidShaderKeepsPipeline(t *testing.T) {
	logs := captureLogs(t)
	clk := newManualClock()
	s, fr, path := newTestStoy(t, WithClock(clk.Now))
	old := s.Pipeline()

	rewriteAndSettle(t, s, clk, path, "@fragment fn fs_main( -> {")
	require.NoError(t, s.Render())

	assert.Equal(t, old, s.Pipeline())
	assert.Equal(t, old, fr.lastDraw())
	assert.Zero(t, s.Reloader().Reloads())
	assert.EqualValues(t, 1, s.Reloader().Failures())
	assert.True(t, logs.hasError("parse"))
	assert.Len(t, fr.compiled, 1, "the compiler is never reached")
}

func TestRender_HalfTypedShaderKeepsRunning(t *testing.T) {
	logs := captureLogs(t)
	clk := newManualClock()
	s, fr, path := newTestStoy(t, WithClock(clk.Now))
	old := s.Pipeline()

	rewriteAndSettle(t, s, clk, path, "struct A{A:mat<A}")
	require.NotPanics(t, func() {
		assert.NoError(t, s.Render())
	})

	assert.Equal(t, old, s.Pipeline())
	assert.Equal(t, old, fr.lastDraw())
	assert.Equal(t, hotreload.StateParseFailed, s.Reloader().State())
	assert.EqualValues(t, 1, s.Reloader().Failures())
	assert.True(t, logs.hasError("parse"))

	rewriteAndSettle(t, s, clk, path, DefaultShader)
	require.NoError(t, s.Render())
	assert.EqualValues(t, 1, s.Reloader().Reloads())
	assert.NotEqual(t, old, s.Pipeline())
}

func TestRender_DrainsWatcherErrors(t *testing.T) {
	s, _, path := newTestStoy(t)
	assert.NoError(t, s.LastWatchError())

	require.NoError(t, os.RemoveAll(filepath.Dir(path)))
	require.Eventually(t, func() bool {
		_ = s.Render()
		return errors.Is(s.LastWatchError(), hotreload.ErrWatchRootRemoved)
	}, 2*time.Second, 10*time.Millisecond)

	assert.Zero(t, len(s.Watcher().Errors()))
}

func TestParseTimeMode(t *testing.T) {
	m, err := ParseTimeMode("Elapsed")
	require.NoError(t, err)
	assert.Equal(t, TimeModeElapsed, m)

	m, err = ParseTimeMode("")
	require.NoError(t, err)
	assert.Equal(t, TimeModeFixed, m)

	_, err = ParseTimeMode("wall")
	assert.Error(t, err)
	assert.Equal(t, "elapsed", TimeModeElapsed.String())
}
