package engine

import (
	"errors"
	"testing"
	"time"

	"github.com/Carmen-Shannon/oxy-stoy/engine/camera"
	"github.com/Carmen-Shannon/oxy-stoy/engine/hotreload"
	"github.com/Carmen-Shannon/oxy-stoy/engine/input"
	"github.com/Carmen-Shannon/oxy-stoy/engine/renderer/pipeline"
	"github.com/Carmen-Shannon/oxy-stoy/engine/stoy"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeWindow runs the update callback a fixed number of times.
type fakeWindow struct {
	frames   int
	closed   bool
	running  bool
	onUpdate func()
	onResize func(int, int)
	onInput  func(input.Event)
}

func (w *fakeWindow) SetUpdateCallback(cb func()) {
	w.onUpdate = cb
}

func (w *fakeWindow) SetResizeCallback(cb func(width, height int)) {
	w.onResize = cb
}

func (w *fakeWindow) SetInputCallback(cb func(ev input.Event)) {
	w.onInput = cb
}

func (w *fakeWindow) SurfaceDescriptor() *wgpu.SurfaceDescriptor {
	return nil
}

func (w *fakeWindow) IsRunning() bool {
	return w.running
}

func (w *fakeWindow) RequestClose() {
	w.running = false
}

func (w *fakeWindow) Width() int {
	return 800
}

func (w *fakeWindow) Height() int {
	return 600
}

func (w *fakeWindow) Close() error {
	w.closed = true
	return nil
}

func (w *fakeWindow) ProcessMessages() {
	w.running = true
	for i := 0; i < w.frames && w.running; i++ {
		w.onUpdate()
	}
}

// fakeStoy records the order of frame calls.
type fakeStoy struct {
	calls     []string
	dts       []time.Duration
	renderErr error
	events    []input.Event
	sizes     [][2]int
	closed    bool
}

func (s *fakeStoy) Input(ev input.Event) {
	s.events = append(s.events, ev)
}

func (s *fakeStoy) Resize(width, height int) {
	s.sizes = append(s.sizes, [2]int{width, height})
}

func (s *fakeStoy) Pipeline() pipeline.Pipeline {
	return nil
}

func (s *fakeStoy) Uniforms() stoy.GPUMainUniforms {
	return stoy.DefaultMainUniforms()
}

func (s *fakeStoy) Camera() camera.Camera2D {
	return nil
}

func (s *fakeStoy) Reloader() hotreload.Reloader {
	return nil
}

func (s *fakeStoy) Watcher() hotreload.Watcher {
	return nil
}

func (s *fakeStoy) LastWatchError() error {
	return nil
}

func (s *fakeStoy) Close() error {
	s.closed = true
	return nil
}

func (s *fakeStoy) Update(dt time.Duration) {
	s.calls = append(s.calls, "update")
	s.dts = append(s.dts, dt)
}

func (s *fakeStoy) Render() error {
	s.calls = append(s.calls, "render")
	return s.renderErr
}

func newTestEngine(w *fakeWindow, s *fakeStoy) *engine {
	now := time.Unix(0, 0)
	e := &engine{
		window:           w,
		stoy:             s,
		profilerInterval: time.Second,
		clock: func() time.Time {
			now = now.Add(16 * time.Millisecond)
			return now
		},
	}
	e.wire()
	return e
}

func TestEngine_UpdateThenRenderEachFrame(t *testing.T) {
	w := &fakeWindow{frames: 3}
	s := &fakeStoy{}
	e := newTestEngine(w, s)

	require.NoError(t, e.Run())
	assert.Equal(t, []string{"update", "render", "update", "render", "update", "render"}, s.calls)
	for _, dt := range s.dts {
		assert.Equal(t, 16*time.Millisecond, dt)
	}
}

func TestEngine_RenderErrorStopsLoop(t *testing.T) {
	w := &fakeWindow{frames: 10}
	s := &fakeStoy{renderErr: errors.New("device lost")}
	e := newTestEngine(w, s)

	err := e.Run()
	assert.EqualError(t, err, "device lost")
	assert.Equal(t, []string{"update", "render"}, s.calls)
}

func TestEngine_WiresWindowCallbacks(t *testing.T) {
	w := &fakeWindow{}
	s := &fakeStoy{}
	e := newTestEngine(w, s)

	w.onInput(input.Event{Kind: input.EventCursorMoved, X: 1, Y: 2})
	w.onResize(1024, 768)
	assert.Len(t, s.events, 1)
	assert.Equal(t, [][2]int{{1024, 768}}, s.sizes)

	e.Quit()
	assert.False(t, w.IsRunning())

	assert.NoError(t, e.Close())
	assert.True(t, s.closed)
	assert.True(t, w.closed)
}

func TestEngine_FrameLimit(t *testing.T) {
	e := &engine{}
	e.SetRenderFrameLimit(50)
	assert.Equal(t, 20*time.Millisecond, e.renderFrameLimit)
	e.SetRenderFrameLimit(0)
	assert.Zero(t, e.renderFrameLimit)
}
