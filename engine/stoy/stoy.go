// Package stoy is the render engine behind oxy-stoy: one textured quad drawn with a
// fragment shader that is reloaded from disk while the frame loop runs.
package stoy

import (
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/Carmen-Shannon/oxy-stoy/common"
	"github.com/Carmen-Shannon/oxy-stoy/engine/camera"
	"github.com/Carmen-Shannon/oxy-stoy/engine/hotreload"
	"github.com/Carmen-Shannon/oxy-stoy/engine/input"
	"github.com/Carmen-Shannon/oxy-stoy/engine/renderer"
	"github.com/Carmen-Shannon/oxy-stoy/engine/renderer/bind_group_provider"
	"github.com/Carmen-Shannon/oxy-stoy/engine/renderer/pipeline"
	"github.com/Carmen-Shannon/oxy-stoy/engine/renderer/shader"
	"github.com/Carmen-Shannon/oxy-stoy/engine/renderer/uniform"
	"github.com/Carmen-Shannon/oxy-stoy/engine/sprite"
	"github.com/chewxy/math32"
	"github.com/cogentcore/webgpu/wgpu"
)

const (
	// DefaultShaderPath is where the shader is read from, relative to the working directory.
	DefaultShaderPath = "shaders/sprite.wgsl"
	// DefaultTimeStep is how far Time advances per Update in TimeModeFixed.
	DefaultTimeStep float32 = 0.01
	// MinSurfaceWidth and MinSurfaceHeight bound the configured surface from below.
	MinSurfaceWidth  = renderer.MinSurfaceWidth
	MinSurfaceHeight = renderer.MinSurfaceHeight
)

// stoy is the implementation of the Stoy interface.
type stoy struct {
	renderer renderer.Renderer

	pipeline pipeline.Pipeline
	layout   *wgpu.PipelineLayout
	target   shader.Target
	pre      shader.PreProcessor

	camera     camera.Camera2D
	controller camera.Controller2D
	uniforms   uniform.Block[*GPUMainUniforms]
	sprite     sprite.Sprite
	mesh       sprite.QuadMesh
	input      input.Manager

	cell         *hotreload.DebounceCell
	watcher      hotreload.Watcher
	reloader     hotreload.Reloader
	lastWatchErr error

	width, height int

	// Builder config
	shaderPath    string
	watchDir      string
	hotReload     bool
	quietPeriod   time.Duration
	vertexEntry   string
	fragmentEntry string
	texture       []byte
	timeMode      TimeMode
	timeStep      float32
	clock         func() time.Time

	closeOnce *sync.Once
}

// Stoy draws a full-screen quad with a hot-reloaded fragment shader.
//
// All methods except Input must be called from the render goroutine.
type Stoy interface {
	// Input forwards a window event to the input manager.
	//
	// Parameters:
	//   - ev: the normalized input event
	Input(ev input.Event)

	// Resize records the window size used as the shader resolution and reconfigures the
	// surface, clamped to at least MinSurfaceWidth × MinSurfaceHeight. Zero sizes are ignored.
	//
	// Parameters:
	//   - width, height: the window size in pixels
	Resize(width, height int)

	// Update advances time, refreshes the main uniform record from the window and input state
	// and uploads the camera and main uniform buffers.
	//
	// Parameters:
	//   - dt: time since the previous Update
	Update(dt time.Duration)

	// Render steps the shader reloader, swaps in a rebuilt pipeline and draws one frame.
	// A frame whose surface texture cannot be acquired is skipped without error.
	//
	// Returns:
	//   - error: an error if drawing or submission failed
	Render() error

	// Pipeline returns the installed pipeline.
	Pipeline() pipeline.Pipeline

	// Uniforms returns a copy of the main uniform record.
	Uniforms() GPUMainUniforms

	// Camera returns the 2D camera.
	Camera() camera.Camera2D

	// Reloader returns the shader reloader, or nil when hot reload is disabled.
	Reloader() hotreload.Reloader

	// Watcher returns the shader directory watcher, or nil when hot reload is disabled.
	Watcher() hotreload.Watcher

	// LastWatchError returns the most recent error the watcher reported, drained by Render.
	//
	// Returns:
	//   - error: the latest watcher error, or nil if there has been none
	LastWatchError() error

	// Close stops the watcher and releases the GPU resources owned by the engine.
	// The renderer itself is not released. Safe to call more than once.
	//
	// Returns:
	//   - error: the error from closing the watcher, if any
	Close() error
}

var _ Stoy = &stoy{}

// NewStoy uploads the quad, sprite and uniform resources, builds the pipeline from the shader
// file and starts watching it. Any failure here is returned; later shader errors are not fatal.
//
// Parameters:
//   - r: the renderer to draw with
//   - options: functional options to configure the engine
//
// Returns:
//   - Stoy: the ready engine
//   - error: an error if a resource, the initial shader or the watcher could not be set up
func NewStoy(r renderer.Renderer, options ...StoyBuilderOption) (Stoy, error) {
	if r == nil {
		return nil, errors.New("stoy: renderer is nil")
	}

	s := &stoy{
		renderer:      r,
		input:         input.NewManager(),
		width:         MinSurfaceWidth,
		height:        MinSurfaceHeight,
		shaderPath:    DefaultShaderPath,
		hotReload:     true,
		quietPeriod:   hotreload.DefaultQuietPeriod,
		vertexEntry:   "vs_main",
		fragmentEntry: "fs_main",
		texture:       sprite.DefaultTexture,
		timeMode:      TimeModeFixed,
		timeStep:      DefaultTimeStep,
		clock:         time.Now,
		closeOnce:     &sync.Once{},
	}
	for _, opt := range options {
		opt(s)
	}

	if err := s.initResources(); err != nil {
		s.release()
		return nil, fmt.Errorf("stoy: %w", err)
	}

	if err := s.initPipeline(); err != nil {
		s.release()
		return nil, fmt.Errorf("stoy: %w", err)
	}

	if s.hotReload {
		if err := s.initHotReload(); err != nil {
			s.release()
			return nil, fmt.Errorf("stoy: %w", err)
		}
	}

	common.Logger().Info("stoy ready",
		"shader", s.shaderPath,
		"hot_reload", s.hotReload,
		"generation", s.pipeline.Generation(),
	)
	return s, nil
}

// initResources creates the camera, sprite, main uniform and quad GPU resources and the
// pipeline layout that binds them as groups 0, 1 and 2.
func (s *stoy) initResources() error {
	if s.camera == nil {
		s.camera = camera.NewCamera2D()
	}
	if s.controller != nil {
		s.camera.Update(s.controller.Position())
	}

	mu := DefaultMainUniforms()
	s.uniforms = uniform.NewBlock("main_uniforms", &mu)

	spr, err := sprite.NewSprite("stoy_sprite", s.texture, sprite.WithAddressMode(wgpu.AddressModeClampToEdge))
	if err != nil {
		return fmt.Errorf("sprite: %w", err)
	}
	s.sprite = spr
	s.texture = nil

	width, height := s.camera.DesignSize()
	s.mesh = sprite.NewQuadMesh("stoy_quad", width, height)

	if err := s.renderer.InitBindGroup(s.camera.BindGroupProvider(), s.camera.LayoutDescriptor()); err != nil {
		return fmt.Errorf("camera bind group: %w", err)
	}
	if err := s.sprite.Upload(s.renderer); err != nil {
		return err
	}
	if err := s.renderer.InitBindGroup(s.uniforms.Provider(), s.uniforms.LayoutDescriptor()); err != nil {
		return fmt.Errorf("main uniforms bind group: %w", err)
	}
	if err := s.mesh.Upload(s.renderer); err != nil {
		return err
	}

	layout, err := s.renderer.CreatePipelineLayout("stoy_pipeline_layout", s.bindGroups()...)
	if err != nil {
		return err
	}
	s.layout = layout

	s.target = newTarget(s.vertexEntry, s.fragmentEntry, s.renderer.MaxBindGroups(),
		s.camera.LayoutDescriptor(),
		s.sprite.LayoutDescriptor(),
		s.uniforms.LayoutDescriptor(),
	)
	s.pre = NewPreProcessor()

	s.renderer.WriteBuffers(s.camera.Write(), s.uniforms.Write())
	return nil
}

// initPipeline builds the first pipeline. Unlike a reload, every failure here is fatal.
func (s *stoy) initPipeline() error {
	var (
		sh  shader.Shader
		err error
	)
	if s.shaderPath == "" {
		sh, err = shader.Parse("default", DefaultShader, shader.WithPreProcessor(s.pre))
	} else {
		sh, err = shader.Load(s.shaderPath, shader.WithPreProcessor(s.pre))
	}
	if err != nil {
		return err
	}
	if err := sh.Validate(s.target); err != nil {
		return err
	}

	p, err := s.compile(sh)
	if err != nil {
		return err
	}
	s.pipeline = p
	return nil
}

func (s *stoy) initHotReload() error {
	if s.shaderPath == "" {
		return errors.New("hot reload needs a shader path")
	}
	dir := s.watchDir
	if dir == "" {
		dir = filepath.Dir(s.shaderPath)
	}

	s.cell = hotreload.NewDebounceCell()
	w, err := hotreload.NewWatcher(dir, s.cell, hotreload.WithWatchClock(s.clock))
	if err != nil {
		return err
	}
	s.watcher = w
	s.reloader = hotreload.NewReloader(s.shaderPath, s.cell, hotreload.CompilerFunc(s.compile), s.target,
		hotreload.WithQuietPeriod(s.quietPeriod),
		hotreload.WithShaderOptions(shader.WithPreProcessor(s.pre)),
	)
	return nil
}

// compile builds a pipeline for sh against the existing layout.
func (s *stoy) compile(sh shader.Shader) (pipeline.Pipeline, error) {
	p := newSpritePipeline(sh, s.layout, s.vertexEntry, s.fragmentEntry)
	if err := s.renderer.CompileRenderPipeline(p); err != nil {
		p.Release()
		return nil, fmt.Errorf("compile pipeline: %w", err)
	}
	return p, nil
}

func (s *stoy) bindGroups() []bind_group_provider.BindGroupProvider {
	return []bind_group_provider.BindGroupProvider{
		s.camera.BindGroupProvider(),
		s.sprite.Provider(),
		s.uniforms.Provider(),
	}
}

func (s *stoy) Input(ev input.Event) {
	s.input.Process(ev)
}

func (s *stoy) Resize(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	s.width, s.height = width, height
	s.renderer.Resize(max(width, MinSurfaceWidth), max(height, MinSurfaceHeight))
}

func (s *stoy) Update(dt time.Duration) {
	if s.controller != nil && s.controller.Advance(dt, s.input.IsKeyDown) {
		s.camera.Update(s.controller.Position())
	}

	d := s.uniforms.Data()
	switch s.timeMode {
	case TimeModeElapsed:
		d.Time += float32(dt.Seconds())
	default:
		d.Time += s.timeStep
	}
	d.Resolution = [2]float32{float32(s.width), float32(s.height)}

	x, y := s.input.Position()
	d.Mouse = [2]float32{float32(x), float32(y)}

	wx, wy := s.input.Scroll()
	d.Zoom = [2]float32{math32.Abs(float32(wx)), math32.Abs(float32(wy))}

	s.renderer.WriteBuffers(s.camera.Write(), s.uniforms.Write())
}

func (s *stoy) Render() error {
	s.drainWatchErrors()
	if s.reloader != nil {
		out := s.reloader.Step(s.clock())
		if out.State == hotreload.StateRebuilt && out.Pipeline != nil {
			old := s.pipeline
			s.pipeline = out.Pipeline
			old.Release()
		}
	}

	if err := s.renderer.BeginFrame(); err != nil {
		if errors.Is(err, renderer.ErrFrameSkipped) {
			common.Logger().Debug("frame skipped", "error", err)
			return nil
		}
		return fmt.Errorf("render: %w", err)
	}

	drawErr := s.renderer.Draw(s.pipeline, s.mesh.Provider(), sprite.QuadVertexCount, 1, s.bindGroups())
	if err := s.renderer.EndFrame(); err != nil {
		return fmt.Errorf("render: %w", err)
	}
	s.renderer.Present()

	if drawErr != nil {
		return fmt.Errorf("render: %w", drawErr)
	}
	return nil
}

// drainWatchErrors empties the watcher's error channel without blocking. The watcher has
// already logged each error.
func (s *stoy) drainWatchErrors() {
	if s.watcher == nil {
		return
	}
	for {
		select {
		case err := <-s.watcher.Errors():
			s.lastWatchErr = err
		default:
			return
		}
	}
}

func (s *stoy) Pipeline() pipeline.Pipeline {
	return s.pipeline
}

func (s *stoy) Uniforms() GPUMainUniforms {
	return *s.uniforms.Data()
}

func (s *stoy) Camera() camera.Camera2D {
	return s.camera
}

func (s *stoy) Reloader() hotreload.Reloader {
	return s.reloader
}

func (s *stoy) Watcher() hotreload.Watcher {
	return s.watcher
}

func (s *stoy) LastWatchError() error {
	return s.lastWatchErr
}

func (s *stoy) Close() error {
	var err error
	s.closeOnce.Do(func() {
		if s.watcher != nil {
			err = s.watcher.Close()
		}
		s.release()
		common.Logger().Info("stoy closed")
	})
	return err
}

// release frees whatever GPU resources have been created so far.
func (s *stoy) release() {
	if s.pipeline != nil {
		s.pipeline.Release()
		s.pipeline = nil
	}
	if s.layout != nil {
		s.layout.Release()
		s.layout = nil
	}
	if s.mesh != nil {
		s.mesh.Provider().Release()
	}
	if s.sprite != nil {
		s.sprite.Provider().Release()
	}
	if s.uniforms != nil {
		s.uniforms.Provider().Release()
	}
	if s.camera != nil {
		s.camera.BindGroupProvider().Release()
	}
}
