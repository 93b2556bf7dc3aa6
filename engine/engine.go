// Package engine hosts the oxy-stoy frame loop: it owns the window, the renderer and the
// stoy render engine and drives them from the window's message loop on the main OS thread.
package engine

import (
	"errors"
	"fmt"
	"time"

	"github.com/Carmen-Shannon/oxy-stoy/common"
	"github.com/Carmen-Shannon/oxy-stoy/engine/profiler"
	"github.com/Carmen-Shannon/oxy-stoy/engine/renderer"
	"github.com/Carmen-Shannon/oxy-stoy/engine/stoy"
	"github.com/Carmen-Shannon/oxy-stoy/engine/window"
)

// engine implements the Engine interface.
type engine struct {
	window   window.Window
	renderer renderer.Renderer
	stoy     stoy.Stoy

	profiler         *profiler.Profiler
	profilingEnabled bool
	profilerInterval time.Duration

	renderFrameLimit time.Duration // minimum frame duration; 0 = uncapped
	clock            func() time.Time
	lastFrame        time.Time

	windowOptions   []window.WindowBuilderOption
	rendererOptions []renderer.RendererBuilderOption
	stoyOptions     []stoy.StoyBuilderOption

	runErr error
}

// Engine is the main entry point for the application.
// Each window message loop iteration runs one Update and one Render, in that order.
type Engine interface {
	// Window returns the underlying window.
	//
	// Returns:
	//   - window.Window: the window instance
	Window() window.Window

	// Renderer returns the GPU renderer.
	//
	// Returns:
	//   - renderer.Renderer: the renderer instance
	Renderer() renderer.Renderer

	// Stoy returns the render engine.
	//
	// Returns:
	//   - stoy.Stoy: the render engine instance
	Stoy() stoy.Stoy

	// EnableProfiler enables performance profiling output to the log.
	EnableProfiler()

	// DisableProfiler disables performance profiling output.
	DisableProfiler()

	// SetRenderFrameLimit sets an optional frame rate cap in frames per second.
	// Pass 0 to uncap the loop (default).
	//
	// Parameters:
	//   - fps: maximum frames per second (0 = uncapped)
	SetRenderFrameLimit(fps float64)

	// Run starts the frame loop and blocks until the window closes.
	//
	// Returns:
	//   - error: the render error that stopped the loop, or nil on a normal close
	Run() error

	// Quit asks the window to close; Run returns after the current frame.
	Quit()

	// Close releases the render engine, the renderer and the window.
	//
	// Returns:
	//   - error: the joined errors from closing each part
	Close() error
}

var _ Engine = &engine{}

// NewEngine opens the window, negotiates the GPU device and builds the render engine.
// Options are applied directly to the engine struct via the option-builder pattern.
//
// Parameters:
//   - options: functional options for engine configuration
//
// Returns:
//   - Engine: the newly created engine
//   - error: an error if the window, renderer or render engine could not be created
func NewEngine(options ...EngineBuilderOption) (Engine, error) {
	e := &engine{
		profilerInterval: time.Second,
		clock:            time.Now,
	}
	for _, opt := range options {
		opt(e)
	}

	if e.window == nil {
		w, err := window.NewWindow(e.windowOptions...)
		if err != nil {
			return nil, fmt.Errorf("engine: %w", err)
		}
		e.window = w
	}

	r, err := renderer.NewRenderer(renderer.BackendTypeWGPU, e.window, e.rendererOptions...)
	if err != nil {
		_ = e.window.Close()
		return nil, fmt.Errorf("engine: %w", err)
	}
	e.renderer = r

	stoyOptions := append([]stoy.StoyBuilderOption{stoy.WithViewportSize(e.window.Width(), e.window.Height())}, e.stoyOptions...)
	s, err := stoy.NewStoy(r, stoyOptions...)
	if err != nil {
		r.Release()
		_ = e.window.Close()
		return nil, fmt.Errorf("engine: %w", err)
	}
	e.stoy = s

	e.wire()
	return e, nil
}

// wire connects the window callbacks to the render engine.
func (e *engine) wire() {
	e.profiler = profiler.NewProfiler(profiler.WithInterval(e.profilerInterval), profiler.WithClock(e.clock))
	e.window.SetInputCallback(e.stoy.Input)
	e.window.SetResizeCallback(e.stoy.Resize)
	e.window.SetUpdateCallback(e.frame)
}

func (e *engine) Window() window.Window {
	return e.window
}

func (e *engine) Renderer() renderer.Renderer {
	return e.renderer
}

func (e *engine) Stoy() stoy.Stoy {
	return e.stoy
}

func (e *engine) Run() error {
	common.Logger().Info("engine running", "width", e.window.Width(), "height", e.window.Height())
	e.lastFrame = e.clock()
	e.window.ProcessMessages()
	return e.runErr
}

func (e *engine) Quit() {
	e.window.RequestClose()
}

func (e *engine) Close() error {
	var errs []error
	if e.stoy != nil {
		errs = append(errs, e.stoy.Close())
	}
	if e.renderer != nil {
		e.renderer.Release()
	}
	if e.window != nil {
		errs = append(errs, e.window.Close())
	}
	return errors.Join(errs...)
}

// frame runs one Update and one Render. A render error stops the loop.
func (e *engine) frame() {
	now := e.clock()
	dt := now.Sub(e.lastFrame)
	e.lastFrame = now

	e.stoy.Update(dt)
	if err := e.stoy.Render(); err != nil {
		common.Logger().Error("render failed, stopping", "error", err)
		e.runErr = err
		e.window.RequestClose()
		return
	}

	if e.profilingEnabled && e.profiler != nil {
		e.profiler.Tick()
	}

	if e.renderFrameLimit > 0 {
		if remaining := e.renderFrameLimit - e.clock().Sub(now); remaining > 0 {
			time.Sleep(remaining)
		}
	}
}

// EnableProfiler enables performance profiling output to the log.
func (e *engine) EnableProfiler() {
	e.profilingEnabled = true
}

// DisableProfiler disables performance profiling output.
func (e *engine) DisableProfiler() {
	e.profilingEnabled = false
}

func (e *engine) SetRenderFrameLimit(fps float64) {
	if fps <= 0 {
		e.renderFrameLimit = 0
		return
	}
	e.renderFrameLimit = time.Duration(float64(time.Second) / fps)
}
