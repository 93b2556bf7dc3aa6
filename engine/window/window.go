package window

import (
	"fmt"
	"runtime"

	"github.com/Carmen-Shannon/oxy-stoy/engine/input"
	"github.com/cogentcore/webgpu/wgpu"
)

// Window provides platform windowing and input event handling.
// Wraps platform-specific window implementations with a common interface.
type Window interface {
	// SetUpdateCallback sets the function called each message loop iteration.
	//
	// Parameters:
	//   - callback: function to call (or nil to disable)
	SetUpdateCallback(callback func())

	// SetResizeCallback sets the function called when the framebuffer is resized.
	//
	// Parameters:
	//   - callback: function receiving new width and height in pixels
	SetResizeCallback(callback func(width, height int))

	// SetInputCallback sets the function receiving normalized pointer, scroll and key events.
	//
	// Parameters:
	//   - callback: function receiving each event
	SetInputCallback(callback func(ev input.Event))

	// SurfaceDescriptor returns a wgpu.SurfaceDescriptor suitable for creating a WebGPU surface.
	// The descriptor is platform-appropriate (Windows HWND, X11 Xlib, Wayland, macOS Metal, etc.)
	// and is created by the wgpuglfw bridge from the underlying GLFW window.
	//
	// Returns:
	//   - *wgpu.SurfaceDescriptor: the platform-specific surface descriptor, or nil if window is not initialized
	SurfaceDescriptor() *wgpu.SurfaceDescriptor

	// IsRunning returns true until the window is asked to close.
	//
	// Returns:
	//   - bool: true if window is running, false if closed
	IsRunning() bool

	// RequestClose asks the message loop to stop after the current iteration.
	RequestClose()

	// Close destroys the window and releases platform resources.
	//
	// Returns:
	//   - error: error if close operation fails
	Close() error

	// ProcessMessages runs the window message loop.
	// Blocks until the window is closed. Calls the update callback each iteration.
	ProcessMessages()

	// Width returns the current framebuffer width in pixels.
	Width() int

	// Height returns the current framebuffer height in pixels.
	Height() int
}

// engineWindow is the implementation of the Window interface.
type engineWindow struct {
	title string

	// Size limits applied while resizing. Zero means no limit.
	maxWidth, maxHeight int
	minWidth, minHeight int

	width  int
	height int

	// internalWindow holds the platform-specific window data (glfwWindow).
	internalWindow any

	onUpdate func()
	onResize func(width, height int)
	onInput  func(ev input.Event)

	pointer pointerTracker
}

var _ Window = &engineWindow{}

// NewWindow creates and shows a window with the specified options.
// Applies default values first, then each option in order.
//
// Parameters:
//   - options: functional options to configure the window
//
// Returns:
//   - Window: the spawned window
//   - error: an error if the platform window could not be created
func NewWindow(options ...WindowBuilderOption) (Window, error) {
	w := &engineWindow{
		title:     "oxy-stoy",
		minWidth:  320,
		minHeight: 240,
		width:     800,
		height:    600,
	}
	for _, opt := range options {
		opt(w)
	}
	if err := newPlatformWindow(w); err != nil {
		return nil, fmt.Errorf("failed to create platform window: %w", err)
	}
	return w, nil
}

func (w *engineWindow) SetUpdateCallback(callback func()) {
	w.onUpdate = callback
}

func (w *engineWindow) SetResizeCallback(callback func(width, height int)) {
	w.onResize = callback
}

func (w *engineWindow) SetInputCallback(callback func(ev input.Event)) {
	w.onInput = callback
}

func (w *engineWindow) SurfaceDescriptor() *wgpu.SurfaceDescriptor {
	return platformGetSurfaceDescriptor(w)
}

func (w *engineWindow) IsRunning() bool {
	return platformIsRunningCheck(w)
}

func (w *engineWindow) RequestClose() {
	platformRequestClose(w)
}

func (w *engineWindow) Close() error {
	return platformCloseWindow(w)
}

func (w *engineWindow) ProcessMessages() {
	for w.IsRunning() {
		if succ := platformProcessMessages(w); !succ {
			break
		}

		if w.onUpdate != nil {
			w.onUpdate()
		}

		runtime.Gosched()
	}
}

func (w *engineWindow) Width() int {
	return w.width
}

func (w *engineWindow) Height() int {
	return w.height
}

func (w *engineWindow) emit(events ...input.Event) {
	if w.onInput == nil {
		return
	}
	for _, ev := range events {
		w.onInput(ev)
	}
}

// pointerTracker turns absolute cursor positions into position and relative motion events.
type pointerTracker struct {
	x, y float64
	seen bool
}

// move records a cursor position. The first position produces no motion event.
func (p *pointerTracker) move(x, y float64) []input.Event {
	events := []input.Event{{Kind: input.EventCursorMoved, X: x, Y: y}}
	if p.seen {
		events = append(events, input.Event{Kind: input.EventMouseMotion, X: x - p.x, Y: y - p.y})
	}
	p.x, p.y, p.seen = x, y, true
	return events
}

// keyEvent maps a key transition to an input event.
func keyEvent(key int, pressed bool) input.Event {
	if pressed {
		return input.Event{Kind: input.EventKeyDown, Key: key}
	}
	return input.Event{Kind: input.EventKeyUp, Key: key}
}

// scrollEvent maps a scroll offset to an input event. GLFW reports no gesture phases.
func scrollEvent(xoff, yoff float64) input.Event {
	return input.Event{Kind: input.EventMouseWheel, X: xoff, Y: yoff, Phase: input.PhaseNone}
}
