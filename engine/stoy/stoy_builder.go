package stoy

import (
	"fmt"
	"strings"
	"time"

	"github.com/Carmen-Shannon/oxy-stoy/engine/camera"
)

// TimeMode selects how Update advances the shader time.
type TimeMode int

const (
	// TimeModeFixed adds the configured step on every Update regardless of frame time.
	TimeModeFixed TimeMode = iota
	// TimeModeElapsed adds the real time passed since the previous Update.
	TimeModeElapsed
)

func (m TimeMode) String() string {
	switch m {
	case TimeModeElapsed:
		return "elapsed"
	default:
		return "fixed"
	}
}

// ParseTimeMode converts "fixed" or "elapsed" into a TimeMode.
//
// Parameters:
//   - s: the mode name, case-insensitive
//
// Returns:
//   - TimeMode: the parsed mode
//   - error: an error if the name is unknown
func ParseTimeMode(s string) (TimeMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "fixed":
		return TimeModeFixed, nil
	case "elapsed":
		return TimeModeElapsed, nil
	default:
		return TimeModeFixed, fmt.Errorf("unknown time mode %q", s)
	}
}

// StoyBuilderOption is a functional option applied to the engine during NewStoy.
type StoyBuilderOption func(*stoy)

// WithShaderPath sets the shader file. An empty path uses DefaultShader and disables hot reload.
//
// Parameters:
//   - path: the shader file path
//
// Returns:
//   - StoyBuilderOption: a function that sets the shader path
func WithShaderPath(path string) StoyBuilderOption {
	return func(s *stoy) {
		s.shaderPath = path
		if path == "" {
			s.hotReload = false
		}
	}
}

// WithWatchDir sets the directory watched for changes. Defaults to the shader's directory.
//
// Parameters:
//   - dir: the directory to watch recursively
//
// Returns:
//   - StoyBuilderOption: a function that sets the watch directory
func WithWatchDir(dir string) StoyBuilderOption {
	return func(s *stoy) {
		s.watchDir = dir
	}
}

// WithHotReload enables or disables watching the shader file.
//
// Parameters:
//   - enabled: whether to reload on change
//
// Returns:
//   - StoyBuilderOption: a function that sets hot reload
func WithHotReload(enabled bool) StoyBuilderOption {
	return func(s *stoy) {
		s.hotReload = enabled
	}
}

// WithQuietPeriod sets how long the shader must stay unchanged before it is reloaded.
//
// Parameters:
//   - d: the debounce quiet period
//
// Returns:
//   - StoyBuilderOption: a function that sets the quiet period
func WithQuietPeriod(d time.Duration) StoyBuilderOption {
	return func(s *stoy) {
		if d > 0 {
			s.quietPeriod = d
		}
	}
}

// WithEntryPoints overrides the vertex and fragment entry point names.
//
// Parameters:
//   - vertex: the vertex entry point
//   - fragment: the fragment entry point
//
// Returns:
//   - StoyBuilderOption: a function that sets the entry points
func WithEntryPoints(vertex, fragment string) StoyBuilderOption {
	return func(s *stoy) {
		s.vertexEntry = vertex
		s.fragmentEntry = fragment
	}
}

// WithTexture replaces the embedded default texture with encoded image bytes.
//
// Parameters:
//   - data: PNG, JPEG, GIF, BMP, TIFF or WebP bytes
//
// Returns:
//   - StoyBuilderOption: a function that sets the texture
func WithTexture(data []byte) StoyBuilderOption {
	return func(s *stoy) {
		if len(data) > 0 {
			s.texture = data
		}
	}
}

// WithTimeStep sets the per-Update time increment used by TimeModeFixed.
//
// Parameters:
//   - step: the increment in seconds
//
// Returns:
//   - StoyBuilderOption: a function that sets the time step
func WithTimeStep(step float32) StoyBuilderOption {
	return func(s *stoy) {
		if step > 0 {
			s.timeStep = step
		}
	}
}

// WithTimeMode selects fixed-step or elapsed time.
//
// Parameters:
//   - mode: the time mode
//
// Returns:
//   - StoyBuilderOption: a function that sets the time mode
func WithTimeMode(mode TimeMode) StoyBuilderOption {
	return func(s *stoy) {
		s.timeMode = mode
	}
}

// WithViewportSize sets the initial window size used as the shader resolution.
//
// Parameters:
//   - width, height: the window size in pixels
//
// Returns:
//   - StoyBuilderOption: a function that sets the viewport size
func WithViewportSize(width, height int) StoyBuilderOption {
	return func(s *stoy) {
		if width > 0 && height > 0 {
			s.width, s.height = width, height
		}
	}
}

// WithCamera replaces the default 800×600 camera.
//
// Parameters:
//   - c: the camera
//
// Returns:
//   - StoyBuilderOption: a function that sets the camera
func WithCamera(c camera.Camera2D) StoyBuilderOption {
	return func(s *stoy) {
		s.camera = c
	}
}

// WithCameraController enables keyboard panning through c.
//
// Parameters:
//   - c: the pan controller
//
// Returns:
//   - StoyBuilderOption: a function that sets the controller
func WithCameraController(c camera.Controller2D) StoyBuilderOption {
	return func(s *stoy) {
		s.controller = c
	}
}

// WithClock sets the time source the watcher stamps changes with and the reloader debounces
// against. The default is time.Now.
//
// Parameters:
//   - clock: the time source
//
// Returns:
//   - StoyBuilderOption: a function that sets the clock
func WithClock(clock func() time.Time) StoyBuilderOption {
	return func(s *stoy) {
		if clock != nil {
			s.clock = clock
		}
	}
}
