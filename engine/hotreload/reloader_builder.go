package hotreload

import (
	"time"

	"github.com/Carmen-Shannon/oxy-stoy/engine/renderer/shader"
)

// ReloaderBuilderOption is a functional option applied to a reloader during NewReloader.
type ReloaderBuilderOption func(*reloader)

// WithQuietPeriod sets how long the file must stay unchanged before it is re-read.
// Non-positive values are ignored.
//
// Parameters:
//   - d: the quiet period
//
// Returns:
//   - ReloaderBuilderOption: a function that sets the quiet period
func WithQuietPeriod(d time.Duration) ReloaderBuilderOption {
	return func(r *reloader) {
		if d > 0 {
			r.quiet = d
		}
	}
}

// WithShaderOptions sets the options passed to shader.Parse on every reload, such as the
// preprocessor that resolves @stoy annotations.
//
// Parameters:
//   - options: the shader options
//
// Returns:
//   - ReloaderBuilderOption: a function that sets the shader options
func WithShaderOptions(options ...shader.ShaderBuilderOption) ReloaderBuilderOption {
	return func(r *reloader) {
		r.options = append(r.options, options...)
	}
}
