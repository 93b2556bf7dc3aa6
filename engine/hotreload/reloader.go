package hotreload

import (
	"fmt"
	"os"
	"sync/atomic"
	"time"

	"github.com/Carmen-Shannon/oxy-stoy/common"
	"github.com/Carmen-Shannon/oxy-stoy/engine/renderer/pipeline"
	"github.com/Carmen-Shannon/oxy-stoy/engine/renderer/shader"
)

// DefaultQuietPeriod is how long the shader file must stay unchanged before it is re-read.
const DefaultQuietPeriod = 200 * time.Millisecond

// Compiler turns a validated shader into a GPU pipeline using the existing pipeline layout.
type Compiler interface {
	Compile(s shader.Shader) (pipeline.Pipeline, error)
}

// CompilerFunc adapts a plain function to the Compiler interface.
type CompilerFunc func(s shader.Shader) (pipeline.Pipeline, error)

// Compile calls f(s).
func (f CompilerFunc) Compile(s shader.Shader) (pipeline.Pipeline, error) {
	return f(s)
}

// Outcome is the result of one Step. Pipeline is set only when State is StateRebuilt.
type Outcome struct {
	State    State
	Pipeline pipeline.Pipeline
	Err      error
}

// reloader is the implementation of the Reloader interface.
type reloader struct {
	path     string
	cell     *DebounceCell
	compiler Compiler
	target   shader.Target
	quiet    time.Duration
	options  []shader.ShaderBuilderOption

	queue chan string
	state State

	attempts atomic.Uint64
	reloads  atomic.Uint64
	failures atomic.Uint64
}

// Reloader drives the shader rebuild sequence from the render goroutine: debounce, read,
// parse, validate and compile. It never blocks and never installs a pipeline itself; a
// successful Outcome hands the new pipeline to the caller.
type Reloader interface {
	// Step advances the rebuild sequence by at most one shader text.
	//
	// Parameters:
	//   - now: the current time, compared against the debounce cell
	//
	// Returns:
	//   - Outcome: the state reached, the new pipeline on StateRebuilt, or the error on failure
	Step(now time.Time) Outcome

	// State returns the state reached by the most recent Step.
	State() State

	// Path returns the watched shader file.
	Path() string

	// Attempts returns the number of shader texts taken off the queue.
	Attempts() uint64

	// Reloads returns the number of pipelines successfully rebuilt.
	Reloads() uint64

	// Failures returns the number of parse, validation and compile failures.
	Failures() uint64
}

var _ Reloader = &reloader{}

// NewReloader creates a Reloader for the shader at path.
//
// Parameters:
//   - path: the shader file to re-read on change
//   - cell: the debounce cell written by the watcher
//   - compiler: builds a pipeline from a validated shader
//   - target: the pipeline contract every reloaded shader must satisfy
//   - options: functional options to configure the reloader
//
// Returns:
//   - Reloader: the new reloader
func NewReloader(path string, cell *DebounceCell, compiler Compiler, target shader.Target, options ...ReloaderBuilderOption) Reloader {
	r := &reloader{
		path:     path,
		cell:     cell,
		compiler: compiler,
		target:   target,
		quiet:    DefaultQuietPeriod,
		queue:    make(chan string, 1),
		state:    StateIdle,
	}
	for _, opt := range options {
		opt(r)
	}
	return r
}

func (r *reloader) Step(now time.Time) Outcome {
	if r.cell.TakeIfElapsed(now, r.quiet) {
		r.state = StateReadyToRead
		src, err := os.ReadFile(r.path)
		if err != nil {
			err = fmt.Errorf("read shader: %w", err)
			common.Logger().Error("shader reload failed", "stage", "read", "path", r.path, "error", err)
			r.state = StateIdle
			return Outcome{State: StateIdle, Err: err}
		}
		r.enqueue(string(src))
	}

	select {
	case src := <-r.queue:
		out := r.rebuild(src)
		r.state = out.State
		return out
	default:
	}

	if _, pending := r.cell.Pending(); pending {
		r.state = StateDebouncePending
	} else {
		r.state = StateIdle
	}
	return Outcome{State: r.state}
}

// enqueue replaces any text still waiting with src.
func (r *reloader) enqueue(src string) {
	select {
	case r.queue <- src:
		return
	default:
	}
	select {
	case <-r.queue:
	default:
	}
	r.queue <- src
}

func (r *reloader) rebuild(src string) Outcome {
	r.attempts.Add(1)

	parsed, err := shader.Parse(r.path, src, r.options...)
	if err != nil {
		return r.fail(StateParseFailed, "parse", err)
	}

	if err := parsed.Validate(r.target); err != nil {
		return r.fail(StateValidationFailed, "validate", err)
	}

	p, err := r.compiler.Compile(parsed)
	if err != nil {
		return r.fail(StateRebuildFailed, "compile", err)
	}

	r.reloads.Add(1)
	common.Logger().Info("shader reloaded", "path", r.path, "generation", p.Generation())
	return Outcome{State: StateRebuilt, Pipeline: p}
}

func (r *reloader) fail(state State, stage string, err error) Outcome {
	r.failures.Add(1)
	common.Logger().Error("shader reload failed", "stage", stage, "path", r.path, "error", err)
	return Outcome{State: state, Err: err}
}

func (r *reloader) State() State {
	return r.state
}

func (r *reloader) Path() string {
	return r.path
}

func (r *reloader) Attempts() uint64 {
	return r.attempts.Load()
}

func (r *reloader) Reloads() uint64 {
	return r.reloads.Load()
}

func (r *reloader) Failures() uint64 {
	return r.failures.Load()
}
