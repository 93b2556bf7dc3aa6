package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/Carmen-Shannon/oxy-stoy/config"
	"github.com/Carmen-Shannon/oxy-stoy/engine"
	"github.com/Carmen-Shannon/oxy-stoy/engine/camera"
	"github.com/Carmen-Shannon/oxy-stoy/engine/renderer"
	"github.com/Carmen-Shannon/oxy-stoy/engine/stoy"
	"github.com/Carmen-Shannon/oxy-stoy/engine/window"
)

// engineOptions maps a validated config onto engine builder options.
//
// Parameters:
//   - cfg: the loaded configuration
//   - texture: encoded texture bytes, or nil for the embedded default
//
// Returns:
//   - []engine.EngineBuilderOption: the options for engine.NewEngine
//   - error: an error if a config value has no matching option
func engineOptions(cfg config.Config, texture []byte) ([]engine.EngineBuilderOption, error) {
	mode, err := stoy.ParseTimeMode(cfg.Animation.TimeMode)
	if err != nil {
		return nil, err
	}
	present, err := presentMode(cfg.Renderer.PresentMode)
	if err != nil {
		return nil, err
	}

	stoyOpts := []stoy.StoyBuilderOption{
		stoy.WithShaderPath(cfg.Shader.Path),
		stoy.WithQuietPeriod(cfg.Shader.Debounce.Duration),
		stoy.WithEntryPoints(cfg.Shader.VertexEntry, cfg.Shader.FragmentEntry),
		stoy.WithTimeStep(cfg.Animation.TimeStep),
		stoy.WithTimeMode(mode),
		stoy.WithCameraController(camera.NewController2D()),
	}
	if cfg.Shader.Path != "" {
		stoyOpts = append(stoyOpts, stoy.WithHotReload(cfg.Shader.HotReload))
	}
	if cfg.Shader.WatchDir != "" {
		stoyOpts = append(stoyOpts, stoy.WithWatchDir(cfg.Shader.WatchDir))
	}
	if texture != nil {
		stoyOpts = append(stoyOpts, stoy.WithTexture(texture))
	}

	return []engine.EngineBuilderOption{
		engine.WithWindowOptions(
			window.WithTitle(cfg.Window.Title),
			window.WithSize(cfg.Window.Width, cfg.Window.Height),
		),
		engine.WithRendererOptions(
			renderer.WithPresentMode(present),
			renderer.WithForceSoftwareRenderer(cfg.Renderer.ForceSoftware),
		),
		engine.WithStoyOptions(stoyOpts...),
		engine.WithProfiling(cfg.Profiler.Enabled),
		engine.WithProfilerInterval(cfg.Profiler.Interval.Duration),
	}, nil
}

func presentMode(name string) (renderer.PresentMode, error) {
	switch name {
	case "vsync":
		return renderer.PresentModeVSync, nil
	case "uncapped":
		return renderer.PresentModeUncapped, nil
	}
	return 0, fmt.Errorf("unknown present mode %q", name)
}

// ensureShader writes the default shader to path when nothing exists there yet, so a first run
// has a file to edit.
//
// Parameters:
//   - path: the shader file path
//
// Returns:
//   - bool: true if the file was created
//   - error: an error if the file could not be checked or written
func ensureShader(path string) (bool, error) {
	if path == "" {
		return false, nil
	}
	_, err := os.Stat(path)
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, os.ErrNotExist) {
		return false, err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return false, err
	}
	if err := os.WriteFile(path, []byte(stoy.DefaultShader), 0o644); err != nil {
		return false, err
	}
	return true, nil
}
