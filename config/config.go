// Package config loads the read-only startup configuration of the stoy application from a
// TOML file. Every field has a default, so the file may set only what it changes.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/mitchellh/go-homedir"
	"github.com/pelletier/go-toml/v2"
)

// DefaultPath is the config file looked up when no path is given. It may be absent.
const DefaultPath = "stoy.toml"

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("invalid config")

// Duration is a time.Duration written as a Go duration string, such as "200ms".
type Duration struct {
	time.Duration
}

// UnmarshalText parses a duration string.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// MarshalText writes the duration as a Go duration string.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

type WindowConfig struct {
	Title  string `toml:"title"`
	Width  int    `toml:"width"`
	Height int    `toml:"height"`
}

type RendererConfig struct {
	// PresentMode is "vsync" or "uncapped".
	PresentMode   string `toml:"present_mode"`
	ForceSoftware bool   `toml:"force_software"`
}

type ShaderConfig struct {
	Path string `toml:"path"`
	// WatchDir defaults to the directory of Path.
	WatchDir      string   `toml:"watch_dir"`
	Debounce      Duration `toml:"debounce"`
	VertexEntry   string   `toml:"vertex_entry"`
	FragmentEntry string   `toml:"fragment_entry"`
	HotReload     bool     `toml:"hot_reload"`
}

type AnimationConfig struct {
	TimeStep float32 `toml:"time_step"`
	// TimeMode is "fixed" or "elapsed".
	TimeMode string `toml:"time_mode"`
}

type TextureConfig struct {
	// Path replaces the embedded default texture when set.
	Path string `toml:"path"`
}

type LogConfig struct {
	Level string `toml:"level"`
}

type ProfilerConfig struct {
	Enabled  bool     `toml:"enabled"`
	Interval Duration `toml:"interval"`
}

// Config is the full application configuration.
type Config struct {
	Window    WindowConfig    `toml:"window"`
	Renderer  RendererConfig  `toml:"renderer"`
	Shader    ShaderConfig    `toml:"shader"`
	Animation AnimationConfig `toml:"animation"`
	Texture   TextureConfig   `toml:"texture"`
	Log       LogConfig       `toml:"log"`
	Profiler  ProfilerConfig  `toml:"profiler"`
}

// Default returns the configuration used when no file is present.
func Default() Config {
	return Config{
		Window: WindowConfig{
			Title:  "oxy-stoy",
			Width:  800,
			Height: 600,
		},
		Renderer: RendererConfig{
			PresentMode: "vsync",
		},
		Shader: ShaderConfig{
			Path:          "shaders/sprite.wgsl",
			Debounce:      Duration{200 * time.Millisecond},
			VertexEntry:   "vs_main",
			FragmentEntry: "fs_main",
			HotReload:     true,
		},
		Animation: AnimationConfig{
			TimeStep: 0.01,
			TimeMode: "fixed",
		},
		Log: LogConfig{
			Level: "info",
		},
		Profiler: ProfilerConfig{
			Interval: Duration{time.Second},
		},
	}
}

// Load reads the TOML file at path over the defaults, expands ~ in every path and validates
// the result. An empty path means DefaultPath; a missing file is only an error when the
// path was given explicitly.
//
// Parameters:
//   - path: the config file path, or "" for DefaultPath
//
// Returns:
//   - Config: the merged configuration
//   - error: an error if the file cannot be read, decoded or fails validation
func Load(path string) (Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		path = DefaultPath
	}
	expanded, err := homedir.Expand(path)
	if err != nil {
		return Config{}, fmt.Errorf("config %s: %w", path, err)
	}

	data, err := os.ReadFile(expanded)
	switch {
	case err == nil:
		if err := Decode(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("config %s: %w", expanded, err)
		}
	case errors.Is(err, os.ErrNotExist) && !explicit:
	default:
		return Config{}, fmt.Errorf("config: %w", err)
	}

	if err := cfg.expandPaths(); err != nil {
		return Config{}, fmt.Errorf("config %s: %w", expanded, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Decode decodes TOML data over cfg. Unknown keys are rejected.
//
// Parameters:
//   - data: the TOML document
//   - cfg: the config to decode into; fields absent from data keep their value
//
// Returns:
//   - error: a decode error, including unknown keys
func Decode(data []byte, cfg *Config) error {
	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	return dec.Decode(cfg)
}

// Marshal encodes the config as TOML.
//
// Returns:
//   - []byte: the TOML document
//   - error: an encoding error
func (c Config) Marshal() ([]byte, error) {
	return toml.Marshal(c)
}

func (c *Config) expandPaths() error {
	for _, p := range []*string{&c.Shader.Path, &c.Shader.WatchDir, &c.Texture.Path} {
		if *p == "" {
			continue
		}
		v, err := homedir.Expand(*p)
		if err != nil {
			return err
		}
		*p = v
	}
	return nil
}

// Validate reports every out-of-range field at once.
//
// Returns:
//   - error: an error wrapping ErrInvalid, or nil
func (c Config) Validate() error {
	var problems []string

	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		problems = append(problems, fmt.Sprintf("window size %dx%d must be positive", c.Window.Width, c.Window.Height))
	}
	switch c.Renderer.PresentMode {
	case "vsync", "uncapped":
	default:
		problems = append(problems, fmt.Sprintf("renderer.present_mode %q must be vsync or uncapped", c.Renderer.PresentMode))
	}
	if c.Shader.Path == "" && c.Shader.HotReload {
		problems = append(problems, "shader.path is required when shader.hot_reload is enabled")
	}
	if c.Shader.Debounce.Duration <= 0 {
		problems = append(problems, "shader.debounce must be positive")
	}
	if c.Shader.VertexEntry == "" || c.Shader.FragmentEntry == "" {
		problems = append(problems, "shader entry points must not be empty")
	}
	if c.Animation.TimeStep <= 0 {
		problems = append(problems, "animation.time_step must be positive")
	}
	switch strings.ToLower(c.Animation.TimeMode) {
	case "fixed", "elapsed":
	default:
		problems = append(problems, fmt.Sprintf("animation.time_mode %q must be fixed or elapsed", c.Animation.TimeMode))
	}
	if _, err := c.LogLevel(); err != nil {
		problems = append(problems, fmt.Sprintf("log.level: %v", err))
	}
	if c.Profiler.Interval.Duration <= 0 {
		problems = append(problems, "profiler.interval must be positive")
	}

	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalid, strings.Join(problems, "; "))
	}
	return nil
}

// LogLevel parses the configured log level.
//
// Returns:
//   - slog.Level: the level
//   - error: an error if the name is not a slog level
func (c Config) LogLevel() (slog.Level, error) {
	var l slog.Level
	err := l.UnmarshalText([]byte(c.Log.Level))
	return l, err
}
