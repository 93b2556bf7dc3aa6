// Command stoy opens a window that draws one textured sprite with a WGSL shader and reloads
// the shader whenever its file changes on disk.
package main

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/Carmen-Shannon/oxy-stoy/common"
	"github.com/Carmen-Shannon/oxy-stoy/config"
	"github.com/Carmen-Shannon/oxy-stoy/engine"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout))
}

func run(args []string, stdout io.Writer) int {
	fs := flag.NewFlagSet("stoy", flag.ContinueOnError)
	configPath := fs.String("config", "", "path to the TOML config file (default "+config.DefaultPath+")")
	shaderPath := fs.String("shader", "", "WGSL shader to draw and watch")
	debug := fs.Bool("debug", false, "log at debug level")
	profile := fs.Bool("profile", false, "log frame statistics")
	printConfig := fs.Bool("print-config", false, "print the effective config and exit")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	// ── Config ──────────────────────────────────────────────────────────
	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	if *shaderPath != "" {
		cfg.Shader.Path = *shaderPath
	}
	if *debug {
		cfg.Log.Level = "debug"
	}
	if *profile {
		cfg.Profiler.Enabled = true
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	if *printConfig {
		out, err := cfg.Marshal()
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		if _, err := stdout.Write(out); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		return 0
	}

	// ── Logging ─────────────────────────────────────────────────────────
	level, _ := cfg.LogLevel()
	common.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
	log := common.Logger()

	// ── Assets ──────────────────────────────────────────────────────────
	created, err := ensureShader(cfg.Shader.Path)
	if err != nil {
		log.Error("failed to write default shader", "path", cfg.Shader.Path, "error", err)
		return 1
	}
	if created {
		log.Info("wrote default shader", "path", cfg.Shader.Path)
	}
	var texture []byte
	if cfg.Texture.Path != "" {
		texture, err = os.ReadFile(cfg.Texture.Path)
		if err != nil {
			log.Error("failed to read texture", "path", cfg.Texture.Path, "error", err)
			return 1
		}
	}

	// ── Engine ──────────────────────────────────────────────────────────
	opts, err := engineOptions(cfg, texture)
	if err != nil {
		log.Error("invalid config", "error", err)
		return 1
	}
	eng, err := engine.NewEngine(opts...)
	if err != nil {
		log.Error("startup failed", "error", err)
		return 1
	}
	defer eng.Close()

	if err := eng.Run(); err != nil {
		log.Error("stopped", "error", err)
		return 1
	}
	return 0
}
