package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
)

// ErrInvalid wraps every validation failure.
var ErrInvalid = errors.New("invalid config")

type Config struct {
	Engine    EngineConfig    `toml:"engine"`
	Window    WindowConfig    `toml:"window"`
	Rendering RenderingConfig `toml:"rendering"`
	Scripting ScriptingConfig `toml:"scripting"`
	Replay    ReplayConfig    `toml:"replay"`
	Logging   LoggingConfig   `toml:"logging"`
	Debug     DebugConfig     `toml:"debug"`
}

type EngineConfig struct {
	ProjectPath string        `toml:"project_path"`
	Editor      bool          `toml:"editor"`
	MaxFPS      int           `toml:"max_fps"`    // 0 = unpaced
	FixedStep   time.Duration `toml:"fixed_step"` // simulation step
	MaxFrames   int           `toml:"max_frames"` // 0 = until closed
}

type WindowConfig struct {
	Title      string `toml:"title"`
	Width      int    `toml:"width"`      // 0 = half the display
	Height     int    `toml:"height"`     // 0 = half the display
	Mode       string `toml:"mode"`       // "headless" or "windowed"
	Fullscreen string `toml:"fullscreen"` // "windowed", "fullscreen" or "borderless"
	Resizable  bool   `toml:"resizable"`
}

type RenderingConfig struct {
	Renderer string `toml:"renderer"`
}

type ScriptingConfig struct {
	Dir       string `toml:"dir"` // "" disables scripting
	HotReload bool   `toml:"hot_reload"`
}

type ReplayConfig struct {
	Path string `toml:"path"` // YAML event script for the headless platform
}

type LoggingConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"` // "json" or "console"
}

type DebugConfig struct {
	ListenAddr string `toml:"listen_addr"` // "" disables the debug server
}

// Load reads a TOML file over Defaults. An empty path yields the defaults.
func Load(path string) (*Config, error) {
	cfg := Defaults()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks enumerations and ranges.
func (c *Config) Validate() error {
	var errs []error
	if c.Engine.MaxFPS < 0 {
		errs = append(errs, fmt.Errorf("engine.max_fps must be >= 0, got %d", c.Engine.MaxFPS))
	}
	if c.Engine.FixedStep <= 0 {
		errs = append(errs, fmt.Errorf("engine.fixed_step must be > 0, got %s", c.Engine.FixedStep))
	}
	if c.Engine.MaxFrames < 0 {
		errs = append(errs, fmt.Errorf("engine.max_frames must be >= 0, got %d", c.Engine.MaxFrames))
	}
	if c.Window.Width < 0 || c.Window.Height < 0 {
		errs = append(errs, fmt.Errorf("window size must be >= 0, got %dx%d", c.Window.Width, c.Window.Height))
	}
	switch c.Window.Mode {
	case "headless", "windowed":
	default:
		errs = append(errs, fmt.Errorf("window.mode %q: want headless or windowed", c.Window.Mode))
	}
	switch c.Window.Fullscreen {
	case "windowed", "fullscreen", "borderless":
	default:
		errs = append(errs, fmt.Errorf("window.fullscreen %q: want windowed, fullscreen or borderless", c.Window.Fullscreen))
	}
	if c.Rendering.Renderer == "" {
		errs = append(errs, errors.New("rendering.renderer must be set"))
	}
	switch c.Logging.Format {
	case "json", "console":
	default:
		errs = append(errs, fmt.Errorf("logging.format %q: want json or console", c.Logging.Format))
	}
	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrInvalid, errors.Join(errs...))
	}
	return nil
}

// ResolvePath anchors a relative path at the project directory.
func (c *Config) ResolvePath(p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(c.Engine.ProjectPath, p)
}

func Defaults() *Config {
	return &Config{
		Engine: EngineConfig{
			ProjectPath: ".",
			MaxFPS:      0,
			FixedStep:   time.Second / 60,
		},
		Window: WindowConfig{
			Title:      "Feather",
			Mode:       "headless",
			Fullscreen: "windowed",
		},
		Rendering: RenderingConfig{
			Renderer: "null",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}
