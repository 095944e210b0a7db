package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"solar-system/internal/meshing"
)

// Window holds the initial window setup
type Window struct {
	Width  int    `yaml:"width" toml:"width"`
	Height int    `yaml:"height" toml:"height"`
	Title  string `yaml:"title" toml:"title"`
	VSync  bool   `yaml:"vsync" toml:"vsync"`
}

// Settings is the full runtime configuration
type Settings struct {
	Window Window `yaml:"window" toml:"window"`

	// Projection
	FOV       float32 `yaml:"fov" toml:"fov"` // degrees
	NearPlane float32 `yaml:"near_plane" toml:"near_plane"`
	FarPlane  float32 `yaml:"far_plane" toml:"far_plane"`

	FPSLimit        int `yaml:"fps_limit" toml:"fps_limit"` // 0 = unlimited
	SpherePrecision int `yaml:"sphere_precision" toml:"sphere_precision"`

	ShaderDir  string `yaml:"shader_dir" toml:"shader_dir"`
	TextureDir string `yaml:"texture_dir" toml:"texture_dir"` // empty = next to the scene file

	SlowFrameMillis int    `yaml:"slow_frame_ms" toml:"slow_frame_ms"`
	LogLevel        string `yaml:"log_level" toml:"log_level"`
}

// Default returns the settings used when no config file is given
func Default() Settings {
	return Settings{
		Window: Window{
			Width:  1200,
			Height: 600,
			Title:  "Solar System",
		},
		FOV:             60,
		NearPlane:       0.1,
		FarPlane:        1000,
		FPSLimit:        120,
		SpherePrecision: meshing.DefaultPrecision,
		ShaderDir:       filepath.Join("assets", "shaders"),
		SlowFrameMillis: 16,
		LogLevel:        "info",
	}
}

// Load reads a YAML (.yaml/.yml) or TOML (.toml) file over the defaults
func Load(path string) (Settings, error) {
	s := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return s, fmt.Errorf("could not read config file: %w", err)
	}

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &s)
	case ".toml":
		err = toml.Unmarshal(data, &s)
	default:
		return s, fmt.Errorf("unsupported config format %q", ext)
	}
	if err != nil {
		return s, fmt.Errorf("could not decode config %s: %w", path, err)
	}
	return s.Validate(), nil
}

// Validate clamps values to workable ranges
func (s Settings) Validate() Settings {
	d := Default()
	if s.Window.Width <= 0 {
		s.Window.Width = d.Window.Width
	}
	if s.Window.Height <= 0 {
		s.Window.Height = d.Window.Height
	}
	if s.Window.Title == "" {
		s.Window.Title = d.Window.Title
	}
	if s.FOV < 10 {
		s.FOV = 10
	}
	if s.FOV > 150 {
		s.FOV = 150
	}
	if s.NearPlane <= 0 {
		s.NearPlane = d.NearPlane
	}
	if s.FarPlane <= s.NearPlane {
		s.FarPlane = s.NearPlane * 10000
	}
	if s.FPSLimit < 0 {
		s.FPSLimit = 0
	}
	if s.SpherePrecision < meshing.MinPrecision {
		s.SpherePrecision = meshing.MinPrecision
	}
	if s.SpherePrecision > 512 {
		s.SpherePrecision = 512
	}
	if s.ShaderDir == "" {
		s.ShaderDir = d.ShaderDir
	}
	if s.SlowFrameMillis <= 0 {
		s.SlowFrameMillis = d.SlowFrameMillis
	}
	if _, err := ParseLogLevel(s.LogLevel); err != nil {
		s.LogLevel = d.LogLevel
	}
	return s
}

// SlowFrame returns the frame duration above which a frame is reported
func (s Settings) SlowFrame() time.Duration {
	return time.Duration(s.SlowFrameMillis) * time.Millisecond
}

// Level is the slog level for LogLevel. Unknown names, which Validate
// replaces, read as info.
func (s Settings) Level() slog.Level {
	lvl, err := ParseLogLevel(s.LogLevel)
	if err != nil {
		return slog.LevelInfo
	}
	return lvl
}

// ParseLogLevel maps debug/info/warn/error to slog levels
func ParseLogLevel(name string) (slog.Level, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(name)); err != nil {
		return slog.LevelInfo, fmt.Errorf("unknown log level %q", name)
	}
	return lvl, nil
}

var (
	mu      sync.RWMutex
	current = Default()
)

// Current returns the process-wide settings
func Current() Settings {
	mu.RLock()
	defer mu.RUnlock()
	return current
}

// Apply validates s and makes it the process-wide settings
func Apply(s Settings) {
	mu.Lock()
	defer mu.Unlock()
	current = s.Validate()
}

// GetFPSLimit returns the frame cap, 0 meaning unlimited
func GetFPSLimit() int {
	mu.RLock()
	defer mu.RUnlock()
	return current.FPSLimit
}

// SetFPSLimit changes the frame cap at runtime
func SetFPSLimit(limit int) {
	mu.Lock()
	defer mu.Unlock()
	if limit < 0 {
		limit = 0
	}
	current.FPSLimit = limit
}
