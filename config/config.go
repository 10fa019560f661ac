// Package config loads lesson settings from YAML.
package config

import (
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

const (
	MovementStep       = "step"
	MovementContinuous = "continuous"
)

var Demos = []string{"triangle", "quad", "pyramid", "camera"}

type Config struct {
	Window  WindowConfig `yaml:"window"`
	Camera  CameraConfig `yaml:"camera"`
	Demo    string       `yaml:"demo"`
	Texture string       `yaml:"texture"`
	Log     LogConfig    `yaml:"log"`
	Mirror  MirrorConfig `yaml:"mirror"`
}

type WindowConfig struct {
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
	Title  string `yaml:"title"`
}

type CameraConfig struct {
	Position    [3]float32 `yaml:"position"`
	Speed       float32    `yaml:"speed"`
	Sensitivity float32    `yaml:"sensitivity"`
	FOV         float32    `yaml:"fov"`
	Near        float32    `yaml:"near"`
	Far         float32    `yaml:"far"`
	Movement    string     `yaml:"movement"`
	MaxPitch    float32    `yaml:"max_pitch"`

	// Keys maps movement names (forward, back, left, right, up, down) to
	// key names such as "W" or "LeftShift".
	Keys map[string]string `yaml:"keys"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

type MirrorConfig struct {
	// Listen is the address the pose mirror serves on; empty disables it.
	Listen string `yaml:"listen"`
}

func Default() *Config {
	return &Config{
		Window: WindowConfig{
			Width:  800,
			Height: 800,
			Title:  "wgpu lessons",
		},
		Camera: CameraConfig{
			Position:    [3]float32{0, 0, 2},
			Speed:       0.1,
			Sensitivity: 100,
			FOV:         45,
			Near:        0.1,
			Far:         100,
			Movement:    MovementStep,
		},
		Demo: "camera",
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Load reads path over the defaults. Unknown fields are an error.
func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	defer f.Close()
	return Decode(f)
}

func Decode(r io.Reader) (*Config, error) {
	cfg := Default()
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		return fmt.Errorf("window size must be positive, got %dx%d", c.Window.Width, c.Window.Height)
	}
	cam := c.Camera
	if !(cam.FOV > 0 && cam.FOV < 180) {
		return fmt.Errorf("camera fov must be within (0, 180), got %v", cam.FOV)
	}
	if !(cam.Near > 0) || !(cam.Far > cam.Near) {
		return fmt.Errorf("camera clip planes must satisfy 0 < near < far, got near=%v far=%v", cam.Near, cam.Far)
	}
	if cam.Speed < 0 || cam.Sensitivity < 0 {
		return fmt.Errorf("camera speed and sensitivity must not be negative")
	}
	if cam.MaxPitch < 0 || cam.MaxPitch >= 90 {
		return fmt.Errorf("camera max_pitch must be within [0, 90), got %v", cam.MaxPitch)
	}
	switch cam.Movement {
	case MovementStep, MovementContinuous:
	default:
		return fmt.Errorf("unknown camera movement %q", cam.Movement)
	}
	if !knownDemo(c.Demo) {
		return fmt.Errorf("unknown demo %q", c.Demo)
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		return fmt.Errorf("unknown log format %q", c.Log.Format)
	}
	return nil
}

func knownDemo(name string) bool {
	for _, d := range Demos {
		if d == name {
			return true
		}
	}
	return false
}

// Save writes c as YAML.
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}
