// Package config loads viewer settings from YAML and command-line flags.
package config

import (
	"errors"
	"fmt"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/assetview/internal/logger"
)

// Config holds all viewer settings.
type Config struct {
	Window   WindowConfig   `yaml:"window"`
	Camera   CameraConfig   `yaml:"camera"`
	Model    ModelConfig    `yaml:"model"`
	Texture  TextureConfig  `yaml:"texture"`
	Lighting LightingConfig `yaml:"lighting"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// WindowConfig holds display settings.
type WindowConfig struct {
	Title      string `yaml:"title"`
	Width      int    `yaml:"width"`
	Height     int    `yaml:"height"`
	Fullscreen bool   `yaml:"fullscreen"`
	VSync      bool   `yaml:"vsync"`
	// ScreenshotDir receives F12 captures; empty means the working directory.
	ScreenshotDir string `yaml:"screenshot_dir"`
}

// CameraConfig holds first-person camera settings.
type CameraConfig struct {
	FOV         float32    `yaml:"fov"` // degrees, 1..45
	Near        float32    `yaml:"near"`
	Far         float32    `yaml:"far"`
	Speed       float32    `yaml:"speed"`       // units per second
	Sensitivity float32    `yaml:"sensitivity"` // degrees per pixel
	Position    [3]float32 `yaml:"position"`
	// FitModel moves the camera to frame the model after each load.
	FitModel bool `yaml:"fit_model"`
}

// ModelConfig selects the model and how it is imported.
type ModelConfig struct {
	Path    string `yaml:"path"`
	FlipUVs bool   `yaml:"flip_uvs"`
	Watch   bool   `yaml:"watch"` // reload when the file changes
}

// TextureConfig holds texture loading settings.
type TextureConfig struct {
	MaxSize int `yaml:"max_size"` // 0 keeps the original size
}

// LightingConfig places the sun, in degrees.
type LightingConfig struct {
	Azimuth   float32 `yaml:"azimuth"`
	Elevation float32 `yaml:"elevation"`
	Ambient   float32 `yaml:"ambient"` // 0..1
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Window: WindowConfig{
			Title:  "assetview",
			Width:  1280,
			Height: 720,
			VSync:  true,
		},
		Camera: CameraConfig{
			FOV:         45,
			Near:        0.1,
			Far:         1000,
			Speed:       2.5,
			Sensitivity: 0.1,
			Position:    [3]float32{0, 0, 3},
			FitModel:    true,
		},
		Model: ModelConfig{
			FlipUVs: true,
		},
		Lighting: LightingConfig{
			Azimuth:   210,
			Elevation: 55,
			Ambient:   0.25,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// CameraPosition returns the configured start position.
func (c *CameraConfig) CameraPosition() mgl32.Vec3 {
	return mgl32.Vec3(c.Position)
}

// Validate reports every invalid setting.
func (c *Config) Validate() error {
	var errs []error
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		errs = append(errs, fmt.Errorf("window size %dx%d must be positive", c.Window.Width, c.Window.Height))
	}
	if c.Camera.FOV < 1 || c.Camera.FOV > 45 {
		errs = append(errs, fmt.Errorf("camera fov %v must be within 1..45", c.Camera.FOV))
	}
	if c.Camera.Near <= 0 || c.Camera.Far <= c.Camera.Near {
		errs = append(errs, fmt.Errorf("camera planes near=%v far=%v", c.Camera.Near, c.Camera.Far))
	}
	if c.Texture.MaxSize < 0 {
		errs = append(errs, fmt.Errorf("texture max_size %d is negative", c.Texture.MaxSize))
	}
	if c.Lighting.Ambient < 0 || c.Lighting.Ambient > 1 {
		errs = append(errs, fmt.Errorf("lighting ambient %v must be within 0..1", c.Lighting.Ambient))
	}
	if _, err := logger.ParseLevel(c.Logging.Level); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}
