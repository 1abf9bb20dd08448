// Package config loads the application configuration from a YAML file,
// layered over defaults that mirror each package's reference settings.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-gl/mathgl/mgl64"
	"gopkg.in/yaml.v3"

	"github.com/ayusman/mudra/internal/camera"
	"github.com/ayusman/mudra/internal/capture"
	"github.com/ayusman/mudra/internal/detector"
	"github.com/ayusman/mudra/internal/gesture"
	"github.com/ayusman/mudra/internal/logger"
	"github.com/ayusman/mudra/internal/scene"
)

// Config is the full application configuration tree.
type Config struct {
	Log       logger.Config   `yaml:"log"`
	Camera    capture.Config  `yaml:"camera"`
	Detection DetectionConfig `yaml:"detection"`
	Gestures  GestureConfig   `yaml:"gestures"`
	Control   ControlConfig   `yaml:"control"`
	Focus     FocusConfig     `yaml:"focus"`
	View      ViewConfig      `yaml:"view"`
	Selector  SelectorConfig  `yaml:"selector"`
	Pipeline  PipelineConfig  `yaml:"pipeline"`
	Server    ServerConfig    `yaml:"server"`
	Store     StoreConfig     `yaml:"store"`
	Plugins   PluginConfig    `yaml:"plugins"`
}

// DetectionConfig configures the hand landmark detector.
type DetectionConfig struct {
	MaxHands              int     `yaml:"max_hands"`
	MinConfidence         float64 `yaml:"min_confidence"`
	MinTrackingConfidence float64 `yaml:"min_tracking_confidence"`
}

// GestureConfig configures the gesture state machine.
type GestureConfig struct {
	RotateDeadzone  float64 `yaml:"rotate_deadzone"`
	RotateSmoothing float64 `yaml:"rotate_smoothing"`
	ZoomOutBelow    float64 `yaml:"zoom_out_below"`
	ZoomInAbove     float64 `yaml:"zoom_in_above"`
}

// ControlConfig configures how gesture events drive the camera.
type ControlConfig struct {
	RotateSensitivity float64 `yaml:"rotate_sensitivity"`
	ZoomStep          float64 `yaml:"zoom_step"`
	MinOriginDistance float64 `yaml:"min_origin_distance"`
	MaxOriginDistance float64 `yaml:"max_origin_distance"`
}

// FocusConfig configures the focus/restore animation.
type FocusConfig struct {
	Rate        float64 `yaml:"rate"`
	Epsilon     float64 `yaml:"epsilon"`
	FrameMargin float64 `yaml:"frame_margin"`
}

// ViewConfig configures the camera frustum and start pose. The field of
// view is in degrees here; the camera package works in radians.
type ViewConfig struct {
	FOVDegrees    float64 `yaml:"fov_degrees"`
	Aspect        float64 `yaml:"aspect"`
	Near          float64 `yaml:"near"`
	Far           float64 `yaml:"far"`
	StartDistance float64 `yaml:"start_distance"`
	PolarMargin   float64 `yaml:"polar_margin"`
}

// SelectorConfig configures grab target selection.
type SelectorConfig struct {
	CenterWindow float64 `yaml:"center_window"`
	MaxAlignment float64 `yaml:"max_alignment"`
	TieBand      float64 `yaml:"tie_band"`
}

// PipelineConfig configures the frame-processing loop.
type PipelineConfig struct {
	ActiveFPS       int     `yaml:"active_fps"`
	IdleFPS         int     `yaml:"idle_fps"`
	IdleAfterMs     int     `yaml:"idle_after_ms"`
	MotionThreshold float64 `yaml:"motion_threshold"`
}

// ServerConfig configures the HTTP surface.
type ServerConfig struct {
	Addr      string `yaml:"addr"`
	StaticDir string `yaml:"static_dir"`
}

// StoreConfig configures persistence.
type StoreConfig struct {
	Path string `yaml:"path"`
}

// PluginConfig configures feedback plugin execution.
type PluginConfig struct {
	Dir       string `yaml:"dir"`
	TimeoutMs int    `yaml:"timeout_ms"`
}

// Default returns the configuration matching each package's reference
// settings. Filesystem paths are left empty; ResolveDataDir fills them.
func Default() Config {
	det := detector.DefaultConfig()
	tracker := gesture.DefaultConfig()
	view := camera.DefaultConfig()
	ctrl := camera.DefaultControllerConfig()
	anim := camera.DefaultAnimatorConfig()
	sel := scene.DefaultSelectorConfig()

	return Config{
		Log:    logger.DefaultConfig(),
		Camera: capture.DefaultConfig(),
		Detection: DetectionConfig{
			MaxHands:              det.MaxHands,
			MinConfidence:         det.MinConfidence,
			MinTrackingConfidence: det.MinTrackingConfidence,
		},
		Gestures: GestureConfig{
			RotateDeadzone:  tracker.RotateDeadzone,
			RotateSmoothing: tracker.RotateSmoothing,
			ZoomOutBelow:    tracker.ZoomOutBelow,
			ZoomInAbove:     tracker.ZoomInAbove,
		},
		Control: ControlConfig{
			RotateSensitivity: ctrl.RotateSensitivity,
			ZoomStep:          ctrl.ZoomStep,
			MinOriginDistance: ctrl.MinOriginDistance,
			MaxOriginDistance: ctrl.MaxOriginDistance,
		},
		Focus: FocusConfig{
			Rate:        anim.Rate,
			Epsilon:     anim.Epsilon,
			FrameMargin: anim.FrameMargin,
		},
		View: ViewConfig{
			FOVDegrees:    mgl64.RadToDeg(view.FOV),
			Aspect:        view.Aspect,
			Near:          view.Near,
			Far:           view.Far,
			StartDistance: view.StartDistance,
			PolarMargin:   view.PolarMargin,
		},
		Selector: SelectorConfig{
			CenterWindow: sel.CenterWindow,
			MaxAlignment: sel.MaxAlignment,
			TieBand:      sel.TieBand,
		},
		Pipeline: PipelineConfig{
			ActiveFPS:       15,
			IdleFPS:         5,
			IdleAfterMs:     2000,
			MotionThreshold: 1.0,
		},
		Server:  ServerConfig{Addr: ":8080"},
		Plugins: PluginConfig{TimeoutMs: 5000},
	}
}

// Load reads the YAML file at path over the defaults. A missing file is
// not an error; the defaults are returned unchanged.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// ResolveDataDir fills empty filesystem paths with locations under dir.
func (c *Config) ResolveDataDir(dir string) {
	if c.Store.Path == "" {
		c.Store.Path = filepath.Join(dir, "mudra.db")
	}
	if c.Log.File == "" {
		c.Log.File = filepath.Join(dir, "logs", "mudra.log")
	}
	if c.Plugins.Dir == "" {
		c.Plugins.Dir = filepath.Join(dir, "plugins")
	}
	if c.Server.StaticDir == "" {
		webDir := filepath.Join(dir, "web")
		if info, err := os.Stat(webDir); err == nil && info.IsDir() {
			c.Server.StaticDir = webDir
		}
	}
}

// Validate rejects settings the pipeline cannot run with.
func (c *Config) Validate() error {
	if c.Camera.FPS <= 0 {
		return errors.New("camera.fps must be positive")
	}
	if c.Camera.Width <= 0 || c.Camera.Height <= 0 {
		return errors.New("camera resolution must be positive")
	}
	if c.Detection.MaxHands < 1 {
		return errors.New("detection.max_hands must be at least 1")
	}
	if c.Gestures.RotateDeadzone < 0 {
		return errors.New("gestures.rotate_deadzone must not be negative")
	}
	if c.Gestures.RotateSmoothing <= 0 || c.Gestures.RotateSmoothing > 1 {
		return errors.New("gestures.rotate_smoothing must be in (0, 1]")
	}
	if c.Gestures.ZoomOutBelow >= c.Gestures.ZoomInAbove {
		return errors.New("gestures.zoom_out_below must be below zoom_in_above")
	}
	if c.Control.ZoomStep <= 0 {
		return errors.New("control.zoom_step must be positive")
	}
	if c.Control.MinOriginDistance >= c.Control.MaxOriginDistance {
		return errors.New("control.min_origin_distance must be below max_origin_distance")
	}
	if c.Focus.Rate <= 0 {
		return errors.New("focus.rate must be positive")
	}
	if c.Focus.Epsilon <= 0 {
		return errors.New("focus.epsilon must be positive")
	}
	if c.Focus.FrameMargin <= 0 {
		return errors.New("focus.frame_margin must be positive")
	}
	if c.View.FOVDegrees <= 0 || c.View.FOVDegrees >= 180 {
		return errors.New("view.fov_degrees must be in (0, 180)")
	}
	if c.View.Near <= 0 || c.View.Far <= c.View.Near {
		return errors.New("view near/far planes must satisfy 0 < near < far")
	}
	if c.View.StartDistance <= 0 {
		return errors.New("view.start_distance must be positive")
	}
	if c.Selector.CenterWindow <= 0 || c.Selector.CenterWindow > 1 {
		return errors.New("selector.center_window must be in (0, 1]")
	}
	if c.Selector.TieBand < 0 {
		return errors.New("selector.tie_band must not be negative")
	}
	if c.Pipeline.ActiveFPS <= 0 || c.Pipeline.IdleFPS <= 0 {
		return errors.New("pipeline frame rates must be positive")
	}
	if c.Pipeline.IdleFPS > c.Pipeline.ActiveFPS {
		return errors.New("pipeline.idle_fps must not exceed active_fps")
	}
	if c.Server.Addr == "" {
		return errors.New("server.addr is required")
	}
	if c.Plugins.TimeoutMs <= 0 {
		return errors.New("plugins.timeout_ms must be positive")
	}
	return nil
}

// DetectorConfig converts the detection section.
func (c Config) DetectorConfig() detector.Config {
	return detector.Config{
		MaxHands:              c.Detection.MaxHands,
		MinConfidence:         c.Detection.MinConfidence,
		MinTrackingConfidence: c.Detection.MinTrackingConfidence,
	}
}

// TrackerConfig converts the gestures section.
func (c Config) TrackerConfig() gesture.Config {
	return gesture.Config{
		RotateDeadzone:  c.Gestures.RotateDeadzone,
		RotateSmoothing: c.Gestures.RotateSmoothing,
		ZoomOutBelow:    c.Gestures.ZoomOutBelow,
		ZoomInAbove:     c.Gestures.ZoomInAbove,
	}
}

// CameraConfig converts the view section, mapping degrees to radians.
func (c Config) CameraConfig() camera.Config {
	return camera.Config{
		FOV:           mgl64.DegToRad(c.View.FOVDegrees),
		Aspect:        c.View.Aspect,
		Near:          c.View.Near,
		Far:           c.View.Far,
		StartDistance: c.View.StartDistance,
		PolarMargin:   c.View.PolarMargin,
	}
}

// ControllerConfig converts the control section.
func (c Config) ControllerConfig() camera.ControllerConfig {
	return camera.ControllerConfig{
		RotateSensitivity: c.Control.RotateSensitivity,
		ZoomStep:          c.Control.ZoomStep,
		MinOriginDistance: c.Control.MinOriginDistance,
		MaxOriginDistance: c.Control.MaxOriginDistance,
	}
}

// AnimatorConfig converts the focus section.
func (c Config) AnimatorConfig() camera.AnimatorConfig {
	return camera.AnimatorConfig{
		Rate:        c.Focus.Rate,
		Epsilon:     c.Focus.Epsilon,
		FrameMargin: c.Focus.FrameMargin,
	}
}

// SceneSelectorConfig converts the selector section.
func (c Config) SceneSelectorConfig() scene.SelectorConfig {
	return scene.SelectorConfig{
		CenterWindow: c.Selector.CenterWindow,
		MaxAlignment: c.Selector.MaxAlignment,
		TieBand:      c.Selector.TieBand,
	}
}
