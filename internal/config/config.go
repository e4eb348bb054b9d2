// Package config loads the YAML configuration file.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/ayusman/spellcast/internal/capture"
	"github.com/ayusman/spellcast/internal/detector"
	"github.com/ayusman/spellcast/internal/gesture"
	"github.com/ayusman/spellcast/internal/logger"
)

// DefaultPath is read when no -config flag is given.
const DefaultPath = "config.yaml"

// Config is the full application configuration.
type Config struct {
	Server   Server          `yaml:"server"`
	Camera   capture.Config  `yaml:"camera"`
	Detector detector.Config `yaml:"detector"`
	Gesture  Gesture         `yaml:"gesture"`
	Store    Store           `yaml:"store"`
	Plugins  Plugins         `yaml:"plugins"`
	Webhook  Webhook         `yaml:"webhook"`
	Log      Log             `yaml:"log"`
}

// Server configures the HTTP API.
type Server struct {
	Addr      string `yaml:"addr"`
	StaticDir string `yaml:"static_dir"`
}

// Gesture tunes the recognizer.
type Gesture struct {
	PinchThreshold float64       `yaml:"pinch_threshold"`
	SwipeThreshold int           `yaml:"swipe_threshold"`
	CurveThreshold float64       `yaml:"curve_threshold"`
	MinCurvePoints int           `yaml:"min_curve_points"`
	WindowSize     int           `yaml:"window_size"`
	MinDwellFrames int           `yaml:"min_dwell_frames"`
	FrameRate      float64       `yaml:"frame_rate"`
	Cooldown       time.Duration `yaml:"cooldown"`
}

// Store configures the SQLite database.
type Store struct {
	Path string `yaml:"path"`
}

// Plugins configures action plugins.
type Plugins struct {
	Dir     string        `yaml:"dir"`
	Timeout time.Duration `yaml:"timeout"`
}

// Webhook configures the optional gesture webhook. An empty URL disables it.
type Webhook struct {
	URL     string        `yaml:"url"`
	Timeout time.Duration `yaml:"timeout"`
}

// Log selects the logger mode.
type Log struct {
	Mode string `yaml:"mode"`
}

// Default returns the configuration used for anything the file leaves out.
func Default() Config {
	p := gesture.DefaultParams()
	return Config{
		Server: Server{
			Addr:      ":4999",
			StaticDir: "web",
		},
		Camera:   capture.DefaultConfig(),
		Detector: detector.DefaultConfig(),
		Gesture: Gesture{
			PinchThreshold: p.PinchThreshold,
			SwipeThreshold: p.SwipeThreshold,
			CurveThreshold: p.CurveThreshold,
			MinCurvePoints: p.MinCurvePoints,
			WindowSize:     p.WindowSize,
			MinDwellFrames: p.MinDwellFrames,
			FrameRate:      p.FrameRate,
			Cooldown:       p.Cooldown,
		},
		Store:   Store{Path: "spellcast.db"},
		Plugins: Plugins{Dir: "plugins", Timeout: 5 * time.Second},
		Webhook: Webhook{Timeout: 3 * time.Second},
		Log:     Log{Mode: logger.ModeProduction},
	}
}

// Load reads path over Default. A missing file is not an error when
// optional is set.
func Load(path string, optional bool) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if optional && errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("read config: %w", err)
	}

	if err := Parse(data, &cfg); err != nil {
		return cfg, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes YAML into cfg, keeping values the document omits, and
// validates the result.
func Parse(data []byte, cfg *Config) error {
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config: %w", err)
	}
	return cfg.Validate()
}

// Validate checks the configuration for values the application cannot run with.
func (c Config) Validate() error {
	if c.Server.Addr == "" {
		return errors.New("server.addr is required")
	}
	if c.Camera.Width <= 0 || c.Camera.Height <= 0 {
		return fmt.Errorf("camera size must be positive, got %dx%d", c.Camera.Width, c.Camera.Height)
	}
	if c.Camera.FPS <= 0 {
		return fmt.Errorf("camera.fps must be positive, got %d", c.Camera.FPS)
	}
	if c.Detector.MaxHands < 1 {
		return fmt.Errorf("detector.max_hands must be at least 1, got %d", c.Detector.MaxHands)
	}
	if c.Detector.MinConfidence < 0 || c.Detector.MinConfidence > 1 {
		return fmt.Errorf("detector.min_confidence must be in [0,1], got %v", c.Detector.MinConfidence)
	}
	if c.Detector.MinTrackingConf < 0 || c.Detector.MinTrackingConf > 1 {
		return fmt.Errorf("detector.min_tracking_confidence must be in [0,1], got %v", c.Detector.MinTrackingConf)
	}
	if err := c.Gesture.Params().Validate(); err != nil {
		return fmt.Errorf("gesture: %w", err)
	}
	if c.Store.Path == "" {
		return errors.New("store.path is required")
	}
	if c.Plugins.Timeout <= 0 {
		return fmt.Errorf("plugins.timeout must be positive, got %v", c.Plugins.Timeout)
	}
	if c.Webhook.URL != "" && c.Webhook.Timeout <= 0 {
		return fmt.Errorf("webhook.timeout must be positive, got %v", c.Webhook.Timeout)
	}
	switch c.Log.Mode {
	case "", logger.ModeProduction, logger.ModeDevelopment:
	default:
		return fmt.Errorf("log.mode %q is not one of production, development", c.Log.Mode)
	}
	return nil
}

// Params converts the section to recognizer parameters.
func (g Gesture) Params() gesture.Params {
	return gesture.Params{
		PinchThreshold: g.PinchThreshold,
		SwipeThreshold: g.SwipeThreshold,
		CurveThreshold: g.CurveThreshold,
		MinCurvePoints: g.MinCurvePoints,
		WindowSize:     g.WindowSize,
		MinDwellFrames: g.MinDwellFrames,
		FrameRate:      g.FrameRate,
		Cooldown:       g.Cooldown,
	}
}
