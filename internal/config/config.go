// Package config defines the process configuration and how it is loaded.
package config

import (
	"fmt"
	"log/slog"
	"strings"
	"time"
)

// Config is the full process configuration.
type Config struct {
	// Addr is the HTTP listen address, e.g. "127.0.0.1:8080".
	Addr string `koanf:"addr"`

	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// StaticDir holds the web page served at "/".
	StaticDir string `koanf:"static_dir"`

	// DataDir holds the settings database.
	DataDir string `koanf:"data_dir"`

	// PluginDir is scanned for transport plugins.
	PluginDir string `koanf:"plugin_dir"`

	// Tray enables the system tray icon.
	Tray bool `koanf:"tray"`

	Camera    Camera    `koanf:"camera"`
	Detector  Detector  `koanf:"detector"`
	Speech    Speech    `koanf:"speech"`
	Drawing   Drawing   `koanf:"drawing"`
	Transport Transport `koanf:"transport"`
	History   History   `koanf:"history"`
}

// Camera configures the local capture device.
type Camera struct {
	Device int `koanf:"device"`
	Width  int `koanf:"width"`
	Height int `koanf:"height"`
	FPS    int `koanf:"fps"`
	// Enabled starts the camera at boot. When false, landmarks arrive only
	// from the browser.
	Enabled bool `koanf:"enabled"`
}

// Detector configures hand detection.
type Detector struct {
	MaxHands               int     `koanf:"max_hands"`
	ModelComplexity        int     `koanf:"model_complexity"`
	MinDetectionConfidence float64 `koanf:"min_detection_confidence"`
	MinTrackingConfidence  float64 `koanf:"min_tracking_confidence"`
}

// Speech configures announcements.
type Speech struct {
	Lang string  `koanf:"lang"`
	Rate float64 `koanf:"rate"`
	// Notify also shows each announcement as a desktop notification.
	Notify bool `koanf:"notify"`
}

// Drawing configures the freehand canvas.
type Drawing struct {
	Width       int    `koanf:"width"`
	Height      int    `koanf:"height"`
	StrokeWidth int    `koanf:"stroke_width"`
	StrokeColor string `koanf:"stroke_color"`
}

// Transport configures media control.
type Transport struct {
	SeekStep float64 `koanf:"seek_step"`
	// Plugin names a plugin that drives the system player. Empty means the
	// browser page's own player.
	Plugin string `koanf:"plugin"`
	// PluginTimeout bounds each plugin call.
	PluginTimeout time.Duration `koanf:"plugin_timeout"`
}

// History configures the gesture log.
type History struct {
	Capacity int `koanf:"capacity"`
}

// New returns a Config holding the defaults.
func New() *Config {
	return &Config{
		Addr:      "127.0.0.1:8080",
		LogLevel:  "info",
		StaticDir: "web",
		DataDir:   ".mudra",
		PluginDir: "plugins",
		Tray:      false,
		Camera: Camera{
			Device:  0,
			Width:   640,
			Height:  480,
			FPS:     15,
			Enabled: true,
		},
		Detector: Detector{
			MaxHands:               2,
			ModelComplexity:        1,
			MinDetectionConfidence: 0.7,
			MinTrackingConfidence:  0.5,
		},
		Speech: Speech{
			Lang: "en-US",
			Rate: 1,
		},
		Drawing: Drawing{
			Width:       640,
			Height:      480,
			StrokeWidth: 4,
			StrokeColor: "#2563eb",
		},
		Transport: Transport{
			SeekStep:      5,
			PluginTimeout: 5 * time.Second,
		},
		History: History{
			Capacity: 5,
		},
	}
}

// Validate reports the first invalid field, wrapped in ErrInvalidConfig.
func (c *Config) Validate() error {
	checks := []struct {
		ok  bool
		msg string
	}{
		{c.Addr != "", "addr must not be empty"},
		{c.Camera.Width > 0 && c.Camera.Height > 0, "camera size must be positive"},
		{c.Camera.FPS > 0, "camera fps must be positive"},
		{c.Detector.MaxHands >= 1, "detector max_hands must be at least 1"},
		{c.Detector.ModelComplexity == 0 || c.Detector.ModelComplexity == 1, "detector model_complexity must be 0 or 1"},
		{inUnit(c.Detector.MinDetectionConfidence), "detector min_detection_confidence must be within [0,1]"},
		{inUnit(c.Detector.MinTrackingConfidence), "detector min_tracking_confidence must be within [0,1]"},
		{c.Speech.Rate > 0, "speech rate must be positive"},
		{c.Drawing.Width > 0 && c.Drawing.Height > 0, "drawing size must be positive"},
		{c.Drawing.StrokeWidth > 0, "drawing stroke_width must be positive"},
		{c.Transport.SeekStep > 0, "transport seek_step must be positive"},
		{c.Transport.PluginTimeout > 0, "transport plugin_timeout must be positive"},
		{c.History.Capacity > 0, "history capacity must be positive"},
	}
	for _, ch := range checks {
		if !ch.ok {
			return fmt.Errorf("%w: %s", ErrInvalidConfig, ch.msg)
		}
	}
	if _, err := ParseLevel(c.LogLevel); err != nil {
		return err
	}
	return nil
}

// ParseLevel maps a log_level string to a slog level.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return slog.LevelInfo, fmt.Errorf("%w: unknown log_level %q", ErrInvalidConfig, s)
}

func inUnit(v float64) bool {
	return v >= 0 && v <= 1
}
