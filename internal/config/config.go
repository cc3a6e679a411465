// Package config loads the YAML configuration for designlab.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/rileylov/designlab/internal/motion"
	"github.com/rileylov/designlab/internal/slide"
)

// Config is the top-level YAML configuration.
type Config struct {
	Slide    SlideConfig    `yaml:"slide"`
	Motion   MotionConfig   `yaml:"motion"`
	Haptics  HapticsConfig  `yaml:"haptics"`
	Feedback FeedbackConfig `yaml:"feedback"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// SlideConfig is the geometry of the slide-to-pay control, in points.
// TrackCells is how many terminal columns the track is drawn across.
type SlideConfig struct {
	TrackWidth    float64 `yaml:"track_width"`
	HandleWidth   float64 `yaml:"handle_width"`
	CompleteRatio float64 `yaml:"complete_ratio"`
	TrackCells    int     `yaml:"track_cells"`
}

type SpringConfig struct {
	Frequency float64 `yaml:"frequency"`
	Damping   float64 `yaml:"damping"`
}

type MotionConfig struct {
	FPS     int          `yaml:"fps"`
	EaseOut SpringConfig `yaml:"ease_out"`
	Spring  SpringConfig `yaml:"spring"`
	// Retry animates the "try again" reset of a completed control.
	Retry SpringConfig `yaml:"retry"`
}

// HapticMode selects how a threshold pulse is felt in a terminal.
type HapticMode string

const (
	HapticsFlash HapticMode = "flash" // highlight the handle
	HapticsBell  HapticMode = "bell"  // flash and ring the terminal bell
	HapticsOff   HapticMode = "off"
)

type HapticsConfig struct {
	Mode HapticMode `yaml:"mode"`
}

// FeedbackConfig controls the WebSocket event endpoint. An empty Listen
// disables it.
type FeedbackConfig struct {
	Listen string `yaml:"listen"`
	Path   string `yaml:"path"`
}

type LoggingConfig struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"`
}

// Default returns a fully-populated Config.
func Default() Config {
	profiles := motion.DefaultProfiles()
	return Config{
		Slide: SlideConfig{
			TrackWidth:    340,
			HandleWidth:   50,
			CompleteRatio: 0.86,
			TrackCells:    48,
		},
		Motion: MotionConfig{
			FPS:     60,
			EaseOut: SpringConfig{Frequency: profiles.EaseOut.Frequency, Damping: profiles.EaseOut.Damping},
			Spring:  SpringConfig{Frequency: profiles.Spring.Frequency, Damping: profiles.Spring.Damping},
			Retry:   SpringConfig{Frequency: profiles.Retry.Frequency, Damping: profiles.Retry.Damping},
		},
		Haptics: HapticsConfig{Mode: HapticsFlash},
		Feedback: FeedbackConfig{
			Path: "/events",
		},
		Logging: LoggingConfig{Level: "info"},
	}
}

// Load reads a YAML file on top of the defaults. Unknown fields are
// rejected so typos surface early.
func Load(path string) (Config, error) {
	if path == "" {
		return Config{}, errors.New("config path is empty")
	}
	b, err := os.ReadFile(ExpandPath(path))
	if err != nil {
		return Config{}, fmt.Errorf("read config file: %w", err)
	}
	return Parse(b)
}

// Parse decodes a single YAML document on top of the defaults.
func Parse(b []byte) (Config, error) {
	cfg := Default()

	dec := yaml.NewDecoder(bytes.NewReader(b))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil {
		// An empty or comment-only file keeps the defaults.
		if errors.Is(err, io.EOF) {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("decode config yaml: %w", err)
	}
	var rest yaml.Node
	if err := dec.Decode(&rest); !errors.Is(err, io.EOF) {
		return Config{}, errors.New("decode config yaml: only one document is allowed")
	}
	return cfg, nil
}

// Overrides carries command-line values. Nil pointers are left alone.
type Overrides struct {
	TrackWidth    *float64
	HandleWidth   *float64
	CompleteRatio *float64
	TrackCells    *int
	FPS           *int
	Haptics       *string
	Listen        *string
	LogLevel      *string
	LogFile       *string
}

// Apply merges o into cfg.
func (o Overrides) Apply(cfg *Config) {
	if cfg == nil {
		return
	}
	if o.TrackWidth != nil {
		cfg.Slide.TrackWidth = *o.TrackWidth
	}
	if o.HandleWidth != nil {
		cfg.Slide.HandleWidth = *o.HandleWidth
	}
	if o.CompleteRatio != nil {
		cfg.Slide.CompleteRatio = *o.CompleteRatio
	}
	if o.TrackCells != nil {
		cfg.Slide.TrackCells = *o.TrackCells
	}
	if o.FPS != nil {
		cfg.Motion.FPS = *o.FPS
	}
	if o.Haptics != nil {
		cfg.Haptics.Mode = HapticMode(strings.ToLower(*o.Haptics))
	}
	if o.Listen != nil {
		cfg.Feedback.Listen = *o.Listen
	}
	if o.LogLevel != nil {
		cfg.Logging.Level = *o.LogLevel
	}
	if o.LogFile != nil {
		cfg.Logging.File = *o.LogFile
	}
}

// Validate checks the config after defaults, file and overrides are merged.
// Geometry problems wrap slide.ErrInvalidConfiguration.
func (c *Config) Validate() error {
	if err := c.Geometry().Validate(); err != nil {
		return fmt.Errorf("slide: %w", err)
	}
	if c.Slide.TrackCells < 8 {
		return errors.New("slide.track_cells must be >= 8")
	}

	if c.Motion.FPS <= 0 || c.Motion.FPS > 240 {
		return errors.New("motion.fps must be between 1 and 240")
	}
	for name, s := range map[string]SpringConfig{"ease_out": c.Motion.EaseOut, "spring": c.Motion.Spring, "retry": c.Motion.Retry} {
		if !(s.Frequency > 0) || math.IsInf(s.Frequency, 0) {
			return fmt.Errorf("motion.%s.frequency must be > 0", name)
		}
		if s.Damping < 0 || math.IsNaN(s.Damping) {
			return fmt.Errorf("motion.%s.damping must be >= 0", name)
		}
	}
	// Completion must not bounce past the end of the track.
	if c.Motion.EaseOut.Damping < 1 {
		return errors.New("motion.ease_out.damping must be >= 1")
	}

	switch c.Haptics.Mode {
	case HapticsFlash, HapticsBell, HapticsOff:
	default:
		return fmt.Errorf("haptics.mode must be %q, %q or %q", HapticsFlash, HapticsBell, HapticsOff)
	}

	if c.Feedback.Listen != "" && !strings.HasPrefix(c.Feedback.Path, "/") {
		return errors.New("feedback.path must start with /")
	}

	if _, err := ParseLogLevel(c.Logging.Level); err != nil {
		return fmt.Errorf("logging.level: %w", err)
	}
	return nil
}

// Geometry converts the slide section for the controller.
func (c *Config) Geometry() slide.Geometry {
	return slide.Geometry{
		TrackWidth:    c.Slide.TrackWidth,
		HandleWidth:   c.Slide.HandleWidth,
		CompleteRatio: c.Slide.CompleteRatio,
	}
}

// Profiles converts the motion section for the animator.
func (c *Config) Profiles() motion.Profiles {
	return motion.Profiles{
		EaseOut: motion.Params{Frequency: c.Motion.EaseOut.Frequency, Damping: c.Motion.EaseOut.Damping},
		Spring:  motion.Params{Frequency: c.Motion.Spring.Frequency, Damping: c.Motion.Spring.Damping},
		Retry:   motion.Params{Frequency: c.Motion.Retry.Frequency, Damping: c.Motion.Retry.Damping},
	}
}

// ExpandPath expands a leading ~ to the user's home directory.
func ExpandPath(p string) string {
	if p == "~" || strings.HasPrefix(p, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, strings.TrimPrefix(p, "~"))
		}
	}
	return p
}
