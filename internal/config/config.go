package config

import (
	"fmt"
	"time"

	"github.com/ivlev/quote2video/internal/domain"
)

// Config holds every knob of a quote2video run.
type Config struct {
	Quote      string
	Author     string
	OutputPath string
	Overwrite  bool

	// Timeline input/output
	TimelinePath string // read a dumped timeline instead of synthesizing one
	DumpTimeline string

	// Timing, seconds
	UnitSpeed     float64
	InitialDelay  float64
	EndingDelay   float64
	AuthorLogoGap float64
	RevealSpan    float64
	MaxChars      int

	// Canvas
	Width    int
	Height   int
	Preset   string
	FPS      int
	Style    string
	FontPath string
	FontSize float64 // 0 derives the size from the canvas width
	LogoPath string
	CodeURL  string
	NoCode   bool

	// Audio
	AudioPath    string
	AudioDir     string
	SafetyMargin float64
	FadeSpan     float64

	// Execution
	Workers      int // 0 sizes the pool from the host
	Seed         int64
	ReadyTimeout time.Duration
	VideoEncoder string
	Quality      int
	Verbose      bool
	ShowStats    bool
	BuildVersion string
}

// DefaultConfig returns the values used when neither flags nor a config file set them.
func DefaultConfig() Config {
	return Config{
		UnitSpeed:     0.2,
		InitialDelay:  1.0,
		EndingDelay:   3.0,
		AuthorLogoGap: 1.0,
		RevealSpan:    0.8,
		MaxChars:      12,
		Width:         720,
		Height:        1280,
		FPS:           30,
		Style:         "random",
		AudioDir:      "input/audio",
		SafetyMargin:  5,
		FadeSpan:      2,
		ReadyTimeout:  10 * time.Second,
	}
}

// ApplyPreset overrides Width and Height for a named aspect preset.
func (c *Config) ApplyPreset() error {
	switch c.Preset {
	case "":
	case "16:9":
		c.Width, c.Height = 1280, 720
	case "9:16":
		c.Width, c.Height = 720, 1280
	case "4:5":
		c.Width, c.Height = 1080, 1350
	case "1:1":
		c.Width, c.Height = 1080, 1080
	default:
		return &domain.InputError{Field: "preset", Reason: fmt.Sprintf("unknown preset %q", c.Preset)}
	}
	return nil
}

// SecondaryMarker reports whether the scannable code group is part of the run.
func (c *Config) SecondaryMarker() bool {
	return !c.NoCode && c.CodeURL != ""
}

// Validate rejects settings that cannot produce a video.
func (c *Config) Validate() error {
	if c.OutputPath == "" {
		return &domain.InputError{Field: "output", Reason: "must not be empty"}
	}

	positive := []struct {
		field string
		value float64
	}{
		{"unit-speed", c.UnitSpeed},
		{"fps", float64(c.FPS)},
		{"max-chars", float64(c.MaxChars)},
		{"width", float64(c.Width)},
		{"height", float64(c.Height)},
	}
	for _, p := range positive {
		if p.value <= 0 {
			return &domain.InputError{Field: p.field, Reason: "must be positive"}
		}
	}

	nonNegative := []struct {
		field string
		value float64
	}{
		{"initial-delay", c.InitialDelay},
		{"ending-delay", c.EndingDelay},
		{"author-logo-gap", c.AuthorLogoGap},
		{"reveal-span", c.RevealSpan},
		{"safety-margin", c.SafetyMargin},
		{"fade", c.FadeSpan},
		{"font-size", c.FontSize},
		{"workers", float64(c.Workers)},
		{"quality", float64(c.Quality)},
	}
	for _, p := range nonNegative {
		if p.value < 0 {
			return &domain.InputError{Field: p.field, Reason: "must not be negative"}
		}
	}

	if c.Width%2 != 0 || c.Height%2 != 0 {
		return &domain.InputError{Field: "size", Reason: "width and height must be even for yuv420p"}
	}
	if c.AudioPath == "" && c.AudioDir == "" {
		return &domain.InputError{Field: "audio", Reason: "set --audio or --audio-dir"}
	}
	if c.ReadyTimeout < 0 {
		return &domain.InputError{Field: "ready-timeout", Reason: "must not be negative"}
	}
	return nil
}

// configSetter applies values from a lower-precedence source unless the
// matching flag was set explicitly on the command line.
type configSetter struct {
	changed map[string]bool
}

func newConfigSetter(changed map[string]bool) *configSetter {
	return &configSetter{changed: changed}
}

// setString sets a string value if not empty and flag not changed.
func (s *configSetter) setString(flag, value string, dst *string) {
	if value == "" || s.changed[flag] {
		return
	}
	*dst = value
}

// setInt sets an int value if positive and flag not changed.
func (s *configSetter) setInt(flag string, value int, dst *int) {
	if value <= 0 || s.changed[flag] {
		return
	}
	*dst = value
}

// setFloat sets a float64 value if not nil and flag not changed. Zero is a
// meaningful timing value, so the file uses pointers.
func (s *configSetter) setFloat(flag string, value *float64, dst *float64) {
	if value == nil || s.changed[flag] {
		return
	}
	*dst = *value
}

// setBool sets a bool value if not nil and flag not changed.
func (s *configSetter) setBool(flag string, value *bool, dst *bool) {
	if value == nil || s.changed[flag] {
		return
	}
	*dst = *value
}

// setDuration parses and sets a duration from string if valid and flag not changed.
func (s *configSetter) setDuration(flag, value string, dst *time.Duration) error {
	if value == "" || s.changed[flag] {
		return nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return fmt.Errorf("parse %s: %w", flag, err)
	}
	*dst = d
	return nil
}
