package config

import (
	"os"
	"path/filepath"

	toml "github.com/pelletier/go-toml/v2"
)

// FileConfig mirrors Config in TOML form. Timing values are pointers so an
// explicit 0 in the file is distinguishable from an absent key.
type FileConfig struct {
	Author        string   `toml:"author"`
	Output        string   `toml:"output"`
	Overwrite     *bool    `toml:"overwrite"`
	Style         string   `toml:"style"`
	UnitSpeed     *float64 `toml:"unit_speed"`
	InitialDelay  *float64 `toml:"initial_delay"`
	EndingDelay   *float64 `toml:"ending_delay"`
	AuthorLogoGap *float64 `toml:"author_logo_gap"`
	RevealSpan    *float64 `toml:"reveal_span"`
	MaxChars      int      `toml:"max_chars"`
	Width         int      `toml:"width"`
	Height        int      `toml:"height"`
	Preset        string   `toml:"preset"`
	FPS           int      `toml:"fps"`
	Font          string   `toml:"font"`
	FontSize      *float64 `toml:"font_size"`
	Logo          string   `toml:"logo"`
	CodeURL       string   `toml:"code_url"`
	NoCode        *bool    `toml:"no_code"`
	Audio         string   `toml:"audio"`
	AudioDir      string   `toml:"audio_dir"`
	SafetyMargin  *float64 `toml:"safety_margin"`
	Fade          *float64 `toml:"fade"`
	Workers       int      `toml:"workers"`
	ReadyTimeout  string   `toml:"ready_timeout"`
	Encoder       string   `toml:"encoder"`
	Quality       int      `toml:"quality"`
}

// LoadFileConfig reads and parses a TOML config file.
func LoadFileConfig(path string) (FileConfig, error) {
	var fc FileConfig
	b, err := os.ReadFile(path)
	if err != nil {
		return fc, err
	}
	if err := toml.Unmarshal(b, &fc); err != nil {
		return fc, err
	}
	return fc, nil
}

// DefaultConfigPath returns ~/.quote2video/config.toml, or "" when the home
// directory is unknown.
func DefaultConfigPath() string {
	if h, err := os.UserHomeDir(); err == nil {
		return filepath.Join(h, ".quote2video", "config.toml")
	}
	return ""
}

// FileExists checks if a file exists at the given path.
func FileExists(p string) bool {
	_, err := os.Stat(p)
	return err == nil
}

// ApplyFileConfig applies configuration from a file to cfg.
// Flags present in changed keep their command-line values.
func ApplyFileConfig(cfg *Config, fc FileConfig, changed map[string]bool) error {
	s := newConfigSetter(changed)

	s.setString("author", fc.Author, &cfg.Author)
	s.setString("output", fc.Output, &cfg.OutputPath)
	s.setString("style", fc.Style, &cfg.Style)
	s.setString("preset", fc.Preset, &cfg.Preset)
	s.setString("font", fc.Font, &cfg.FontPath)
	s.setString("logo", fc.Logo, &cfg.LogoPath)
	s.setString("code-url", fc.CodeURL, &cfg.CodeURL)
	s.setString("audio", fc.Audio, &cfg.AudioPath)
	s.setString("audio-dir", fc.AudioDir, &cfg.AudioDir)
	s.setString("encoder", fc.Encoder, &cfg.VideoEncoder)

	s.setFloat("unit-speed", fc.UnitSpeed, &cfg.UnitSpeed)
	s.setFloat("initial-delay", fc.InitialDelay, &cfg.InitialDelay)
	s.setFloat("ending-delay", fc.EndingDelay, &cfg.EndingDelay)
	s.setFloat("author-logo-gap", fc.AuthorLogoGap, &cfg.AuthorLogoGap)
	s.setFloat("reveal-span", fc.RevealSpan, &cfg.RevealSpan)
	s.setFloat("font-size", fc.FontSize, &cfg.FontSize)
	s.setFloat("safety-margin", fc.SafetyMargin, &cfg.SafetyMargin)
	s.setFloat("fade", fc.Fade, &cfg.FadeSpan)

	s.setInt("max-chars", fc.MaxChars, &cfg.MaxChars)
	s.setInt("width", fc.Width, &cfg.Width)
	s.setInt("height", fc.Height, &cfg.Height)
	s.setInt("fps", fc.FPS, &cfg.FPS)
	s.setInt("workers", fc.Workers, &cfg.Workers)
	s.setInt("quality", fc.Quality, &cfg.Quality)

	s.setBool("overwrite", fc.Overwrite, &cfg.Overwrite)
	s.setBool("no-code", fc.NoCode, &cfg.NoCode)

	return s.setDuration("ready-timeout", fc.ReadyTimeout, &cfg.ReadyTimeout)
}
