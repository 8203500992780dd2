package config

import (
	"fmt"
	"os"
	"strconv"
)

// ApplyEnvConfig applies QUOTE2VIDEO_* environment variables to cfg.
// Flags present in changed keep their command-line values.
func ApplyEnvConfig(cfg *Config, changed map[string]bool) error {
	s := newConfigSetter(changed)

	s.setString("audio", os.Getenv("QUOTE2VIDEO_AUDIO"), &cfg.AudioPath)
	s.setString("audio-dir", os.Getenv("QUOTE2VIDEO_AUDIO_DIR"), &cfg.AudioDir)
	s.setString("font", os.Getenv("QUOTE2VIDEO_FONT"), &cfg.FontPath)
	s.setString("logo", os.Getenv("QUOTE2VIDEO_LOGO"), &cfg.LogoPath)
	s.setString("code-url", os.Getenv("QUOTE2VIDEO_CODE_URL"), &cfg.CodeURL)
	s.setString("encoder", os.Getenv("QUOTE2VIDEO_ENCODER"), &cfg.VideoEncoder)

	if v := os.Getenv("QUOTE2VIDEO_WORKERS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("parse QUOTE2VIDEO_WORKERS: %w", err)
		}
		s.setInt("workers", n, &cfg.Workers)
	}

	return s.setDuration("ready-timeout", os.Getenv("QUOTE2VIDEO_READY_TIMEOUT"), &cfg.ReadyTimeout)
}
