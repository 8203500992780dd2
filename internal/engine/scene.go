package engine

import (
	"context"
	"errors"
	"io/fs"

	"golang.org/x/text/unicode/norm"

	"github.com/ivlev/quote2video/internal/assets"
	"github.com/ivlev/quote2video/internal/audio"
	"github.com/ivlev/quote2video/internal/domain"
	"github.com/ivlev/quote2video/internal/effects"
	"github.com/ivlev/quote2video/internal/renderer"
	"github.com/ivlev/quote2video/internal/segmenter"
	"github.com/ivlev/quote2video/internal/system"
	"github.com/ivlev/quote2video/internal/timeline"
)

// buildTimeline segments and schedules the quote, or loads a previously
// dumped timeline when one is configured.
func (p *Project) buildTimeline() (*timeline.Timeline, error) {
	cfg := p.Config

	if cfg.TimelinePath != "" {
		tl, err := timeline.Read(cfg.TimelinePath)
		if err != nil {
			var pathErr *fs.PathError
			if errors.As(err, &pathErr) {
				return nil, &domain.AssetError{Path: cfg.TimelinePath, Err: err}
			}
			var inputErr *domain.InputError
			if errors.As(err, &inputErr) {
				return nil, err
			}
			return nil, &domain.InputError{Field: "timeline", Reason: err.Error()}
		}
		p.log.Info().Str("path", cfg.TimelinePath).Msg("timeline loaded")
		return tl, nil
	}

	if !norm.NFC.IsNormalString(cfg.Quote) {
		p.log.Warn().Msg("quote has decomposed characters; each combining mark is revealed as its own character")
	}
	lines := segmenter.Segment(cfg.Quote, cfg.MaxChars)
	p.log.Debug().Int("lines", len(lines)).Msg("quote segmented")

	tl, err := timeline.Synthesize(lines, cfg.Author, timeline.Params{
		UnitSpeed:       cfg.UnitSpeed,
		InitialDelay:    cfg.InitialDelay,
		EndingDelay:     cfg.EndingDelay,
		AuthorLogoGap:   cfg.AuthorLogoGap,
		RevealSpan:      cfg.RevealSpan,
		SecondaryMarker: cfg.SecondaryMarker(),
	})
	if err != nil {
		return nil, err
	}
	if err := tl.Validate(); err != nil {
		return nil, err
	}
	return tl, nil
}

// buildScene resolves the style and palette and loads every asset the
// renderers need, so asset failures surface before any frame is drawn.
func (p *Project) buildScene(tl *timeline.Timeline) (*renderer.Scene, string, error) {
	cfg := p.Config

	style := cfg.Style
	if effects.IsRandom(style) {
		eff, err := effects.Lookup(style, p.rng)
		if err != nil {
			return nil, "", err
		}
		style = eff.Name()
	} else if _, err := effects.Get(style); err != nil {
		return nil, "", &domain.InputError{Field: "style", Reason: err.Error()}
	}
	palette := effects.PickPalette(p.rng)

	size := cfg.FontSize
	if size == 0 {
		size = float64(cfg.Width) / float64(cfg.MaxChars+2)
	}
	face, err := assets.LoadFace(cfg.FontPath, size)
	if err != nil {
		return nil, "", err
	}
	face.Close()

	scene := &renderer.Scene{
		Width:    cfg.Width,
		Height:   cfg.Height,
		Timeline: tl,
		Palette:  palette,
		FontPath: cfg.FontPath,
		FontSize: size,
	}

	if cfg.LogoPath != "" {
		if scene.Logo, err = assets.LoadImage(cfg.LogoPath); err != nil {
			return nil, "", err
		}
	}

	if _, ok := tl.Marker(timeline.MarkerCode); ok && cfg.CodeURL != "" && !cfg.NoCode {
		if scene.Code, err = assets.Code(cfg.CodeURL, cfg.Width/4, palette.Foreground, palette.Background); err != nil {
			return nil, "", err
		}
	}

	p.log.Info().
		Str("style", style).
		Str("palette", palette.Name).
		Float64("font_size", size).
		Bool("logo", scene.Logo != nil).
		Bool("code", scene.Code != nil).
		Msg("scene ready")
	return scene, style, nil
}

// planAudio chooses a track from the configured file or directory and
// places the animation inside it.
func (p *Project) planAudio(ctx context.Context, total float64) (audio.SyncPlan, error) {
	cfg := p.Config

	candidates := []string{cfg.AudioPath}
	if cfg.AudioPath == "" {
		tracks, err := system.FindAudioTracks(cfg.AudioDir)
		if err != nil {
			return audio.SyncPlan{}, &domain.AssetError{Path: cfg.AudioDir, Err: err}
		}
		candidates = tracks
	}
	p.log.Debug().Int("candidates", len(candidates)).Msg("selecting audio track")

	return audio.SelectTrack(ctx, p.Encoder, candidates, total, cfg.SafetyMargin, cfg.FadeSpan, p.rng)
}
