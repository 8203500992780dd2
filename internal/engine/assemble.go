package engine

import (
	"context"
	"path/filepath"
	"time"

	"github.com/ivlev/quote2video/internal/audio"
	"github.com/ivlev/quote2video/internal/domain"
	"github.com/ivlev/quote2video/internal/video"
)

// assemble runs encode, thumbnail and mux one after another. Each stage
// reads the previous stage's file; the first failure stops the chain.
func (p *Project) assemble(ctx context.Context, frames int, plan audio.SyncPlan, thumbnail string) error {
	cfg := p.Config
	silent := filepath.Join(p.workDir, "silent.mp4")
	pattern := filepath.Join(p.workDir, "frames", FramePattern)

	stages := []struct {
		stage domain.Stage
		run   func() error
	}{
		{domain.StageEncode, func() error {
			return p.Encoder.EncodeSequence(ctx, pattern, cfg.FPS, silent)
		}},
		{domain.StageThumbnail, func() error {
			return p.Encoder.ExtractFrame(ctx, silent, frames-1, thumbnail)
		}},
		{domain.StageMux, func() error {
			return p.Encoder.MuxAudio(ctx, silent, plan.Track, envelope(plan), cfg.OutputPath)
		}},
	}

	for _, s := range stages {
		start := time.Now()
		p.log.Info().Str("stage", string(s.stage)).Msg("stage started")
		if err := s.run(); err != nil {
			return &domain.EncodeError{Stage: s.stage, Err: err}
		}
		p.log.Info().Str("stage", string(s.stage)).Dur("took", time.Since(start)).Msg("stage finished")
	}
	return nil
}

func envelope(plan audio.SyncPlan) video.Envelope {
	return video.Envelope{
		StartOffset:  plan.StartOffset,
		FadeIn:       plan.FadeInSpan,
		FadeOutStart: plan.FadeOutStart,
		FadeOutSpan:  plan.FadeOutSpan,
	}
}
