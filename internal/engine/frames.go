package engine

import (
	"context"
	"fmt"
	"image/png"
	"os"
	"path/filepath"
	"sync/atomic"

	"github.com/rs/zerolog"

	"github.com/ivlev/quote2video/internal/renderer"
	"github.com/ivlev/quote2video/internal/sampler"
	"github.com/ivlev/quote2video/internal/system"
	"github.com/ivlev/quote2video/internal/timeline"
)

// FramePattern names frame files; indices are gapless from zero.
const FramePattern = "frame_%06d.png"

// renderFrames samples every frame of tl into the work dir and returns the
// frame count.
func (p *Project) renderFrames(ctx context.Context, tl *timeline.Timeline, scene *renderer.Scene, style string) (int, error) {
	cfg := p.Config
	total := sampler.FrameCount(tl.TotalDuration, cfg.FPS)
	s := sampler.Sampler{FPS: cfg.FPS, ReadyTimeout: cfg.ReadyTimeout}

	workers := cfg.Workers
	if workers == 0 {
		workers = system.RecommendedWorkers(uint64(cfg.Width * cfg.Height * 4))
	}
	if workers > total {
		workers = total
	}

	p.log.Info().
		Int("frames", total).
		Int("fps", cfg.FPS).
		Int("workers", workers).
		Msg("sampling frames")

	w := &frameWriter{
		dir:   filepath.Join(p.workDir, "frames"),
		total: total,
		every: cfg.FPS,
		log:   p.log,
		enc:   png.Encoder{CompressionLevel: png.BestSpeed},
	}

	open := func(ctx context.Context) (renderer.Renderer, error) {
		r, err := p.Factory()
		if err != nil {
			return nil, err
		}
		if err := r.LoadScene(ctx, scene, style); err != nil {
			r.Close()
			return nil, err
		}
		return r, nil
	}

	if workers <= 1 {
		r, err := open(ctx)
		if err != nil {
			return 0, fmt.Errorf("open renderer: %w", err)
		}
		defer r.Close()

		for fr, err := range s.Sample(ctx, tl, r) {
			if err != nil {
				return 0, err
			}
			if err := w.write(fr); err != nil {
				return 0, err
			}
		}
	} else if err := s.SampleParallel(ctx, tl, workers, open, w.write); err != nil {
		return 0, err
	}

	if n := int(w.done.Load()); n != total {
		return 0, fmt.Errorf("sampled %d of %d frames", n, total)
	}
	return total, nil
}

// frameWriter stores frames as PNG files named by index. Safe for
// concurrent use.
type frameWriter struct {
	dir   string
	total int
	every int
	log   zerolog.Logger
	enc   png.Encoder
	done  atomic.Int64
}

func (w *frameWriter) write(fr sampler.Frame) error {
	defer system.PutImage(fr.Image)

	path := filepath.Join(w.dir, fmt.Sprintf(FramePattern, fr.Index))
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := w.enc.Encode(f, fr.Image); err != nil {
		f.Close()
		return fmt.Errorf("write frame %d: %w", fr.Index, err)
	}
	if err := f.Close(); err != nil {
		return err
	}

	n := w.done.Add(1)
	if (w.every > 0 && n%int64(w.every) == 0) || n == int64(w.total) {
		w.log.Debug().Int64("done", n).Int("total", w.total).Msg("frames written")
	}
	return nil
}
