package engine

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/ivlev/quote2video/internal/audio"
	"github.com/ivlev/quote2video/internal/config"
	"github.com/ivlev/quote2video/internal/domain"
	"github.com/ivlev/quote2video/internal/logging"
	"github.com/ivlev/quote2video/internal/renderer"
	"github.com/ivlev/quote2video/internal/timeline"
	"github.com/ivlev/quote2video/internal/video"
)

// Project is one quote-to-video run.
type Project struct {
	Config  *config.Config
	Factory renderer.Factory
	Encoder video.Encoder

	rng     *rand.Rand
	runID   string
	log     zerolog.Logger
	workDir string
}

// Report summarizes a finished run.
type Report struct {
	RunID     string
	Output    string
	Thumbnail string
	Frames    int
	Duration  float64
	Style     string
	Palette   string
	Audio     audio.SyncPlan
	Size      int64

	Total  time.Duration
	Render time.Duration
	Encode time.Duration
}

// NewProject wires a run. rng drives every random choice (style, palette,
// track, start offset), so a seeded rng reproduces a run.
func NewProject(cfg *config.Config, factory renderer.Factory, enc video.Encoder, rng *rand.Rand) *Project {
	id := uuid.NewString()
	return &Project{
		Config:  cfg,
		Factory: factory,
		Encoder: enc,
		rng:     rng,
		runID:   id,
		log:     logging.Logger().With().Str("run", id[:8]).Logger(),
	}
}

// WorkDir is the directory holding transient artifacts; empty before Run
// creates it. It survives a failed run.
func (p *Project) WorkDir() string {
	return p.workDir
}

// Run executes the pipeline: plan, sample frames, then encode, extract the
// thumbnail and mux audio in strict order. Any failure stops the run.
func (p *Project) Run(ctx context.Context) (*Report, error) {
	start := time.Now()
	cfg := p.Config

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := p.checkOutput(); err != nil {
		return nil, err
	}

	tl, err := p.buildTimeline()
	if err != nil {
		return nil, err
	}
	p.log.Info().
		Int("lines", len(tl.Lines)).
		Float64("base", tl.BaseDuration).
		Float64("total", tl.TotalDuration).
		Msg("timeline ready")

	if cfg.DumpTimeline != "" {
		if err := timeline.Write(tl, cfg.DumpTimeline); err != nil {
			return nil, fmt.Errorf("dump timeline: %w", err)
		}
		p.log.Info().Str("path", cfg.DumpTimeline).Msg("timeline written")
	}

	scene, style, err := p.buildScene(tl)
	if err != nil {
		return nil, err
	}

	plan, err := p.planAudio(ctx, tl.TotalDuration)
	if err != nil {
		return nil, err
	}
	p.log.Info().
		Str("track", filepath.Base(plan.Track)).
		Float64("offset", plan.StartOffset).
		Float64("track_duration", plan.TrackDuration).
		Msg("audio planned")

	p.workDir = filepath.Join(os.TempDir(), "quote2video_"+p.runID)
	if err := os.MkdirAll(filepath.Join(p.workDir, "frames"), 0755); err != nil {
		return nil, fmt.Errorf("create work dir: %w", err)
	}

	report := &Report{
		RunID:     p.runID,
		Output:    cfg.OutputPath,
		Thumbnail: ThumbnailPath(cfg.OutputPath),
		Duration:  tl.TotalDuration,
		Style:     style,
		Palette:   scene.Palette.Name,
		Audio:     plan,
	}

	renderStart := time.Now()
	frames, err := p.renderFrames(ctx, tl, scene, style)
	if err != nil {
		p.keepWorkDir(err)
		return nil, err
	}
	report.Frames = frames
	report.Render = time.Since(renderStart)

	encodeStart := time.Now()
	if err := p.assemble(ctx, frames, plan, report.Thumbnail); err != nil {
		p.keepWorkDir(err)
		return nil, err
	}
	report.Encode = time.Since(encodeStart)

	if err := os.RemoveAll(p.workDir); err != nil {
		p.log.Warn().Err(err).Str("dir", p.workDir).Msg("cannot remove work dir")
	}

	if info, err := os.Stat(cfg.OutputPath); err == nil {
		report.Size = info.Size()
	}
	report.Total = time.Since(start)

	p.log.Info().
		Str("output", report.Output).
		Str("size", humanize.Bytes(uint64(report.Size))).
		Int("frames", report.Frames).
		Str("style", report.Style).
		Dur("elapsed", report.Total).
		Msg("video ready")

	if cfg.ShowStats {
		p.writeStats(report)
	}
	return report, nil
}

// ThumbnailPath places the still image beside the output with a .jpg extension.
func ThumbnailPath(output string) string {
	return strings.TrimSuffix(output, filepath.Ext(output)) + ".jpg"
}

func (p *Project) checkOutput() error {
	out := p.Config.OutputPath
	for _, path := range []string{out, ThumbnailPath(out)} {
		if _, err := os.Stat(path); err == nil {
			if !p.Config.Overwrite {
				return &domain.OutputConflictError{Path: path}
			}
		} else if !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("check output: %w", err)
		}
	}

	if dir := filepath.Dir(out); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create output dir: %w", err)
		}
	}
	return nil
}

func (p *Project) keepWorkDir(err error) {
	p.log.Error().Err(err).Str("dir", p.workDir).Msg("run failed, transient artifacts kept")
}

func (p *Project) writeStats(r *Report) {
	fps := float64(r.Frames) / r.Total.Seconds()
	p.log.Info().
		Str("build", p.Config.BuildVersion).
		Float64("total_s", r.Total.Seconds()).
		Float64("render_s", r.Render.Seconds()).
		Float64("encode_s", r.Encode.Seconds()).
		Float64("effective_fps", fps).
		Msg("performance report")

	entry := fmt.Sprintf("[%s] Build: %s | Run: %s | Frames: %d | Total: %.2fs | Render: %.2fs | Encode: %.2fs | FPS: %.2f\n",
		time.Now().Format("2006-01-02 15:04:05"),
		p.Config.BuildVersion,
		r.RunID,
		r.Frames,
		r.Total.Seconds(),
		r.Render.Seconds(),
		r.Encode.Seconds(),
		fps,
	)

	path := filepath.Join(filepath.Dir(r.Output), "benchmark.log")
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		p.log.Warn().Err(err).Msg("cannot write benchmark.log")
		return
	}
	defer f.Close()
	if _, err := f.WriteString(entry); err != nil {
		p.log.Warn().Err(err).Str("path", path).Msg("cannot write benchmark.log")
	}
}
