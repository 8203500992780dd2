package sampler

import (
	"context"
	"errors"
	"fmt"
	"image"
	"iter"
	"math"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/ivlev/quote2video/internal/domain"
	"github.com/ivlev/quote2video/internal/renderer"
	"github.com/ivlev/quote2video/internal/timeline"
)

// ceilTolerance absorbs binary rounding in total*fps so that, for example,
// 2.1s at 10 fps is 21 frames and not 22.
const ceilTolerance = 1e-9

// Frame is one captured still.
type Frame struct {
	Index     int
	Timestamp float64 // seconds
	Image     image.Image
}

// FrameCount returns ceil(total*fps), the number of frames covering total seconds.
func FrameCount(total float64, fps int) int {
	if total <= 0 || fps <= 0 {
		return 0
	}
	return int(math.Ceil(total*float64(fps) - ceilTolerance))
}

// Opener returns a renderer with the scene loaded and ready. Each call must
// yield an independent instance.
type Opener func(ctx context.Context) (renderer.Renderer, error)

// Sink consumes frames. SampleParallel calls it from several goroutines.
type Sink func(Frame) error

// Sampler maps frame indices to playback times and drives a renderer there.
type Sampler struct {
	FPS int
	// ReadyTimeout bounds each seek/ready/capture round trip; zero disables it.
	ReadyTimeout time.Duration
}

// Sample returns the frames of tl in index order. Every step seeks and
// captures r, so the sequence is single-use. The first failure is yielded
// as a *domain.RenderError and ends the sequence.
func (s Sampler) Sample(ctx context.Context, tl *timeline.Timeline, r renderer.Renderer) iter.Seq2[Frame, error] {
	if s.FPS <= 0 {
		return func(yield func(Frame, error) bool) {
			yield(Frame{}, &domain.InputError{Field: "fps", Reason: "must be positive"})
		}
	}
	return s.sampleRange(ctx, r, 0, FrameCount(tl.TotalDuration, s.FPS))
}

// SampleParallel splits the frame range into contiguous disjoint ranges,
// one per worker, each sampled by its own renderer from open. Frames reach
// sink in index order within a range but interleaved across ranges; the
// sink orders output by Frame.Index. The first failure cancels all workers.
func (s Sampler) SampleParallel(ctx context.Context, tl *timeline.Timeline, workers int, open Opener, sink Sink) error {
	if s.FPS <= 0 {
		return &domain.InputError{Field: "fps", Reason: "must be positive"}
	}

	g, gctx := errgroup.WithContext(ctx)
	for _, rg := range Split(FrameCount(tl.TotalDuration, s.FPS), workers) {
		g.Go(func() error {
			r, err := open(gctx)
			if err != nil {
				return fmt.Errorf("open renderer for frames %d-%d: %w", rg.From, rg.To-1, err)
			}
			defer r.Close()

			for fr, err := range s.sampleRange(gctx, r, rg.From, rg.To) {
				if err != nil {
					return err
				}
				if err := sink(fr); err != nil {
					return fmt.Errorf("frame %d: %w", fr.Index, err)
				}
			}
			return nil
		})
	}
	return g.Wait()
}

// Range is a half-open interval of frame indices.
type Range struct {
	From, To int
}

// Split divides [0, total) into at most n contiguous ranges of near-equal size.
func Split(total, n int) []Range {
	if total <= 0 {
		return nil
	}
	if n < 1 {
		n = 1
	}
	if n > total {
		n = total
	}

	out := make([]Range, 0, n)
	size, rem := total/n, total%n
	from := 0
	for i := 0; i < n; i++ {
		to := from + size
		if i < rem {
			to++
		}
		out = append(out, Range{From: from, To: to})
		from = to
	}
	return out
}

func (s Sampler) sampleRange(ctx context.Context, r renderer.Renderer, from, to int) iter.Seq2[Frame, error] {
	return func(yield func(Frame, error) bool) {
		for f := from; f < to; f++ {
			fr, err := s.step(ctx, r, f)
			if err != nil {
				yield(Frame{Index: f}, err)
				return
			}
			if !yield(fr, nil) {
				return
			}
		}
	}
}

type captured struct {
	img image.Image
	err error
}

// step performs one seek-then-capture round trip for frame f. The renderer
// call runs in its own goroutine and sees a ctx that expires after
// ReadyTimeout. On expiry step still waits for that call to return, so the
// caller may Close the renderer as soon as the error is yielded.
func (s Sampler) step(ctx context.Context, r renderer.Renderer, f int) (Frame, error) {
	t := float64(f) / float64(s.FPS)

	fctx, cancel := ctx, context.CancelFunc(func() {})
	if s.ReadyTimeout > 0 {
		fctx, cancel = context.WithTimeout(ctx, s.ReadyTimeout)
	}
	defer cancel()

	done := make(chan captured, 1)
	go func() {
		if err := r.SeekTo(fctx, t); err != nil {
			done <- captured{err: fmt.Errorf("seek to %.4fs: %w", t, err)}
			return
		}
		if err := r.AwaitReady(fctx, s.ReadyTimeout); err != nil {
			done <- captured{err: fmt.Errorf("await ready at %.4fs: %w", t, err)}
			return
		}
		img, err := r.Capture(fctx)
		if err != nil {
			err = fmt.Errorf("capture at %.4fs: %w", t, err)
		}
		done <- captured{img: img, err: err}
	}()

	select {
	case res := <-done:
		if res.err != nil {
			return Frame{}, renderError(f, fctx, res.err)
		}
		return Frame{Index: f, Timestamp: t, Image: res.img}, nil
	case <-fctx.Done():
		<-done
		return Frame{}, renderError(f, fctx, fctx.Err())
	}
}

func renderError(f int, ctx context.Context, err error) error {
	if errors.Is(ctx.Err(), context.DeadlineExceeded) && !errors.Is(err, domain.ErrRenderTimeout) {
		err = fmt.Errorf("%w: %v", domain.ErrRenderTimeout, err)
	}
	return &domain.RenderError{Frame: f, Err: err}
}
