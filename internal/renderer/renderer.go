package renderer

import (
	"context"
	"image"
	"time"

	"github.com/ivlev/quote2video/internal/effects"
	"github.com/ivlev/quote2video/internal/timeline"
)

// Renderer is a surface that displays the animated scene and can be seeked
// to an arbitrary time. Its animation clock is mutable state: callers must
// not run SeekTo/Capture pairs concurrently on one instance. Every call must
// return once its ctx is done; Close is only called after the last call has
// returned.
type Renderer interface {
	LoadScene(ctx context.Context, scene *Scene, style string) error
	// AwaitReady blocks until the surface is stable or timeout elapses.
	AwaitReady(ctx context.Context, timeout time.Duration) error
	// SeekTo moves every animation to t seconds from the start of the video.
	SeekTo(ctx context.Context, t float64) error
	Capture(ctx context.Context) (image.Image, error)
	Close() error
}

// Factory opens an independent renderer instance.
type Factory func() (Renderer, error)

// Scene is everything a renderer needs to draw one animation.
type Scene struct {
	Width, Height int
	Timeline      *timeline.Timeline
	Palette       effects.Palette

	// Each instance opens its own face; font.Face is not safe for concurrent use.
	FontPath string
	FontSize float64

	Logo image.Image // optional
	Code image.Image // optional, drawn only when the timeline schedules it
}
