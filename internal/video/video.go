package video

import (
	"context"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
)

// Encoder runs the external encoding jobs of the assembly.
type Encoder interface {
	// EncodeSequence encodes a gapless printf-style frame pattern into a silent video.
	EncodeSequence(ctx context.Context, framesPattern string, fps int, outPath string) error
	// ExtractFrame writes the frame with the given index of videoPath as a still image.
	ExtractFrame(ctx context.Context, videoPath string, frameIndex int, outPath string) error
	// MuxAudio lays audioPath under videoPath using env and trims to the shorter stream.
	MuxAudio(ctx context.Context, videoPath, audioPath string, env Envelope, outPath string) error
	// ProbeDuration returns a media file's duration in seconds.
	ProbeDuration(ctx context.Context, path string) (float64, error)
}

// Envelope positions the audio track and shapes its volume. Seconds.
type Envelope struct {
	StartOffset  float64
	FadeIn       float64
	FadeOutStart float64
	FadeOutSpan  float64
}

// maxLogTail bounds how much tool output is carried in an error.
const maxLogTail = 2048

// FFmpegEncoder implements Encoder with the ffmpeg and ffprobe binaries.
type FFmpegEncoder struct {
	FFmpeg       string // defaults to "ffmpeg"
	FFprobe      string // defaults to "ffprobe"
	VideoEncoder string // libx264, h264_videotoolbox, h264_nvenc
	Quality      int
}

func (e *FFmpegEncoder) EncodeSequence(ctx context.Context, framesPattern string, fps int, outPath string) error {
	return e.run(ctx, e.sequenceArgs(framesPattern, fps, outPath))
}

func (e *FFmpegEncoder) ExtractFrame(ctx context.Context, videoPath string, frameIndex int, outPath string) error {
	return e.run(ctx, extractArgs(videoPath, frameIndex, outPath))
}

func (e *FFmpegEncoder) MuxAudio(ctx context.Context, videoPath, audioPath string, env Envelope, outPath string) error {
	return e.run(ctx, muxArgs(videoPath, audioPath, env, outPath))
}

func (e *FFmpegEncoder) ProbeDuration(ctx context.Context, path string) (float64, error) {
	probe := e.FFprobe
	if probe == "" {
		probe = "ffprobe"
	}
	cmd := exec.CommandContext(ctx, probe, "-v", "error", "-show_entries", "format=duration", "-of", "default=noprint_wrappers=1:nokey=1", path)
	out, err := cmd.CombinedOutput()
	if err != nil {
		return 0, fmt.Errorf("ffprobe %s: %v, output: %s", path, err, tail(out))
	}

	d, err := strconv.ParseFloat(strings.TrimSpace(string(out)), 64)
	if err != nil {
		return 0, fmt.Errorf("ffprobe %s: unexpected duration %q", path, strings.TrimSpace(string(out)))
	}
	return d, nil
}

func (e *FFmpegEncoder) run(ctx context.Context, args []string) error {
	bin := e.FFmpeg
	if bin == "" {
		bin = "ffmpeg"
	}
	cmd := exec.CommandContext(ctx, bin, args...)
	if out, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("ffmpeg error: %v, output: %s", err, tail(out))
	}
	return nil
}

func (e *FFmpegEncoder) sequenceArgs(framesPattern string, fps int, outPath string) []string {
	encoder := e.VideoEncoder
	if encoder == "" {
		encoder = "libx264"
	}

	args := []string{
		"-y",
		"-framerate", strconv.Itoa(fps),
		"-start_number", "0",
		"-i", framesPattern,
		"-c:v", encoder,
		"-pix_fmt", "yuv420p",
		"-r", strconv.Itoa(fps),
	}
	args = append(args, qualityArgs(encoder, e.Quality)...)
	args = append(args, "-movflags", "+faststart", outPath)
	return args
}

// qualityArgs maps a single quality knob onto each encoder's own rate control.
func qualityArgs(encoder string, quality int) []string {
	switch encoder {
	case "h264_videotoolbox":
		// VideoToolbox does not honour -q:v everywhere; use a bitrate instead.
		return []string{"-b:v", fmt.Sprintf("%dk", quality*100)}
	case "h264_nvenc":
		return []string{"-cq", strconv.Itoa(quality)}
	default: // libx264
		if quality <= 0 {
			quality = 23
		}
		return []string{"-crf", strconv.Itoa(quality), "-preset", "medium"}
	}
}

func extractArgs(videoPath string, frameIndex int, outPath string) []string {
	return []string{
		"-y",
		"-i", videoPath,
		"-vf", fmt.Sprintf("select=eq(n\\,%d)", frameIndex),
		"-frames:v", "1",
		"-q:v", "2",
		outPath,
	}
}

func muxArgs(videoPath, audioPath string, env Envelope, outPath string) []string {
	args := []string{
		"-y",
		"-i", videoPath,
		"-ss", seconds(env.StartOffset),
		"-i", audioPath,
	}

	if filter := fadeFilter(env); filter != "" {
		args = append(args, "-filter_complex", filter, "-map", "0:v", "-map", "[aout]")
	} else {
		args = append(args, "-map", "0:v", "-map", "1:a")
	}

	args = append(args,
		"-c:v", "copy",
		"-c:a", "aac",
		"-b:a", "192k",
		"-shortest",
		outPath,
	)
	return args
}

func seconds(v float64) string {
	return strconv.FormatFloat(v, 'f', 3, 64)
}

func tail(out []byte) string {
	if len(out) > maxLogTail {
		out = out[len(out)-maxLogTail:]
	}
	return strings.TrimSpace(string(out))
}
