package video

import (
	"context"
	"strings"
	"testing"
)

func argValue(args []string, flag string) string {
	for i := 0; i < len(args)-1; i++ {
		if args[i] == flag {
			return args[i+1]
		}
	}
	return ""
}

func TestSequenceArgs(t *testing.T) {
	tests := []struct {
		encoder string
		quality int
		flag    string
		want    string
	}{
		{"libx264", 23, "-crf", "23"},
		{"", 0, "-crf", "23"},
		{"h264_nvenc", 28, "-cq", "28"},
		{"h264_videotoolbox", 75, "-b:v", "7500k"},
	}

	for _, tt := range tests {
		t.Run(tt.encoder, func(t *testing.T) {
			e := &FFmpegEncoder{VideoEncoder: tt.encoder, Quality: tt.quality}
			args := e.sequenceArgs("/tmp/w/frames/frame_%06d.png", 30, "/tmp/w/silent.mp4")

			if got := argValue(args, tt.flag); got != tt.want {
				t.Errorf("Expected %s %s, got %q in %v", tt.flag, tt.want, got, args)
			}
			if argValue(args, "-framerate") != "30" || argValue(args, "-start_number") != "0" {
				t.Errorf("Frame pattern must start at 0 at the configured rate: %v", args)
			}
			if argValue(args, "-i") != "/tmp/w/frames/frame_%06d.png" {
				t.Errorf("Unexpected input: %v", args)
			}
			if args[len(args)-1] != "/tmp/w/silent.mp4" {
				t.Errorf("Output must be last: %v", args)
			}
		})
	}
}

func TestExtractArgs(t *testing.T) {
	args := extractArgs("silent.mp4", 209, "thumb.jpg")
	if got := argValue(args, "-vf"); got != `select=eq(n\,209)` {
		t.Errorf("Unexpected select filter %q", got)
	}
	if argValue(args, "-frames:v") != "1" {
		t.Errorf("Expected a single frame: %v", args)
	}
}

func TestMuxArgs(t *testing.T) {
	env := Envelope{StartOffset: 42, FadeIn: 2, FadeOutStart: 5, FadeOutSpan: 2}
	args := muxArgs("silent.mp4", "track.mp3", env, "out.mp4")

	if argValue(args, "-ss") != "42.000" {
		t.Errorf("Expected audio seek to 42.000: %v", args)
	}
	// -ss must apply to the audio input only.
	joined := strings.Join(args, " ")
	if !strings.Contains(joined, "-ss 42.000 -i track.mp3") {
		t.Errorf("Seek must precede the audio input: %s", joined)
	}
	want := "[1:a]afade=t=in:st=0:d=2.000,afade=t=out:st=5.000:d=2.000[aout]"
	if got := argValue(args, "-filter_complex"); got != want {
		t.Errorf("Filter = %q, want %q", got, want)
	}
	if !strings.Contains(joined, "-shortest") {
		t.Error("Output must be trimmed to the shorter stream")
	}
}

func TestMuxArgsWithoutFades(t *testing.T) {
	args := muxArgs("silent.mp4", "track.mp3", Envelope{StartOffset: 3}, "out.mp4")
	if argValue(args, "-filter_complex") != "" {
		t.Errorf("Expected no filter graph: %v", args)
	}
	if !strings.Contains(strings.Join(args, " "), "-map 1:a") {
		t.Errorf("Expected raw audio map: %v", args)
	}
}

func TestRunReportsToolFailure(t *testing.T) {
	e := &FFmpegEncoder{FFmpeg: "false"}
	if err := e.EncodeSequence(context.Background(), "x_%06d.png", 30, "out.mp4"); err == nil {
		t.Error("Expected error from a failing tool")
	}

	e = &FFmpegEncoder{FFprobe: "false"}
	if _, err := e.ProbeDuration(context.Background(), "track.mp3"); err == nil {
		t.Error("Expected error from a failing probe")
	}
}
