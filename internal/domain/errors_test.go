package domain

import (
	"errors"
	"fmt"
	"testing"
)

func TestExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, ExitOK},
		{"plain", errors.New("boom"), ExitFailure},
		{"input", &InputError{Field: "fps", Reason: "must be positive"}, ExitInput},
		{"asset", &AssetError{Path: "logo.png"}, ExitAsset},
		{"render wrapped", fmt.Errorf("sampling: %w", &RenderError{Frame: 3, Err: ErrRenderTimeout}), ExitRender},
		{"plan", &InfeasibleError{Need: 12, Best: 8}, ExitAudioPlan},
		{"encode", &EncodeError{Stage: StageMux, Err: errors.New("exit status 1")}, ExitEncode},
		{"conflict", &OutputConflictError{Path: "out.mp4"}, ExitOutputConflict},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExitCode(tt.err); got != tt.want {
				t.Errorf("ExitCode(%v) = %d, want %d", tt.err, got, tt.want)
			}
		})
	}
}

func TestRenderErrorUnwrap(t *testing.T) {
	err := fmt.Errorf("run: %w", &RenderError{Frame: 41, Err: ErrRenderTimeout})
	if !errors.Is(err, ErrRenderTimeout) {
		t.Fatal("expected ErrRenderTimeout in chain")
	}

	var re *RenderError
	if !errors.As(err, &re) || re.Frame != 41 {
		t.Errorf("expected RenderError for frame 41, got %v", err)
	}
}
