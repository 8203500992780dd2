package domain

import (
	"errors"
	"fmt"
)

// ErrRenderTimeout is wrapped by RenderError when the renderer does not
// stabilize within the configured readiness window.
var ErrRenderTimeout = errors.New("quote2video: renderer readiness timeout")

// Stage names one of the sequential external-tool jobs of the assembly.
type Stage string

const (
	StageEncode    Stage = "encode"
	StageThumbnail Stage = "thumbnail"
	StageMux       Stage = "mux"
)

// InputError reports nonsensical configuration or malformed timeline data.
type InputError struct {
	Field  string
	Reason string
}

func (e *InputError) Error() string {
	return fmt.Sprintf("invalid input %s: %s", e.Field, e.Reason)
}

// AssetError reports a required asset that is missing or unreadable.
type AssetError struct {
	Path string
	Err  error
}

func (e *AssetError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("asset %s unavailable", e.Path)
	}
	return fmt.Sprintf("asset %s unavailable: %v", e.Path, e.Err)
}

func (e *AssetError) Unwrap() error { return e.Err }

// RenderError carries the index of the frame whose seek or capture failed.
type RenderError struct {
	Frame int
	Err   error
}

func (e *RenderError) Error() string {
	return fmt.Sprintf("render frame %d: %v", e.Frame, e.Err)
}

func (e *RenderError) Unwrap() error { return e.Err }

// InfeasibleError is returned when no audio candidate covers the animation
// plus the safety margin.
type InfeasibleError struct {
	Need float64 // seconds required (total + safety margin)
	Best float64 // longest candidate seen, seconds
}

func (e *InfeasibleError) Error() string {
	return fmt.Sprintf("audio plan infeasible: need %.2fs of audio, longest candidate is %.2fs", e.Need, e.Best)
}

// EncodeError identifies which assembly stage failed.
type EncodeError struct {
	Stage Stage
	Err   error
}

func (e *EncodeError) Error() string {
	return fmt.Sprintf("%s stage failed: %v", e.Stage, e.Err)
}

func (e *EncodeError) Unwrap() error { return e.Err }

// OutputConflictError is returned before any work starts when the target
// exists and overwriting was not permitted.
type OutputConflictError struct {
	Path string
}

func (e *OutputConflictError) Error() string {
	return fmt.Sprintf("output %s already exists (use --overwrite to replace it)", e.Path)
}

// Process exit statuses, one per failure kind.
const (
	ExitOK             = 0
	ExitFailure        = 1
	ExitInput          = 2
	ExitAsset          = 3
	ExitRender         = 4
	ExitAudioPlan      = 5
	ExitEncode         = 6
	ExitOutputConflict = 7
)

// ExitCode maps an error from a pipeline run onto a distinguishing status.
func ExitCode(err error) int {
	if err == nil {
		return ExitOK
	}

	var (
		inputErr    *InputError
		assetErr    *AssetError
		renderErr   *RenderError
		planErr     *InfeasibleError
		encodeErr   *EncodeError
		conflictErr *OutputConflictError
	)
	switch {
	case errors.As(err, &conflictErr):
		return ExitOutputConflict
	case errors.As(err, &inputErr):
		return ExitInput
	case errors.As(err, &assetErr):
		return ExitAsset
	case errors.As(err, &renderErr):
		return ExitRender
	case errors.As(err, &planErr):
		return ExitAudioPlan
	case errors.As(err, &encodeErr):
		return ExitEncode
	default:
		return ExitFailure
	}
}
