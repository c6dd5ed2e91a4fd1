package tui

import (
	"fmt"

	"github.com/csheth/boothctl/internal/booth"
	"github.com/csheth/boothctl/internal/guide"
)

// uiState is everything the view and the key handlers need, derived in one
// place from the cached snapshot plus local mode. Never update it
// incrementally; recompute after every cache replacement so that applying
// the same snapshot twice yields the same state.
type uiState struct {
	phase            guide.Phase
	canCapture       bool
	canOpenSelection bool
	canFinalize      bool
	progressRatio    float64
	captureLimit     int
	finalLimit       int
	statusLine       string
}

// deriveUIState computes the derived state. layout and orientation are the
// local menu choice used before a session exists; once the backend owns a
// session its snapshot wins. collage is the locally held final artifact,
// present only after finalization.
func deriveUIState(snap booth.Snapshot, mode captureMode, layout booth.Layout, orientation booth.Orientation, collage string) uiState {
	if snap.Active() {
		layout = snap.Layout
		if snap.Orientation != "" {
			orientation = snap.Orientation
		}
	}

	policy, err := booth.PolicyFor(layout)
	if err != nil {
		// Unknown layouts only happen against a newer backend; fall back to
		// the snapshot's own counts.
		policy = booth.Policy{CaptureLimit: snap.MaxCapturePhotos, FinalLimit: snap.FinalPhotosNeeded}
	}
	captureLimit := policy.CaptureLimit
	if snap.MaxCapturePhotos > 0 {
		captureLimit = snap.MaxCapturePhotos
	}
	finalLimit := policy.FinalLimit
	if snap.FinalPhotosNeeded > 0 {
		finalLimit = snap.FinalPhotosNeeded
	}

	state := uiState{
		captureLimit: captureLimit,
		finalLimit:   finalLimit,
	}

	switch {
	case !snap.Active() && collage != "":
		state.phase = guide.PhaseDone
	case !snap.Active():
		state.phase = guide.PhaseIdle
		state.canCapture = true
	case !snap.CaptureComplete:
		state.phase = guide.PhaseCapturing
		state.canCapture = true
	case !snap.SelectionComplete:
		state.phase = guide.PhaseSelecting
		state.canOpenSelection = true
	default:
		state.phase = guide.PhaseFinalizing
		state.canFinalize = true
	}

	if captureLimit > 0 {
		state.progressRatio = float64(snap.PhotoCount) / float64(captureLimit)
		if state.progressRatio > 1 {
			state.progressRatio = 1
		}
	}

	label := booth.Label(layout, orientation)
	switch state.phase {
	case guide.PhaseIdle:
		state.statusLine = fmt.Sprintf("Ready: %s • %s", label, mode.label())
	case guide.PhaseCapturing:
		state.statusLine = fmt.Sprintf("%d/%d photos • %s • %s", snap.PhotoCount, captureLimit, label, mode.label())
	case guide.PhaseSelecting:
		state.statusLine = fmt.Sprintf("%d photos captured • Select %d favorites • %s", snap.PhotoCount, finalLimit, label)
	case guide.PhaseFinalizing:
		state.statusLine = fmt.Sprintf("Photos selected • Creating %s collage", label)
	case guide.PhaseDone:
		state.statusLine = "Session complete • Collage saved"
	}
	return state
}
