package tui

import (
	"testing"

	"github.com/csheth/boothctl/internal/booth"
	"github.com/csheth/boothctl/internal/guide"
)

func TestDeriveUIStateIdleWithoutSession(t *testing.T) {
	t.Parallel()

	state := deriveUIState(booth.Snapshot{}, modeManual, booth.LayoutDouble, booth.OrientationPortrait, "")
	if state.phase != guide.PhaseIdle {
		t.Fatalf("expected idle phase, got %v", state.phase)
	}
	if !state.canCapture {
		t.Fatal("capture should be allowed before a session exists")
	}
	if state.captureLimit != 4 || state.finalLimit != 2 {
		t.Fatalf("double policy not applied: %d→%d", state.captureLimit, state.finalLimit)
	}
}

func TestDeriveUIStatePhases(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		snap  booth.Snapshot
		phase guide.Phase
	}{
		{
			"capturing",
			booth.Snapshot{SessionID: "s", Layout: booth.LayoutDouble, PhotoCount: 2, MaxCapturePhotos: 4, FinalPhotosNeeded: 2},
			guide.PhaseCapturing,
		},
		{
			"selecting",
			booth.Snapshot{SessionID: "s", Layout: booth.LayoutDouble, PhotoCount: 4, MaxCapturePhotos: 4, FinalPhotosNeeded: 2, CaptureComplete: true},
			guide.PhaseSelecting,
		},
		{
			"finalizing",
			booth.Snapshot{SessionID: "s", Layout: booth.LayoutDouble, PhotoCount: 4, MaxCapturePhotos: 4, FinalPhotosNeeded: 2, CaptureComplete: true, SelectionComplete: true},
			guide.PhaseFinalizing,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			state := deriveUIState(tt.snap, modeManual, booth.LayoutDouble, booth.OrientationPortrait, "")
			if state.phase != tt.phase {
				t.Fatalf("got phase %v, want %v", state.phase, tt.phase)
			}
		})
	}
}

func TestDeriveUIStateProgress(t *testing.T) {
	t.Parallel()

	snap := booth.Snapshot{SessionID: "s", Layout: booth.LayoutQuad, PhotoCount: 3, MaxCapturePhotos: 6, FinalPhotosNeeded: 4}
	state := deriveUIState(snap, modeManual, booth.LayoutQuad, booth.OrientationPortrait, "")
	if state.progressRatio != 0.5 {
		t.Fatalf("expected progress 0.5, got %v", state.progressRatio)
	}
}

func TestDeriveUIStateIsIdempotent(t *testing.T) {
	t.Parallel()

	snap := booth.Snapshot{
		SessionID:         "s",
		Layout:            booth.LayoutStrip,
		Orientation:       booth.OrientationLandscape,
		PhotoCount:        12,
		MaxCapturePhotos:  12,
		FinalPhotosNeeded: 8,
		CaptureComplete:   true,
	}
	first := deriveUIState(snap, modeAutoIdle, booth.LayoutDouble, booth.OrientationPortrait, "")
	second := deriveUIState(snap, modeAutoIdle, booth.LayoutDouble, booth.OrientationPortrait, "")
	if first != second {
		t.Fatalf("derivation not idempotent:\n%+v\n%+v", first, second)
	}
}

func TestDeriveUIStateSnapshotLayoutWins(t *testing.T) {
	t.Parallel()

	snap := booth.Snapshot{SessionID: "s", Layout: booth.LayoutStrip, PhotoCount: 1, MaxCapturePhotos: 12, FinalPhotosNeeded: 8}
	state := deriveUIState(snap, modeManual, booth.LayoutDouble, booth.OrientationPortrait, "")
	if state.captureLimit != 12 || state.finalLimit != 8 {
		t.Fatalf("active session layout must win over the menu choice: %d→%d", state.captureLimit, state.finalLimit)
	}
}

func TestDeriveUIStateDoneAfterCollage(t *testing.T) {
	t.Parallel()

	state := deriveUIState(booth.Snapshot{}, modeManual, booth.LayoutDouble, booth.OrientationPortrait, "Y29sbGFnZQ==")
	if state.phase != guide.PhaseDone {
		t.Fatalf("a held collage with no session means done, got %v", state.phase)
	}
}
