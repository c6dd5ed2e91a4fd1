package guide

import "fmt"

// Step represents one actionable hint shown to the operator.
type Step struct {
	Title       string
	Description string
}

// Phase names where the session currently is.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseCapturing
	PhaseSelecting
	PhaseFinalizing
	PhaseDone
)

// Metadata carries just enough context for personalizing the hints.
type Metadata struct {
	LayoutLabel  string
	CaptureLimit int
	FinalLimit   int
}

// Build returns the operator checklist for a phase.
func Build(phase Phase, meta Metadata) []Step {
	switch phase {
	case PhaseIdle:
		return []Step{
			{
				Title:       "Pick a layout",
				Description: fmt.Sprintf("Choose a layout and orientation, then take the first photo or start an auto burst. Current: %s.", meta.LayoutLabel),
			},
			{
				Title:       "Two ways to shoot",
				Description: "Manual mode captures one photo per press. Auto burst counts down and shoots the whole set by itself.",
			},
		}
	case PhaseCapturing:
		return []Step{
			{
				Title:       "Keep shooting",
				Description: fmt.Sprintf("Capture all %d photos. Every shot gets a 3-2-1 countdown, so strike the pose before SMILE!.", meta.CaptureLimit),
			},
		}
	case PhaseSelecting:
		return []Step{
			{
				Title:       "Pick your favorites",
				Description: fmt.Sprintf("Tap exactly %d photos. Tapping a chosen photo releases it; the pick order decides its spot in the collage.", meta.FinalLimit),
			},
		}
	case PhaseFinalizing:
		return []Step{
			{
				Title:       "Hold on",
				Description: "The collage is being composed. It will appear here in a moment.",
			},
		}
	case PhaseDone:
		return []Step{
			{
				Title:       "All done",
				Description: "Your collage is saved. Reset to start the next session or open the gallery to browse past shoots.",
			},
		}
	default:
		return nil
	}
}
