package tui

import "time"

type stage int

const (
	stageCapture stage = iota
	stageSelection
	stageResult
	stageGallery
)

// captureMode tracks how shots are triggered. Purely local UI state; the
// backend never sees it.
type captureMode int

const (
	modeManual captureMode = iota
	modeAutoIdle
	modeAutoRunning
)

const (
	countdownStart    = 3
	countdownInterval = time.Second
	countdownHold     = 500 * time.Millisecond

	burstInitialDelay = 2 * time.Second
	burstShotDelay    = 3 * time.Second
	burstWindDown     = time.Second
	selectionDelay    = time.Second
	finalizeDelay     = time.Second

	defaultPollInterval = 10 * time.Second
)

const minPreviewWidth = 40

func (m captureMode) label() string {
	switch m {
	case modeManual:
		return "MANUAL"
	case modeAutoIdle:
		return "AUTO (idle)"
	case modeAutoRunning:
		return "AUTO (running)"
	default:
		return "?"
	}
}
