package tui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
)

// The burst scheduler and the countdown presenter share one cancellation
// scheme: every scheduled message carries the generation it was armed
// under, and the model drops messages whose generation no longer matches.
// Bumping m.gen therefore cancels every pending step synchronously; there
// is never more than one live chain.

// startBurst arms the automatic sequence: initial delay, then
// {countdown → capture → inter-shot delay} until the layout's capture
// limit is reached.
func (m *model) startBurst() tea.Cmd {
	if m.mode != modeAutoIdle {
		if m.mode == modeManual {
			m.statusMessage = "Switch to auto mode first (a)."
		}
		return nil
	}

	m.gen++
	m.mode = modeAutoRunning
	m.shotsTaken = 0
	m.burstNote = "Starting auto burst…"
	m.refreshDerived()

	if !m.snapshot.Active() {
		return m.startJob(jobKindCreate,
			createSessionJob(m.config.Client, m.layout, m.orientation, false, m.gen))
	}
	return schedule(burstInitialDelay, burstStepMsg{gen: m.gen, step: stepShoot})
}

// stopBurst cancels the chain synchronously: after it returns no scheduled
// step can fire, because every pending message now carries a stale gen.
func (m *model) stopBurst() {
	m.gen++
	m.countdown = 0
	m.smile = false
	m.burstNote = ""
	if m.mode == modeAutoRunning {
		m.mode = modeAutoIdle
	}
	m.refreshDerived()
}

func (m *model) countdownActive() bool {
	return m.countdown > 0 || m.smile
}

// beginCountdown shows 3-2-1, holds the SMILE cue, then fires the capture.
// With no presentation surface yet (no window size received) it resolves
// immediately: the shot matters more than the ceremony.
func (m *model) beginCountdown(gen int) tea.Cmd {
	if m.width == 0 {
		return func() tea.Msg { return captureFireMsg{gen: gen} }
	}
	m.countdown = countdownStart
	m.smile = false
	return schedule(countdownInterval, countdownTickMsg{gen: gen, value: countdownStart - 1})
}

func (m *model) handleCountdownTick(msg countdownTickMsg) tea.Cmd {
	if msg.gen != m.gen {
		return nil
	}
	if msg.value >= 1 {
		m.countdown = msg.value
		return schedule(countdownInterval, countdownTickMsg{gen: msg.gen, value: msg.value - 1})
	}
	m.countdown = 0
	m.smile = true
	return schedule(countdownHold, captureFireMsg{gen: msg.gen})
}

func (m *model) handleCaptureFire(msg captureFireMsg) tea.Cmd {
	if msg.gen != m.gen {
		return nil
	}
	m.countdown = 0
	m.smile = false
	return m.startJob(jobKindCapture, captureJob(m.config.Client, msg.gen))
}

// handleCaptureResult reconciles after the mutating request and, while the
// burst chain is still current, advances it. Shots are counted per request
// issued, so a failed capture still consumes its slot instead of retrying.
func (m *model) handleCaptureResult(msg captureResultMsg) tea.Cmd {
	m.busy--
	refresh := m.startJob(jobKindStatus, statusJob(m.config.Client))

	if msg.err != nil {
		m.errorMessage = msg.err.Error()
		m.statusMessage = "Error capturing photo."
	} else {
		m.errorMessage = ""
		m.statusMessage = fmt.Sprintf("Photo %d/%d captured", msg.result.PhotoCount, msg.result.MaxCapturePhotos)
	}

	if msg.gen != m.gen || m.mode != modeAutoRunning {
		return refresh
	}

	m.shotsTaken++
	limit := m.ui.captureLimit
	if m.shotsTaken < limit {
		m.burstNote = fmt.Sprintf("Taking photo %d/%d…", m.shotsTaken+1, limit)
		return tea.Batch(refresh, schedule(burstShotDelay, burstStepMsg{gen: msg.gen, step: stepShoot}))
	}
	m.burstNote = "All photos captured! Ready for selection."
	return tea.Batch(refresh, schedule(burstWindDown, burstStepMsg{gen: msg.gen, step: stepWindDown}))
}

func (m *model) handleBurstStep(msg burstStepMsg) tea.Cmd {
	if msg.gen != m.gen {
		return nil
	}
	switch msg.step {
	case stepShoot:
		if m.mode != modeAutoRunning {
			return nil
		}
		limit := m.ui.captureLimit
		m.burstNote = fmt.Sprintf("Taking photo %d/%d…", m.shotsTaken+1, limit)
		return m.beginCountdown(msg.gen)

	case stepWindDown:
		// Natural completion: leave the running state but keep the gen
		// alive so the scheduled selection hand-off still fires.
		if m.mode == modeAutoRunning {
			m.mode = modeAutoIdle
		}
		m.burstNote = ""
		m.refreshDerived()
		return schedule(selectionDelay, burstStepMsg{gen: msg.gen, step: stepOpenSelection})

	case stepOpenSelection:
		return m.openSelection()
	}
	return nil
}

// burstProgress is shotsTaken over the capture limit, recomputed after
// every shot including the final one.
func (m *model) burstProgress() float64 {
	limit := m.ui.captureLimit
	if limit <= 0 {
		return 0
	}
	ratio := float64(m.shotsTaken) / float64(limit)
	if ratio > 1 {
		return 1
	}
	return ratio
}
