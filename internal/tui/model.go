package tui

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/csheth/boothctl/internal/archive"
	"github.com/csheth/boothctl/internal/booth"
	"github.com/csheth/boothctl/internal/preview"
)

// Config wires runtime collaborators into the controller.
type Config struct {
	Client       *booth.Client
	Archive      *archive.Archive
	PollInterval time.Duration
}

// New returns a tea.Model ready to be mounted into a Program.
func New(config Config) tea.Model {
	if config.PollInterval <= 0 {
		config.PollInterval = defaultPollInterval
	}

	spin := spinner.New()
	spin.Spinner = spinner.Dot

	bar := progress.New(progress.WithDefaultGradient())
	bar.Width = 40

	vp := viewport.New(80, 16)

	m := &model{
		config:          config,
		stage:           stageCapture,
		mode:            modeManual,
		layout:          booth.LayoutDouble,
		orientation:     booth.OrientationPortrait,
		spinner:         spin,
		progress:        bar,
		galleryViewport: vp,
		jobs:            newJobBus(),
		statusMessage:   "Touch a key to begin.",
	}
	m.refreshDerived()
	return m
}

type model struct {
	config Config
	stage  stage
	mode   captureMode

	// Local menu choice; once a session exists the snapshot's layout wins.
	layout      booth.Layout
	orientation booth.Orientation

	// snapshot is the cached authoritative state, replaced wholesale on
	// every fetch or push update. ui is recomputed from it, never patched.
	snapshot booth.Snapshot
	ui       uiState

	// gen guards the capture chain (countdown and burst timers). Arming a
	// new chain bumps it; messages from older generations are dropped.
	gen        int
	countdown  int
	smile      bool
	shotsTaken int
	burstNote  string

	sel       selectionSet
	selCursor int

	previewFrame string
	frameCount   int
	collage      string
	collageFile  string
	archivedPath string

	gallery         []booth.GalleryEntry
	galleryViewport viewport.Model

	finalizePending bool

	spinner  spinner.Model
	progress progress.Model
	busy     int

	jobs          *jobBus
	statusMessage string
	errorMessage  string
	wsConnected   bool

	width  int
	height int
}

// PushEvent wraps a message from the preview channel. main pumps these into
// the program with Program.Send.
type PushEvent struct {
	Event preview.Event
}

// PushStatus wraps a preview channel connect/disconnect note.
type PushStatus struct {
	Status preview.Status
}

type sessionCreatedMsg struct {
	result      booth.CreateResult
	thenCapture bool
	gen         int
	err         error
}

type captureResultMsg struct {
	result booth.CaptureResult
	gen    int
	err    error
}

type snapshotMsg struct {
	snapshot booth.Snapshot
	err      error
}

type selectResultMsg struct {
	indices []int
	err     error
}

type finalizeResultMsg struct {
	result booth.FinalizeResult
	err    error
}

type resetResultMsg struct{ err error }

type galleryResultMsg struct {
	photos []booth.GalleryEntry
	err    error
}

type archiveSavedMsg struct {
	entry archive.Entry
	err   error
}

type pollTickMsg struct{}

// countdownTickMsg displays value now; 0 means the SMILE cue.
type countdownTickMsg struct {
	gen   int
	value int
}

// captureFireMsg resolves the countdown and issues the capture request.
type captureFireMsg struct{ gen int }

type burstStep int

const (
	stepShoot burstStep = iota
	stepWindDown
	stepOpenSelection
)

type burstStepMsg struct {
	gen  int
	step burstStep
}

type finalizeStepMsg struct{}

func (m *model) Init() tea.Cmd {
	return tea.Batch(
		m.startJob(jobKindStatus, statusJob(m.config.Client)),
		schedule(m.config.PollInterval, pollTickMsg{}),
	)
}

func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case spinner.TickMsg:
		if m.busy > 0 {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}
		return m, nil

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		width := msg.Width - 4
		if width < minPreviewWidth {
			width = minPreviewWidth
		}
		m.progress.Width = width / 2
		m.galleryViewport.Width = width
		height := msg.Height - 12
		if height < 6 {
			height = 6
		}
		m.galleryViewport.Height = height
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case pollTickMsg:
		return m, tea.Batch(
			m.startJob(jobKindStatus, statusJob(m.config.Client)),
			schedule(m.config.PollInterval, pollTickMsg{}),
		)

	case snapshotMsg:
		m.busy--
		if msg.err != nil {
			m.statusMessage = "Status refresh failed; will retry."
			return m, nil
		}
		m.applySnapshot(msg.snapshot)
		return m, nil

	case sessionCreatedMsg:
		return m, m.handleSessionCreated(msg)

	case countdownTickMsg:
		return m, m.handleCountdownTick(msg)

	case captureFireMsg:
		return m, m.handleCaptureFire(msg)

	case captureResultMsg:
		return m, m.handleCaptureResult(msg)

	case burstStepMsg:
		return m, m.handleBurstStep(msg)

	case selectResultMsg:
		m.busy--
		if msg.err != nil {
			m.errorMessage = msg.err.Error()
			m.statusMessage = "Selection rejected. Adjust and confirm again."
			return m, nil
		}
		m.closeSelection()
		m.errorMessage = ""
		m.statusMessage = "Photos selected! Creating collage…"
		m.finalizePending = true
		return m, tea.Batch(
			m.startJob(jobKindStatus, statusJob(m.config.Client)),
			schedule(finalizeDelay, finalizeStepMsg{}),
		)

	case finalizeStepMsg:
		if !m.finalizePending {
			return m, nil
		}
		m.finalizePending = false
		return m, m.startJob(jobKindFinalize, finalizeJob(m.config.Client))

	case finalizeResultMsg:
		m.busy--
		if msg.err != nil {
			m.errorMessage = msg.err.Error()
			m.statusMessage = "Error finishing session. Press f to retry."
			m.finalizePending = false
			return m, m.startJob(jobKindStatus, statusJob(m.config.Client))
		}
		return m, m.showCollage(msg.result.Collage, msg.result.Filename)

	case resetResultMsg:
		m.busy--
		if msg.err != nil {
			m.errorMessage = msg.err.Error()
			m.statusMessage = "Reset failed. Press r to retry."
			return m, nil
		}
		m.snapshot = booth.Snapshot{}
		m.collage = ""
		m.collageFile = ""
		m.archivedPath = ""
		m.shotsTaken = 0
		m.errorMessage = ""
		m.statusMessage = "Session reset – ready for new photos!"
		m.refreshDerived()
		return m, m.startJob(jobKindStatus, statusJob(m.config.Client))

	case galleryResultMsg:
		m.busy--
		if msg.err != nil {
			m.errorMessage = msg.err.Error()
			m.statusMessage = "Could not load the gallery."
			return m, nil
		}
		m.gallery = msg.photos
		m.errorMessage = ""
		m.stage = stageGallery
		m.galleryViewport.SetContent(m.renderGalleryEntries())
		m.galleryViewport.GotoTop()
		return m, nil

	case archiveSavedMsg:
		m.busy--
		if msg.err != nil {
			m.statusMessage = fmt.Sprintf("Collage shown, but local save failed: %v", msg.err)
			return m, nil
		}
		m.archivedPath = msg.entry.Filename
		return m, nil

	case PushEvent:
		return m, m.handlePushEvent(msg.Event)

	case PushStatus:
		switch msg.Status.Type {
		case preview.StatusConnected:
			m.wsConnected = true
		case preview.StatusDisconnected:
			m.wsConnected = false
			m.statusMessage = "Camera link lost – reconnecting…"
		}
		return m, nil
	}

	return m, nil
}

func (m *model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC {
		return m, tea.Quit
	}

	switch m.stage {
	case stageSelection:
		return m.handleSelectionKey(msg)
	case stageGallery:
		return m.handleGalleryKey(msg)
	case stageResult:
		return m.handleResultKey(msg)
	default:
		return m.handleCaptureKey(msg)
	}
}

func (m *model) handleCaptureKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "1":
		return m, m.selectLayout(booth.LayoutDouble)
	case "2":
		return m, m.selectLayout(booth.LayoutQuad)
	case "3":
		return m, m.selectLayout(booth.LayoutStrip)
	case "o":
		if m.orientation == booth.OrientationPortrait {
			m.orientation = booth.OrientationLandscape
		} else {
			m.orientation = booth.OrientationPortrait
		}
		m.refreshDerived()
		return m, nil
	case "m":
		m.selectMode(modeManual)
		return m, nil
	case "a":
		m.selectMode(modeAutoIdle)
		return m, nil
	case "s":
		return m, m.startBurst()
	case "x":
		if m.mode == modeAutoRunning {
			m.stopBurst()
			m.statusMessage = "Auto burst stopped."
		}
		return m, nil
	case " ", "c":
		return m, m.takePhoto()
	case "p":
		return m, m.openSelection()
	case "f":
		if !m.ui.canFinalize {
			m.statusMessage = "Nothing to finalize yet."
			return m, nil
		}
		return m, m.startJob(jobKindFinalize, finalizeJob(m.config.Client))
	case "g":
		return m, m.startJob(jobKindGallery, galleryJob(m.config.Client))
	case "r":
		return m, m.resetSession()
	}
	return m, nil
}

func (m *model) handleSelectionKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	count := m.snapshot.PhotoCount
	if count == 0 {
		m.closeSelection()
		return m, nil
	}
	cols := selectionColumns(count)

	switch msg.String() {
	case "esc":
		m.closeSelection()
		m.statusMessage = "Selection discarded."
		return m, nil
	case "left", "h":
		if m.selCursor > 0 {
			m.selCursor--
		}
	case "right", "l":
		if m.selCursor < count-1 {
			m.selCursor++
		}
	case "up", "k":
		if m.selCursor-cols >= 0 {
			m.selCursor -= cols
		}
	case "down", "j":
		if m.selCursor+cols < count {
			m.selCursor += cols
		}
	case " ":
		if !m.sel.Toggle(m.selCursor) {
			m.statusMessage = fmt.Sprintf("Already holding %d photos – release one first.", m.sel.limit)
		}
	case "enter":
		return m, m.confirmSelection()
	case "r":
		return m, m.resetSession()
	}
	return m, nil
}

func (m *model) handleGalleryKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "g", "q":
		m.stage = stageCapture
		return m, nil
	}
	var cmd tea.Cmd
	m.galleryViewport, cmd = m.galleryViewport.Update(msg)
	return m, cmd
}

func (m *model) handleResultKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "r":
		return m, m.resetSession()
	case "g":
		return m, m.startJob(jobKindGallery, galleryJob(m.config.Client))
	case "esc":
		m.stage = stageCapture
		return m, nil
	case "q":
		return m, tea.Quit
	}
	return m, nil
}

func (m *model) selectLayout(layout booth.Layout) tea.Cmd {
	m.layout = layout
	if m.snapshot.Active() {
		m.statusMessage = fmt.Sprintf("Layout %s will apply to the next session.", layout)
	}
	m.refreshDerived()
	return nil
}

// selectMode implements the mode state machine: entering any mode
// invalidates the running capture chain, so a pending burst or countdown
// can never fire across a mode switch.
func (m *model) selectMode(target captureMode) {
	m.gen++
	m.countdown = 0
	m.smile = false
	m.burstNote = ""
	m.mode = target
	m.refreshDerived()
}

// takePhoto is the manual trigger: countdown first, then one capture.
func (m *model) takePhoto() tea.Cmd {
	if m.mode == modeAutoRunning {
		m.statusMessage = "Auto burst is running – stop it first."
		return nil
	}
	if m.mode == modeAutoIdle {
		m.statusMessage = "Press s to start the auto burst."
		return nil
	}
	if m.countdownActive() {
		return nil
	}
	if !m.ui.canCapture {
		m.statusMessage = "Capture is complete – select your favorites."
		return nil
	}

	m.gen++
	if !m.snapshot.Active() {
		return m.startJob(jobKindCreate,
			createSessionJob(m.config.Client, m.layout, m.orientation, true, m.gen))
	}
	return m.beginCountdown(m.gen)
}

func (m *model) handleSessionCreated(msg sessionCreatedMsg) tea.Cmd {
	m.busy--
	if msg.err != nil {
		m.errorMessage = msg.err.Error()
		m.statusMessage = "Error creating session."
		if m.mode == modeAutoRunning {
			m.stopBurst()
		}
		return nil
	}
	m.errorMessage = ""
	refresh := m.startJob(jobKindStatus, statusJob(m.config.Client))
	if msg.gen != m.gen {
		return refresh
	}
	if msg.thenCapture {
		return tea.Batch(refresh, m.beginCountdown(msg.gen))
	}
	if m.mode == modeAutoRunning {
		m.burstNote = "Starting auto burst…"
		return tea.Batch(refresh, schedule(burstInitialDelay, burstStepMsg{gen: msg.gen, step: stepShoot}))
	}
	return refresh
}

func (m *model) confirmSelection() tea.Cmd {
	if !m.sel.Complete() {
		m.statusMessage = fmt.Sprintf("Select exactly %d photos before confirming (%d picked).", m.sel.limit, m.sel.Len())
		return nil
	}
	return m.startJob(jobKindSelect, selectPhotosJob(m.config.Client, m.sel.Indices()))
}

// openSelection starts the selection phase. The pick set always opens empty.
func (m *model) openSelection() tea.Cmd {
	if !m.ui.canOpenSelection {
		m.statusMessage = "Please complete photo capture first."
		return nil
	}
	m.sel = newSelectionSet(m.ui.finalLimit)
	m.selCursor = 0
	m.stage = stageSelection
	m.statusMessage = fmt.Sprintf("Choose %d of %d photos.", m.ui.finalLimit, m.snapshot.PhotoCount)
	return nil
}

func (m *model) closeSelection() {
	m.sel.Clear()
	m.selCursor = 0
	if m.stage == stageSelection {
		m.stage = stageCapture
	}
}

func (m *model) resetSession() tea.Cmd {
	m.stopBurst()
	m.closeSelection()
	m.finalizePending = false
	return m.startJob(jobKindReset, resetJob(m.config.Client))
}

func (m *model) showCollage(collage, filename string) tea.Cmd {
	m.collage = collage
	m.collageFile = filename
	m.stage = stageResult
	m.errorMessage = ""
	m.statusMessage = "Session completed! Photo saved."
	m.refreshDerived()

	cmds := []tea.Cmd{m.startJob(jobKindStatus, statusJob(m.config.Client))}
	if m.config.Archive != nil && collage != "" {
		arch := m.config.Archive
		layout := string(m.layout)
		if m.snapshot.Layout != "" {
			layout = string(m.snapshot.Layout)
		}
		cmds = append(cmds, m.startJob(jobKindArchive, func(_ context.Context) (tea.Msg, error) {
			entry, err := arch.Save(filename, layout, collage)
			return archiveSavedMsg{entry: entry, err: err}, err
		}))
	}
	return tea.Batch(cmds...)
}

// handlePushEvent applies an out-of-band update from the push channel.
// Snapshot-bearing events replace the cache immediately; the follow-up
// fetch keeps the cache converged even if the payload was partial.
func (m *model) handlePushEvent(event preview.Event) tea.Cmd {
	switch event.Type {
	case preview.EventPreview:
		m.previewFrame = event.Data
		m.frameCount++
		return nil

	case preview.EventPhotoCaptured:
		snap := m.snapshot
		if event.SessionID != "" {
			snap.SessionID = event.SessionID
		}
		snap.PhotoCount = event.PhotoCount
		snap.CaptureComplete = event.CaptureComplete
		if event.MaxCapturePhotos > 0 {
			snap.MaxCapturePhotos = event.MaxCapturePhotos
		}
		if event.FinalPhotosNeeded > 0 {
			snap.FinalPhotosNeeded = event.FinalPhotosNeeded
		}
		m.applySnapshot(snap)
		return m.startJob(jobKindStatus, statusJob(m.config.Client))

	case preview.EventSelectionComplete:
		return m.startJob(jobKindStatus, statusJob(m.config.Client))

	case preview.EventSessionComplete:
		m.stopBurst()
		return m.showCollage(event.Collage, event.Filename)
	}
	return nil
}

// applySnapshot replaces the cache wholesale and recomputes derived state.
// The most recently received snapshot wins regardless of which path
// (poll, mutating-request refresh, push) delivered it.
func (m *model) applySnapshot(snap booth.Snapshot) {
	m.snapshot = snap
	m.refreshDerived()

	if m.stage == stageSelection && (!snap.Active() || snap.SelectionComplete) {
		m.closeSelection()
	}
}

func (m *model) refreshDerived() {
	m.ui = deriveUIState(m.snapshot, m.mode, m.layout, m.orientation, m.collage)
}

func (m *model) startJob(kind jobKind, runner jobRunner) tea.Cmd {
	m.busy++
	return tea.Batch(m.jobs.Start(kind, runner), m.spinner.Tick)
}

func selectionColumns(count int) int {
	if count <= 4 {
		return count
	}
	return 4
}
