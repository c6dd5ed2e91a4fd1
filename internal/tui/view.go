package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"

	"github.com/csheth/boothctl/internal/booth"
	"github.com/csheth/boothctl/internal/guide"
)

const heroTagline = "Guided photo sessions from your terminal."

var (
	titleStyle         = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212"))
	taglineStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("8")).Italic(true)
	sectionHeaderStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	helperStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	errorStyle         = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	statusBarStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("14"))
	burstStyle         = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("11"))
	countdownStyle     = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("15")).
				Background(lipgloss.Color("5")).
				Padding(1, 6)
	previewBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("12")).
			Padding(0, 1)
	photoCellStyle = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder()).
			BorderForeground(lipgloss.Color("8")).
			Padding(0, 2)
	photoCellCursorStyle = lipgloss.NewStyle().
				Border(lipgloss.ThickBorder()).
				BorderForeground(lipgloss.Color("12")).
				Padding(0, 2)
	photoCellPickedStyle = lipgloss.NewStyle().
				Border(lipgloss.NormalBorder()).
				BorderForeground(lipgloss.Color("10")).
				Foreground(lipgloss.Color("10")).
				Padding(0, 2)
	keyStyle     = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("13"))
	keyDescStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

func (m *model) View() string {
	switch m.stage {
	case stageSelection:
		return m.viewSelection()
	case stageResult:
		return m.viewResult()
	case stageGallery:
		return m.viewGallery()
	default:
		return m.viewCapture()
	}
}

func (m *model) viewCapture() string {
	parts := []string{m.headerView()}

	if m.countdown > 0 {
		parts = append(parts, countdownStyle.Render(fmt.Sprintf("  %d  ", m.countdown)))
	} else if m.smile {
		parts = append(parts, countdownStyle.Render("SMILE!"))
	} else {
		parts = append(parts, m.previewView())
	}

	if m.mode == modeAutoRunning {
		if m.burstNote != "" {
			parts = append(parts, burstStyle.Render(m.burstNote))
		}
		parts = append(parts, m.progress.ViewAs(m.burstProgress()))
	} else if m.snapshot.PhotoCount > 0 && !m.snapshot.CaptureComplete {
		parts = append(parts, fmt.Sprintf("%s %s",
			m.progress.ViewAs(m.ui.progressRatio),
			helperStyle.Render(fmt.Sprintf("%d of %d", m.snapshot.PhotoCount, m.ui.captureLimit))))
	}

	parts = append(parts, m.messageLines()...)
	parts = append(parts, m.guideView(), m.keyLegendView())
	return joinNonEmpty(parts)
}

func (m *model) viewSelection() string {
	count := m.snapshot.PhotoCount
	parts := []string{
		m.headerView(),
		sectionHeaderStyle.Render("Select Your Favorites"),
		helperStyle.Render(fmt.Sprintf("Choose %d photos from the %d captured – pick order decides collage placement.", m.sel.limit, count)),
		m.photoGridView(count),
		statusBarStyle.Render(fmt.Sprintf("%d of %d photos selected", m.sel.Len(), m.sel.limit)),
	}
	parts = append(parts, m.messageLines()...)
	parts = append(parts,
		helperStyle.Render("←→↑↓ move • Space pick/release • Enter confirm • Esc cancel"))
	return joinNonEmpty(parts)
}

func (m *model) photoGridView(count int) string {
	if count == 0 {
		return helperStyle.Render("No photos to choose from.")
	}
	cols := selectionColumns(count)
	var rows []string
	for start := 0; start < count; start += cols {
		end := start + cols
		if end > count {
			end = count
		}
		var cells []string
		for i := start; i < end; i++ {
			label := fmt.Sprintf("#%d", i+1)
			style := photoCellStyle
			if rank := m.sel.Rank(i); rank > 0 {
				label = fmt.Sprintf("#%d ✓%d", i+1, rank)
				style = photoCellPickedStyle
			}
			if i == m.selCursor {
				style = photoCellCursorStyle
			}
			cells = append(cells, style.Render(label))
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, cells...))
	}
	return strings.Join(rows, "\n")
}

func (m *model) viewResult() string {
	parts := []string{
		m.headerView(),
		sectionHeaderStyle.Render("Your Collage Is Ready!"),
	}
	if m.collageFile != "" {
		parts = append(parts, fmt.Sprintf("Saved on the booth as %s", keyStyle.Render(m.collageFile)))
	}
	if m.archivedPath != "" {
		parts = append(parts, helperStyle.Render(fmt.Sprintf("Local copy: %s", m.archivedPath)))
	}
	if m.collage != "" {
		parts = append(parts, helperStyle.Render(fmt.Sprintf("Collage image received (%d KB).", len(m.collage)*3/4/1024)))
	}
	parts = append(parts, m.messageLines()...)
	parts = append(parts, helperStyle.Render("r new session • g gallery • Esc back"))
	return joinNonEmpty(parts)
}

func (m *model) viewGallery() string {
	parts := []string{
		m.headerView(),
		sectionHeaderStyle.Render("Gallery"),
		m.galleryViewport.View(),
		helperStyle.Render("↑↓ scroll • Esc close"),
	}
	return joinNonEmpty(parts)
}

func (m *model) renderGalleryEntries() string {
	if len(m.gallery) == 0 {
		return helperStyle.Render("No photos yet!")
	}
	var b strings.Builder
	for _, entry := range m.gallery {
		b.WriteString(keyStyle.Render(entry.Filename))
		b.WriteRune('\n')
		b.WriteString(helperStyle.Render(fmt.Sprintf("  %s • %.1f KB • %s", entry.Created, float64(entry.Size)/1024, entry.DownloadURL)))
		b.WriteRune('\n')
	}
	return b.String()
}

func (m *model) headerView() string {
	link := "○ camera offline"
	if m.wsConnected {
		link = "● live"
	}
	title := lipgloss.JoinHorizontal(lipgloss.Top,
		titleStyle.Render("boothctl"),
		helperStyle.Render("  "+link),
	)
	return lipgloss.JoinVertical(lipgloss.Left, title, taglineStyle.Render(heroTagline))
}

func (m *model) previewView() string {
	if m.previewFrame == "" {
		return previewBoxStyle.Render("waiting for camera preview…")
	}
	body := fmt.Sprintf("LIVE PREVIEW\nframe %d • %d KB", m.frameCount, len(m.previewFrame)*3/4/1024)
	return previewBoxStyle.Render(body)
}

func (m *model) messageLines() []string {
	var parts []string
	if m.errorMessage != "" {
		parts = append(parts, errorStyle.Render(m.errorMessage))
	}
	if m.statusMessage != "" {
		message := m.statusMessage
		if m.busy > 0 {
			message = fmt.Sprintf("%s %s", m.spinner.View(), message)
		}
		parts = append(parts, helperStyle.Render(message))
	}
	if m.ui.statusLine != "" {
		parts = append(parts, statusBarStyle.Render(m.ui.statusLine))
	}
	return parts
}

func (m *model) guideView() string {
	layout := m.layout
	orientation := m.orientation
	if m.snapshot.Active() {
		layout = m.snapshot.Layout
		orientation = m.snapshot.Orientation
	}
	meta := guide.Metadata{
		LayoutLabel:  booth.Label(layout, orientation),
		CaptureLimit: m.ui.captureLimit,
		FinalLimit:   m.ui.finalLimit,
	}
	steps := guide.Build(m.ui.phase, meta)
	if len(steps) == 0 {
		return ""
	}
	wrap := m.wrapWidth()
	var b strings.Builder
	for i, step := range steps {
		b.WriteString(sectionHeaderStyle.Render(step.Title))
		b.WriteRune('\n')
		b.WriteString(helperStyle.Render(wordwrap.String(step.Description, wrap)))
		if i < len(steps)-1 {
			b.WriteRune('\n')
		}
	}
	return b.String()
}

type keyHint struct {
	Key         string
	Description string
}

func (m *model) keyLegendView() string {
	hints := []keyHint{
		{"Space", "Take photo"},
		{"1/2/3", "Layout"},
		{"o", "Orientation"},
		{"m/a", "Manual / auto"},
		{"s/x", "Start / stop burst"},
		{"p", "Select photos"},
		{"g", "Gallery"},
		{"r", "Reset"},
		{"q", "Quit"},
	}
	var cells []string
	for _, hint := range hints {
		cells = append(cells, keyStyle.Render(hint.Key)+keyDescStyle.Render(" "+hint.Description))
	}
	return helperStyle.Render(strings.Join(cells, "  •  "))
}

func (m *model) wrapWidth() int {
	width := m.width - 4
	if width < minPreviewWidth {
		width = minPreviewWidth
	}
	return width
}

func joinNonEmpty(parts []string) string {
	filtered := make([]string, 0, len(parts))
	for _, part := range parts {
		if strings.TrimSpace(part) == "" {
			continue
		}
		filtered = append(filtered, part)
	}
	return strings.Join(filtered, "\n\n")
}
