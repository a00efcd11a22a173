package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/jamesainslie/dupescan/pkg/dupescan/report"
	"github.com/jamesainslie/dupescan/pkg/dupescan/types"
)

// ScanModel renders the scan progress screen.
type ScanModel struct {
	progress    types.Progress
	spinner     spinner.Model
	currentPath string
	startTime   time.Time
	width       int
	height      int
	roots       []string
	version     string
	stopping    bool
	done        bool
	err         error
}

// ProgressMsg is sent when scan progress is updated.
type ProgressMsg types.Progress

// ScanCompleteMsg is sent when the scan is complete.
type ScanCompleteMsg struct {
	Report *report.Report
	Err    error
}

// NewScanModel creates a new scanning model.
func NewScanModel(roots []string, version string) ScanModel {
	s := spinner.New()
	s.Spinner = spinner.Points
	s.Style = lipgloss.NewStyle().Foreground(primaryColor)

	return ScanModel{
		spinner:   s,
		startTime: time.Now(),
		width:     80,
		height:    24,
		roots:     roots,
		version:   version,
	}
}

// Init initializes the scanning model.
func (m ScanModel) Init() tea.Cmd {
	return m.spinner.Tick
}

// Update handles messages for the scanning model.
func (m ScanModel) Update(msg tea.Msg) (ScanModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case ProgressMsg:
		m.progress = types.Progress(msg)
		m.currentPath = msg.CurrentPath
		return m, nil

	case ScanCompleteMsg:
		m.done = true
		m.err = msg.Err
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	return m, nil
}

// View renders the scanning model.
func (m ScanModel) View() string {
	var b strings.Builder

	// Calculate content width (accounting for border padding)
	contentWidth := m.width - 4
	if contentWidth < 40 {
		contentWidth = 40
	}

	// Add top margin for visual spacing
	b.WriteString("\n")

	// Header
	header := m.renderHeader(contentWidth)
	b.WriteString(header)
	b.WriteString("\n")
	b.WriteString(renderDivider(contentWidth))
	b.WriteString("\n\n")

	// Scan status
	switch {
	case m.done && m.err != nil:
		b.WriteString(errorTextStyle.Render(fmt.Sprintf("  Error: %v", m.err)))
	case m.done:
		b.WriteString(successTextStyle.Render("  Scan complete!"))
	case m.stopping:
		b.WriteString(warningTextStyle.Render("  Stopping..."))
	default:
		b.WriteString(fmt.Sprintf("  %s %s: %s",
			m.spinner.View(),
			m.stageLabel(),
			truncatePath(m.currentPath, contentWidth-20)))
	}
	b.WriteString("\n")

	// Progress bar
	b.WriteString("\n")
	b.WriteString(m.renderProgressBar(contentWidth))
	b.WriteString("\n\n")

	// Stats boxes
	b.WriteString(m.renderStats(contentWidth))
	b.WriteString("\n")

	// Build content and calculate padding needed to fill screen
	content := b.String()
	contentLines := strings.Count(content, "\n") + 1

	// Account for outer box border (2 lines: top and bottom)
	availableLines := m.height - 2
	if availableLines > contentLines {
		padding := availableLines - contentLines
		content += strings.Repeat("\n", padding)
	}

	// Wrap in outer box with full height
	return outerBoxStyle.Width(m.width - 2).Height(m.height - 2).Render(content)
}

// renderHeader renders the header section.
func (m ScanModel) renderHeader(width int) string {
	title := titleStyle.Render("  dupescan " + m.version)
	hint := mutedTextStyle.Render("[Ctrl+C to stop]")

	// Calculate spacing
	spacing := width - lipgloss.Width(title) - lipgloss.Width(hint)
	if spacing < 1 {
		spacing = 1
	}

	return title + strings.Repeat(" ", spacing) + hint
}

// stageLabel names the current pipeline stage for the status line.
func (m ScanModel) stageLabel() string {
	switch m.progress.Stage {
	case types.StageGroup:
		return "Grouping"
	case types.StageQuick:
		return "Sampling"
	case types.StageFull:
		return "Verifying"
	default:
		return "Scanning"
	}
}

// renderProgressBar renders the stage progress. Traversal has no known
// total, so it animates an indeterminate pulse; the hashing stages show
// position against their candidate counts.
func (m ScanModel) renderProgressBar(width int) string {
	barWidth := width - 4
	if barWidth < 10 {
		barWidth = 10
	}

	if done, total := m.stageProgress(); total > 0 {
		return renderPositionalBar(barWidth, done, total)
	}
	return m.renderPulseBar(barWidth)
}

// stageProgress returns the done/total pair for the current stage.
// Traversal and grouping return a zero total: their extent is unknown
// until they finish. The verification denominator is the sampled count,
// an upper bound until the surviving set is known.
func (m ScanModel) stageProgress() (int64, int64) {
	switch m.progress.Stage {
	case types.StageQuick:
		return m.progress.QuickHashed, m.progress.Candidates
	case types.StageFull:
		return m.progress.FullHashed, m.progress.QuickHashed
	default:
		return 0, 0
	}
}

// renderPositionalBar renders a done/total progress bar.
func renderPositionalBar(barWidth int, done, total int64) string {
	pct := float64(done) / float64(total)
	if pct > 1 {
		pct = 1
	}

	filled := int(pct * float64(barWidth))
	if filled > barWidth {
		filled = barWidth
	}

	var bar strings.Builder
	bar.WriteString("  ")
	bar.WriteString(progressFillStyle.Render(strings.Repeat("█", filled)))
	bar.WriteString(progressEmptyStyle.Render(strings.Repeat("░", barWidth-filled)))
	bar.WriteString(fmt.Sprintf(" %d%%", int(pct*100)))

	return bar.String()
}

// renderPulseBar renders an animated indeterminate progress bar.
func (m ScanModel) renderPulseBar(barWidth int) string {
	// Derive the pulse position from elapsed time
	elapsed := time.Since(m.startTime)
	position := int(elapsed.Seconds()*2) % (barWidth * 2)
	if position > barWidth {
		position = barWidth*2 - position
	}

	var bar strings.Builder
	bar.WriteString("  ")

	pulseWidth := barWidth / 5
	if pulseWidth < 3 {
		pulseWidth = 3
	}

	for i := range barWidth {
		dist := i - position
		if dist < 0 {
			dist = -dist
		}
		if dist < pulseWidth {
			bar.WriteString(progressFillStyle.Render("█"))
		} else {
			bar.WriteString(progressEmptyStyle.Render("░"))
		}
	}

	return bar.String()
}

// renderStats renders the statistics boxes.
func (m ScanModel) renderStats(totalWidth int) string {
	// Calculate box width (5 boxes with spacing)
	boxWidth := (totalWidth - 12) / 5
	if boxWidth < 10 {
		boxWidth = 10
	}

	// Format values
	filesVal := humanize.Comma(m.progress.FilesScanned)
	candidatesVal := humanize.Comma(m.progress.Candidates)
	hashedVal := humanize.Comma(m.progress.FullHashed)
	readVal := types.FormatSize(m.progress.BytesHashed)
	elapsedVal := formatDuration(time.Since(m.startTime))

	// Create stats boxes
	filesBox := m.renderStatBox("Files", filesVal, boxWidth)
	candidatesBox := m.renderStatBox("Candidates", candidatesVal, boxWidth)
	hashedBox := m.renderStatBox("Hashed", hashedVal, boxWidth)
	readBox := m.renderStatBox("Read", readVal, boxWidth)
	elapsedBox := m.renderStatBox("Time", elapsedVal, boxWidth)

	// Join horizontally
	return lipgloss.JoinHorizontal(lipgloss.Top,
		"  ", filesBox, " ", candidatesBox, " ", hashedBox, " ", readBox, " ", elapsedBox)
}

// renderStatBox renders a single stat box.
func (m ScanModel) renderStatBox(label, value string, width int) string {
	labelStr := statsLabelStyle.Render(label)
	valueStr := statsValueStyle.Render(value)

	content := lipgloss.JoinVertical(lipgloss.Center,
		center(labelStr, width-4),
		center(valueStr, width-4))

	return statsBoxStyle.Width(width).Render(content)
}

// formatDuration formats a duration as M:SS.
func formatDuration(d time.Duration) string {
	d = d.Round(time.Second)
	m := d / time.Minute
	s := (d % time.Minute) / time.Second
	return fmt.Sprintf("%d:%02d", m, s)
}

// SetProgress updates the progress.
func (m *ScanModel) SetProgress(p types.Progress) {
	m.progress = p
	m.currentPath = p.CurrentPath
}

// SetStopping marks the scan as cancelled, pending pipeline shutdown.
func (m *ScanModel) SetStopping() {
	m.stopping = true
}

// SetDone marks the scan as complete.
func (m *ScanModel) SetDone(err error) {
	m.done = true
	m.err = err
}

// IsDone returns true if the scan is complete.
func (m ScanModel) IsDone() bool {
	return m.done
}

// Error returns any error from the scan.
func (m ScanModel) Error() error {
	return m.err
}
