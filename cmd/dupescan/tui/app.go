package tui

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/jamesainslie/dupescan/pkg/dupescan/pipeline"
	"github.com/jamesainslie/dupescan/pkg/dupescan/report"
	"github.com/jamesainslie/dupescan/pkg/dupescan/types"
)

// Options configures the TUI application.
type Options struct {
	// Pipeline configures the scan driven behind the progress screen.
	Pipeline pipeline.Options

	// Version is shown in the header.
	Version string
}

// Model is the main Bubble Tea model for the dupescan TUI.
type Model struct {
	scanModel ScanModel
	options   Options

	// Scanning state
	ctx          context.Context
	cancel       context.CancelFunc
	scanDone     bool
	scanErr      error
	report       *report.Report
	progressChan chan types.Progress

	// Window dimensions
	width  int
	height int
}

// NewModel creates a new TUI model with the given options.
func NewModel(opts Options) Model {
	ctx, cancel := context.WithCancel(context.Background())

	return Model{
		scanModel:    NewScanModel(opts.Pipeline.Roots, opts.Version),
		options:      opts,
		ctx:          ctx,
		cancel:       cancel,
		width:        80,
		height:       24,
		progressChan: make(chan types.Progress, 100),
	}
}

// Init initializes the model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.scanModel.Init(),
		m.startScan(),
		m.listenForProgress(),
		m.tickUI(),
	)
}

// tickUIMsg triggers a UI refresh.
type tickUIMsg struct{}

// tickUI returns a command that periodically triggers UI updates.
func (m Model) tickUI() tea.Cmd {
	return tea.Tick(50*time.Millisecond, func(time.Time) tea.Msg {
		return tickUIMsg{}
	})
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.scanModel.width = msg.Width
		m.scanModel.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case tickUIMsg:
		// Keep UI refreshing during scanning
		if !m.scanDone {
			return m, m.tickUI()
		}
		return m, nil

	case ProgressMsg:
		m.scanModel.SetProgress(types.Progress(msg))
		// Keep listening for more progress
		return m, m.listenForProgress()

	case ScanCompleteMsg:
		m.scanDone = true
		m.scanErr = msg.Err
		m.report = msg.Report
		m.scanModel.SetDone(msg.Err)
		// Release the terminal; the command renders the report
		return m, tea.Quit

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.scanModel.spinner, cmd = m.scanModel.spinner.Update(msg)
		return m, cmd
	}

	return m, nil
}

// handleKey handles keyboard input. Cancellation keys stop the
// pipeline; the screen stays up until it unwinds and reports back.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "q", "esc":
		m.cancel()
		m.scanModel.SetStopping()
		return m, nil
	}

	return m, nil
}

// View renders the current state.
func (m Model) View() string {
	return m.scanModel.View()
}

// startScan runs the pipeline and feeds progress into the channel.
func (m Model) startScan() tea.Cmd {
	progressChan := m.progressChan
	ctx := m.ctx
	opts := m.options.Pipeline

	return func() tea.Msg {
		opts.OnProgress = func(p types.Progress) {
			select {
			case progressChan <- p:
			default:
				// Channel full, skip this update
			}
		}

		p, err := pipeline.New(opts)
		if err != nil {
			close(progressChan)
			return ScanCompleteMsg{Err: err}
		}

		rep, err := p.Run(ctx)

		// Close progress channel when the scan completes
		close(progressChan)

		if err != nil {
			return ScanCompleteMsg{Err: err}
		}

		return ScanCompleteMsg{Report: rep}
	}
}

// listenForProgress returns a command that waits for progress updates.
func (m Model) listenForProgress() tea.Cmd {
	progressChan := m.progressChan
	return func() tea.Msg {
		p, ok := <-progressChan
		if !ok {
			// Channel closed, scan is done
			return nil
		}
		return ProgressMsg(p)
	}
}

// Run drives a scan behind the progress screen and returns the
// assembled report once the terminal is released. A user-cancelled
// scan returns context.Canceled.
func Run(opts Options) (*report.Report, error) {
	model := NewModel(opts)

	p := tea.NewProgram(model, tea.WithAltScreen())

	final, err := p.Run()
	if err != nil {
		return nil, err
	}

	m, ok := final.(Model)
	if !ok {
		return nil, fmt.Errorf("unexpected final model type %T", final)
	}
	if m.scanErr != nil {
		return nil, m.scanErr
	}
	if m.report == nil {
		return nil, context.Canceled
	}

	return m.report, nil
}
