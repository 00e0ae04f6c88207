// ABOUTME: Bubbletea model for the transcode progress TUI
// ABOUTME: Defines progress state and update logic
package ui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/vagcodec/vag-go/internal/transcode"
	"github.com/vagcodec/vag-go/pkg/audio"
)

const barWidth = 30

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("205"))

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("86"))

	valueStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("250"))

	errorStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("196"))

	helpStyle = lipgloss.NewStyle().Faint(true)
)

// Model represents the TUI state
type Model struct {
	input  string
	output string

	// Stream
	codec      string
	sampleRate int
	channels   int
	bitDepth   int
	title      string

	// Progress
	packets  int
	skipped  int
	chunks   int
	bytes    int64
	fraction float64 // -1 when the length is unknown

	// Outcome
	done     bool
	err      error
	quitting bool

	startTime time.Time
	elapsed   time.Duration
	quitChan  chan struct{}
}

// StatusMsg carries a progress snapshot to the model
type StatusMsg transcode.Progress

// DoneMsg reports the end of the transcode
type DoneMsg struct {
	Result transcode.Result
	Err    error
}

type tickMsg time.Time

// NewModel creates a new TUI model
func NewModel(input, output string, quitChan chan struct{}) Model {
	return Model{
		input:     input,
		output:    output,
		fraction:  -1,
		startTime: time.Now(),
		quitChan:  quitChan,
	}
}

// Init starts the elapsed time ticker
func (m Model) Init() tea.Cmd {
	return tickEvery()
}

func tickEvery() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// Update handles messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tickMsg:
		if m.done {
			return m, nil
		}
		m.elapsed = time.Since(m.startTime).Round(time.Second)
		return m, tickEvery()
	case StatusMsg:
		// Snapshots still queued after DoneMsg are stale
		if !m.done {
			m.applyStatus(msg)
		}
	case DoneMsg:
		m.done = true
		m.err = msg.Err
		m.packets = msg.Result.Packets
		m.skipped = msg.Result.Skipped
		m.chunks = msg.Result.Chunks
		m.bytes = msg.Result.Bytes
		if msg.Err == nil && m.fraction >= 0 {
			m.fraction = 1
		}
		m.elapsed = time.Since(m.startTime).Round(time.Millisecond)
		return m, tea.Quit
	}

	return m, nil
}

// handleKey handles keyboard input
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		m.quitting = true
		// Signal the transcoder to stop
		select {
		case m.quitChan <- struct{}{}:
		default:
		}
		return m, tea.Quit
	}
	return m, nil
}

// applyStatus updates model from status message
func (m *Model) applyStatus(msg StatusMsg) {
	if msg.Format.Codec != "" {
		m.codec = msg.Format.Codec
		m.sampleRate = msg.Format.SampleRate
		m.channels = msg.Format.Channels
		m.bitDepth = msg.Format.BitDepth
	}
	if msg.Title != "" {
		m.title = msg.Title
	}
	m.packets = msg.Packets
	m.skipped = msg.Skipped
	m.chunks = msg.Chunks
	m.bytes = msg.Bytes
	m.fraction = transcode.Progress(msg).Fraction()
}

// View renders the TUI
func (m Model) View() string {
	if m.quitting {
		return "Aborting transcode...\n"
	}

	var b strings.Builder

	b.WriteString(titleStyle.Render("VAG Encoder"))
	b.WriteString("\n\n")

	field := func(name, value string) {
		b.WriteString(headerStyle.Render(fmt.Sprintf("%-9s", name+":")))
		b.WriteString(valueStyle.Render(value))
		b.WriteString("\n")
	}

	field("Input", truncate(m.input, 48))
	field("Output", truncate(m.output, 48))
	if m.title != "" {
		field("Title", truncate(m.title, 48))
	}
	if m.codec != "" {
		field("Format", fmt.Sprintf("%s %dHz %s %d-bit",
			m.codec, m.sampleRate, audio.ChannelName(m.channels), m.bitDepth))
	}
	b.WriteString("\n")

	if m.fraction >= 0 {
		b.WriteString(fmt.Sprintf("[%s] %5.1f%%\n", renderBar(m.fraction, barWidth), m.fraction*100))
	} else {
		b.WriteString(fmt.Sprintf("[%s] length unknown\n", strings.Repeat("░", barWidth)))
	}

	field("Packets", fmt.Sprintf("%d (skipped: %d)", m.packets, m.skipped))
	field("Chunks", fmt.Sprintf("%d (%s)", m.chunks, formatBytes(m.bytes)))
	field("Elapsed", m.elapsed.String())
	b.WriteString("\n")

	switch {
	case m.done && m.err != nil:
		b.WriteString(errorStyle.Render("Failed: " + m.err.Error()))
		b.WriteString("\n")
	case m.done:
		b.WriteString(headerStyle.Render("Done"))
		b.WriteString("\n")
	default:
		b.WriteString(helpStyle.Render("Press 'q' or Ctrl+C to abort"))
		b.WriteString("\n")
	}

	return b.String()
}

// Utility functions
func renderBar(fraction float64, width int) string {
	filled := int(fraction * float64(width))
	bar := ""
	for i := 0; i < width; i++ {
		if i < filled {
			bar += "█"
		} else {
			bar += "░"
		}
	}
	return bar
}

func truncate(s string, length int) string {
	if len(s) <= length {
		return s
	}
	return s[:length-3] + "..."
}

func formatBytes(n int64) string {
	switch {
	case n >= 1<<20:
		return fmt.Sprintf("%.1f MiB", float64(n)/(1<<20))
	case n >= 1<<10:
		return fmt.Sprintf("%.1f KiB", float64(n)/(1<<10))
	default:
		return fmt.Sprintf("%d B", n)
	}
}
