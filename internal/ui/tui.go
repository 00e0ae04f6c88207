// ABOUTME: TUI initialization and control
// ABOUTME: Wraps the bubbletea program and feeds it transcode progress
package ui

import (
	"sync"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/vagcodec/vag-go/internal/transcode"
)

// ProgressUI shows transcode progress. It implements transcode.Reporter.
type ProgressUI struct {
	program   *tea.Program
	updates   chan transcode.Progress
	quitChan  chan struct{} // Signal to abort the transcode
	closeOnce sync.Once
}

// NewProgressUI creates the progress TUI for one transcode
func NewProgressUI(input, output string) *ProgressUI {
	quitChan := make(chan struct{}, 1)
	return &ProgressUI{
		program:  tea.NewProgram(NewModel(input, output, quitChan)),
		updates:  make(chan transcode.Progress, 10),
		quitChan: quitChan,
	}
}

// Start runs the TUI until the transcode finishes or the user quits
func (t *ProgressUI) Start() error {
	// Start listening for updates in a goroutine
	go func() {
		for p := range t.updates {
			t.program.Send(StatusMsg(p))
		}
	}()

	_, err := t.program.Run()
	return err
}

// Report sends a progress snapshot to the TUI
func (t *ProgressUI) Report(p transcode.Progress) {
	select {
	case t.updates <- p:
	default:
		// Don't block if channel is full
	}
}

// Finish shows the outcome and lets the TUI exit. Report must not be
// called afterwards.
func (t *ProgressUI) Finish(res transcode.Result, err error) {
	t.closeOnce.Do(func() { close(t.updates) })
	t.program.Send(DoneMsg{Result: res, Err: err})
}

// Stop stops the TUI without waiting for the transcode
func (t *ProgressUI) Stop() {
	t.program.Quit()
}

// QuitChan returns the channel that signals when user wants to quit
func (t *ProgressUI) QuitChan() <-chan struct{} {
	return t.quitChan
}
