package tui

import (
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/breakreel/internal/scheduler"
)

// Program is the part of *tea.Program the panel window drives.
type Program interface {
	Send(msg tea.Msg)
	ReleaseTerminal() error
	RestoreTerminal() error
}

// Window treats the running panel as the main window: minimize switches to
// the compact view, hide gives the terminal back until Restore. It is safe
// to call from the scheduler goroutine.
type Window struct {
	mu      sync.Mutex
	program Program
	hidden  bool
}

func NewWindow() *Window {
	return &Window{}
}

// Attach binds the window to a program. Calls before Attach are no-ops.
func (w *Window) Attach(p Program) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.program = p
}

func (w *Window) Minimize() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.program != nil {
		w.program.Send(CompactMsg(true))
	}
	return nil
}

func (w *Window) Hide() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.program == nil || w.hidden {
		return nil
	}
	if err := w.program.ReleaseTerminal(); err != nil {
		return err
	}
	w.hidden = true
	return nil
}

func (w *Window) Restore() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.program == nil {
		return nil
	}
	if w.hidden {
		if err := w.program.RestoreTerminal(); err != nil {
			return err
		}
		w.hidden = false
	}
	w.program.Send(CompactMsg(false))
	return nil
}

// Observer forwards scheduler transitions into the program.
func (w *Window) Observer() func(scheduler.StateChange) {
	return func(change scheduler.StateChange) {
		w.mu.Lock()
		p := w.program
		w.mu.Unlock()
		if p != nil {
			p.Send(StateMsg(change))
		}
	}
}
