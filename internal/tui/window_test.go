package tui

import (
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/breakreel/internal/constants"
	"github.com/julianstephens/breakreel/internal/playback"
	"github.com/julianstephens/breakreel/internal/scheduler"
)

var _ playback.Window = (*Window)(nil)

type fakeProgram struct {
	sent       []tea.Msg
	released   int
	restored   int
	releaseErr error
}

func (p *fakeProgram) Send(msg tea.Msg) {
	p.sent = append(p.sent, msg)
}

func (p *fakeProgram) ReleaseTerminal() error {
	if p.releaseErr != nil {
		return p.releaseErr
	}
	p.released++
	return nil
}

func (p *fakeProgram) RestoreTerminal() error {
	p.restored++
	return nil
}

func TestWindowBeforeAttach(t *testing.T) {
	w := NewWindow()
	for name, fn := range map[string]func() error{"Minimize": w.Minimize, "Hide": w.Hide, "Restore": w.Restore} {
		if err := fn(); err != nil {
			t.Errorf("%s() before Attach = %v", name, err)
		}
	}
	w.Observer()(scheduler.StateChange{State: constants.StateWaiting})
}

func TestWindowMinimizeAndRestore(t *testing.T) {
	p := &fakeProgram{}
	w := NewWindow()
	w.Attach(p)

	if err := w.Minimize(); err != nil {
		t.Fatalf("Minimize() = %v", err)
	}
	if err := w.Restore(); err != nil {
		t.Fatalf("Restore() = %v", err)
	}

	if len(p.sent) != 2 || p.sent[0] != CompactMsg(true) || p.sent[1] != CompactMsg(false) {
		t.Errorf("sent = %v", p.sent)
	}
	if p.released != 0 || p.restored != 0 {
		t.Error("minimize must not release the terminal")
	}
}

func TestWindowHideAndRestore(t *testing.T) {
	p := &fakeProgram{}
	w := NewWindow()
	w.Attach(p)

	if err := w.Hide(); err != nil {
		t.Fatalf("Hide() = %v", err)
	}
	if err := w.Hide(); err != nil {
		t.Fatalf("second Hide() = %v", err)
	}
	if p.released != 1 {
		t.Errorf("released %d times, want 1", p.released)
	}

	if err := w.Restore(); err != nil {
		t.Fatalf("Restore() = %v", err)
	}
	if err := w.Restore(); err != nil {
		t.Fatalf("second Restore() = %v", err)
	}
	if p.restored != 1 {
		t.Errorf("restored %d times, want 1", p.restored)
	}
}

func TestWindowHideFailure(t *testing.T) {
	p := &fakeProgram{releaseErr: errors.New("no tty")}
	w := NewWindow()
	w.Attach(p)

	if err := w.Hide(); err == nil {
		t.Fatal("Hide() should report the release failure")
	}
	if err := w.Restore(); err != nil {
		t.Fatalf("Restore() = %v", err)
	}
	if p.restored != 0 {
		t.Error("nothing was released, so nothing should be restored")
	}
}

func TestWindowObserver(t *testing.T) {
	p := &fakeProgram{}
	w := NewWindow()
	w.Attach(p)

	change := scheduler.StateChange{SessionID: "abc", State: constants.StatePlayingAudio, Ticks: 1}
	w.Observer()(change)

	if len(p.sent) != 1 {
		t.Fatalf("sent = %v", p.sent)
	}
	got, ok := p.sent[0].(StateMsg)
	if !ok || got.SessionID != "abc" || got.State != constants.StatePlayingAudio {
		t.Errorf("sent %#v", p.sent[0])
	}
}
