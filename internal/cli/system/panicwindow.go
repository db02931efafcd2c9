package system

import (
	"context"
	"errors"
	"sync"

	"github.com/julianstephens/breakreel/internal/logger"
	"github.com/julianstephens/breakreel/internal/models"
)

// panicWindow is the wizard's main window: the "Panic! Stop" dialog.
// Hide closes the dialog until Restore reopens it; Minimize leaves it up,
// since a native dialog cannot be iconified.
type panicWindow struct {
	mu           sync.Mutex
	hidden       bool
	restored     chan struct{}
	cancelDialog context.CancelFunc
}

func newPanicWindow() *panicWindow {
	return &panicWindow{}
}

func (w *panicWindow) Minimize() error {
	return nil
}

func (w *panicWindow) Hide() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.hidden {
		return nil
	}
	w.hidden = true
	w.restored = make(chan struct{})
	if w.cancelDialog != nil {
		w.cancelDialog()
	}
	return nil
}

func (w *panicWindow) Restore() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.hidden {
		w.hidden = false
		close(w.restored)
	}
	return nil
}

// open waits while the window is hidden and returns the context the next
// dialog runs under. ok is false once ctx is done.
func (w *panicWindow) open(ctx context.Context) (dialogCtx context.Context, ok bool) {
	for {
		w.mu.Lock()
		if !w.hidden {
			dialogCtx, w.cancelDialog = context.WithCancel(ctx)
			w.mu.Unlock()
			return dialogCtx, true
		}
		restored := w.restored
		w.mu.Unlock()

		select {
		case <-restored:
		case <-ctx.Done():
			return nil, false
		}
	}
}

// waitForPanic keeps the panic button up until it is pressed (true) or ctx
// ends (false). A dialog that cannot be shown leaves only ctx to end the wait.
func (w *panicWindow) waitForPanic(ctx context.Context, cfg models.SessionConfig) bool {
	for {
		dialogCtx, ok := w.open(ctx)
		if !ok {
			return false
		}
		err := panicButtonFunc(dialogCtx, cfg)

		w.mu.Lock()
		w.cancelDialog()
		w.cancelDialog = nil
		w.mu.Unlock()

		switch {
		case ctx.Err() != nil:
			return false
		case err == nil:
			return true
		case errors.Is(err, context.Canceled):
			// Closed for a video in hide mode; reopen after it.
			continue
		default:
			logger.Warn("Panic button unavailable, waiting for a signal", "error", err)
			printStopHint()
			<-ctx.Done()
			return false
		}
	}
}
