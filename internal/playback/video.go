package playback

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/julianstephens/breakreel/internal/constants"
	apperrors "github.com/julianstephens/breakreel/internal/errors"
	"github.com/julianstephens/breakreel/internal/logger"
)

// Outcome is how a video presentation ended.
type Outcome int

const (
	OutcomeDone Outcome = iota
	OutcomeCancelled
	OutcomeFailed
)

func (o Outcome) String() string {
	switch o {
	case OutcomeDone:
		return "done"
	case OutcomeCancelled:
		return "cancelled"
	case OutcomeFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Window is the main application window that gets out of the way while a video plays.
// Implementations must be safe to call from the scheduler goroutine.
type Window interface {
	Minimize() error
	Hide() error
	Restore() error
}

// SurfaceOptions are the attributes of a presentation surface.
type SurfaceOptions struct {
	Fullscreen    bool
	AlwaysOnTop   bool
	InputDisabled bool
	CursorHidden  bool
	Background    string
}

// DefaultSurfaceOptions is a full-screen, on-top, input-less, cursor-less black surface.
func DefaultSurfaceOptions() SurfaceOptions {
	return SurfaceOptions{
		Fullscreen:    true,
		AlwaysOnTop:   true,
		InputDisabled: true,
		CursorHidden:  true,
		Background:    constants.SurfaceBackground,
	}
}

// Playback is a video bound to a surface.
type Playback interface {
	// Done is closed when playback ends for any reason.
	Done() <-chan struct{}
	// Err is the engine error once Done is closed, nil on a clean finish.
	Err() error
	Stop() error
}

// Surface is the overlay a video is rendered on.
type Surface interface {
	Play(path string) (Playback, error)
	Close() error
}

// SurfaceFactory creates presentation surfaces.
type SurfaceFactory interface {
	NewSurface(opts SurfaceOptions) (Surface, error)
}

// Presenter plays one video at a time on a fresh presentation surface.
type Presenter struct {
	window       Window
	surfaces     SurfaceFactory
	options      SurfaceOptions
	clock        clockwork.Clock
	startupGrace time.Duration
}

// PresenterOption configures a Presenter.
type PresenterOption func(*Presenter)

// WithClock sets the clock used for the startup grace period.
func WithClock(clock clockwork.Clock) PresenterOption {
	return func(p *Presenter) {
		p.clock = clock
	}
}

// WithStartupGrace sets how long an engine must run before a clean exit counts
// as a finished video. Some engines exit 0 on files they cannot decode.
func WithStartupGrace(d time.Duration) PresenterOption {
	return func(p *Presenter) {
		p.startupGrace = d
	}
}

// WithSurfaceOptions overrides the surface attributes.
func WithSurfaceOptions(opts SurfaceOptions) PresenterOption {
	return func(p *Presenter) {
		p.options = opts
	}
}

// NewPresenter creates a presenter. A nil window is treated as no window at all.
func NewPresenter(window Window, surfaces SurfaceFactory, opts ...PresenterOption) *Presenter {
	if window == nil {
		window = NopWindow{}
	}
	p := &Presenter{
		window:       window,
		surfaces:     surfaces,
		options:      DefaultSurfaceOptions(),
		clock:        clockwork.NewRealClock(),
		startupGrace: constants.DefaultStartupGrace,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Play shows the video full-screen until it ends or ctx is cancelled. The main
// window is restored and the surface destroyed on every path that got past
// the existence check.
func (p *Presenter) Play(ctx context.Context, path string, mode constants.HideMode) (Outcome, error) {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return OutcomeFailed, fmt.Errorf("%w: %s", apperrors.ErrFileMissing, path)
		}
		return OutcomeFailed, fmt.Errorf("%w: %v", apperrors.ErrFileMissing, err)
	}
	if ctx.Err() != nil {
		return OutcomeCancelled, nil
	}

	if err := p.hideWindow(mode); err != nil {
		logger.Warn("Failed to hide main window", "mode", mode, "error", err)
	}
	defer func() {
		if err := p.window.Restore(); err != nil {
			logger.Warn("Failed to restore main window", "error", err)
		}
	}()

	surface, err := p.surfaces.NewSurface(p.options)
	if err != nil {
		return OutcomeFailed, fmt.Errorf("creating presentation surface: %w", err)
	}
	defer func() {
		if err := surface.Close(); err != nil {
			logger.Warn("Failed to close presentation surface", "error", err)
		}
	}()

	started := p.clock.Now()
	playback, err := surface.Play(path)
	if err != nil {
		return OutcomeFailed, err
	}
	defer func() {
		if err := playback.Stop(); err != nil {
			logger.Warn("Failed to stop video", "path", path, "error", err)
		}
	}()

	select {
	case <-playback.Done():
		if err := playback.Err(); err != nil {
			return OutcomeFailed, err
		}
		if p.clock.Since(started) < p.startupGrace {
			return OutcomeFailed, fmt.Errorf("%w: engine exited during startup", apperrors.ErrPlaybackFailed)
		}
		return OutcomeDone, nil
	case <-ctx.Done():
		if err := playback.Stop(); err != nil {
			logger.Warn("Failed to stop video", "path", path, "error", err)
		}
		return OutcomeCancelled, nil
	}
}

func (p *Presenter) hideWindow(mode constants.HideMode) error {
	if mode == constants.HideHide {
		return p.window.Hide()
	}
	return p.window.Minimize()
}

// NopWindow is used when no persistent main window exists.
type NopWindow struct{}

func (NopWindow) Minimize() error { return nil }
func (NopWindow) Hide() error     { return nil }
func (NopWindow) Restore() error  { return nil }
