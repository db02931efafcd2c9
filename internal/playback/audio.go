package playback

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"

	apperrors "github.com/julianstephens/breakreel/internal/errors"
	"github.com/julianstephens/breakreel/internal/logger"
)

// AlarmPlayer plays the alarm through an external audio engine.
type AlarmPlayer struct {
	engine string
}

// NewAlarmPlayer returns a player for the named engine; "auto" picks the first one installed.
func NewAlarmPlayer(engine string) *AlarmPlayer {
	return &AlarmPlayer{engine: engine}
}

// Play blocks until the clip has finished. Cancelling ctx stops it early, so
// callers that want the alarm to always sound pass a context without cancellation.
func (a *AlarmPlayer) Play(ctx context.Context, path string) error {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("%w: %s", apperrors.ErrFileMissing, path)
		}
		return fmt.Errorf("%w: %v", apperrors.ErrFileMissing, err)
	}

	name, binary, err := ResolveAlarmEngine(a.engine, path)
	if err != nil {
		return err
	}

	logger.Debug("Playing alarm", "engine", name, "path", path)
	p, err := startProcess(name, binary, audioArgs(name, path)...)
	if err != nil {
		return err
	}

	select {
	case <-p.Done():
		return p.Err()
	case <-ctx.Done():
		if err := p.Stop(); err != nil {
			logger.Warn("Failed to stop alarm", "error", err)
		}
		return ctx.Err()
	}
}
