package models

import (
	"fmt"
	"math"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/julianstephens/breakreel/internal/constants"
	apperrors "github.com/julianstephens/breakreel/internal/errors"
)

// SessionConfig holds what the user chose for one session. It is read-only
// once a session has started.
type SessionConfig struct {
	MediaFolder     string             `json:"media_folder"`     // folder scanned for videos on every tick
	AudioFile       string             `json:"audio_file"`       // alarm played before each video
	IntervalSeconds float64            `json:"interval_seconds"` // wait before each tick
	HideMode        constants.HideMode `json:"hide_mode"`        // what to do with the main window during a video
	InterruptAlarm  bool               `json:"interrupt_alarm"`  // whether stopping the session cuts the alarm short
}

// NewSessionConfig builds a config from the interval in minutes, which is
// how both front-ends ask for it.
func NewSessionConfig(mediaFolder, audioFile string, intervalMinutes float64, mode constants.HideMode) SessionConfig {
	return SessionConfig{
		MediaFolder:     mediaFolder,
		AudioFile:       audioFile,
		IntervalSeconds: intervalMinutes * 60,
		HideMode:        mode,
	}
}

// Interval returns the wait between ticks.
func (c SessionConfig) Interval() time.Duration {
	return time.Duration(c.IntervalSeconds * float64(time.Second))
}

// IntervalMinutes returns the interval the way the front-ends display it.
func (c SessionConfig) IntervalMinutes() float64 {
	return c.IntervalSeconds / 60
}

// Validate rejects configs that must not be scheduled.
func (c SessionConfig) Validate() error {
	if strings.TrimSpace(c.MediaFolder) == "" {
		return fmt.Errorf("%w: video folder not selected", apperrors.ErrConfigInvalid)
	}
	if strings.TrimSpace(c.AudioFile) == "" {
		return fmt.Errorf("%w: audio file not selected", apperrors.ErrConfigInvalid)
	}
	if !slices.Contains(constants.AudioExtensions, strings.ToLower(filepath.Ext(c.AudioFile))) {
		return fmt.Errorf("%w: audio file must be one of %s", apperrors.ErrConfigInvalid, strings.Join(constants.AudioExtensions, ", "))
	}
	if math.IsNaN(c.IntervalSeconds) || math.IsInf(c.IntervalSeconds, 0) || c.IntervalSeconds <= 0 {
		return fmt.Errorf("%w: interval must be a positive number", apperrors.ErrConfigInvalid)
	}
	if c.Interval() <= 0 {
		return fmt.Errorf("%w: interval is too small", apperrors.ErrConfigInvalid)
	}
	switch c.HideMode {
	case constants.HideMinimize, constants.HideHide:
	default:
		return fmt.Errorf("%w: unknown hide mode %q", apperrors.ErrConfigInvalid, c.HideMode)
	}
	return nil
}

// ParseHideMode maps user input to a HideMode; empty input yields the default.
func ParseHideMode(s string) (constants.HideMode, error) {
	switch constants.HideMode(strings.ToLower(strings.TrimSpace(s))) {
	case "":
		return constants.DefaultHideMode, nil
	case constants.HideMinimize:
		return constants.HideMinimize, nil
	case constants.HideHide:
		return constants.HideHide, nil
	}
	return "", fmt.Errorf("%w: unknown hide mode %q", apperrors.ErrConfigInvalid, s)
}

// ParseIntervalMinutes parses the interval entry of a front-end.
func ParseIntervalMinutes(s string) (float64, error) {
	minutes, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, fmt.Errorf("%w: invalid interval provided", apperrors.ErrConfigInvalid)
	}
	if math.IsNaN(minutes) || math.IsInf(minutes, 0) || minutes <= 0 {
		return 0, fmt.Errorf("%w: interval must be a positive number", apperrors.ErrConfigInvalid)
	}
	return minutes, nil
}
