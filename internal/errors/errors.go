package errors

import (
	"errors"
	"fmt"
	"os"

	"github.com/julianstephens/breakreel/internal/logger"
)

var (
	// ErrConfigInvalid is returned when a session config is incomplete or malformed
	ErrConfigInvalid = errors.New("invalid session config")
	// ErrMediaNotFound is returned when no video matches under the media folder
	ErrMediaNotFound = errors.New("no video files found")
	// ErrPlaybackFailed is returned when a media engine reports an error
	ErrPlaybackFailed = errors.New("playback failed")
	// ErrFileMissing is returned when a media file no longer exists at play time
	ErrFileMissing = errors.New("file does not exist")
	// ErrNoEngine is returned when no usable media engine is installed
	ErrNoEngine = errors.New("no media engine available")
	// ErrSessionActive is returned when a session is started while another one runs
	ErrSessionActive = errors.New("a session is already running")
)

// Format formats an error message with a consistent "Error: " prefix
func Format(err error) string {
	if err == nil {
		return ""
	}
	return fmt.Sprintf("Error: %v", err)
}

// Fatal logs an error and exits the program with exit code 1
func Fatal(err error) {
	if err != nil {
		logger.Error("Command execution failed", "error", err)
		fmt.Fprintf(os.Stderr, "%s\n", Format(err))
		os.Exit(1)
	}
}

// IsTickError reports whether err is one of the per-tick failures that
// the scheduler logs and skips rather than treating as fatal.
func IsTickError(err error) bool {
	return errors.Is(err, ErrMediaNotFound) ||
		errors.Is(err, ErrPlaybackFailed) ||
		errors.Is(err, ErrFileMissing) ||
		errors.Is(err, ErrNoEngine)
}
