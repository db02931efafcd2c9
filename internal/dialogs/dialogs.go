package dialogs

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/ncruces/zenity"

	"github.com/julianstephens/breakreel/internal/constants"
	apperrors "github.com/julianstephens/breakreel/internal/errors"
	"github.com/julianstephens/breakreel/internal/models"
)

// ErrCanceled is returned when the user closes or cancels a dialog.
var ErrCanceled = zenity.ErrCanceled

var (
	selectFileFunc = zenity.SelectFile
	entryFunc      = zenity.Entry
	questionFunc   = zenity.Question
	infoFunc       = zenity.Info
	errorFunc      = zenity.Error
)

const title = "breakreel"

// SelectFolder asks for the folder videos are picked from.
func SelectFolder(initial string) (string, error) {
	opts := []zenity.Option{zenity.Directory(), zenity.Title("Select the video folder")}
	if initial != "" {
		opts = append(opts, zenity.Filename(initial))
	}
	return selectFileFunc(opts...)
}

// SelectAudio asks for the alarm file, filtered to the supported formats.
func SelectAudio(initial string) (string, error) {
	patterns := make([]string, 0, len(constants.AudioExtensions))
	for _, ext := range constants.AudioExtensions {
		patterns = append(patterns, "*"+ext)
	}
	opts := []zenity.Option{
		zenity.Title("Select the alarm sound"),
		zenity.FileFilters{{Name: "Audio files", Patterns: patterns}},
	}
	if initial != "" {
		opts = append(opts, zenity.Filename(initial))
	}
	return selectFileFunc(opts...)
}

// AskInterval asks for the interval in minutes. Unparseable or non-positive
// input yields ErrConfigInvalid.
func AskInterval(initialMinutes float64) (float64, error) {
	if initialMinutes <= 0 {
		initialMinutes = constants.DefaultIntervalMinutes
	}
	text, err := entryFunc("Interval between videos (minutes):",
		zenity.Title(title),
		zenity.EntryText(strconv.FormatFloat(initialMinutes, 'f', -1, 64)),
	)
	if err != nil {
		return 0, err
	}
	return models.ParseIntervalMinutes(text)
}

// AskHideMode asks what to do with the main window while a video plays.
func AskHideMode(current constants.HideMode) (constants.HideMode, error) {
	text := "While a video plays, should the control window be minimized or hidden?"
	if current != "" {
		text += fmt.Sprintf("\n\nLast time: %s", current)
	}
	err := questionFunc(text,
		zenity.Title(title),
		zenity.OKLabel("Minimize"),
		zenity.ExtraButton("Hide"),
		zenity.CancelLabel("Cancel"),
	)
	switch {
	case err == nil:
		return constants.HideMinimize, nil
	case errors.Is(err, zenity.ErrExtraButton):
		return constants.HideHide, nil
	default:
		return "", err
	}
}

// Collect runs the full dialog sequence, pre-filled from last, and returns
// a validated config.
func Collect(last models.SessionConfig) (models.SessionConfig, error) {
	folder, err := SelectFolder(last.MediaFolder)
	if err != nil {
		return models.SessionConfig{}, err
	}
	audio, err := SelectAudio(last.AudioFile)
	if err != nil {
		return models.SessionConfig{}, err
	}
	minutes, err := AskInterval(last.IntervalMinutes())
	if err != nil {
		return models.SessionConfig{}, err
	}
	mode, err := AskHideMode(last.HideMode)
	if err != nil {
		return models.SessionConfig{}, err
	}

	cfg := models.NewSessionConfig(folder, audio, minutes, mode)
	cfg.InterruptAlarm = last.InterruptAlarm
	if err := cfg.Validate(); err != nil {
		return models.SessionConfig{}, err
	}
	return cfg, nil
}

// PanicButton blocks until the user presses the stop button (nil) or ctx
// ends (ctx.Err()).
func PanicButton(ctx context.Context, cfg models.SessionConfig) error {
	text := fmt.Sprintf("A video from %s plays every %s min.\n\nPress the button to stop.",
		cfg.MediaFolder, strconv.FormatFloat(cfg.IntervalMinutes(), 'f', -1, 64))
	err := infoFunc(text,
		zenity.Title(title),
		zenity.OKLabel("Panic! Stop"),
		zenity.Context(ctx),
	)
	if ctx.Err() != nil {
		return ctx.Err()
	}
	if errors.Is(err, zenity.ErrCanceled) {
		// Closing the window counts as pressing the button.
		return nil
	}
	return err
}

// ShowInfo shows a message.
func ShowInfo(msg string) error {
	return infoFunc(msg, zenity.Title(title))
}

// ShowError shows err, stripping the sentinel prefix of invalid configs.
func ShowError(err error) error {
	msg := err.Error()
	if errors.Is(err, apperrors.ErrConfigInvalid) {
		msg = strings.TrimPrefix(msg, apperrors.ErrConfigInvalid.Error()+": ")
	}
	return errorFunc(msg, zenity.Title(title))
}
