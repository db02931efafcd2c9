package tui

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/julianstephens/breakreel/internal/constants"
	"github.com/julianstephens/breakreel/internal/dialogs"
	apperrors "github.com/julianstephens/breakreel/internal/errors"
	"github.com/julianstephens/breakreel/internal/logger"
	"github.com/julianstephens/breakreel/internal/models"
)

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.progress.Width = min(max(msg.Width-12, 10), 60)
		return m, nil

	case tickMsg:
		m.now = time.Time(msg)
		return m, tick()

	case StateMsg:
		return m.handleState(msg), nil

	case CompactMsg:
		m.compact = bool(msg)
		return m, nil

	case sessionDoneMsg:
		return m.handleSessionDone(msg), nil

	case pickedMsg:
		return m.handlePicked(msg), nil
	}

	switch m.view {
	case viewEdit:
		return m.updateEdit(msg)
	case viewConfirmQuit:
		return m.updateConfirmQuit(msg)
	}

	if msg, ok := msg.(tea.KeyMsg); ok {
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.view = viewConfirmQuit
		return m, nil

	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil

	case key.Matches(msg, m.keys.Panic):
		return m.stop()

	case key.Matches(msg, m.keys.Start):
		return m.start()
	}

	if m.running() {
		if key.Matches(msg, m.keys.Folder, m.keys.Audio, m.keys.Edit, m.keys.Mode) {
			m.setStatus("Settings are locked while a session runs. Press p to stop it first.", true)
		}
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Folder):
		return m, pickFolder(m.cfg.MediaFolder)
	case key.Matches(msg, m.keys.Audio):
		return m, pickAudio(m.cfg.AudioFile)
	case key.Matches(msg, m.keys.Mode):
		if m.cfg.HideMode == constants.HideHide {
			m.cfg.HideMode = constants.HideMinimize
		} else {
			m.cfg.HideMode = constants.HideHide
		}
		m.setStatus(fmt.Sprintf("Hide mode: %s", m.cfg.HideMode), false)
		return m, nil
	case key.Matches(msg, m.keys.Edit):
		m.editForm = newEditFormModel(m.cfg)
		m.form = NewEditForm(m.editForm)
		m.view = viewEdit
		return m, m.form.Init()
	}
	return m, nil
}

func (m Model) start() (tea.Model, tea.Cmd) {
	if m.running() {
		m.setStatus("A session is already running.", true)
		return m, nil
	}

	session, err := m.sessions.Start(m.cfg)
	if err != nil {
		logger.Warn("Failed to start session", "error", err)
		m.setStatus(userMessage(err), true)
		return m, nil
	}

	m.session = session
	m.stopping = false
	m.ticks = 0
	m.lastTickErr = ""
	m.interval = m.cfg.Interval()
	// Minimize mode keeps the panel out of the way for the whole session;
	// the presenter restores it between videos.
	m.compact = m.cfg.HideMode == constants.HideMinimize
	m.setStatus(fmt.Sprintf("Session started. First video in %s.", formatDuration(m.interval)), false)
	return m, waitForSession(session)
}

func (m Model) stop() (tea.Model, tea.Cmd) {
	if !m.running() {
		m.setStatus("No session is running.", false)
		return m, nil
	}
	m.session.Stop()
	m.stopping = true
	m.setStatus("Stopping...", false)
	return m, nil
}

func (m Model) handleState(msg StateMsg) Model {
	if m.session == nil || msg.SessionID != m.session.ID {
		return m
	}
	m.state = msg.State
	m.ticks = msg.Ticks
	m.interval = msg.Interval
	if msg.State == constants.StateWaiting {
		m.waitingSince = msg.At
		if msg.Err != nil {
			m.lastTickErr = msg.Err.Error()
		} else {
			m.lastTickErr = ""
		}
	}
	return m
}

func (m Model) handleSessionDone(msg sessionDoneMsg) Model {
	if m.session == nil || msg.id != m.session.ID {
		return m
	}
	m.state = constants.StateStopped
	m.compact = false
	if msg.err != nil {
		m.setStatus(userMessage(msg.err), true)
		return m
	}
	m.setStatus(constants.StoppedMessage, false)
	if m.stopping && m.notifier != nil {
		if err := m.notifier.Notify(constants.StoppedMessage); err != nil {
			logger.Debug("Stop notification failed", "error", err)
		}
	}
	m.stopping = false
	return m
}

func (m Model) handlePicked(msg pickedMsg) Model {
	if msg.err != nil {
		if !errors.Is(msg.err, dialogs.ErrCanceled) {
			m.setStatus(fmt.Sprintf("Picker failed: %v", msg.err), true)
		}
		return m
	}
	switch msg.field {
	case constants.SettingMediaFolder:
		m.cfg.MediaFolder = msg.path
		m.setStatus("Video folder selected.", false)
	case constants.SettingAudioFile:
		m.cfg.AudioFile = msg.path
		m.setStatus("Alarm sound selected.", false)
	}
	return m
}

func (m Model) updateEdit(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok && msg.Type == tea.KeyEsc {
		m.view = viewPanel
		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	switch m.form.State {
	case huh.StateCompleted:
		cfg, err := m.editForm.Apply(m.cfg)
		if err != nil {
			m.setStatus(userMessage(err), true)
		} else {
			m.cfg = cfg
			m.setStatus("Settings updated.", false)
		}
		m.view = viewPanel
	case huh.StateAborted:
		m.view = viewPanel
	}
	return m, cmd
}

func (m Model) updateConfirmQuit(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch {
	case key.Matches(keyMsg, m.keys.Yes):
		if m.running() {
			m.session.Stop()
		}
		m.quitting = true
		return m, tea.Quit
	case key.Matches(keyMsg, m.keys.No):
		m.view = viewPanel
	}
	return m, nil
}

func (m *Model) setStatus(text string, isErr bool) {
	m.status = text
	m.statusErr = isErr
}

func newEditFormModel(cfg models.SessionConfig) *EditFormModel {
	return &EditFormModel{
		MediaFolder:    cfg.MediaFolder,
		AudioFile:      cfg.AudioFile,
		Interval:       strconv.FormatFloat(cfg.IntervalMinutes(), 'f', -1, 64),
		HideMode:       cfg.HideMode,
		InterruptAlarm: cfg.InterruptAlarm,
	}
}

// Apply turns the form values into a config based on cfg.
func (fm *EditFormModel) Apply(cfg models.SessionConfig) (models.SessionConfig, error) {
	minutes, err := models.ParseIntervalMinutes(fm.Interval)
	if err != nil {
		return cfg, err
	}
	cfg.MediaFolder = strings.TrimSpace(fm.MediaFolder)
	cfg.AudioFile = strings.TrimSpace(fm.AudioFile)
	cfg.IntervalSeconds = minutes * 60
	cfg.HideMode = fm.HideMode
	cfg.InterruptAlarm = fm.InterruptAlarm
	return cfg, nil
}

// NewEditForm creates the settings form.
func NewEditForm(fm *EditFormModel) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Video folder").
				Value(&fm.MediaFolder),
			huh.NewInput().
				Title("Alarm sound").
				Description("An .mp3 or .wav file").
				Value(&fm.AudioFile),
			huh.NewInput().
				Title("Interval (minutes)").
				Value(&fm.Interval).
				Validate(func(s string) error {
					_, err := models.ParseIntervalMinutes(s)
					if err != nil {
						return errors.New("interval must be a positive number of minutes")
					}
					return nil
				}),
			huh.NewSelect[constants.HideMode]().
				Title("During a video").
				Options(
					huh.NewOption("Minimize the panel", constants.HideMinimize),
					huh.NewOption("Hide the panel", constants.HideHide),
				).
				Value(&fm.HideMode),
			huh.NewConfirm().
				Title("Stop cuts the alarm short").
				Value(&fm.InterruptAlarm),
		),
	).WithTheme(huh.ThemeDracula())
}

// userMessage strips sentinel prefixes the user does not need to see.
func userMessage(err error) string {
	msg := err.Error()
	if errors.Is(err, apperrors.ErrConfigInvalid) {
		msg = strings.TrimPrefix(msg, apperrors.ErrConfigInvalid.Error()+": ")
	}
	if msg == "" {
		return msg
	}
	return strings.ToUpper(msg[:1]) + msg[1:]
}

func formatDuration(d time.Duration) string {
	if d < time.Second {
		return d.Round(time.Millisecond).String()
	}
	return d.Round(time.Second).String()
}
