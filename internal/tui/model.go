package tui

import (
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/julianstephens/breakreel/internal/constants"
	"github.com/julianstephens/breakreel/internal/dialogs"
	"github.com/julianstephens/breakreel/internal/models"
	"github.com/julianstephens/breakreel/internal/scheduler"
)

var (
	selectFolderFunc = dialogs.SelectFolder
	selectAudioFunc  = dialogs.SelectAudio
	nowFunc          = time.Now
)

// Sessions starts scheduler sessions on behalf of the panel.
type Sessions interface {
	Start(cfg models.SessionConfig) (*scheduler.Session, error)
}

// Notifier shows a desktop notification.
type Notifier interface {
	Notify(text string) error
}

type viewState int

const (
	viewPanel viewState = iota
	viewEdit
	viewConfirmQuit
)

// EditFormModel backs the huh settings form.
type EditFormModel struct {
	MediaFolder    string
	AudioFile      string
	Interval       string
	HideMode       constants.HideMode
	InterruptAlarm bool
}

type Model struct {
	sessions Sessions
	notifier Notifier

	cfg     models.SessionConfig
	session *scheduler.Session

	state        constants.SchedulerState
	ticks        int
	waitingSince time.Time
	interval     time.Duration
	now          time.Time
	lastTickErr  string

	view      viewState
	compact   bool
	status    string
	statusErr bool
	stopping  bool

	form     *huh.Form
	editForm *EditFormModel

	keys     KeyMap
	help     help.Model
	progress progress.Model
	quitting bool
	width    int
	height   int
}

// NewModel builds the control panel, pre-filled with cfg.
func NewModel(sessions Sessions, notifier Notifier, cfg models.SessionConfig) Model {
	if cfg.HideMode == "" {
		cfg.HideMode = constants.DefaultHideMode
	}
	if cfg.IntervalSeconds <= 0 {
		cfg.IntervalSeconds = constants.DefaultIntervalMinutes * 60
	}
	return Model{
		sessions: sessions,
		notifier: notifier,
		cfg:      cfg,
		state:    constants.StateIdle,
		now:      nowFunc(),
		keys:     DefaultKeyMap(),
		help:     help.New(),
		progress: progress.New(progress.WithDefaultGradient(), progress.WithoutPercentage()),
	}
}

// Config returns the config the panel would start next.
func (m Model) Config() models.SessionConfig {
	return m.cfg
}

// Session returns the running session, if any.
func (m Model) Session() *scheduler.Session {
	return m.session
}

func (m Model) Init() tea.Cmd {
	return tick()
}

type tickMsg time.Time

func tick() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// StateMsg carries a scheduler transition into the program.
type StateMsg scheduler.StateChange

// CompactMsg switches the compact one-line view on or off.
type CompactMsg bool

type sessionDoneMsg struct {
	id  string
	err error
}

func waitForSession(session *scheduler.Session) tea.Cmd {
	return func() tea.Msg {
		err := session.Wait()
		return sessionDoneMsg{id: session.ID, err: err}
	}
}

type pickedMsg struct {
	field string
	path  string
	err   error
}

func pickFolder(initial string) tea.Cmd {
	return func() tea.Msg {
		path, err := selectFolderFunc(initial)
		return pickedMsg{field: constants.SettingMediaFolder, path: path, err: err}
	}
}

func pickAudio(initial string) tea.Cmd {
	return func() tea.Msg {
		path, err := selectAudioFunc(initial)
		return pickedMsg{field: constants.SettingAudioFile, path: path, err: err}
	}
}

func (m Model) running() bool {
	if m.session == nil {
		return false
	}
	select {
	case <-m.session.Done():
		return false
	default:
		return true
	}
}

// remaining is the time left until the next tick while waiting.
func (m Model) remaining() time.Duration {
	if m.state != constants.StateWaiting || m.waitingSince.IsZero() {
		return 0
	}
	left := m.interval - m.now.Sub(m.waitingSince)
	if left < 0 {
		return 0
	}
	return left
}

func (m Model) elapsedFraction() float64 {
	switch m.state {
	case constants.StatePlayingAudio, constants.StatePlayingVideo:
		return 1
	case constants.StateWaiting:
		if m.interval <= 0 {
			return 0
		}
		return 1 - float64(m.remaining())/float64(m.interval)
	default:
		return 0
	}
}
