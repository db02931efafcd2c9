package constants

import "time"

// SchedulerState represents the phase the interval scheduler is in
type SchedulerState int

// HideMode controls what happens to the main window while a video plays
type HideMode string

const (
	AppName           = "breakreel"
	Version           = "v0.2.0"
	DefaultConfigDir  = "~/.config/breakreel"
	DatabaseFileName  = "breakreel.db"
	LockfileName      = "breakreel.lock"
	LogFileName       = "breakreel.log"
	LogDirName        = "logs"
	EnvPrefix         = "BREAKREEL_"
	NotificationTitle = "breakreel"
	StoppedMessage    = "The program has been stopped."

	// Defaults
	DefaultIntervalMinutes = 25.0
	DefaultStartupGrace    = time.Second
	DefaultHideMode        = HideMinimize

	// Engine names
	EngineAuto   = "auto"
	EngineMPV    = "mpv"
	EngineVLC    = "vlc"
	EngineCVLC   = "cvlc"
	EngineFFPlay = "ffplay"
	EngineAFPlay = "afplay"
	EnginePAPlay = "paplay"

	// Presentation surface
	SurfaceBackground = "#000000"

	// Hide modes
	HideMinimize HideMode = "minimize"
	HideHide     HideMode = "hide"

	// Settings keys
	SettingMediaFolder     = "media_folder"
	SettingAudioFile       = "audio_file"
	SettingIntervalSeconds = "interval_seconds"
	SettingHideMode        = "hide_mode"
	SettingInterruptAlarm  = "interrupt_alarm"
)

const (
	StateIdle SchedulerState = iota
	StateWaiting
	StatePlayingAudio
	StatePlayingVideo
	StateStopped
)

// VideoExtensions are matched case-sensitively against file names
var VideoExtensions = []string{".mp4", ".avi", ".mkv"}

// AudioExtensions are the alarm formats offered by the pickers
var AudioExtensions = []string{".mp3", ".wav"}

// VideoEngines lists the engines tried, in order, when the video engine is "auto"
var VideoEngines = []string{EngineMPV, EngineVLC}

// AudioEngines lists the engines tried, in order, when the audio engine is "auto"
var AudioEngines = []string{EngineMPV, EngineFFPlay, EngineAFPlay, EnginePAPlay, EngineCVLC}

func (s SchedulerState) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateWaiting:
		return "waiting"
	case StatePlayingAudio:
		return "playing-audio"
	case StatePlayingVideo:
		return "playing-video"
	case StateStopped:
		return "stopped"
	default:
		return "unknown"
	}
}
