package models

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/julianstephens/breakreel/internal/constants"
	apperrors "github.com/julianstephens/breakreel/internal/errors"
)

func validConfig() SessionConfig {
	return SessionConfig{
		MediaFolder:     "/videos",
		AudioFile:       "/sounds/alarm.mp3",
		IntervalSeconds: 1500,
		HideMode:        constants.HideMinimize,
	}
}

func TestSessionConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*SessionConfig)
		wantErr bool
	}{
		{"valid", func(c *SessionConfig) {}, false},
		{"valid wav", func(c *SessionConfig) { c.AudioFile = "/sounds/alarm.wav" }, false},
		{"hide mode hide", func(c *SessionConfig) { c.HideMode = constants.HideHide }, false},
		{"tiny interval", func(c *SessionConfig) { c.IntervalSeconds = 0.01 }, false},
		{"empty folder", func(c *SessionConfig) { c.MediaFolder = "" }, true},
		{"blank folder", func(c *SessionConfig) { c.MediaFolder = "   " }, true},
		{"empty audio", func(c *SessionConfig) { c.AudioFile = "" }, true},
		{"audio wrong extension", func(c *SessionConfig) { c.AudioFile = "/sounds/alarm.ogg" }, true},
		{"audio upper case mp3", func(c *SessionConfig) { c.AudioFile = "/sounds/ALARM.MP3" }, false},
		{"audio mixed case wav", func(c *SessionConfig) { c.AudioFile = "/sounds/Alarm.Wav" }, false},
		{"audio upper case wrong extension", func(c *SessionConfig) { c.AudioFile = "/sounds/ALARM.OGG" }, true},
		{"zero interval", func(c *SessionConfig) { c.IntervalSeconds = 0 }, true},
		{"negative interval", func(c *SessionConfig) { c.IntervalSeconds = -5 }, true},
		{"NaN interval", func(c *SessionConfig) { c.IntervalSeconds = math.NaN() }, true},
		{"infinite interval", func(c *SessionConfig) { c.IntervalSeconds = math.Inf(1) }, true},
		{"unknown hide mode", func(c *SessionConfig) { c.HideMode = "fade" }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr {
				if !errors.Is(err, apperrors.ErrConfigInvalid) {
					t.Errorf("Validate() error = %v, want ErrConfigInvalid", err)
				}
				return
			}
			if err != nil {
				t.Errorf("Validate() unexpected error: %v", err)
			}
		})
	}
}

func TestNewSessionConfigConvertsMinutes(t *testing.T) {
	cfg := NewSessionConfig("/videos", "/a.mp3", 1.5, constants.HideHide)
	if cfg.IntervalSeconds != 90 {
		t.Errorf("IntervalSeconds = %v, want 90", cfg.IntervalSeconds)
	}
	if cfg.Interval() != 90*time.Second {
		t.Errorf("Interval() = %v, want 90s", cfg.Interval())
	}
	if cfg.IntervalMinutes() != 1.5 {
		t.Errorf("IntervalMinutes() = %v, want 1.5", cfg.IntervalMinutes())
	}
}

func TestParseIntervalMinutes(t *testing.T) {
	tests := []struct {
		input   string
		want    float64
		wantErr bool
	}{
		{"25", 25, false},
		{" 0.5 ", 0.5, false},
		{"1e-3", 0.001, false},
		{"", 0, true},
		{"abc", 0, true},
		{"5min", 0, true},
		{"0", 0, true},
		{"-1", 0, true},
		{"NaN", 0, true},
		{"Inf", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseIntervalMinutes(tt.input)
			if tt.wantErr {
				if !errors.Is(err, apperrors.ErrConfigInvalid) {
					t.Errorf("ParseIntervalMinutes(%q) error = %v, want ErrConfigInvalid", tt.input, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseIntervalMinutes(%q) unexpected error: %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("ParseIntervalMinutes(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestParseHideMode(t *testing.T) {
	tests := []struct {
		input   string
		want    constants.HideMode
		wantErr bool
	}{
		{"", constants.HideMinimize, false},
		{"minimize", constants.HideMinimize, false},
		{"HIDE", constants.HideHide, false},
		{"fade", "", true},
	}

	for _, tt := range tests {
		got, err := ParseHideMode(tt.input)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseHideMode(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseHideMode(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}
