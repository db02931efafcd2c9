package sqlite

import (
	"fmt"
	"strconv"

	"github.com/julianstephens/breakreel/internal/constants"
	"github.com/julianstephens/breakreel/internal/models"
)

// LastSession returns the most recently started session config. The bool is
// false when nothing has been remembered yet.
func (s *Store) LastSession() (models.SessionConfig, bool, error) {
	if s.db == nil {
		return models.SessionConfig{}, false, ErrNotInitialized
	}

	rows, err := s.db.Query("SELECT key, value FROM settings")
	if err != nil {
		return models.SessionConfig{}, false, err
	}
	defer rows.Close()

	cfg := models.SessionConfig{HideMode: constants.DefaultHideMode}
	count := 0
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return models.SessionConfig{}, false, err
		}
		switch key {
		case constants.SettingMediaFolder:
			cfg.MediaFolder = value
		case constants.SettingAudioFile:
			cfg.AudioFile = value
		case constants.SettingIntervalSeconds:
			seconds, err := strconv.ParseFloat(value, 64)
			if err != nil {
				return models.SessionConfig{}, false, fmt.Errorf("parsing %s: %w", key, err)
			}
			cfg.IntervalSeconds = seconds
		case constants.SettingHideMode:
			mode, err := models.ParseHideMode(value)
			if err != nil {
				return models.SessionConfig{}, false, fmt.Errorf("parsing %s: %w", key, err)
			}
			cfg.HideMode = mode
		case constants.SettingInterruptAlarm:
			cfg.InterruptAlarm = value == "true"
		}
		count++
	}
	if err := rows.Err(); err != nil {
		return models.SessionConfig{}, false, err
	}

	return cfg, count > 0, nil
}

// SaveLastSession replaces the remembered config.
func (s *Store) SaveLastSession(cfg models.SessionConfig) error {
	if s.db == nil {
		return ErrNotInitialized
	}

	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare("INSERT OR REPLACE INTO settings (key, value) VALUES (?, ?)")
	if err != nil {
		return err
	}
	defer stmt.Close()

	values := []struct{ key, value string }{
		{constants.SettingMediaFolder, cfg.MediaFolder},
		{constants.SettingAudioFile, cfg.AudioFile},
		{constants.SettingIntervalSeconds, strconv.FormatFloat(cfg.IntervalSeconds, 'f', -1, 64)},
		{constants.SettingHideMode, string(cfg.HideMode)},
		{constants.SettingInterruptAlarm, strconv.FormatBool(cfg.InterruptAlarm)},
	}
	for _, v := range values {
		if _, err := stmt.Exec(v.key, v.value); err != nil {
			return fmt.Errorf("saving %s: %w", v.key, err)
		}
	}

	return tx.Commit()
}

// ClearSettings forgets the remembered config.
func (s *Store) ClearSettings() error {
	if s.db == nil {
		return ErrNotInitialized
	}
	_, err := s.db.Exec("DELETE FROM settings")
	return err
}
