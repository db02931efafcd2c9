package storage

import "github.com/julianstephens/breakreel/internal/models"

// Provider remembers the last session config between runs.
type Provider interface {
	// Lifecycle
	Init() error
	Load() error
	Close() error

	// Settings
	LastSession() (models.SessionConfig, bool, error)
	SaveLastSession(models.SessionConfig) error
	ClearSettings() error

	// Utils
	SchemaVersion() (current, latest int, err error)
	GetConfigPath() string
}
