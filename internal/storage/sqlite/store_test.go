package sqlite

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/julianstephens/breakreel/internal/constants"
	"github.com/julianstephens/breakreel/internal/models"
	"github.com/julianstephens/breakreel/internal/storage"
)

var _ storage.Provider = (*Store)(nil)

func setupTestStore(t *testing.T) *Store {
	t.Helper()
	store := NewStore(filepath.Join(t.TempDir(), "config", constants.DatabaseFileName))
	if err := store.Init(); err != nil {
		t.Fatalf("Init() failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestInitIsRepeatable(t *testing.T) {
	store := setupTestStore(t)
	if err := store.Init(); err != nil {
		t.Errorf("second Init() failed: %v", err)
	}

	current, latest, err := store.SchemaVersion()
	if err != nil {
		t.Fatalf("SchemaVersion() failed: %v", err)
	}
	if current != latest || current < 1 {
		t.Errorf("SchemaVersion() = %d/%d, want current == latest >= 1", current, latest)
	}

	// Reopening an existing file reapplies nothing.
	store.Close()
	reopened := NewStore(store.GetConfigPath())
	defer reopened.Close()
	if err := reopened.Init(); err != nil {
		t.Fatalf("Init() on existing database failed: %v", err)
	}
}

func TestLoadRequiresInit(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), constants.DatabaseFileName))
	if err := store.Load(); !errors.Is(err, ErrNotInitialized) {
		t.Errorf("Load() error = %v, want ErrNotInitialized", err)
	}
	if _, _, err := store.LastSession(); !errors.Is(err, ErrNotInitialized) {
		t.Errorf("LastSession() error = %v, want ErrNotInitialized", err)
	}
}

func TestLoadExistingDatabase(t *testing.T) {
	initialized := setupTestStore(t)
	cfg := models.NewSessionConfig("/videos", "/alarm.wav", 0.5, constants.HideHide)
	if err := initialized.SaveLastSession(cfg); err != nil {
		t.Fatalf("SaveLastSession() failed: %v", err)
	}
	initialized.Close()

	store := NewStore(initialized.GetConfigPath())
	defer store.Close()
	if err := store.Load(); err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	got, ok, err := store.LastSession()
	if err != nil || !ok {
		t.Fatalf("LastSession() = %v, %v", ok, err)
	}
	if got != cfg {
		t.Errorf("LastSession() = %+v, want %+v", got, cfg)
	}
}

func TestLoadNewerSchemaLeavesStoreClosed(t *testing.T) {
	initialized := setupTestStore(t)
	if _, err := initialized.db.Exec("UPDATE schema_version SET version = 99"); err != nil {
		t.Fatalf("failed to bump schema version: %v", err)
	}
	initialized.Close()

	store := NewStore(initialized.GetConfigPath())
	defer store.Close()
	if err := store.Load(); err == nil {
		t.Fatal("Load() should reject a newer schema")
	}
	if store.db != nil {
		t.Error("Load() kept the connection open after failing")
	}
	if _, _, err := store.LastSession(); !errors.Is(err, ErrNotInitialized) {
		t.Errorf("LastSession() after failed Load error = %v, want ErrNotInitialized", err)
	}
}

func TestLastSessionRoundTrip(t *testing.T) {
	store := setupTestStore(t)

	if _, ok, err := store.LastSession(); err != nil || ok {
		t.Fatalf("LastSession() on empty store = %v, %v; want nothing remembered", ok, err)
	}

	first := models.NewSessionConfig("/media/clips", "/media/bell.mp3", 25, constants.HideMinimize)
	if err := store.SaveLastSession(first); err != nil {
		t.Fatalf("SaveLastSession() failed: %v", err)
	}

	second := models.SessionConfig{
		MediaFolder:     "/other",
		AudioFile:       "/other/ding.wav",
		IntervalSeconds: 0.01,
		HideMode:        constants.HideHide,
		InterruptAlarm:  true,
	}
	if err := store.SaveLastSession(second); err != nil {
		t.Fatalf("SaveLastSession() failed: %v", err)
	}

	got, ok, err := store.LastSession()
	if err != nil || !ok {
		t.Fatalf("LastSession() = %v, %v", ok, err)
	}
	if got != second {
		t.Errorf("LastSession() = %+v, want the latest config %+v", got, second)
	}
}

func TestClearSettings(t *testing.T) {
	store := setupTestStore(t)
	if err := store.SaveLastSession(models.NewSessionConfig("/v", "/a.mp3", 1, constants.HideMinimize)); err != nil {
		t.Fatalf("SaveLastSession() failed: %v", err)
	}
	if err := store.ClearSettings(); err != nil {
		t.Fatalf("ClearSettings() failed: %v", err)
	}
	if _, ok, err := store.LastSession(); err != nil || ok {
		t.Errorf("LastSession() after clear = %v, %v; want nothing remembered", ok, err)
	}
}

func TestLastSessionRejectsCorruptValues(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"interval", constants.SettingIntervalSeconds, "soon"},
		{"hide mode", constants.SettingHideMode, "vanish"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := setupTestStore(t)
			if _, err := store.db.Exec("INSERT INTO settings (key, value) VALUES (?, ?)", tt.key, tt.value); err != nil {
				t.Fatalf("insert failed: %v", err)
			}
			if _, _, err := store.LastSession(); err == nil {
				t.Errorf("LastSession() should fail on %s = %q", tt.key, tt.value)
			}
		})
	}
}
