package backup

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

const (
	// MaxBackups is how many snapshots of the settings database are kept.
	MaxBackups = 5
	DirName    = "backups"

	filePrefix      = "breakreel-"
	fileSuffix      = ".db"
	timestampLayout = "20060102-150405"
)

var nowFunc = time.Now

// Info describes one snapshot on disk.
type Info struct {
	Path      string
	Timestamp time.Time
	Size      int64
	seq       int
}

// Manager snapshots the settings database into <config dir>/backups.
type Manager struct {
	dbPath string
	dir    string
}

func NewManager(dbPath string) *Manager {
	return &Manager{
		dbPath: dbPath,
		dir:    filepath.Join(filepath.Dir(dbPath), DirName),
	}
}

func (m *Manager) Dir() string {
	return m.dir
}

// Create writes a snapshot of the database and drops the oldest ones beyond
// MaxBackups. It returns the snapshot path.
func (m *Manager) Create() (string, error) {
	if _, err := os.Stat(m.dbPath); err != nil {
		return "", fmt.Errorf("database does not exist: %s", m.dbPath)
	}
	if err := os.MkdirAll(m.dir, 0700); err != nil {
		return "", fmt.Errorf("failed to create backup directory: %w", err)
	}

	dest, err := m.nextPath()
	if err != nil {
		return "", err
	}
	if err := m.snapshot(dest); err != nil {
		return "", fmt.Errorf("failed to back up database: %w", err)
	}

	if err := m.rotate(); err != nil {
		return dest, fmt.Errorf("backup written but rotation failed: %w", err)
	}
	return dest, nil
}

func (m *Manager) nextPath() (string, error) {
	stamp := nowFunc().Format(timestampLayout)
	for seq := 0; seq < 100; seq++ {
		name := filePrefix + stamp + fileSuffix
		if seq > 0 {
			name = fmt.Sprintf("%s%s-%d%s", filePrefix, stamp, seq, fileSuffix)
		}
		path := filepath.Join(m.dir, name)
		if _, err := os.Stat(path); os.IsNotExist(err) {
			return path, nil
		}
	}
	return "", fmt.Errorf("failed to generate unique backup filename")
}

// snapshot copies the database with VACUUM INTO, which is safe while the
// store holds its own connection.
func (m *Manager) snapshot(dest string) error {
	db, err := sql.Open("sqlite", m.dbPath+"?mode=ro")
	if err != nil {
		return fmt.Errorf("failed to open source database: %w", err)
	}
	defer db.Close()

	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM sqlite_master").Scan(&count); err != nil {
		return fmt.Errorf("source database appears to be corrupted: %w", err)
	}
	if _, err := db.Exec("VACUUM INTO ?", dest); err != nil {
		return err
	}
	return nil
}

// List returns the snapshots, newest first. Files that do not look like
// snapshots are ignored.
func (m *Manager) List() ([]Info, error) {
	entries, err := os.ReadDir(m.dir)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read backup directory: %w", err)
	}

	var backups []Info
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		stamp, seq, ok := parseName(entry.Name())
		if !ok {
			continue
		}
		fi, err := entry.Info()
		if err != nil {
			continue
		}
		backups = append(backups, Info{
			Path:      filepath.Join(m.dir, entry.Name()),
			Timestamp: stamp,
			Size:      fi.Size(),
			seq:       seq,
		})
	}

	slices.SortFunc(backups, func(a, b Info) int {
		if c := b.Timestamp.Compare(a.Timestamp); c != 0 {
			return c
		}
		return b.seq - a.seq
	})
	return backups, nil
}

func parseName(name string) (time.Time, int, bool) {
	body, ok := strings.CutPrefix(name, filePrefix)
	if !ok {
		return time.Time{}, 0, false
	}
	body, ok = strings.CutSuffix(body, fileSuffix)
	if !ok || len(body) < len(timestampLayout) {
		return time.Time{}, 0, false
	}

	stamp, err := time.ParseInLocation(timestampLayout, body[:len(timestampLayout)], time.Local)
	if err != nil {
		return time.Time{}, 0, false
	}

	rest := body[len(timestampLayout):]
	if rest == "" {
		return stamp, 0, true
	}
	seq, err := strconv.Atoi(strings.TrimPrefix(rest, "-"))
	if err != nil || !strings.HasPrefix(rest, "-") || seq < 1 {
		return time.Time{}, 0, false
	}
	return stamp, seq, true
}

func (m *Manager) rotate() error {
	backups, err := m.List()
	if err != nil {
		return err
	}
	for _, old := range backups[min(len(backups), MaxBackups):] {
		if err := os.Remove(old.Path); err != nil {
			return fmt.Errorf("failed to remove old backup %s: %w", old.Path, err)
		}
	}
	return nil
}
