package instance

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"github.com/mitchellh/go-ps"

	"github.com/julianstephens/breakreel/internal/constants"
	apperrors "github.com/julianstephens/breakreel/internal/errors"
	"github.com/julianstephens/breakreel/internal/logger"
)

var (
	findProcessFunc = ps.FindProcess
	getpidFunc      = os.Getpid
)

// Holder describes the process named in a lockfile.
type Holder struct {
	PID       int
	SessionID string
	// Alive is false when the lockfile is stale and would be replaced
	Alive bool
}

// Lock guards against two breakreel processes running sessions at once.
type Lock struct {
	path string

	mu   sync.Mutex
	held bool
}

func New(configDir string) *Lock {
	return &Lock{path: filepath.Join(configDir, constants.LockfileName)}
}

func (l *Lock) Path() string {
	return l.path
}

// Acquire writes the lockfile for sessionID. A stale lockfile is replaced;
// a live one yields ErrSessionActive.
func (l *Lock) Acquire(sessionID string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.held {
		return fmt.Errorf("%w: lock already held by this process", apperrors.ErrSessionActive)
	}

	if err := os.MkdirAll(filepath.Dir(l.path), 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	content := fmt.Sprintf("%d|%s", getpidFunc(), sessionID)
	for attempt := 0; attempt < 2; attempt++ {
		f, err := os.OpenFile(l.path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0600)
		if err == nil {
			_, werr := f.WriteString(content)
			cerr := f.Close()
			if err := errors.Join(werr, cerr); err != nil {
				_ = os.Remove(l.path)
				return fmt.Errorf("failed to write lockfile: %w", err)
			}
			l.held = true
			return nil
		}
		if !errors.Is(err, fs.ErrExist) {
			return fmt.Errorf("failed to create lockfile: %w", err)
		}

		holder, err := l.Holder()
		if err == nil && holder.Alive {
			return fmt.Errorf("%w (pid %d, session %s)", apperrors.ErrSessionActive, holder.PID, holder.SessionID)
		}
		logger.Warn("Replacing stale lockfile", "path", l.path, "error", err)
		if err := os.Remove(l.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("failed to remove stale lockfile: %w", err)
		}
	}
	return fmt.Errorf("%w: lockfile %s keeps reappearing", apperrors.ErrSessionActive, l.path)
}

// Release removes the lockfile if this Lock wrote it.
func (l *Lock) Release() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if !l.held {
		return nil
	}
	l.held = false
	if err := os.Remove(l.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to remove lockfile: %w", err)
	}
	return nil
}

// Holder reads the lockfile. It returns fs.ErrNotExist when there is none
// and an error for a malformed one.
func (l *Lock) Holder() (Holder, error) {
	content, err := os.ReadFile(l.path)
	if err != nil {
		return Holder{}, err
	}

	parts := strings.Split(strings.TrimSpace(string(content)), "|")
	if len(parts) != 2 {
		return Holder{}, errors.New("lockfile is malformed")
	}
	pid, err := strconv.Atoi(parts[0])
	if err != nil || pid < 1 {
		return Holder{}, errors.New("invalid process ID in lockfile")
	}
	sessionID := strings.TrimSpace(parts[1])
	if sessionID == "" {
		return Holder{}, errors.New("session ID in lockfile is empty")
	}

	return Holder{PID: pid, SessionID: sessionID, Alive: isBreakreel(pid)}, nil
}

func isBreakreel(pid int) bool {
	if pid == getpidFunc() {
		return true
	}
	process, err := findProcessFunc(pid)
	if err != nil || process == nil {
		return false
	}
	return strings.HasPrefix(process.Executable(), constants.AppName)
}
