package instance

import (
	"errors"
	"io/fs"
	"os"
	"testing"

	ps "github.com/mitchellh/go-ps"

	apperrors "github.com/julianstephens/breakreel/internal/errors"
)

type mockProcess struct {
	pid        int
	executable string
}

func (m *mockProcess) Pid() int {
	return m.pid
}

func (m *mockProcess) PPid() int {
	return 0
}

func (m *mockProcess) Executable() string {
	return m.executable
}

// stubProcesses makes pid 4242 the running process and fakes the process table.
func stubProcesses(t *testing.T, running map[int]string) {
	t.Helper()
	oldFind, oldPid := findProcessFunc, getpidFunc
	t.Cleanup(func() {
		findProcessFunc = oldFind
		getpidFunc = oldPid
	})
	getpidFunc = func() int { return 4242 }
	findProcessFunc = func(pid int) (ps.Process, error) {
		exe, ok := running[pid]
		if !ok {
			return nil, nil
		}
		return &mockProcess{pid: pid, executable: exe}, nil
	}
}

func TestAcquireAndRelease(t *testing.T) {
	stubProcesses(t, nil)
	lock := New(t.TempDir())

	if err := lock.Acquire("session-1"); err != nil {
		t.Fatalf("Acquire() failed: %v", err)
	}
	content, err := os.ReadFile(lock.Path())
	if err != nil {
		t.Fatalf("lockfile not written: %v", err)
	}
	if string(content) != "4242|session-1" {
		t.Errorf("lockfile content = %q", content)
	}

	if err := lock.Release(); err != nil {
		t.Fatalf("Release() failed: %v", err)
	}
	if _, err := os.Stat(lock.Path()); !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("lockfile still present after Release: %v", err)
	}
	if err := lock.Release(); err != nil {
		t.Errorf("second Release() = %v, want nil", err)
	}
}

func TestAcquireRefusesLiveHolder(t *testing.T) {
	tests := []struct {
		name    string
		content string
		running map[int]string
	}{
		{"other breakreel process", "777|other-session", map[int]string{777: "breakreel"}},
		{"same process", "4242|earlier-session", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stubProcesses(t, tt.running)
			lock := New(t.TempDir())
			if err := os.WriteFile(lock.Path(), []byte(tt.content), 0600); err != nil {
				t.Fatalf("failed to write lockfile: %v", err)
			}

			err := lock.Acquire("session-2")
			if !errors.Is(err, apperrors.ErrSessionActive) {
				t.Fatalf("Acquire() error = %v, want ErrSessionActive", err)
			}
			// A refused Acquire must not remove the other holder's file.
			if err := lock.Release(); err != nil {
				t.Fatalf("Release() failed: %v", err)
			}
			if content, _ := os.ReadFile(lock.Path()); string(content) != tt.content {
				t.Errorf("lockfile content = %q, want %q", content, tt.content)
			}
		})
	}
}

func TestAcquireReplacesStaleLockfile(t *testing.T) {
	tests := []struct {
		name    string
		content string
		running map[int]string
	}{
		{"dead process", "777|old-session", nil},
		{"pid reused by another program", "777|old-session", map[int]string{777: "firefox"}},
		{"malformed", "garbage", nil},
		{"bad pid", "abc|old-session", nil},
		{"empty session", "777|", map[int]string{777: "breakreel"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stubProcesses(t, tt.running)
			lock := New(t.TempDir())
			if err := os.WriteFile(lock.Path(), []byte(tt.content), 0600); err != nil {
				t.Fatalf("failed to write lockfile: %v", err)
			}

			if err := lock.Acquire("fresh"); err != nil {
				t.Fatalf("Acquire() failed: %v", err)
			}
			holder, err := lock.Holder()
			if err != nil {
				t.Fatalf("Holder() failed: %v", err)
			}
			if holder.PID != 4242 || holder.SessionID != "fresh" || !holder.Alive {
				t.Errorf("Holder() = %+v", holder)
			}
		})
	}
}

func TestHolderWithoutLockfile(t *testing.T) {
	stubProcesses(t, nil)
	if _, err := New(t.TempDir()).Holder(); !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("Holder() error = %v, want fs.ErrNotExist", err)
	}
}
