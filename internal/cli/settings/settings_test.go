package settings

import (
	"bytes"
	"encoding/json"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/julianstephens/breakreel/internal/backup"
	"github.com/julianstephens/breakreel/internal/cli"
	"github.com/julianstephens/breakreel/internal/constants"
	"github.com/julianstephens/breakreel/internal/models"
	"github.com/julianstephens/breakreel/internal/storage/sqlite"
)

func setupTest(t *testing.T) (*cli.Context, *bytes.Buffer) {
	t.Helper()
	store := sqlite.NewStore(filepath.Join(t.TempDir(), constants.DatabaseFileName))
	if err := store.Init(); err != nil {
		t.Fatalf("Init() failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	var out bytes.Buffer
	oldStdout := stdout
	stdout = &out
	t.Cleanup(func() { stdout = oldStdout })

	return &cli.Context{Store: store}, &out
}

func saveConfig(t *testing.T, ctx *cli.Context) models.SessionConfig {
	t.Helper()
	cfg := models.NewSessionConfig("/videos", "/sounds/alarm.mp3", 0.5, constants.HideHide)
	cfg.InterruptAlarm = true
	if err := ctx.Store.SaveLastSession(cfg); err != nil {
		t.Fatalf("SaveLastSession() failed: %v", err)
	}
	return cfg
}

func stubConfirm(t *testing.T, answer bool, err error) *int {
	t.Helper()
	calls := 0
	old := confirmFunc
	confirmFunc = func(string) (bool, error) {
		calls++
		return answer, err
	}
	t.Cleanup(func() { confirmFunc = old })
	return &calls
}

func TestResetWithoutBackup(t *testing.T) {
	ctx, _ := setupTest(t)
	saveConfig(t, ctx)

	if err := (&ResetCmd{Yes: true, NoBackup: true}).Run(ctx); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	backups, err := backup.NewManager(ctx.Store.GetConfigPath()).List()
	if err != nil || len(backups) != 0 {
		t.Errorf("List() = %v, %v; want no backups", backups, err)
	}
}

func TestShowEmpty(t *testing.T) {
	ctx, out := setupTest(t)
	if err := (&ShowCmd{}).Run(ctx); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if !strings.Contains(out.String(), "No settings remembered") {
		t.Errorf("output = %q", out.String())
	}

	out.Reset()
	if err := (&ShowCmd{JSON: true}).Run(ctx); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if strings.TrimSpace(out.String()) != "{}" {
		t.Errorf("JSON output = %q, want {}", out.String())
	}
}

func TestShowRemembered(t *testing.T) {
	ctx, out := setupTest(t)
	saveConfig(t, ctx)

	if err := (&ShowCmd{}).Run(ctx); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	for _, want := range []string{"/videos", "/sounds/alarm.mp3", "0.5 min", "hide", "true"} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("output missing %q:\n%s", want, out.String())
		}
	}
}

func TestShowJSON(t *testing.T) {
	ctx, out := setupTest(t)
	cfg := saveConfig(t, ctx)

	if err := (&ShowCmd{JSON: true}).Run(ctx); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	var got models.SessionConfig
	if err := json.Unmarshal(out.Bytes(), &got); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, out.String())
	}
	if got != cfg {
		t.Errorf("JSON = %+v, want %+v", got, cfg)
	}
}

func TestReset(t *testing.T) {
	tests := []struct {
		name       string
		yes        bool
		answer     bool
		confirmErr error
		wantErr    bool
		wantKept   bool
		wantAsked  int
	}{
		{name: "yes flag skips prompt", yes: true, wantAsked: 0},
		{name: "confirmed", answer: true, wantAsked: 1},
		{name: "declined", answer: false, wantKept: true, wantAsked: 1},
		{name: "prompt fails", confirmErr: errors.New("no tty"), wantErr: true, wantKept: true, wantAsked: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx, _ := setupTest(t)
			saveConfig(t, ctx)
			calls := stubConfirm(t, tt.answer, tt.confirmErr)

			err := (&ResetCmd{Yes: tt.yes}).Run(ctx)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Run() error = %v, wantErr %v", err, tt.wantErr)
			}
			if *calls != tt.wantAsked {
				t.Errorf("confirm asked %d times, want %d", *calls, tt.wantAsked)
			}

			_, ok, err := ctx.Store.LastSession()
			if err != nil {
				t.Fatalf("LastSession() error = %v", err)
			}
			if ok != tt.wantKept {
				t.Errorf("settings kept = %v, want %v", ok, tt.wantKept)
			}

			backups, err := backup.NewManager(ctx.Store.GetConfigPath()).List()
			if err != nil {
				t.Fatalf("List() error = %v", err)
			}
			if wantBackups := !tt.wantKept; (len(backups) == 1) != wantBackups {
				t.Errorf("got %d backups, want one only when settings were reset", len(backups))
			}
		})
	}
}
