package system

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/julianstephens/breakreel/internal/backup"
	"github.com/julianstephens/breakreel/internal/cli"
	"github.com/julianstephens/breakreel/internal/playback"
)

var (
	resolveVideoFunc = playback.ResolveVideoEngine
	resolveAudioFunc = playback.ResolveAudioEngine
)

type DoctorCmd struct{}

func (cmd *DoctorCmd) Run(ctx *cli.Context) error {
	fmt.Println("Running diagnostics...")
	fmt.Println()

	hasError := false
	report := func(name string, detail string, err error) {
		if err != nil {
			fmt.Printf("❌ %s: FAIL\n", name)
			fmt.Printf("   Error: %v\n", err)
			hasError = true
			return
		}
		fmt.Printf("✓ %s: OK (%s)\n", name, detail)
	}

	engine, path, err := resolveVideoFunc(ctx.VideoEngine)
	report("Video player", fmt.Sprintf("%s at %s", engine, path), err)

	engine, path, err = resolveAudioFunc(ctx.AudioEngine)
	report("Audio player", fmt.Sprintf("%s at %s", engine, path), err)

	dbReachable := true
	if err := ctx.Store.Load(); err != nil {
		dbReachable = false
		report("Settings database", "", fmt.Errorf("failed to load database: %w", err))
	} else {
		report("Settings database", ctx.Store.GetConfigPath(), nil)
	}

	if dbReachable {
		current, latest, err := ctx.Store.SchemaVersion()
		if err == nil && current < latest {
			err = fmt.Errorf("migrations incomplete: current version %d, latest version %d", current, latest)
		}
		report("Schema version", fmt.Sprintf("v%d", current), err)
	} else {
		fmt.Printf("⊘ Schema version: SKIPPED (database not reachable)\n")
	}

	backups, err := backup.NewManager(ctx.Store.GetConfigPath()).List()
	switch {
	case err != nil:
		fmt.Printf("⚠ Backups: WARNING\n")
		fmt.Printf("   %v\n", err)
	case len(backups) == 0:
		fmt.Printf("⊘ Backups: none yet (written by 'breakreel config reset')\n")
	default:
		fmt.Printf("✓ Backups: %d, latest %s\n", len(backups), backups[0].Timestamp.Format(time.DateTime))
	}

	holder, err := ctx.Lock.Holder()
	switch {
	case errors.Is(err, fs.ErrNotExist):
		fmt.Printf("⊘ Session lock: no session running\n")
	case err != nil:
		fmt.Printf("⚠ Session lock: WARNING\n")
		fmt.Printf("   %v\n", err)
	case holder.Alive:
		fmt.Printf("⚠ Session lock: session %s running in process %d\n", holder.SessionID, holder.PID)
	default:
		fmt.Printf("⚠ Session lock: stale lockfile from process %d, it will be replaced on the next start\n", holder.PID)
	}

	fmt.Println()
	if hasError {
		fmt.Println("Diagnostics completed with errors.")
		return fmt.Errorf("one or more health checks failed")
	}

	fmt.Println("All diagnostics passed!")
	return nil
}
