package settings

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/charmbracelet/huh"

	"github.com/julianstephens/breakreel/internal/backup"
	"github.com/julianstephens/breakreel/internal/cli"
)

var (
	stdout io.Writer = os.Stdout

	confirmFunc = func(title string) (bool, error) {
		var ok bool
		form := huh.NewForm(
			huh.NewGroup(
				huh.NewConfirm().
					Title(title).
					Affirmative("Reset").
					Negative("Keep").
					Value(&ok),
			),
		)
		if err := form.Run(); err != nil {
			return false, fmt.Errorf("interactive form error: %w", err)
		}
		return ok, nil
	}
)

type ShowCmd struct {
	JSON bool `help:"Print the remembered settings as JSON."`
}

func (c *ShowCmd) Run(ctx *cli.Context) error {
	cfg, ok, err := ctx.Store.LastSession()
	if err != nil {
		return fmt.Errorf("failed to read settings: %w", err)
	}

	if c.JSON {
		if !ok {
			_, err := fmt.Fprintln(stdout, "{}")
			return err
		}
		jsonBytes, err := json.MarshalIndent(cfg, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal settings: %w", err)
		}
		_, err = fmt.Fprintln(stdout, string(jsonBytes))
		return err
	}

	if !ok {
		fmt.Fprintln(stdout, "No settings remembered yet. Start a session to save them.")
		return nil
	}

	fmt.Fprintln(stdout, "Remembered settings:")
	fmt.Fprintf(stdout, "  Video folder:    %s\n", cfg.MediaFolder)
	fmt.Fprintf(stdout, "  Alarm sound:     %s\n", cfg.AudioFile)
	fmt.Fprintf(stdout, "  Interval:        %s\n", cli.FormatMinutes(cfg))
	fmt.Fprintf(stdout, "  Hide mode:       %s\n", cfg.HideMode)
	fmt.Fprintf(stdout, "  Stop cuts alarm: %s\n", strconv.FormatBool(cfg.InterruptAlarm))
	fmt.Fprintf(stdout, "  Database:        %s\n", ctx.Store.GetConfigPath())
	return nil
}

type ResetCmd struct {
	Yes      bool `short:"y" help:"Reset without asking."`
	NoBackup bool `help:"Do not snapshot the settings database first."`
}

func (c *ResetCmd) Run(ctx *cli.Context) error {
	if !c.Yes {
		ok, err := confirmFunc("Forget the remembered folder, sound and interval?")
		if err != nil {
			return err
		}
		if !ok {
			fmt.Fprintln(stdout, "Settings kept.")
			return nil
		}
	}

	if !c.NoBackup {
		path, err := backup.NewManager(ctx.Store.GetConfigPath()).Create()
		if err != nil {
			return fmt.Errorf("failed to back up settings before reset: %w", err)
		}
		fmt.Fprintf(stdout, "Backup saved to %s\n", path)
	}

	if err := ctx.Store.ClearSettings(); err != nil {
		return fmt.Errorf("failed to reset settings: %w", err)
	}
	fmt.Fprintln(stdout, "✓ Settings reset.")
	return nil
}
