package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/alecthomas/kong"

	"github.com/julianstephens/breakreel/internal/cli"
	"github.com/julianstephens/breakreel/internal/cli/settings"
	"github.com/julianstephens/breakreel/internal/cli/system"
	"github.com/julianstephens/breakreel/internal/constants"
	apperrors "github.com/julianstephens/breakreel/internal/errors"
	"github.com/julianstephens/breakreel/internal/instance"
	"github.com/julianstephens/breakreel/internal/logger"
	"github.com/julianstephens/breakreel/internal/notifier"
	"github.com/julianstephens/breakreel/internal/storage/sqlite"
)

var CLI struct {
	Version      kong.VersionFlag
	ConfigDir    string        `help:"Directory holding settings, logs and the lockfile." type:"path" default:"${config_dir}"`
	Debug        bool          `help:"Write debug logs."`
	VideoEngine  string        `help:"Video player (${video_engines})." enum:"${video_engines}" default:"auto"`
	AudioEngine  string        `help:"Alarm player (${audio_engines})." enum:"${audio_engines}" default:"auto"`
	StartupGrace time.Duration `help:"A video player exiting within this window counts as failed." default:"${startup_grace}"`
	Background   string        `help:"Color shown around the video, e.g. #000000." default:"${background}"`
	NoNotify     bool          `help:"Disable desktop notifications."`

	Panel  system.PanelCmd  `cmd:"" help:"Open the control panel." default:"1"`
	Wizard system.WizardCmd `cmd:"" help:"Ask for settings with dialogs and run until the panic button is pressed."`
	Doctor system.DoctorCmd `cmd:"" help:"Check players, storage and the session lock."`
	Config struct {
		Show  settings.ShowCmd  `cmd:"" help:"Show the remembered settings." default:"1"`
		Reset settings.ResetCmd `cmd:"" help:"Forget the remembered settings."`
	} `cmd:"" help:"Manage remembered settings."`
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name(constants.AppName),
		kong.Description("Plays an alarm and then a random break video on a timer."),
		kong.UsageOnError(),
		kong.DefaultEnvars(strings.TrimSuffix(constants.EnvPrefix, "_")),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact:             true,
			NoExpandSubcommands: true,
		}),
		kong.Vars{
			"version":       constants.Version,
			"config_dir":    constants.DefaultConfigDir,
			"video_engines": strings.Join(append([]string{constants.EngineAuto}, constants.VideoEngines...), ","),
			"audio_engines": strings.Join(append([]string{constants.EngineAuto}, constants.AudioEngines...), ","),
			"startup_grace": constants.DefaultStartupGrace.String(),
			"background":    constants.SurfaceBackground,
		},
	)

	command := ctx.Selected().Name
	if err := logger.Init(logger.Config{
		Debug:     CLI.Debug,
		ConfigDir: CLI.ConfigDir,
		Quiet:     command == "panel",
	}); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to initialize logger: %v\n", err)
	}

	store := sqlite.NewStore(filepath.Join(CLI.ConfigDir, constants.DatabaseFileName))
	appCtx := &cli.Context{
		Store:        store,
		Lock:         instance.New(CLI.ConfigDir),
		Notifier:     notifier.New(!CLI.NoNotify),
		ConfigDir:    CLI.ConfigDir,
		VideoEngine:  CLI.VideoEngine,
		AudioEngine:  CLI.AudioEngine,
		StartupGrace: CLI.StartupGrace,
		Background:   CLI.Background,
	}

	// Doctor inspects the database as it is and must not create or migrate it.
	if command != "doctor" {
		if err := store.Init(); err != nil {
			apperrors.Fatal(err)
		}
	}

	err := ctx.Run(appCtx)
	store.Close()
	apperrors.Fatal(err)
}
