package system

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/julianstephens/breakreel/internal/cli"
	"github.com/julianstephens/breakreel/internal/constants"
	"github.com/julianstephens/breakreel/internal/dialogs"
	"github.com/julianstephens/breakreel/internal/logger"
)

var (
	collectFunc     = dialogs.Collect
	panicButtonFunc = dialogs.PanicButton
	showErrorFunc   = dialogs.ShowError
	showInfoFunc    = dialogs.ShowInfo
)

type WizardCmd struct{}

func (c *WizardCmd) Run(ctx *cli.Context) error {
	cfg, err := collectFunc(ctx.LastSession())
	if errors.Is(err, dialogs.ErrCanceled) {
		fmt.Println("Cancelled.")
		return nil
	}
	if err != nil {
		c.showError(err)
		return err
	}

	sigCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	window := newPanicWindow()
	runner := ctx.NewSessionRunner(sigCtx, ctx.NewScheduler(window))
	session, err := runner.Start(cfg)
	if err != nil {
		c.showError(err)
		return err
	}
	fmt.Printf("Session %s started: a video every %s from %s.\n", session.ID, cli.FormatMinutes(cfg), cfg.MediaFolder)

	buttonCtx, cancelButton := context.WithCancel(sigCtx)
	defer cancelButton()
	go func() {
		<-session.Done()
		cancelButton()
	}()

	window.waitForPanic(buttonCtx, cfg)

	runner.Shutdown()
	fmt.Println(constants.StoppedMessage)
	if err := ctx.Notifier.Notify(constants.StoppedMessage); err != nil {
		logger.Debug("Stop notification failed", "error", err)
	}
	if err := showInfoFunc(constants.StoppedMessage); err != nil {
		logger.Debug("Stop dialog failed", "error", err)
	}
	return nil
}

func printStopHint() {
	fmt.Println("Press Ctrl+C to stop.")
}

func (c *WizardCmd) showError(err error) {
	if dlgErr := showErrorFunc(err); dlgErr != nil {
		logger.Debug("Error dialog failed", "error", dlgErr)
	}
}
