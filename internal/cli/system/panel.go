package system

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/breakreel/internal/cli"
	"github.com/julianstephens/breakreel/internal/scheduler"
	"github.com/julianstephens/breakreel/internal/tui"
)

type PanelCmd struct{}

func (c *PanelCmd) Run(ctx *cli.Context) error {
	window := tui.NewWindow()
	sched := ctx.NewScheduler(window, scheduler.WithObserver(window.Observer()))

	runCtx, cancel := context.WithCancel(context.Background())
	defer cancel()
	runner := ctx.NewSessionRunner(runCtx, sched)
	defer runner.Shutdown()

	p := tea.NewProgram(tui.NewModel(runner, ctx.Notifier, ctx.LastSession()), tea.WithAltScreen())
	window.Attach(p)
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("control panel failed: %w", err)
	}
	return nil
}
