package tui

import (
	"fmt"
	"strconv"

	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/breakreel/internal/constants"
)

func (m Model) View() string {
	if m.quitting {
		return ""
	}
	if m.compact && m.view == viewPanel {
		return m.viewCompact()
	}

	var content string
	switch m.view {
	case viewEdit:
		content = m.form.View()
	case viewConfirmQuit:
		content = m.viewConfirmQuit()
	default:
		content = m.viewPanel()
	}

	return lipgloss.JoinVertical(
		lipgloss.Left,
		titleStyle.Render(constants.AppName),
		docStyle.Render(content),
		m.help.View(m.keys),
	)
}

func (m Model) viewPanel() string {
	rows := []string{
		m.row("Video folder", orPlaceholder(m.cfg.MediaFolder)),
		m.row("Alarm sound", orPlaceholder(m.cfg.AudioFile)),
		m.row("Interval", strconv.FormatFloat(m.cfg.IntervalMinutes(), 'f', -1, 64)+" min"),
		m.row("Hide mode", string(m.cfg.HideMode)),
		m.row("State", stateStyle.Render(m.state.String())),
		m.row("Videos shown", strconv.Itoa(m.ticks)),
	}

	if m.state == constants.StateWaiting {
		rows = append(rows,
			"",
			m.progress.ViewAs(m.elapsedFraction()),
			fmt.Sprintf("Next video in %s", formatDuration(m.remaining())),
		)
	}
	if m.lastTickErr != "" {
		rows = append(rows, "", warningStyle.Render("Last break: "+m.lastTickErr))
	}
	if m.status != "" {
		status := valueStyle.Render(m.status)
		if m.statusErr {
			status = dangerStyle.Render(m.status)
		}
		rows = append(rows, "", status)
	}

	return panelStyle.Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func (m Model) viewCompact() string {
	line := fmt.Sprintf("%s %s", titleStyle.Render(constants.AppName), stateStyle.Render(m.state.String()))
	if m.state == constants.StateWaiting && !m.waitingSince.IsZero() {
		line += fmt.Sprintf(" · next video in %s", formatDuration(m.remaining()))
	}
	return line + " · p to stop"
}

func (m Model) viewConfirmQuit() string {
	question := "Quit breakreel?"
	if m.running() {
		question = "Stop the running session and quit?"
	}
	return lipgloss.Place(m.width, max(m.height-4, 0),
		lipgloss.Center, lipgloss.Center,
		lipgloss.JoinVertical(lipgloss.Center,
			dangerStyle.Render(question),
			"",
			"[y] Yes",
			"[n] No",
		),
	)
}

func (m Model) row(label, value string) string {
	return lipgloss.JoinHorizontal(lipgloss.Top, labelStyle.Render(label), valueStyle.Render(value))
}

func orPlaceholder(s string) string {
	if s == "" {
		return warningStyle.Render("not selected")
	}
	return s
}
