package tui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/sadopc/trackhours/internal/reminder"
)

// promptModel is the "continue timing?" confirmation raised by the reminder
// poller. While it is open it captures all input.
type promptModel struct {
	width int

	active   bool
	form     *huh.Form
	taskName string
	interval reminder.Interval

	// Survives value copies of the model.
	keepGoing *bool
}

func newPromptModel() promptModel {
	keep := true
	return promptModel{keepGoing: &keep}
}

func (p *promptModel) setSize(w, _ int) {
	p.width = w
}

func (p promptModel) open(taskName string, iv reminder.Interval) (promptModel, tea.Cmd) {
	*p.keepGoing = true
	p.taskName = taskName
	p.interval = iv
	p.form = huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title("Continue Task?").
				Description(promptText(taskName, iv)).
				Affirmative("Yes").
				Negative("No").
				Value(p.keepGoing),
		),
	).WithShowHelp(true)
	p.active = true
	return p, p.form.Init()
}

func promptText(taskName string, iv reminder.Interval) string {
	return fmt.Sprintf("You have been working on '%s' for %s minutes.\n\nContinue timing?", taskName, iv)
}

func (p promptModel) update(msg tea.Msg) (promptModel, tea.Cmd) {
	if !p.active || p.form == nil {
		return p, nil
	}

	// Dismissing the prompt keeps the timer running.
	if msg, ok := msg.(tea.KeyMsg); ok && msg.String() == "esc" {
		return p.close(true)
	}

	form, cmd := p.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		p.form = f
	}

	switch p.form.State {
	case huh.StateCompleted:
		return p.close(*p.keepGoing)
	case huh.StateAborted:
		return p.close(true)
	}
	return p, cmd
}

func (p promptModel) close(keepGoing bool) (promptModel, tea.Cmd) {
	p.active = false
	p.form = nil
	return p, func() tea.Msg { return reminderAnsweredMsg{keepGoing: keepGoing} }
}

func (p promptModel) view() string {
	if !p.active || p.form == nil {
		return ""
	}
	return promptPanelStyle.Width(p.width - 4).Render(p.form.View())
}
