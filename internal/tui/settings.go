package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/sadopc/trackhours/internal/export"
	"github.com/sadopc/trackhours/internal/reminder"
	"github.com/sadopc/trackhours/internal/store"
)

type settingsModel struct {
	store  *store.Store
	width  int
	height int

	settings   []store.Setting
	formActive bool
	form       *huh.Form

	// Form values as pointers (survive value copies)
	reminderInterval *string
	exportFormat     *string
	exportDir        *string
}

func newSettingsModel(s *store.Store) settingsModel {
	ri, ef, ed := "", "", ""
	return settingsModel{
		store:            s,
		reminderInterval: &ri,
		exportFormat:     &ef,
		exportDir:        &ed,
	}
}

func (s *settingsModel) setSize(w, h int) {
	s.width = w
	s.height = h
}

type settingsDataMsg struct {
	settings []store.Setting
}

// settingsSavedMsg tells the app that settings other views depend on changed.
type settingsSavedMsg struct{}

func (s settingsModel) refresh() tea.Cmd {
	return func() tea.Msg {
		settings, err := s.store.GetAllSettings()
		if err != nil {
			return statusMsg{text: fmt.Sprintf("Settings error: %v", err), isError: true}
		}
		return settingsDataMsg{settings: settings}
	}
}

func (s settingsModel) update(msg tea.Msg) (settingsModel, tea.Cmd) {
	if s.formActive && s.form != nil {
		return s.updateForm(msg)
	}

	switch msg := msg.(type) {
	case settingsDataMsg:
		s.settings = msg.settings
		return s, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Enter), key.Matches(msg, keys.Edit):
			return s.showForm()
		}
	}
	return s, nil
}

func (s settingsModel) showForm() (settingsModel, tea.Cmd) {
	*s.reminderInterval = s.getVal(store.SettingReminderInterval, "30")
	*s.exportFormat = s.getVal(store.SettingExportFormat, string(export.FormatCSV))
	*s.exportDir = s.getVal(store.SettingExportDir, "")

	var intervals []huh.Option[string]
	for _, iv := range reminder.Intervals {
		intervals = append(intervals, huh.NewOption(intervalLabel(iv), iv.String()))
	}
	var formats []huh.Option[string]
	for _, f := range export.Formats {
		formats = append(formats, huh.NewOption(strings.ToUpper(string(f)), string(f)))
	}

	s.form = huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().Title("Task reminder interval").
				Options(intervals...).
				Value(s.reminderInterval),
		).Title("Reminders"),
		huh.NewGroup(
			huh.NewSelect[string]().Title("Default format").
				Options(formats...).
				Value(s.exportFormat),
			huh.NewInput().Title("Export directory").
				Description("Empty means your home directory").
				Value(s.exportDir),
		).Title("Export"),
	).WithShowHelp(true).WithShowErrors(true)

	s.formActive = true
	return s, s.form.Init()
}

func (s settingsModel) updateForm(msg tea.Msg) (settingsModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		if msg.String() == "esc" {
			s.formActive = false
			s.form = nil
			return s, nil
		}
	}

	form, cmd := s.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		s.form = f
	}

	if s.form.State == huh.StateCompleted {
		s.formActive = false
		if err := s.saveSettings(); err != nil {
			return s, func() tea.Msg {
				return statusMsg{text: fmt.Sprintf("Settings error: %v", err), isError: true}
			}
		}
		return s, tea.Batch(s.refresh(), func() tea.Msg { return settingsSavedMsg{} })
	}

	return s, cmd
}

func (s settingsModel) saveSettings() error {
	values := []store.Setting{
		{Key: store.SettingReminderInterval, Value: *s.reminderInterval},
		{Key: store.SettingExportFormat, Value: *s.exportFormat},
		{Key: store.SettingExportDir, Value: strings.TrimSpace(*s.exportDir)},
	}
	for _, v := range values {
		if err := s.store.SetSetting(v.Key, v.Value); err != nil {
			return err
		}
	}
	return nil
}

func (s settingsModel) getVal(k, fallback string) string {
	v, err := s.store.GetSetting(k)
	if err != nil {
		return fallback
	}
	return v
}

func (s settingsModel) view() string {
	w := s.width - 4

	if s.formActive && s.form != nil {
		title := titleStyle.Render("Settings")
		formView := s.form.View()
		return panelStyle.Width(w).Render(
			lipgloss.JoinVertical(lipgloss.Left, title, "", formView),
		)
	}

	title := titleStyle.Render("Settings")
	hint := mutedStyle.Render("Press enter to edit settings. Settings last until you quit.")

	var rows []string
	rows = append(rows, title)
	rows = append(rows, "")

	for _, setting := range s.settings {
		label := lipgloss.NewStyle().Width(24).Render(setting.Key)
		value := highlightStyle.Render(formatSettingValue(setting.Key, setting.Value))
		rows = append(rows, fmt.Sprintf("  %s %s", label, value))
	}

	rows = append(rows, "")
	rows = append(rows, hint)

	return panelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func intervalLabel(iv reminder.Interval) string {
	if iv == reminder.Never {
		return "Never"
	}
	return fmt.Sprintf("%d minutes", int(iv))
}

func formatSettingValue(k, v string) string {
	switch k {
	case store.SettingReminderInterval:
		if iv, err := reminder.ParseInterval(v); err == nil {
			return intervalLabel(iv)
		}
	case store.SettingExportFormat:
		return strings.ToUpper(v)
	case store.SettingExportDir:
		if v == "" {
			return "~"
		}
	}
	return v
}
