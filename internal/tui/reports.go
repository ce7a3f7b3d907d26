package tui

import (
	"fmt"
	"strings"

	"github.com/NimbleMarkets/ntcharts/barchart"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sadopc/trackhours/internal/store"
)

// reportsModel charts how the session's recorded time splits across tasks.
type reportsModel struct {
	store  *store.Store
	width  int
	height int

	totals       []store.TaskTotal
	totalSeconds int64

	chart barchart.Model
}

func newReportsModel(s *store.Store) reportsModel {
	return reportsModel{
		store: s,
		chart: barchart.New(60, 12),
	}
}

func (r *reportsModel) setSize(w, h int) {
	r.width = w
	r.height = h
}

type reportsDataMsg struct {
	totals       []store.TaskTotal
	totalSeconds int64
}

func (r reportsModel) refresh() tea.Cmd {
	return func() tea.Msg {
		totals, err := r.store.TaskTotals()
		if err != nil {
			return statusMsg{text: fmt.Sprintf("Reports error: %v", err), isError: true}
		}
		total, err := r.store.TotalSeconds()
		if err != nil {
			return statusMsg{text: fmt.Sprintf("Reports error: %v", err), isError: true}
		}
		return reportsDataMsg{totals: totals, totalSeconds: total}
	}
}

func (r reportsModel) update(msg tea.Msg) (reportsModel, tea.Cmd) {
	switch msg := msg.(type) {
	case reportsDataMsg:
		r.totals = msg.totals
		r.totalSeconds = msg.totalSeconds
		r.buildChart()
		return r, nil
	}
	return r, nil
}

func (r *reportsModel) buildChart() {
	chartWidth := r.width - 8
	if chartWidth < 20 {
		chartWidth = 20
	}
	chartHeight := 12
	if r.height > 30 {
		chartHeight = 16
	}

	r.chart = barchart.New(chartWidth, chartHeight)

	var bars []barchart.BarData
	for i, t := range r.totals {
		style := lipgloss.NewStyle().Foreground(lipgloss.Color(chartColors[i%len(chartColors)]))
		bars = append(bars, barchart.BarData{
			Label: truncate(t.Name, 10),
			Values: []barchart.BarValue{{
				Name:  t.Name,
				Value: float64(t.TotalSeconds) / 60.0,
				Style: style,
			}},
		})
	}
	if len(bars) == 0 {
		return
	}

	r.chart.PushAll(bars)
	r.chart.Draw()
}

func (r reportsModel) view() string {
	w := r.width - 4

	header := lipgloss.JoinHorizontal(lipgloss.Bottom,
		titleStyle.Render("Reports"), "  ",
		mutedStyle.Render("This session"), "  ",
		highlightStyle.Render(formatMinutes(r.totalSeconds)),
	)

	if len(r.totals) == 0 {
		return panelStyle.Width(w).Render(
			lipgloss.JoinVertical(lipgloss.Left, header, "", mutedStyle.Render("  No tasks recorded yet")),
		)
	}

	chartView := r.chart.View()
	legend := mutedStyle.Render("  bar height: minutes")
	tableView := r.renderSummaryTable(w)

	return panelStyle.Width(w).Render(
		lipgloss.JoinVertical(lipgloss.Left,
			header, "", chartView, legend, "", tableView,
		),
	)
}

func (r reportsModel) renderSummaryTable(w int) string {
	var rows []string
	headerRow := mutedStyle.Render(fmt.Sprintf("  %-30s %10s %8s", "Task Name", "Duration", "Records"))
	rows = append(rows, headerRow)
	rows = append(rows, mutedStyle.Render("  "+strings.Repeat("─", min(w-6, 50))))

	for i, t := range r.totals {
		colorDot := lipgloss.NewStyle().Foreground(lipgloss.Color(chartColors[i%len(chartColors)])).Render("●")
		rows = append(rows, fmt.Sprintf("  %s %-28s %10s %8d",
			colorDot, truncate(t.Name, 28), formatMinutes(t.TotalSeconds), t.RecordCount,
		))
	}

	return strings.Join(rows, "\n")
}
