package tui

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"

	"nicotrack/internal/model"
	"nicotrack/internal/report"
)

var (
	activeNavStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F0F0F0")).
			Bold(true).
			Padding(0, 1).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#C89A3A"))
	inactiveNavStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#B0B0B0")).
				Padding(0, 1).
				Border(lipgloss.RoundedBorder(), true).
				BorderForeground(lipgloss.Color("#4A4A4A"))
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	promptStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A"))
	cardStyle   = lipgloss.NewStyle().
			Padding(0, 1).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#4A4A4A"))
	cardTitleStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	cardValueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Bold(true)
	tableMutedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#B8B8B8"))
)

// View implements tea.Model.
func (m *Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	headerHeight, bodyHeight, footerHeight := m.layoutHeights()
	header := fitLines(m.renderHeader(), m.width, headerHeight)
	body := fitLines(m.renderBody(bodyHeight), m.width, bodyHeight)
	footer := fitLines(m.renderFooter(), m.width, footerHeight)
	return strings.Join([]string{header, body, footer}, "\n")
}

func (m *Model) layoutHeights() (headerHeight, bodyHeight, footerHeight int) {
	tabsHeight := lipgloss.Height(activeNavStyle.Render("X"))
	if tabsHeight < 1 {
		tabsHeight = 1
	}
	headerHeight = tabsHeight + 1
	footerHeight = 1
	if !m.formMode && m.statusMsg != "" {
		footerHeight++
	}
	bodyHeight = m.height - headerHeight - footerHeight
	if bodyHeight < 1 {
		bodyHeight = 1
	}
	return headerHeight, bodyHeight, footerHeight
}

func (m *Model) updateLayout() {
	if m.width <= 0 || m.height <= 0 {
		return
	}
	_, bodyHeight, _ := m.layoutHeights()
	m.chartView.Width = m.width
	m.chartView.Height = bodyHeight
	m.milestoneTable.SetWidth(m.width)
	m.milestoneTable.SetHeight(maxInt(1, bodyHeight-1))
	for i := range m.formInputs {
		promptWidth := lipgloss.Width(m.formInputs[i].Prompt)
		m.formInputs[i].Width = maxInt(10, m.width-promptWidth-2)
	}
}

func (m *Model) renderHeader() string {
	tabs := padLines(m.renderTabs(), m.width)
	summary := padLines(m.renderSettingsSummary(), m.width)
	return tabs + "\n" + summary
}

func (m *Model) renderTabs() string {
	parts := make([]string, 0, len(m.tabs))
	for i, tab := range m.tabs {
		if i == m.activeTab {
			parts = append(parts, activeNavStyle.Render(tab))
		} else {
			parts = append(parts, inactiveNavStyle.Render(tab))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}

func (m *Model) renderSettingsSummary() string {
	lastUse := "unset"
	if !m.dose.TakenAt.IsZero() {
		lastUse = m.dose.TakenAt.Format("2006-01-02 15:04")
	}
	summary := fmt.Sprintf("Settings: dose=%.1fmg  last-use=%s  horizon=%.0fh  points=%d",
		m.dose.AmountMg, lastUse, m.cfg.Horizon, m.cfg.Points)
	return headerStyle.Render(truncateLine(summary, m.width))
}

func (m *Model) renderHelp() string {
	return headerStyle.Render("Nav: left/right  Scroll: up/down/pgup/pgdn  Edit inputs: /  Quit: q")
}

func (m *Model) renderFooter() string {
	if m.formMode {
		return headerStyle.Render("tab/shift+tab: next field  enter: apply  esc: cancel")
	}
	if m.statusMsg != "" {
		style := errorStyle
		if !m.hasReport && m.dose.TakenAt.IsZero() {
			style = promptStyle
		}
		return m.renderHelp() + "\n" + style.Render(m.statusMsg)
	}
	return m.renderHelp()
}

func (m *Model) renderBody(height int) string {
	if m.formMode {
		return fitLines(m.renderForm(), m.width, height)
	}
	if m.activeTab == tabMilestones {
		if !m.hasReport {
			return fitLines(m.statusMsg, m.width, height)
		}
		return fitLines(tableMutedStyle.Render(m.milestoneTable.View()), m.width, height)
	}
	return fitLines(m.chartView.View(), m.width, height)
}

func (m *Model) renderTabContents() {
	if !m.hasReport {
		m.chartView.SetContent(m.statusMsg)
		return
	}
	width := m.width
	if width <= 0 {
		width = 80
	}
	m.chartView.SetContent(renderChart(m.report, m.cfg.PlotHeight, width))
}

func renderChart(r report.Report, plotHeight, width int) string {
	cards := renderProgressCards(r, width)
	var buf bytes.Buffer
	if err := report.RenderPlot(&buf, r, width, plotHeight, true); err != nil {
		return fmt.Sprintf("Failed to render plot: %v", err)
	}
	return strings.TrimRight(cards+"\n\n"+buf.String(), "\n")
}

func renderProgressCards(r report.Report, width int) string {
	cards := []string{
		metricCard("Remaining", fmt.Sprintf("%.2f mg", r.Eval.RemainingMg)),
		metricCard("Since last use", formatHours(r.Eval.ElapsedHours)),
		metricCard("Last use", r.Dose.TakenAt.Format("2006-01-02 15:04")),
		metricCard("Next milestone", nextMilestoneLabel(r.Statuses)),
	}
	if width < 80 {
		return strings.Join(cards, "\n")
	}
	row1 := lipgloss.JoinHorizontal(lipgloss.Top, cards[0], cards[1])
	row2 := lipgloss.JoinHorizontal(lipgloss.Top, cards[2], cards[3])
	return lipgloss.JoinVertical(lipgloss.Left, row1, row2)
}

func metricCard(label, value string) string {
	content := fmt.Sprintf("%s\n%s", cardTitleStyle.Render(label), cardValueStyle.Render(value))
	return cardStyle.Render(content)
}

// nextMilestoneLabel picks the nearest upcoming milestone within the
// horizon, or reports that none is due.
func nextMilestoneLabel(statuses []model.MilestoneStatus) string {
	for _, st := range statuses {
		if st.State == model.StateUpcoming {
			return fmt.Sprintf("%s in %s", st.Milestone.Label, formatHours(st.HoursLeft))
		}
	}
	return "none within horizon"
}

func formatHours(hours float64) string {
	if hours >= 48 {
		return fmt.Sprintf("%.1f days", hours/24)
	}
	return fmt.Sprintf("%.1f hours", hours)
}

func (m *Model) initMilestoneTable() {
	m.milestoneTable = table.New(
		table.WithColumns(milestoneColumns()),
		table.WithHeight(1),
	)
	m.milestoneTable.SetStyles(milestoneTableStyles())
}

func (m *Model) applyMilestoneTable() {
	rows := make([]table.Row, 0, len(m.report.Statuses))
	for _, st := range m.report.Statuses {
		status := st.State.String()
		when := st.At.Format("2006-01-02 15:04")
		if st.State == model.StateUpcoming {
			status = fmt.Sprintf("in %s", formatHours(st.HoursLeft))
		}
		onPlot := ""
		if st.OnPlot {
			onPlot = "yes"
		}
		rows = append(rows, table.Row{
			st.Milestone.Label,
			formatOffset(st.Milestone.OffsetHours),
			status,
			when,
			onPlot,
		})
	}
	m.milestoneTable.SetRows(rows)
}

func milestoneColumns() []table.Column {
	return []table.Column{
		{Title: "Milestone", Width: 28},
		{Title: "Offset", Width: 8},
		{Title: "Status", Width: 16},
		{Title: "When", Width: 17},
		{Title: "On chart", Width: 8},
	}
}

func formatOffset(hours float64) string {
	if hours >= 24 {
		return fmt.Sprintf("%.0fd", hours/24)
	}
	if hours < 1 {
		return fmt.Sprintf("%.0fm", hours*60)
	}
	return fmt.Sprintf("%.0fh", hours)
}

func milestoneTableStyles() table.Styles {
	styles := table.DefaultStyles()
	styles.Header = styles.Header.
		Border(lipgloss.NormalBorder(), false, false, true, false).
		BorderForeground(lipgloss.Color("#4A4A4A")).
		Foreground(lipgloss.Color("#C0C0C0")).
		Bold(true).
		Padding(0, 1).
		PaddingLeft(0)
	styles.Cell = styles.Cell.
		Padding(0, 1).
		PaddingLeft(0)
	styles.Selected = styles.Cell.
		Foreground(lipgloss.Color("#F0F0F0")).
		Bold(true)
	return styles
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func padLines(s string, width int) string {
	if width <= 0 || s == "" {
		return s
	}
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = padLine(line, width)
	}
	return strings.Join(lines, "\n")
}

func padLine(line string, width int) string {
	lineWidth := lipgloss.Width(line)
	if lineWidth < width {
		return line + strings.Repeat(" ", width-lineWidth)
	}
	return line
}

func fitLines(s string, width, height int) string {
	if width <= 0 || height <= 0 {
		return s
	}
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = padLine(line, width)
	}
	if len(lines) > height {
		lines = lines[:height]
	}
	for len(lines) < height {
		lines = append(lines, strings.Repeat(" ", width))
	}
	return strings.Join(lines, "\n")
}

func truncateLine(s string, width int) string {
	if width <= 0 {
		return s
	}
	runes := []rune(s)
	if len(runes) <= width {
		return s
	}
	if width <= 3 {
		return string(runes[:width])
	}
	return string(runes[:width-3]) + "..."
}
