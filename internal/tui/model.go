// Package tui provides the Bubble Tea tracker dashboard.
package tui

import (
	"errors"
	"time"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"nicotrack/internal/decay"
	"nicotrack/internal/model"
	"nicotrack/internal/report"
)

const (
	tabChart = iota
	tabMilestones
)

// tickMsg advances the injected evaluation clock.
type tickMsg time.Time

const tickInterval = time.Second

// Model implements the Bubble Tea tracker UI.
type Model struct {
	cfg  model.Config
	dose model.Dose
	now  time.Time

	report    report.Report
	hasReport bool
	statusMsg string

	tabs           []string
	activeTab      int
	chartView      viewport.Model
	milestoneTable table.Model

	width  int
	height int

	formMode   bool
	formInputs []textinput.Model
	formIndex  int
	formError  string
}

// NewModel constructs a tracker dashboard. The last-use timestamp starts at
// its placeholder value, so the dashboard prompts for input until the form
// is filled in.
func NewModel(cfg model.Config, now time.Time) *Model {
	m := &Model{
		cfg:  cfg,
		dose: model.Dose{AmountMg: cfg.DoseMg},
		now:  now,
		tabs: []string{"Chart", "Milestones"},
	}
	m.chartView = viewport.New(0, 0)
	m.initMilestoneTable()
	m.initForm()
	m.formMode = true
	m.refresh()
	return m
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(tickCmd(), m.focusFormField(0))
}

func tickCmd() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.updateLayout()
		m.refresh()
		return m, nil
	case tickMsg:
		m.now = time.Time(msg)
		m.refresh()
		return m, tickCmd()
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
		if m.formMode {
			return m.updateForm(msg)
		}
		switch msg.String() {
		case "q":
			return m, tea.Quit
		case "left", "h":
			m.moveTab(-1)
			return m, tea.ClearScreen
		case "right", "l":
			m.moveTab(1)
			return m, tea.ClearScreen
		case "/", "enter":
			return m.startForm()
		case "g", "home":
			if m.activeTab == tabMilestones {
				m.milestoneTable.GotoTop()
			} else {
				m.chartView.GotoTop()
			}
			return m, nil
		case "G", "end":
			if m.activeTab == tabMilestones {
				m.milestoneTable.GotoBottom()
			} else {
				m.chartView.GotoBottom()
			}
			return m, nil
		default:
			if m.activeTab == tabMilestones {
				var cmd tea.Cmd
				m.milestoneTable, cmd = m.milestoneTable.Update(msg)
				return m, cmd
			}
			var cmd tea.Cmd
			m.chartView, cmd = m.chartView.Update(msg)
			return m, cmd
		}
	}
	return m, nil
}

func (m *Model) moveTab(delta int) {
	count := len(m.tabs)
	if count == 0 {
		return
	}
	next := m.activeTab + delta
	if next < 0 {
		next = count - 1
	}
	if next >= count {
		next = 0
	}
	m.activeTab = next
	if m.activeTab == tabMilestones {
		m.milestoneTable.Focus()
	} else {
		m.milestoneTable.Blur()
	}
}

// refresh recomputes the evaluation against the current clock. Every refresh
// is a full stateless recomputation from the inputs.
func (m *Model) refresh() {
	m.hasReport = false
	if m.dose.TakenAt.IsZero() || decay.IsSentinel(m.dose.TakenAt, m.now) {
		m.statusMsg = "Please enter the date and time of your last nicotine use."
		m.renderTabContents()
		return
	}
	params := model.Params{
		HalfLifeHours: decay.HalfLifeHours,
		HorizonHours:  m.cfg.Horizon,
		Points:        m.cfg.Points,
	}
	r, err := report.Build(m.dose, params, m.now)
	if err != nil {
		if errors.Is(err, decay.ErrFutureDose) {
			m.statusMsg = "Last nicotine use time cannot be in the future."
		} else {
			m.statusMsg = err.Error()
		}
		m.renderTabContents()
		return
	}
	m.statusMsg = ""
	m.report = r
	m.hasReport = true
	m.applyMilestoneTable()
	m.renderTabContents()
}
