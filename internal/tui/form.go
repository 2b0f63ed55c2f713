package tui

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"nicotrack/internal/decay"
	"nicotrack/internal/model"
)

const (
	formDose = iota
	formDate
	formTime
	formHorizon
	formPoints
)

func (m *Model) initForm() {
	m.formInputs = []textinput.Model{
		newFormInput("Dose (mg): "),
		newFormInput("Date of last use (YYYY-MM-DD): "),
		newFormInput("Time of last use (HH:MM): "),
		newFormInput("Track into the future (hours): "),
		newFormInput("Time points (50-1000): "),
	}
	m.setFormFromState()
}

func newFormInput(prompt string) textinput.Model {
	input := textinput.New()
	input.Prompt = prompt
	input.CharLimit = 0
	input.Cursor.SetMode(cursor.CursorBlink)
	return input
}

func (m *Model) setFormFromState() {
	if len(m.formInputs) == 0 {
		return
	}
	m.formInputs[formDose].SetValue(strconv.FormatFloat(m.dose.AmountMg, 'f', -1, 64))
	if m.dose.TakenAt.IsZero() {
		m.formInputs[formDate].SetValue("")
		m.formInputs[formTime].SetValue("")
	} else {
		m.formInputs[formDate].SetValue(m.dose.TakenAt.Format("2006-01-02"))
		m.formInputs[formTime].SetValue(m.dose.TakenAt.Format("15:04"))
	}
	m.formInputs[formHorizon].SetValue(strconv.FormatFloat(m.cfg.Horizon, 'f', -1, 64))
	m.formInputs[formPoints].SetValue(strconv.Itoa(m.cfg.Points))
}

func (m *Model) startForm() (tea.Model, tea.Cmd) {
	m.formMode = true
	m.formError = ""
	m.setFormFromState()
	return m, m.focusFormField(0)
}

func (m *Model) updateForm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.formMode = false
		m.formError = ""
		return m, nil
	case tea.KeyEnter:
		if err := m.applyForm(); err != nil {
			m.formError = err.Error()
			return m, nil
		}
		m.formMode = false
		m.formError = ""
		m.refresh()
		m.updateLayout()
		return m, nil
	case tea.KeyTab:
		return m, m.focusFormField(m.formIndex + 1)
	case tea.KeyShiftTab:
		return m, m.focusFormField(m.formIndex - 1)
	}
	var cmd tea.Cmd
	m.formInputs[m.formIndex], cmd = m.formInputs[m.formIndex].Update(msg)
	return m, cmd
}

func (m *Model) focusFormField(idx int) tea.Cmd {
	count := len(m.formInputs)
	if count == 0 {
		return nil
	}
	if idx < 0 {
		idx = count - 1
	}
	if idx >= count {
		idx = 0
	}
	m.formIndex = idx
	var cmd tea.Cmd
	for i := range m.formInputs {
		if i == m.formIndex {
			cmd = m.formInputs[i].Focus()
		} else {
			m.formInputs[i].Blur()
		}
	}
	return cmd
}

func (m *Model) applyForm() error {
	cfg, dose, err := parseFormValues(
		m.formInputs[formDose].Value(),
		m.formInputs[formDate].Value(),
		m.formInputs[formTime].Value(),
		m.formInputs[formHorizon].Value(),
		m.formInputs[formPoints].Value(),
	)
	if err != nil {
		return err
	}
	cfg.PlotHeight = m.cfg.PlotHeight
	m.cfg = cfg
	m.dose = dose
	return nil
}

// parseFormValues validates raw form strings into tracker settings and a
// dose. An empty date leaves the dose timestamp unset; an empty time
// defaults to midnight, matching the original placeholder semantics.
func parseFormValues(doseStr, dateStr, timeStr, horizonStr, pointsStr string) (model.Config, model.Dose, error) {
	var cfg model.Config
	var dose model.Dose

	amount, err := strconv.ParseFloat(strings.TrimSpace(doseStr), 64)
	if err != nil || amount < 0 {
		return cfg, dose, fmt.Errorf("invalid dose amount (use a number >= 0)")
	}
	dose.AmountMg = amount

	dateStr = strings.TrimSpace(dateStr)
	timeStr = strings.TrimSpace(timeStr)
	if dateStr != "" {
		if timeStr == "" {
			timeStr = "00:00"
		}
		takenAt, err := time.ParseInLocation("2006-01-02 15:04", dateStr+" "+timeStr, time.Local)
		if err != nil {
			return cfg, dose, fmt.Errorf("invalid date/time (expected YYYY-MM-DD and HH:MM)")
		}
		dose.TakenAt = takenAt
	} else if timeStr != "" {
		return cfg, dose, fmt.Errorf("date is required when a time is set")
	}

	horizon, err := strconv.ParseFloat(strings.TrimSpace(horizonStr), 64)
	if err != nil || horizon < decay.MinHorizonHours {
		return cfg, dose, fmt.Errorf("invalid horizon (use a number >= %.0f)", decay.MinHorizonHours)
	}
	cfg.Horizon = horizon

	points, err := strconv.Atoi(strings.TrimSpace(pointsStr))
	if err != nil || points < decay.MinPoints || points > decay.MaxPoints {
		return cfg, dose, fmt.Errorf("invalid time points (use an integer in %d-%d)", decay.MinPoints, decay.MaxPoints)
	}
	cfg.Points = points
	cfg.DoseMg = amount

	return cfg, dose, nil
}

func (m *Model) renderForm() string {
	lines := []string{"Nicotine Parameters (enter to apply, esc to cancel)"}
	for _, input := range m.formInputs {
		lines = append(lines, input.View())
	}
	lines = append(lines, headerStyle.Render(fmt.Sprintf("Half-life is fixed at %.1f hours.", decay.HalfLifeHours)))
	if m.formError != "" {
		lines = append(lines, errorStyle.Render(m.formError))
	}
	return strings.Join(lines, "\n")
}
