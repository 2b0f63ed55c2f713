package tui

import (
	"strings"
	"testing"
	"time"

	"nicotrack/internal/model"
)

func testConfig() model.Config {
	return model.Config{DoseMg: 20, Horizon: 24, Points: 500, PlotHeight: 10}
}

func TestNewModelWithholdsEvaluationUntilDoseSet(t *testing.T) {
	now := time.Date(2025, 3, 1, 14, 0, 0, 0, time.Local)
	m := NewModel(testConfig(), now)
	if m.hasReport {
		t.Fatalf("expected no report before the dose timestamp is set")
	}
	if !strings.Contains(m.statusMsg, "enter the date and time") {
		t.Fatalf("expected input prompt, got %q", m.statusMsg)
	}
	if !m.formMode {
		t.Fatalf("expected the form to open on start")
	}
}

func TestRefreshRejectsFutureDose(t *testing.T) {
	now := time.Date(2025, 3, 1, 14, 0, 0, 0, time.Local)
	m := NewModel(testConfig(), now)
	m.dose.TakenAt = now.Add(time.Hour)
	m.refresh()
	if m.hasReport {
		t.Fatalf("expected no report for a future dose")
	}
	if !strings.Contains(m.statusMsg, "future") {
		t.Fatalf("expected future-dose message, got %q", m.statusMsg)
	}
}

func TestRefreshTreatsSentinelMidnightAsUnset(t *testing.T) {
	now := time.Date(2025, 3, 1, 14, 0, 0, 0, time.Local)
	m := NewModel(testConfig(), now)
	m.dose.TakenAt = time.Date(2025, 3, 1, 0, 0, 0, 0, time.Local)
	m.refresh()
	if m.hasReport {
		t.Fatalf("expected sentinel midnight to withhold evaluation")
	}
	if !strings.Contains(m.statusMsg, "enter the date and time") {
		t.Fatalf("expected input prompt, got %q", m.statusMsg)
	}
}

func TestRefreshProducesReport(t *testing.T) {
	now := time.Date(2025, 3, 1, 14, 0, 0, 0, time.Local)
	m := NewModel(testConfig(), now)
	m.dose.TakenAt = now.Add(-4 * time.Hour)
	m.refresh()
	if !m.hasReport {
		t.Fatalf("expected report, got status %q", m.statusMsg)
	}
	if m.statusMsg != "" {
		t.Fatalf("expected no status message, got %q", m.statusMsg)
	}
	if got := m.report.Eval.RemainingMg; got < 4.99 || got > 5.01 {
		t.Fatalf("expected ~5 mg remaining, got %v", got)
	}
	if len(m.milestoneTable.Rows()) != 9 {
		t.Fatalf("expected 9 milestone rows, got %d", len(m.milestoneTable.Rows()))
	}
}

func TestTickAdvancesClock(t *testing.T) {
	now := time.Date(2025, 3, 1, 14, 0, 0, 0, time.Local)
	m := NewModel(testConfig(), now)
	m.dose.TakenAt = now.Add(-2 * time.Hour)
	m.refresh()
	before := m.report.Eval.RemainingMg

	next := now.Add(2 * time.Hour)
	updated, _ := m.Update(tickMsg(next))
	m = updated.(*Model)
	if !m.now.Equal(next) {
		t.Fatalf("expected clock advanced to %v, got %v", next, m.now)
	}
	if m.report.Eval.RemainingMg >= before {
		t.Fatalf("expected level to drop after tick: %v -> %v", before, m.report.Eval.RemainingMg)
	}
}

func TestNextMilestoneLabel(t *testing.T) {
	statuses := []model.MilestoneStatus{
		{Milestone: model.Milestone{Label: "a"}, State: model.StateAchieved},
		{Milestone: model.Milestone{Label: "b"}, State: model.StateUpcoming, HoursLeft: 3.5},
		{Milestone: model.Milestone{Label: "c"}, State: model.StateUpcoming, HoursLeft: 9},
	}
	if got := nextMilestoneLabel(statuses); got != "b in 3.5 hours" {
		t.Fatalf("unexpected next milestone: %q", got)
	}
	if got := nextMilestoneLabel(nil); got != "none within horizon" {
		t.Fatalf("unexpected empty label: %q", got)
	}
}

func TestFormatHelpers(t *testing.T) {
	if got := formatHours(3.25); got != "3.2 hours" {
		t.Fatalf("unexpected hours format: %q", got)
	}
	if got := formatHours(72); got != "3.0 days" {
		t.Fatalf("unexpected days format: %q", got)
	}
	if got := formatOffset(0.33); got != "20m" {
		t.Fatalf("unexpected minutes offset: %q", got)
	}
	if got := formatOffset(8); got != "8h" {
		t.Fatalf("unexpected hours offset: %q", got)
	}
	if got := formatOffset(720); got != "30d" {
		t.Fatalf("unexpected days offset: %q", got)
	}
}
