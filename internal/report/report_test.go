package report

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	"nicotrack/internal/decay"
	"nicotrack/internal/model"
)

func testReport(t *testing.T) Report {
	t.Helper()
	doseAt := time.Date(2025, 3, 1, 8, 0, 0, 0, time.UTC)
	now := doseAt.Add(4 * time.Hour)
	dose := model.Dose{AmountMg: 20, TakenAt: doseAt}
	params := model.Params{HalfLifeHours: decay.HalfLifeHours, HorizonHours: 24, Points: 200}
	r, err := Build(dose, params, now)
	if err != nil {
		t.Fatalf("build report: %v", err)
	}
	return r
}

func TestBuildClassifiesEveryMilestone(t *testing.T) {
	r := testReport(t)
	if len(r.Statuses) != 9 {
		t.Fatalf("expected 9 milestone statuses, got %d", len(r.Statuses))
	}
	if len(r.Eval.Samples) != 200 {
		t.Fatalf("expected 200 samples, got %d", len(r.Eval.Samples))
	}
}

func TestBuildPropagatesEvaluatorErrors(t *testing.T) {
	now := time.Date(2025, 3, 1, 8, 0, 0, 0, time.UTC)
	dose := model.Dose{AmountMg: 20, TakenAt: now.Add(time.Hour)}
	params := model.Params{HalfLifeHours: decay.HalfLifeHours, HorizonHours: 24, Points: 200}
	if _, err := Build(dose, params, now); !errors.Is(err, decay.ErrFutureDose) {
		t.Fatalf("expected ErrFutureDose, got %v", err)
	}
}

func TestRenderSummary(t *testing.T) {
	var buf bytes.Buffer
	if err := RenderSummary(&buf, testReport(t)); err != nil {
		t.Fatalf("render summary: %v", err)
	}
	out := buf.String()
	for _, want := range []string{
		"Your Progress",
		"Last use:       2025-03-01 08:00:00",
		"Current time:   2025-03-01 12:00:00",
		"Time since use: 4.00 hours",
		"Remaining:      5.00 mg of 20.00 mg",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("summary missing %q:\n%s", want, out)
		}
	}
}

func TestRenderPlot(t *testing.T) {
	var buf bytes.Buffer
	if err := RenderPlot(&buf, testReport(t), 60, 8, false); err != nil {
		t.Fatalf("render plot: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "Nicotine Decay and Health Milestones") {
		t.Fatalf("expected plot title in output")
	}
	if !strings.Contains(out, "Legend:") {
		t.Fatalf("expected legend in output")
	}
	if !strings.Contains(out, "20.0") || !strings.Contains(out, "0.0") {
		t.Fatalf("expected mg axis labels in output:\n%s", out)
	}
	if !strings.Contains(out, "milestones") {
		t.Fatalf("expected milestone marker entry in legend")
	}
}

func TestRenderMilestonesWindow(t *testing.T) {
	r := testReport(t)
	var buf bytes.Buffer
	if err := RenderMilestones(&buf, r.Statuses); err != nil {
		t.Fatalf("render milestones: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "Heart Rate Normalizes") {
		t.Fatalf("expected achieved milestone in output:\n%s", out)
	}
	if !strings.Contains(out, "achieved") {
		t.Fatalf("expected achieved status in output")
	}
	if !strings.Contains(out, "Oxygen Levels Normalize") {
		t.Fatalf("expected upcoming milestone in output")
	}
	if !strings.Contains(out, "in 4.0 hours") {
		t.Fatalf("expected hours-left for upcoming milestone:\n%s", out)
	}
	// The 48h milestone is past the horizon and must not appear.
	if strings.Contains(out, "Improved Taste") {
		t.Fatalf("expected out-of-horizon milestone to be omitted:\n%s", out)
	}
}

func TestPlotMarkersUseFullSpan(t *testing.T) {
	r := testReport(t)
	markers := plotMarkers(r.Statuses, r.Eval.TotalHours)
	// Span is 28h: 0.33h, 8h, and 24h milestones are on the plot even though
	// the 24h one is just inside; 48h is not.
	if len(markers) != 3 {
		t.Fatalf("expected 3 plot markers, got %d", len(markers))
	}
	for _, m := range markers {
		if m.Frac < 0 || m.Frac > 1 {
			t.Fatalf("marker %q out of range: %v", m.Label, m.Frac)
		}
	}
	if markers[2].Label != "Carbon Monoxide Eliminated" {
		t.Fatalf("unexpected last marker: %q", markers[2].Label)
	}
}
