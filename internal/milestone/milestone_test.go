package milestone

import (
	"math"
	"testing"
	"time"

	"nicotrack/internal/model"
)

func TestTableIsACopy(t *testing.T) {
	first := Table()
	first[0].Label = "mutated"
	second := Table()
	if second[0].Label != "Heart Rate Normalizes" {
		t.Fatalf("table copy leaked mutation: %q", second[0].Label)
	}
	if len(second) != 9 {
		t.Fatalf("expected 9 milestones, got %d", len(second))
	}
}

func TestClassifyIsATotalPartition(t *testing.T) {
	doseAt := time.Date(2025, 3, 1, 8, 0, 0, 0, time.UTC)
	now := doseAt.Add(30 * time.Hour)
	statuses := Classify(doseAt, now, 24, 54)
	if len(statuses) != len(Table()) {
		t.Fatalf("expected one status per milestone, got %d", len(statuses))
	}
	for _, st := range statuses {
		switch st.State {
		case model.StateAchieved, model.StateUpcoming, model.StateOutOfHorizon:
		default:
			t.Fatalf("milestone %q in unknown state %d", st.Milestone.Label, st.State)
		}
	}
}

func TestClassifyExampleAfterOneHour(t *testing.T) {
	doseAt := time.Date(2025, 3, 1, 8, 0, 0, 0, time.UTC)
	now := doseAt.Add(time.Hour)
	statuses := Classify(doseAt, now, 24, 25)

	heart := findStatus(t, statuses, "Heart Rate Normalizes")
	if heart.State != model.StateAchieved {
		t.Fatalf("expected heart rate milestone achieved, got %v", heart.State)
	}
	wantAt := doseAt.Add(time.Duration(0.33 * float64(time.Hour)))
	if !heart.At.Equal(wantAt) {
		t.Fatalf("unexpected achievement time: %v", heart.At)
	}

	oxygen := findStatus(t, statuses, "Oxygen Levels Normalize")
	if oxygen.State != model.StateUpcoming {
		t.Fatalf("expected oxygen milestone upcoming, got %v", oxygen.State)
	}
	if math.Abs(oxygen.HoursLeft-7) > 1e-9 {
		t.Fatalf("expected 7 hours left, got %v", oxygen.HoursLeft)
	}

	lungs := findStatus(t, statuses, "Lung Health Improvement")
	if lungs.State != model.StateOutOfHorizon {
		t.Fatalf("expected 30-day milestone out of horizon, got %v", lungs.State)
	}
}

func TestClassifyBoundaries(t *testing.T) {
	doseAt := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)

	// Exactly at now: achieved, not upcoming.
	now := doseAt.Add(8 * time.Hour)
	oxygen := findStatus(t, Classify(doseAt, now, 24, 32), "Oxygen Levels Normalize")
	if oxygen.State != model.StateAchieved {
		t.Fatalf("milestone at now must be achieved, got %v", oxygen.State)
	}

	// Exactly at now+horizon: still upcoming.
	now = doseAt.Add(4 * time.Hour)
	oxygen = findStatus(t, Classify(doseAt, now, 4, 8), "Oxygen Levels Normalize")
	if oxygen.State != model.StateUpcoming {
		t.Fatalf("milestone at horizon edge must be upcoming, got %v", oxygen.State)
	}

	// One second past the horizon: out.
	oxygen = findStatus(t, Classify(doseAt, now.Add(-time.Second), 4, 8), "Oxygen Levels Normalize")
	if oxygen.State != model.StateOutOfHorizon {
		t.Fatalf("milestone past horizon must be out, got %v", oxygen.State)
	}
}

func TestPlotWindowDivergesFromHorizonWindow(t *testing.T) {
	doseAt := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	now := doseAt.Add(time.Hour)

	// Total plotted span covers 24h after the dose, but the upcoming window
	// ends at now+4h. The 24h milestone is out of the textual horizon while
	// still visible on the plot.
	statuses := Classify(doseAt, now, 4, 24)
	carbon := findStatus(t, statuses, "Carbon Monoxide Eliminated")
	if carbon.State != model.StateOutOfHorizon {
		t.Fatalf("expected CO milestone out of horizon, got %v", carbon.State)
	}
	if !carbon.OnPlot {
		t.Fatalf("expected CO milestone visible on plot")
	}

	taste := findStatus(t, statuses, "Improved Taste")
	if taste.OnPlot {
		t.Fatalf("expected 48h milestone outside the plotted span")
	}
}

func findStatus(t *testing.T, statuses []model.MilestoneStatus, label string) model.MilestoneStatus {
	t.Helper()
	for _, st := range statuses {
		if st.Milestone.Label == label {
			return st
		}
	}
	t.Fatalf("milestone %q not found", label)
	return model.MilestoneStatus{}
}
