package report

import (
	"fmt"
	"io"
	"time"

	"nicotrack/internal/decay"
	"nicotrack/internal/milestone"
	"nicotrack/internal/model"
)

const (
	timestampFormat = "2006-01-02 15:04:05"
	milestoneFormat = "2006-01-02 15:04"
)

// Report contains precomputed data for rendering one evaluation.
type Report struct {
	Dose     model.Dose
	Params   model.Params
	Eval     model.Evaluation
	Statuses []model.MilestoneStatus
}

// Build evaluates the decay curve and classifies milestones at the given
// instant.
func Build(dose model.Dose, params model.Params, now time.Time) (Report, error) {
	eval, err := decay.Evaluate(dose, params, now)
	if err != nil {
		return Report{}, err
	}
	statuses := milestone.Classify(dose.TakenAt, now, params.HorizonHours, eval.TotalHours)
	return Report{
		Dose:     dose,
		Params:   params,
		Eval:     eval,
		Statuses: statuses,
	}, nil
}

// Render writes the full text report: progress summary, decay plot, and the
// milestone list.
func Render(w io.Writer, r Report, totalWidth, plotHeight int, forceColor bool) error {
	if err := RenderSummary(w, r); err != nil {
		return err
	}
	if _, err := fmt.Fprintln(w, ""); err != nil {
		return err
	}
	if err := RenderPlot(w, r, totalWidth, plotHeight, forceColor); err != nil {
		return err
	}
	if _, err := fmt.Fprintln(w, ""); err != nil {
		return err
	}
	return RenderMilestones(w, r.Statuses)
}

// RenderSummary prints the progress lines for the evaluation.
func RenderSummary(w io.Writer, r Report) error {
	lines := []string{
		"Your Progress",
		fmt.Sprintf("Last use:       %s", r.Dose.TakenAt.Format(timestampFormat)),
		fmt.Sprintf("Current time:   %s", r.Eval.Now.Format(timestampFormat)),
		fmt.Sprintf("Time since use: %.2f hours", r.Eval.ElapsedHours),
		fmt.Sprintf("Remaining:      %.2f mg of %.2f mg", r.Eval.RemainingMg, r.Dose.AmountMg),
	}
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

// RenderPlot prints the decay curve with the now marker and on-plot
// milestone ticks.
func RenderPlot(w io.Writer, r Report, totalWidth, plotHeight int, forceColor bool) error {
	values := make([]float64, len(r.Eval.Samples))
	for i, s := range r.Eval.Samples {
		values[i] = s.RemainingMg
	}
	width := 0
	if totalWidth > 0 {
		width = PlotWidthFor(totalWidth, r.Dose.AmountMg)
	}
	nowFrac := -1.0
	if r.Eval.TotalHours > 0 {
		nowFrac = r.Eval.ElapsedHours / r.Eval.TotalHours
	}
	return PlotCurve(w, "Nicotine Decay and Health Milestones", values,
		r.Dose.AmountMg, nowFrac, plotMarkers(r.Statuses, r.Eval.TotalHours),
		width, plotHeight, forceColor)
}

// RenderMilestones prints the achieved and upcoming milestones. Milestones
// beyond the horizon are omitted here, matching the horizon window rather
// than the wider plot span.
func RenderMilestones(w io.Writer, statuses []model.MilestoneStatus) error {
	if _, err := fmt.Fprintln(w, "Health Milestones"); err != nil {
		return err
	}
	rows := make([][]string, 0, len(statuses))
	for _, st := range statuses {
		switch st.State {
		case model.StateAchieved:
			rows = append(rows, []string{
				st.Milestone.Label,
				"achieved",
				st.At.Format(milestoneFormat),
			})
		case model.StateUpcoming:
			rows = append(rows, []string{
				st.Milestone.Label,
				fmt.Sprintf("in %.1f hours", st.HoursLeft),
				st.At.Format(milestoneFormat),
			})
		}
	}
	if len(rows) == 0 {
		_, err := fmt.Fprintln(w, "No milestones within the tracking window yet.")
		return err
	}
	headers := []string{"Milestone", "Status", "When"}
	for _, line := range formatTable(headers, rows, nil) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

// RenderSchedule prints the static milestone table.
func RenderSchedule(w io.Writer, milestones []model.Milestone) error {
	headers := []string{"Offset (h)", "Milestone"}
	rows := make([][]string, 0, len(milestones))
	for _, m := range milestones {
		rows = append(rows, []string{
			fmt.Sprintf("%.2f", m.OffsetHours),
			m.Label,
		})
	}
	for _, line := range formatTable(headers, rows, map[int]bool{0: true}) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

// plotMarkers converts on-plot milestones into fractional tick positions
// over the full sampled span.
func plotMarkers(statuses []model.MilestoneStatus, totalHours float64) []Marker {
	if totalHours <= 0 {
		return nil
	}
	markers := make([]Marker, 0, len(statuses))
	for _, st := range statuses {
		if !st.OnPlot {
			continue
		}
		markers = append(markers, Marker{
			Frac:  st.Milestone.OffsetHours / totalHours,
			Label: st.Milestone.Label,
		})
	}
	return markers
}
