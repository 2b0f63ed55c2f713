// Package milestone classifies fixed health recovery milestones.
package milestone

import (
	"time"

	"nicotrack/internal/model"
)

// table is the static recovery schedule, ordered by offset. Offsets are
// hours after last use; the first entry lands 20 minutes in, the last after
// 30 days.
var table = []model.Milestone{
	{OffsetHours: 0.33, Label: "Heart Rate Normalizes"},
	{OffsetHours: 8, Label: "Oxygen Levels Normalize"},
	{OffsetHours: 24, Label: "Carbon Monoxide Eliminated"},
	{OffsetHours: 48, Label: "Improved Taste"},
	{OffsetHours: 72, Label: "Cravings Drop"},
	{OffsetHours: 120, Label: "Lungs Improve"},
	{OffsetHours: 168, Label: "Energy Increased"},
	{OffsetHours: 336, Label: "Improved Circulation"},
	{OffsetHours: 720, Label: "Lung Health Improvement"},
}

// Table returns the milestone schedule as a fresh copy so callers cannot
// mutate the reference data.
func Table() []model.Milestone {
	out := make([]model.Milestone, len(table))
	copy(out, table)
	return out
}

// Classify partitions every milestone into exactly one state relative to
// now. The upcoming window is horizonHours past now; plot visibility (OnPlot)
// is judged against the full sampled span [doseAt, doseAt+totalHours], which
// is deliberately a different window than the horizon used for the textual
// list.
func Classify(doseAt, now time.Time, horizonHours, totalHours float64) []model.MilestoneStatus {
	horizonEnd := now.Add(hoursDuration(horizonHours))
	spanEnd := doseAt.Add(hoursDuration(totalHours))

	out := make([]model.MilestoneStatus, 0, len(table))
	for _, m := range table {
		at := doseAt.Add(hoursDuration(m.OffsetHours))
		status := model.MilestoneStatus{
			Milestone: m,
			At:        at,
			OnPlot:    !at.Before(doseAt) && !at.After(spanEnd),
		}
		switch {
		case !at.After(now):
			status.State = model.StateAchieved
		case !at.After(horizonEnd):
			status.State = model.StateUpcoming
			status.HoursLeft = at.Sub(now).Hours()
		default:
			status.State = model.StateOutOfHorizon
		}
		out = append(out, status)
	}
	return out
}

func hoursDuration(hr float64) time.Duration {
	return time.Duration(hr * float64(time.Hour))
}
