// Package model defines shared data structures.
package model

import "time"

// Config defines resolved tracker settings.
type Config struct {
	DoseMg     float64
	Horizon    float64
	Points     int
	PlotHeight int
}

// Dose describes a single nicotine intake. Immutable once built.
type Dose struct {
	AmountMg float64
	TakenAt  time.Time
}

// Params controls how the decay curve is sampled.
type Params struct {
	HalfLifeHours float64
	HorizonHours  float64
	Points        int
}

// Sample is one point on the decay curve.
type Sample struct {
	ElapsedHours float64
	At           time.Time
	RemainingMg  float64
}

// Evaluation holds a fully sampled decay curve plus the current level.
type Evaluation struct {
	Samples      []Sample
	ElapsedHours float64
	RemainingMg  float64
	TotalHours   float64
	Now          time.Time
}

// Milestone is a fixed recovery event at a constant offset after last use.
type Milestone struct {
	OffsetHours float64
	Label       string
}

// MilestoneState partitions milestones relative to the evaluation instant.
type MilestoneState int

const (
	// StateAchieved marks milestones whose time is at or before now.
	StateAchieved MilestoneState = iota
	// StateUpcoming marks milestones due within the future horizon.
	StateUpcoming
	// StateOutOfHorizon marks milestones beyond the future horizon.
	StateOutOfHorizon
)

// String returns a short human label for the state.
func (s MilestoneState) String() string {
	switch s {
	case StateAchieved:
		return "achieved"
	case StateUpcoming:
		return "upcoming"
	case StateOutOfHorizon:
		return "out of horizon"
	default:
		return "unknown"
	}
}

// MilestoneStatus is the classification of one milestone for one evaluation.
type MilestoneStatus struct {
	Milestone Milestone
	State     MilestoneState
	At        time.Time
	HoursLeft float64
	// OnPlot reports visibility within the full sampled span, which is a
	// wider window than the horizon used for the upcoming list.
	OnPlot bool
}
