// Package decay evaluates exponential nicotine decay curves.
package decay

import (
	"errors"
	"fmt"
	"math"
	"time"

	"nicotrack/internal/model"
)

// HalfLifeHours is the nicotine half-life used everywhere. Fixed for
// simplicity; individual metabolism varies roughly between 1 and 4 hours.
const HalfLifeHours = 2.0

const (
	// MinPoints and MaxPoints bound the sample count accepted from inputs.
	MinPoints = 50
	MaxPoints = 1000
	// MinHorizonHours is the smallest accepted future tracking window.
	MinHorizonHours = 1.0

	// evaluatorMinPoints is the hard floor below which a curve cannot be
	// sampled at all (first and last point).
	evaluatorMinPoints = 2
)

var (
	// ErrDoseUnset reports that no last-use timestamp was provided.
	ErrDoseUnset = errors.New("last use date and time not set")
	// ErrFutureDose reports a last-use timestamp after the evaluation time.
	ErrFutureDose = errors.New("last use time cannot be in the future")
	// ErrHalfLife reports a non-positive half-life.
	ErrHalfLife = errors.New("half-life must be positive")
	// ErrAmount reports a negative dose amount.
	ErrAmount = errors.New("dose amount must be >= 0")
	// ErrHorizon reports a negative future horizon.
	ErrHorizon = errors.New("future horizon must be >= 0")
	// ErrPoints reports a sample count too small to form a curve.
	ErrPoints = errors.New("sample count must be >= 2")
)

// Remaining computes the amount left after elapsed hours of pure exponential
// decay. No clamping: the value only reaches zero by floating-point
// underflow.
func Remaining(amountMg, halfLifeHours, elapsedHours float64) float64 {
	return amountMg * math.Pow(0.5, elapsedHours/halfLifeHours)
}

// Evaluate samples the decay curve for dose under params at the given
// instant. The clock is an explicit argument so evaluations are reproducible.
func Evaluate(dose model.Dose, params model.Params, now time.Time) (model.Evaluation, error) {
	if dose.TakenAt.IsZero() {
		return model.Evaluation{}, ErrDoseUnset
	}
	if dose.TakenAt.After(now) {
		return model.Evaluation{}, ErrFutureDose
	}
	if dose.AmountMg < 0 {
		return model.Evaluation{}, fmt.Errorf("%w (got %.2f)", ErrAmount, dose.AmountMg)
	}
	if params.HalfLifeHours <= 0 {
		return model.Evaluation{}, fmt.Errorf("%w (got %.2f)", ErrHalfLife, params.HalfLifeHours)
	}
	if params.HorizonHours < 0 {
		return model.Evaluation{}, fmt.Errorf("%w (got %.2f)", ErrHorizon, params.HorizonHours)
	}
	if params.Points < evaluatorMinPoints {
		return model.Evaluation{}, fmt.Errorf("%w (got %d)", ErrPoints, params.Points)
	}

	elapsed := now.Sub(dose.TakenAt).Hours()
	total := elapsed + params.HorizonHours

	samples := make([]model.Sample, params.Points)
	step := total / float64(params.Points-1)
	for i := range samples {
		hr := float64(i) * step
		if i == params.Points-1 {
			hr = total
		}
		samples[i] = model.Sample{
			ElapsedHours: hr,
			At:           dose.TakenAt.Add(hoursDuration(hr)),
			RemainingMg:  Remaining(dose.AmountMg, params.HalfLifeHours, hr),
		}
	}

	return model.Evaluation{
		Samples:      samples,
		ElapsedHours: elapsed,
		RemainingMg:  Remaining(dose.AmountMg, params.HalfLifeHours, elapsed),
		TotalHours:   total,
		Now:          now,
	}, nil
}

// IsSentinel reports whether ts matches the "not yet provided" placeholder:
// midnight at the start of the evaluation day in its own location.
func IsSentinel(ts, now time.Time) bool {
	if ts.IsZero() {
		return true
	}
	year, month, day := now.In(ts.Location()).Date()
	midnight := time.Date(year, month, day, 0, 0, 0, 0, ts.Location())
	return ts.Equal(midnight)
}

func hoursDuration(hr float64) time.Duration {
	return time.Duration(hr * float64(time.Hour))
}
