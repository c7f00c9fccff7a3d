// Package indicator computes technical-indicator series over price history and
// turns them into entry/exit signal components.
//
// Every Calculator is a pure function of its configuration and the DataSet it
// is given. Nothing is carried between calls.
package indicator

import (
	"errors"
	"fmt"

	"trading-signals/internal/model"
)

// Period bounds accepted by configuration validation.
const (
	MinPeriod = 1
	MaxPeriod = 200
)

// ErrInvalidConfig is wrapped by every configuration error.
var ErrInvalidConfig = errors.New("invalid indicator config")

// Calculator is the interface for all indicators.
type Calculator interface {
	// Name returns the indicator name (e.g., "TRIX MA Oscillator").
	Name() string

	// Calculate computes every output component over ds.
	Calculate(ds model.DataSet) (*model.Result, error)
}

// ValidatePeriod rejects a period outside MinPeriod..MaxPeriod.
func ValidatePeriod(name string, period int) error {
	if period < MinPeriod || period > MaxPeriod {
		return fmt.Errorf("%w: %s=%d outside %d..%d", ErrInvalidConfig, name, period, MinPeriod, MaxPeriod)
	}
	return nil
}

// mustMatchBars panics when a sub-indicator series does not cover every bar
// of the data set it was computed from. That can only happen on a wiring bug.
func mustMatchBars(who string, series []float64, bars int) {
	if len(series) != bars {
		panic(fmt.Sprintf("indicator: %s: sub-indicator series has %d values for %d bars", who, len(series), bars))
	}
}
