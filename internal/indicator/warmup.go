package indicator

import "trading-signals/internal/model"

// Stage aliases model.Stage so indicator code can declare its warm-up inline.
type Stage = model.Stage

// FirstBar returns the first valid bar of a series produced by a chain of
// stages, each reading the output of the one before it. A stage starts on the
// first valid value of its input, so every stage adds Period-1+Lag bars.
//
// A triple-smoothed rate of change (three {p, 0} stages, then {1, 1}) is valid
// from 3(p-1)+1; a signal line of period s over it adds s-1.
func FirstBar(stages ...Stage) int {
	first := 0
	for _, s := range stages {
		first += s.Period - 1 + s.Lag
	}
	return first
}
