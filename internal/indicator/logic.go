package indicator

import (
	"fmt"
	"strconv"
	"strings"
)

// Rule is a logic rule applied to an oscillator series against a level.
// The zero value is not a rule; NoFilter must be chosen explicitly.
type Rule int

const (
	Rises Rule = iota + 1
	Falls
	AboveLevel
	BelowLevel
	CrossesUpward
	CrossesDownward
	ChangesDirectionUpward
	ChangesDirectionDownward
	NoFilter
)

var ruleKeys = map[Rule]string{
	Rises:                    "rises",
	Falls:                    "falls",
	AboveLevel:               "above",
	BelowLevel:               "below",
	CrossesUpward:            "crosses_upward",
	CrossesDownward:          "crosses_downward",
	ChangesDirectionUpward:   "changes_direction_upward",
	ChangesDirectionDownward: "changes_direction_downward",
	NoFilter:                 "no_filter",
}

var ruleCaptions = map[Rule]string{
	Rises:                    "rises",
	Falls:                    "falls",
	AboveLevel:               "is higher than the level line",
	BelowLevel:               "is lower than the level line",
	CrossesUpward:            "crosses the level line upward",
	CrossesDownward:          "crosses the level line downward",
	ChangesDirectionUpward:   "changes its direction upward",
	ChangesDirectionDownward: "changes its direction downward",
	NoFilter:                 "does not filter",
}

// String returns the config key of r.
func (r Rule) String() string {
	if k, ok := ruleKeys[r]; ok {
		return k
	}
	return "Rule(" + strconv.Itoa(int(r)) + ")"
}

// Caption returns the display text of r.
func (r Rule) Caption() string { return ruleCaptions[r] }

// Valid reports whether r is one of the declared rules.
func (r Rule) Valid() bool {
	_, ok := ruleKeys[r]
	return ok
}

// ParseRule maps a config key to its rule.
func ParseRule(s string) (Rule, error) {
	key := strings.ToLower(strings.TrimSpace(s))
	for r, k := range ruleKeys {
		if k == key {
			return r, nil
		}
	}
	return 0, fmt.Errorf("%w: unknown logic rule %q", ErrInvalidConfig, s)
}

// lookback is how many bars before the evaluated bar a rule reads.
func (r Rule) lookback() int {
	switch r {
	case Rises, Falls, CrossesUpward, CrossesDownward:
		return 1
	case ChangesDirectionUpward, ChangesDirectionDownward:
		return 2
	default:
		return 0
	}
}

// SignalPair holds the long and short signal of every bar.
type SignalPair struct {
	Long  []bool
	Short []bool
}

// Evaluate applies rule to series with a single level for both sides.
func Evaluate(firstBar, lag int, series []float64, level float64, rule Rule) SignalPair {
	return EvaluateLevels(firstBar, lag, series, level, level, rule)
}

// EvaluateLevels applies rule to series on every bar, comparing the long side
// against levelLong and the short side against levelShort.
//
// With lag 1 every read moves one bar into the past, so the signal on bar b
// reflects the indicator as of the previous closed bar. A bar is evaluated
// only when all the history it reads is at or after firstBar; every other
// bar is false. NoFilter sets both sides on every bar from firstBar+lag on.
//
// EvaluateLevels panics on lag outside {0, 1}, negative firstBar or an
// unknown rule.
func EvaluateLevels(firstBar, lag int, series []float64, levelLong, levelShort float64, rule Rule) SignalPair {
	if lag != 0 && lag != 1 {
		panic(fmt.Sprintf("indicator: logic lag %d, want 0 or 1", lag))
	}
	if firstBar < 0 {
		panic(fmt.Sprintf("indicator: negative first bar %d", firstBar))
	}
	if !rule.Valid() {
		panic("indicator: evaluate " + rule.String())
	}

	bars := len(series)
	pair := SignalPair{Long: make([]bool, bars), Short: make([]bool, bars)}

	if rule == NoFilter {
		for bar := firstBar + lag; bar < bars; bar++ {
			pair.Long[bar] = true
			pair.Short[bar] = true
		}
		return pair
	}

	lb := rule.lookback()
	for bar := firstBar + lag + lb; bar < bars; bar++ {
		cur := bar - lag
		v0 := series[cur]
		var v1, v2 float64
		if lb >= 1 {
			v1 = series[cur-1]
		}
		if lb >= 2 {
			v2 = series[cur-2]
		}

		var long, short bool
		switch rule {
		case Rises:
			long, short = v0 > v1, v0 < v1
		case Falls:
			long, short = v0 < v1, v0 > v1
		case AboveLevel:
			long, short = v0 > levelLong, v0 < levelShort
		case BelowLevel:
			long, short = v0 < levelLong, v0 > levelShort
		case CrossesUpward:
			long = v1 <= levelLong && v0 > levelLong
			short = v1 >= levelShort && v0 < levelShort
		case CrossesDownward:
			long = v1 >= levelLong && v0 < levelLong
			short = v1 <= levelShort && v0 > levelShort
		case ChangesDirectionUpward:
			long = v2 > v1 && v1 < v0
			short = v2 < v1 && v1 > v0
		case ChangesDirectionDownward:
			long = v2 < v1 && v1 > v0
			short = v2 > v1 && v1 < v0
		}
		pair.Long[bar] = long
		pair.Short[bar] = short
	}
	return pair
}
