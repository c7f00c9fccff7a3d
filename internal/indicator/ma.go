package indicator

import (
	"fmt"
	"strconv"
	"strings"
)

// Method is the smoothing method of a moving average.
type Method int

const (
	Simple Method = iota
	Weighted
	Exponential
	Smoothed
)

var methodNames = [...]string{"Simple", "Weighted", "Exponential", "Smoothed"}

func (m Method) String() string {
	if !m.Valid() {
		return "Method(" + strconv.Itoa(int(m)) + ")"
	}
	return methodNames[m]
}

// Valid reports whether m is one of the declared methods.
func (m Method) Valid() bool { return m >= Simple && m <= Smoothed }

// ParseMethod maps a config key ("exponential", "Smoothed", ...) to its tag.
func ParseMethod(s string) (Method, error) {
	key := strings.ToLower(strings.TrimSpace(s))
	for i, name := range methodNames {
		if strings.ToLower(name) == key {
			return Method(i), nil
		}
	}
	return 0, fmt.Errorf("%w: unknown smoothing method %q", ErrInvalidConfig, s)
}

// WarmUp returns the first index Smooth writes for period and shift.
func WarmUp(period, shift int) int { return period - 1 + shift }

// Smooth returns the moving average of src using method.
//
// The output has len(src) values. Every method is seeded with the arithmetic
// mean of src[0:period], placed at WarmUp(period, shift). A positive shift
// moves the series forward: out[bar+shift] is the average as of bar. Indices
// that were never written stay zero, and when the window does not fit in src
// the whole output is zero.
//
// Smooth panics on period < 1, shift < 0 or an unknown method; configuration
// validation rejects those before any computation.
func Smooth(period, shift int, method Method, src []float64) []float64 {
	if period < 1 || shift < 0 {
		panic(fmt.Sprintf("indicator: Smooth(period=%d, shift=%d)", period, shift))
	}
	if !method.Valid() {
		panic("indicator: Smooth with " + method.String())
	}

	bars := len(src)
	out := make([]float64, bars)
	if period == 1 && shift == 0 {
		copy(out, src)
		return out
	}
	start := WarmUp(period, shift)
	if period > bars || start >= bars {
		return out
	}

	sum := 0.0
	for _, v := range src[:period] {
		sum += v
	}
	out[start] = sum / float64(period)

	switch method {
	case Simple:
		smoothSimple(period, shift, src, out, sum)
	case Weighted:
		smoothWeighted(period, shift, src, out)
	case Exponential:
		smoothExponential(period, shift, src, out)
	case Smoothed:
		smoothSmoothed(period, shift, src, out)
	}
	return out
}

// SmoothFrom smooths src starting at from: the seed window is
// src[from:from+period] and the first value lands on from+period-1. Chained
// stages pass the first valid bar of their input so the leading zeros are
// never averaged in. Bars before the first written one are zero.
func SmoothFrom(from, period int, method Method, src []float64) []float64 {
	if from < 0 {
		panic(fmt.Sprintf("indicator: SmoothFrom(from=%d)", from))
	}
	out := make([]float64, len(src))
	if from >= len(src) {
		return out
	}
	copy(out[from:], Smooth(period, 0, method, src[from:]))
	return out
}
