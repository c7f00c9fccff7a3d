package indicator

// Oscillator returns base minus its moving average over period, on every bar
// from firstBar on. Earlier bars are zero.
//
// The average is seeded on the period bars ending at firstBar, so a caller
// passing the first valid bar of base plus period-1 never has the unset head
// of base averaged in.
func Oscillator(base []float64, period int, method Method, firstBar int) []float64 {
	smoothed := SmoothFrom(max(firstBar-period+1, 0), period, method, base)
	osc := make([]float64, len(base))
	for bar := max(firstBar, 0); bar < len(base); bar++ {
		osc[bar] = base[bar] - smoothed[bar]
	}
	return osc
}
