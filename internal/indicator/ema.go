package indicator

// smoothExponential fills out with an exponential average,
// k = 2/(period+1). O(1) per bar.
func smoothExponential(period, shift int, src, out []float64) {
	k := 2.0 / float64(period+1)
	for bar := period; bar+shift < len(src); bar++ {
		// EMA = EMA_prev + k * (price - EMA_prev); a flat input stays exact
		prev := out[bar+shift-1]
		out[bar+shift] = prev + k*(src[bar]-prev)
	}
}
