package indicator

// smoothSmoothed fills out with Wilder-style smoothing:
// SMMA = prev + (price - prev) / period.
func smoothSmoothed(period, shift int, src, out []float64) {
	p := float64(period)
	for bar := period; bar+shift < len(src); bar++ {
		prev := out[bar+shift-1]
		out[bar+shift] = prev + (src[bar]-prev)/p
	}
}
