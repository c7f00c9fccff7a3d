package indicator

// smoothSimple fills out with a rolling mean. sum holds the total of the
// seed window src[0:period].
func smoothSimple(period, shift int, src, out []float64, sum float64) {
	p := float64(period)
	for bar := period; bar+shift < len(src); bar++ {
		// Subtract the value leaving the window
		sum += src[bar] - src[bar-period]
		out[bar+shift] = sum / p
	}
}
