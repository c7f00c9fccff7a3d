package indicator

// smoothWeighted fills out with a linearly weighted mean: the newest value
// weighs period, the oldest weighs 1.
func smoothWeighted(period, shift int, src, out []float64) {
	div := float64(period*(period+1)) / 2
	for bar := period; bar+shift < len(src); bar++ {
		weighted := 0.0
		for i := 0; i < period; i++ {
			weighted += src[bar-i] * float64(period-i)
		}
		out[bar+shift] = weighted / div
	}
}
