package model

import "time"

// Bar is one OHLCV bar of price history. Prices are plain floats (rupees),
// converted once at the storage boundary from the paise integers used on disk.
type Bar struct {
	Time   time.Time `json:"time"`
	Open   float64   `json:"open"`
	High   float64   `json:"high"`
	Low    float64   `json:"low"`
	Close  float64   `json:"close"`
	Volume float64   `json:"volume"`
}
