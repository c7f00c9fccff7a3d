package model

import (
	"strconv"
	"time"
)

// TFCandle is a stored OHLC candle for one instrument on one timeframe, as
// written to the candles_tf table. All prices are in paise (int64).
type TFCandle struct {
	Token    string    `json:"token"`
	Exchange string    `json:"exchange"`
	TF       int       `json:"tf"`     // timeframe in seconds
	TS       time.Time `json:"ts"`     // bucket start time (UTC, TF-aligned)
	Open     int64     `json:"open"`   // paise
	High     int64     `json:"high"`   // paise
	Low      int64     `json:"low"`    // paise
	Close    int64     `json:"close"`  // paise
	Volume   int64     `json:"volume"` // cumulative quantity
	Count    int       `json:"count"`  // number of 1s candles merged
}

// Key returns "exchange:token".
func (c *TFCandle) Key() string {
	return c.Exchange + ":" + c.Token
}

// SeriesKey returns "exchange:token:{TF}s", the key a BarSeries built from
// this candle's instrument carries.
func (c *TFCandle) SeriesKey() string {
	return c.Key() + ":" + strconv.Itoa(c.TF) + "s"
}

// Bar converts the candle to a float Bar (paise → rupees).
func (c *TFCandle) Bar() Bar {
	return Bar{
		Time:   c.TS,
		Open:   float64(c.Open) / 100.0,
		High:   float64(c.High) / 100.0,
		Low:    float64(c.Low) / 100.0,
		Close:  float64(c.Close) / 100.0,
		Volume: float64(c.Volume),
	}
}

// BarsFromTFCandles converts stored candles to bars, preserving order.
func BarsFromTFCandles(candles []TFCandle) []Bar {
	bars := make([]Bar, len(candles))
	for i := range candles {
		bars[i] = candles[i].Bar()
	}
	return bars
}
