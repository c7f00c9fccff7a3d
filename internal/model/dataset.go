package model

import "time"

// DataSet is the price-history provider an indicator computes over.
// Bars are indexed 0..Bars()-1, oldest first.
type DataSet interface {
	// Bars returns the number of bars.
	Bars() int

	Time(bar int) time.Time
	Open(bar int) float64
	High(bar int) float64
	Low(bar int) float64
	Close(bar int) float64
	Volume(bar int) float64
}

// BarSeries is an in-memory DataSet over a fixed slice of bars.
type BarSeries struct {
	Symbol string // e.g. "NSE:2885"
	TF     int    // timeframe in seconds, 0 if unknown
	bars   []Bar
}

// NewBarSeries creates a DataSet over bars. The slice is copied so later
// mutation by the caller cannot change a computation in flight.
func NewBarSeries(symbol string, tf int, bars []Bar) *BarSeries {
	cp := make([]Bar, len(bars))
	copy(cp, bars)
	return &BarSeries{Symbol: symbol, TF: tf, bars: cp}
}

// NewCloseSeries builds a DataSet whose OHLC values all equal closes[i].
// Handy for synthetic fixtures where only the close matters.
func NewCloseSeries(symbol string, closes []float64) *BarSeries {
	bars := make([]Bar, len(closes))
	start := time.Date(2024, 1, 1, 9, 15, 0, 0, time.UTC)
	for i, c := range closes {
		bars[i] = Bar{
			Time:  start.Add(time.Duration(i) * time.Minute),
			Open:  c,
			High:  c,
			Low:   c,
			Close: c,
		}
	}
	return &BarSeries{Symbol: symbol, TF: 60, bars: bars}
}

func (s *BarSeries) Bars() int              { return len(s.bars) }
func (s *BarSeries) Time(bar int) time.Time { return s.bars[bar].Time }
func (s *BarSeries) Open(bar int) float64   { return s.bars[bar].Open }
func (s *BarSeries) High(bar int) float64   { return s.bars[bar].High }
func (s *BarSeries) Low(bar int) float64    { return s.bars[bar].Low }
func (s *BarSeries) Close(bar int) float64  { return s.bars[bar].Close }
func (s *BarSeries) Volume(bar int) float64 { return s.bars[bar].Volume }
func (s *BarSeries) Bar(bar int) Bar        { return s.bars[bar] }
func (s *BarSeries) Last() (Bar, bool) {
	if len(s.bars) == 0 {
		return Bar{}, false
	}
	return s.bars[len(s.bars)-1], true
}
