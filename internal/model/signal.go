package model

import (
	"encoding/json"
	"time"
)

// SignalState is the signal reading of one slot on the last bar of a run.
// It is what the host's decision loop consumes.
type SignalState struct {
	Slot      string        `json:"slot"`
	Indicator string        `json:"indicator"`
	Symbol    string        `json:"symbol"`
	TF        int           `json:"tf"`
	TS        time.Time     `json:"ts"`    // time of the last bar
	Value     float64       `json:"value"` // last chartable value
	LongRole  ComponentType `json:"long_role"`
	ShortRole ComponentType `json:"short_role"`
	Long      bool          `json:"long"`
	Short     bool          `json:"short"`
	Ready     bool          `json:"ready"` // false while the last bar is still in warm-up
}

// JSON returns the JSON-encoded state.
func (s *SignalState) JSON() []byte {
	b, _ := json.Marshal(s)
	return b
}

// LastSignalState reads the last-bar state of res. Signal components are
// located by role, the value by the first IndicatorValue component.
func LastSignalState(slot string, ds *BarSeries, res *Result) SignalState {
	st := SignalState{
		Slot:      slot,
		Indicator: res.Indicator,
		Symbol:    ds.Symbol,
		TF:        ds.TF,
	}
	n := ds.Bars()
	if n == 0 {
		return st
	}
	last := n - 1
	st.TS = ds.Time(last)
	st.Ready = last >= res.FirstBar

	var signals []*Component
	valueSeen := false
	for i := range res.Components {
		c := &res.Components[i]
		switch {
		case c.Type == IndicatorValue && !valueSeen:
			st.Value = c.Value[last]
			valueSeen = true
		case c.Type.IsSignal():
			signals = append(signals, c)
		}
	}
	if len(signals) == 2 {
		st.LongRole, st.Long = signals[0].Type, signals[0].Active(last)
		st.ShortRole, st.Short = signals[1].Type, signals[1].Active(last)
	}
	return st
}
