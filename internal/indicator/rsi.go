package indicator

import (
	"fmt"

	"trading-signals/internal/model"
)

// RSIParams configures a Relative Strength Index.
type RSIParams struct {
	Rule      Rule
	Method    Method
	BasePrice model.BasePrice
	Period    int

	// Level is the long-side level; the short side uses 100-Level.
	Level       float64
	UsePrevious bool
}

// DefaultRSIParams returns Wilder's RSI(14) with a 30/70 band.
func DefaultRSIParams() RSIParams {
	return RSIParams{
		Rule:      Rises,
		Method:    Smoothed,
		BasePrice: model.PriceClose,
		Period:    14,
		Level:     30,
	}
}

// Validate rejects unknown enumerated values, out-of-range periods and
// levels outside 0..100.
func (p RSIParams) Validate() error {
	if !p.Rule.Valid() {
		return fmt.Errorf("%w: rsi logic %s", ErrInvalidConfig, p.Rule)
	}
	if !p.Method.Valid() {
		return fmt.Errorf("%w: rsi method %s", ErrInvalidConfig, p.Method)
	}
	if !p.BasePrice.Valid() {
		return fmt.Errorf("%w: rsi base price %s", ErrInvalidConfig, p.BasePrice)
	}
	if p.Level < 0 || p.Level > 100 {
		return fmt.Errorf("%w: rsi level %v outside 0..100", ErrInvalidConfig, p.Level)
	}
	return ValidatePeriod("rsi period", p.Period)
}

// RSI calculates the Relative Strength Index from moving averages of gains
// and losses. With the Smoothed method this is Wilder's RSI.
type RSI struct {
	slot model.SlotType
	p    RSIParams
}

// NewRSI creates an RSI for the given slot.
func NewRSI(slot model.SlotType, p RSIParams) *RSI {
	return &RSI{slot: slot, p: p}
}

func (r *RSI) Name() string      { return "RSI" }
func (r *RSI) Params() RSIParams { return r.p }

func (r *RSI) Calculate(ds model.DataSet) (*model.Result, error) {
	if err := r.p.Validate(); err != nil {
		return nil, err
	}
	bars := ds.Bars()
	price := model.Price(ds, r.p.BasePrice)

	gain := make([]float64, bars)
	loss := make([]float64, bars)
	for bar := 1; bar < bars; bar++ {
		delta := price[bar] - price[bar-1]
		if delta > 0 {
			gain[bar] = delta
		} else {
			loss[bar] = -delta
		}
	}
	// Bar 0 has no change; the averages seed on bars 1..Period.
	diff := Stage{Period: 1, Lag: 1}
	avgGain := SmoothFrom(FirstBar(diff), r.p.Period, r.p.Method, gain)
	avgLoss := SmoothFrom(FirstBar(diff), r.p.Period, r.p.Method, loss)

	stages := []Stage{diff, {Period: r.p.Period}}
	firstBar := FirstBar(stages...)

	rsi := make([]float64, bars)
	for bar := firstBar; bar < bars; bar++ {
		if avgLoss[bar] == 0 {
			rsi[bar] = 100
			continue
		}
		rs := avgGain[bar] / avgLoss[bar]
		rsi[bar] = 100 - 100/(1+rs)
	}

	pair := EvaluateLevels(firstBar, lagOf(r.p.UsePrevious), rsi, r.p.Level, 100-r.p.Level, r.p.Rule)
	sig := SignalComponents(r.slot, firstBar, pair)

	return &model.Result{
		Indicator: r.Name(),
		FirstBar:  firstBar,
		Stages:    stages,
		Components: []model.Component{
			model.NewValueComponent("RSI", model.Line, firstBar, rsi),
			sig[0],
			sig[1],
		},
	}, nil
}
