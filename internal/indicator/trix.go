package indicator

import (
	"fmt"

	"trading-signals/internal/model"
)

// TrixParams configures a TRIX Index.
type TrixParams struct {
	Rule      Rule
	Method    Method
	BasePrice model.BasePrice
	Period    int

	// SignalLine evaluates Rule on TRIX minus its signal line instead of on
	// TRIX against the zero line.
	SignalLine  bool
	UsePrevious bool
}

// DefaultTrixParams returns the stock TRIX configuration.
func DefaultTrixParams() TrixParams {
	return TrixParams{
		Rule:      Rises,
		Method:    Exponential,
		BasePrice: model.PriceClose,
		Period:    9,
	}
}

// Validate rejects unknown enumerated values and out-of-range periods.
func (p TrixParams) Validate() error {
	if !p.Rule.Valid() {
		return fmt.Errorf("%w: trix logic %s", ErrInvalidConfig, p.Rule)
	}
	if !p.Method.Valid() {
		return fmt.Errorf("%w: trix method %s", ErrInvalidConfig, p.Method)
	}
	if !p.BasePrice.Valid() {
		return fmt.Errorf("%w: trix base price %s", ErrInvalidConfig, p.BasePrice)
	}
	return ValidatePeriod("trix period", p.Period)
}

// Trix is the TRIX Index: the one-bar rate of change, in percent, of a
// triple-smoothed price. Its first component is the TRIX line itself, which
// composing indicators read as their input; Result.FirstBar and Stages
// describe that line.
type Trix struct {
	slot model.SlotType
	p    TrixParams
}

// NewTrix creates a TRIX Index for the given slot.
func NewTrix(slot model.SlotType, p TrixParams) *Trix {
	return &Trix{slot: slot, p: p}
}

func (t *Trix) Name() string       { return "TRIX Index" }
func (t *Trix) Params() TrixParams { return t.p }

func (t *Trix) Calculate(ds model.DataSet) (*model.Result, error) {
	if err := t.p.Validate(); err != nil {
		return nil, err
	}
	bars := ds.Bars()
	price := model.Price(ds, t.p.BasePrice)

	// Each pass seeds on the first valid bar of the one before it.
	smooth := Stage{Period: t.p.Period}
	ma1 := Smooth(t.p.Period, 0, t.p.Method, price)
	ma2 := SmoothFrom(FirstBar(smooth), t.p.Period, t.p.Method, ma1)
	ma3 := SmoothFrom(FirstBar(smooth, smooth), t.p.Period, t.p.Method, ma2)

	stages := []Stage{smooth, smooth, smooth, {Period: 1, Lag: 1}}
	firstBar := FirstBar(stages...)

	trix := make([]float64, bars)
	for bar := firstBar; bar < bars; bar++ {
		prev := ma3[bar-1]
		if prev != 0 {
			trix[bar] = 100 * (ma3[bar] - prev) / prev
		}
	}

	signalFirst := FirstBar(append(stages, smooth)...)
	signal := SmoothFrom(firstBar, t.p.Period, t.p.Method, trix)

	series, evalFirst := trix, firstBar
	if t.p.SignalLine {
		series, evalFirst = Oscillator(trix, t.p.Period, t.p.Method, signalFirst), signalFirst
	}
	pair := Evaluate(evalFirst, lagOf(t.p.UsePrevious), series, 0, t.p.Rule)
	sig := SignalComponents(t.slot, evalFirst, pair)

	return &model.Result{
		Indicator: t.Name(),
		FirstBar:  firstBar,
		Stages:    stages,
		Components: []model.Component{
			model.NewValueComponent("TRIX", model.Line, firstBar, trix),
			model.NewValueComponent("Signal", model.Line, signalFirst, signal),
			sig[0],
			sig[1],
		},
	}, nil
}

func lagOf(usePrevious bool) int {
	if usePrevious {
		return 1
	}
	return 0
}
