package indicator

import (
	"fmt"

	"trading-signals/internal/model"
)

// TrixMAOscillatorParams configures the oscillator stage. The TRIX line it
// reads is configured on the injected sub-indicator.
type TrixMAOscillatorParams struct {
	Rule         Rule
	SignalMethod Method
	SignalPeriod int
	UsePrevious  bool
}

// DefaultTrixMAOscillatorParams returns the stock oscillator configuration.
func DefaultTrixMAOscillatorParams() TrixMAOscillatorParams {
	return TrixMAOscillatorParams{
		Rule:         Rises,
		SignalMethod: Exponential,
		SignalPeriod: 13,
	}
}

// Validate rejects unknown enumerated values and out-of-range periods.
func (p TrixMAOscillatorParams) Validate() error {
	if !p.Rule.Valid() {
		return fmt.Errorf("%w: oscillator logic %s", ErrInvalidConfig, p.Rule)
	}
	if !p.SignalMethod.Valid() {
		return fmt.Errorf("%w: oscillator signal method %s", ErrInvalidConfig, p.SignalMethod)
	}
	return ValidatePeriod("signal period", p.SignalPeriod)
}

// TrixMAOscillator is the TRIX line minus its moving average, drawn as a
// histogram. Signals come from Rule applied to the histogram against zero.
type TrixMAOscillator struct {
	slot model.SlotType
	p    TrixMAOscillatorParams
	trix Calculator
}

// NewTrixMAOscillator creates the oscillator over a configured TRIX
// calculator. trix must report the TRIX line as its first component.
func NewTrixMAOscillator(slot model.SlotType, p TrixMAOscillatorParams, trix Calculator) *TrixMAOscillator {
	return &TrixMAOscillator{slot: slot, p: p, trix: trix}
}

func (o *TrixMAOscillator) Name() string                   { return "TRIX MA Oscillator" }
func (o *TrixMAOscillator) Params() TrixMAOscillatorParams { return o.p }

func (o *TrixMAOscillator) Calculate(ds model.DataSet) (*model.Result, error) {
	if err := o.p.Validate(); err != nil {
		return nil, err
	}
	sub, err := o.trix.Calculate(ds)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", o.Name(), err)
	}
	if len(sub.Components) == 0 {
		panic("indicator: " + o.Name() + ": sub-indicator " + sub.Indicator + " returned no components")
	}
	base := sub.Components[0].Value
	mustMatchBars(o.Name(), base, ds.Bars())

	// The signal line seeds on the first valid bar of the sub-indicator.
	stages := append([]Stage(nil), sub.Stages...)
	if len(stages) == 0 {
		stages = append(stages, Stage{Period: 1, Lag: sub.FirstBar})
	}
	stages = append(stages, Stage{Period: o.p.SignalPeriod})
	firstBar := FirstBar(stages...)

	osc := Oscillator(base, o.p.SignalPeriod, o.p.SignalMethod, firstBar)
	pair := Evaluate(firstBar, lagOf(o.p.UsePrevious), osc, 0, o.p.Rule)
	sig := SignalComponents(o.slot, firstBar, pair)

	return &model.Result{
		Indicator: o.Name(),
		FirstBar:  firstBar,
		Stages:    stages,
		Components: []model.Component{
			model.NewValueComponent("Histogram", model.Histogram, firstBar, osc),
			sig[0],
			sig[1],
		},
	}, nil
}
