package indicator

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trading-signals/internal/model"
)

// stubCalc returns a fixed result or error.
type stubCalc struct {
	res *model.Result
	err error
}

func (s *stubCalc) Name() string { return "stub" }
func (s *stubCalc) Calculate(model.DataSet) (*model.Result, error) {
	return s.res, s.err
}

func newDefaultOscillator(slot model.SlotType) *TrixMAOscillator {
	return NewTrixMAOscillator(slot, DefaultTrixMAOscillatorParams(), NewTrix(slot, DefaultTrixParams()))
}

func TestTrixMAOscillator_Defaults(t *testing.T) {
	p := DefaultTrixMAOscillatorParams()
	tp := DefaultTrixParams()
	assert.Equal(t, Rises, p.Rule)
	assert.Equal(t, Exponential, p.SignalMethod)
	assert.Equal(t, 13, p.SignalPeriod)
	assert.False(t, p.UsePrevious)
	assert.Equal(t, Exponential, tp.Method)
	assert.Equal(t, model.PriceClose, tp.BasePrice)
	assert.Equal(t, 9, tp.Period)
}

func TestTrixMAOscillator_FirstBarAndComponents(t *testing.T) {
	ds := model.NewCloseSeries("TEST", wave(120))
	res, err := newDefaultOscillator(model.OpenFilter).Calculate(ds)
	require.NoError(t, err)

	// TRIX(9) is valid from 3*8+1 = 25; the 13-bar signal line adds 12.
	assert.Equal(t, 37, res.FirstBar)
	require.Len(t, res.Components, 3)

	hist := res.Components[0]
	assert.Equal(t, "Histogram", hist.Name)
	assert.Equal(t, model.IndicatorValue, hist.Type)
	assert.Equal(t, model.Histogram, hist.Chart)
	assert.Equal(t, "Is long entry allowed", res.Components[1].Name)
	assert.Equal(t, model.AllowOpenLong, res.Components[1].Type)
	assert.Equal(t, "Is short entry allowed", res.Components[2].Name)
	assert.Equal(t, model.AllowOpenShort, res.Components[2].Type)
	for _, c := range res.Components {
		assert.Equal(t, 37, c.FirstBar)
	}
	require.NoError(t, res.Validate(ds.Bars()))
}

func TestTrixMAOscillator_FirstBarLongTrixPeriod(t *testing.T) {
	tp := DefaultTrixParams()
	tp.Period = 20
	p := DefaultTrixMAOscillatorParams()
	p.SignalPeriod = 5

	res, err := NewTrixMAOscillator(model.OpenFilter, p, NewTrix(model.OpenFilter, tp)).
		Calculate(model.NewCloseSeries("TEST", wave(100)))
	require.NoError(t, err)
	// 3*19+1 + 4
	assert.Equal(t, 62, res.FirstBar)
}

func TestTrixMAOscillator_HistogramIsTrixMinusSignal(t *testing.T) {
	ds := model.NewCloseSeries("TEST", wave(150))
	osc := newDefaultOscillator(model.OpenFilter)
	res, err := osc.Calculate(ds)
	require.NoError(t, err)

	trix, err := NewTrix(model.OpenFilter, DefaultTrixParams()).Calculate(ds)
	require.NoError(t, err)
	line := trix.Components[0].Value
	smoothed := SmoothFrom(trix.FirstBar, 13, Exponential, line)

	for bar := res.FirstBar; bar < ds.Bars(); bar++ {
		assertClose(t, "histogram", res.Components[0].Value[bar], line[bar]-smoothed[bar], 1e-12)
	}
}

func TestTrixMAOscillator_FlatMarket(t *testing.T) {
	ds := model.NewCloseSeries("FLAT", flat(80, 100))
	for _, rule := range []Rule{Rises, Falls, ChangesDirectionUpward, ChangesDirectionDownward} {
		p := DefaultTrixMAOscillatorParams()
		p.Rule = rule
		res, err := NewTrixMAOscillator(model.OpenFilter, p, NewTrix(model.OpenFilter, DefaultTrixParams())).Calculate(ds)
		require.NoError(t, err)

		for bar, v := range res.Components[0].Value {
			assert.Zero(t, v, "%s histogram bar %d", rule, bar)
		}
		assert.Zero(t, res.Components[1].ActiveCount(), "%s long", rule)
		assert.Zero(t, res.Components[2].ActiveCount(), "%s short", rule)
	}
}

func TestTrixMAOscillator_SignalsFollowRule(t *testing.T) {
	ds := model.NewCloseSeries("TEST", wave(150))
	res, err := newDefaultOscillator(model.CloseFilter).Calculate(ds)
	require.NoError(t, err)

	hist := res.Components[0].Value
	for bar := res.FirstBar + 1; bar < ds.Bars(); bar++ {
		assert.Equal(t, hist[bar] > hist[bar-1], res.Components[1].Active(bar), "long bar %d", bar)
		assert.Equal(t, hist[bar] < hist[bar-1], res.Components[2].Active(bar), "short bar %d", bar)
	}
	assert.Equal(t, model.ForceCloseLong, res.Components[1].Type)
	assert.Equal(t, model.ForceCloseShort, res.Components[2].Type)
}

func TestTrixMAOscillator_UsePrevious(t *testing.T) {
	ds := model.NewCloseSeries("TEST", wave(150))
	now, err := newDefaultOscillator(model.OpenFilter).Calculate(ds)
	require.NoError(t, err)

	p := DefaultTrixMAOscillatorParams()
	p.UsePrevious = true
	prev, err := NewTrixMAOscillator(model.OpenFilter, p, NewTrix(model.OpenFilter, DefaultTrixParams())).Calculate(ds)
	require.NoError(t, err)

	assert.Equal(t, now.Components[0].Value, prev.Components[0].Value)
	for bar := prev.FirstBar + 2; bar < ds.Bars(); bar++ {
		assert.Equal(t, now.Components[1].Value[bar-1], prev.Components[1].Value[bar], "bar %d", bar)
	}
	assert.Zero(t, prev.Components[1].Value[prev.FirstBar+1])
}

func TestTrixMAOscillator_Idempotent(t *testing.T) {
	ds := model.NewCloseSeries("TEST", wave(200))
	osc := newDefaultOscillator(model.OpenFilter)
	a, err := osc.Calculate(ds)
	require.NoError(t, err)
	b, err := osc.Calculate(ds)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestTrixMAOscillator_ShortHistory(t *testing.T) {
	ds := model.NewCloseSeries("TEST", wave(10))
	res, err := newDefaultOscillator(model.OpenFilter).Calculate(ds)
	require.NoError(t, err)
	for _, c := range res.Components {
		assert.Zero(t, c.ActiveCount(), c.Name)
	}
}

func TestTrixMAOscillator_SubIndicatorError(t *testing.T) {
	boom := errors.New("boom")
	osc := NewTrixMAOscillator(model.OpenFilter, DefaultTrixMAOscillatorParams(), &stubCalc{err: boom})
	_, err := osc.Calculate(model.NewCloseSeries("TEST", wave(30)))
	assert.ErrorIs(t, err, boom)
}

func TestTrixMAOscillator_LengthMismatchPanics(t *testing.T) {
	sub := &stubCalc{res: &model.Result{
		Indicator:  "stub",
		FirstBar:   2,
		Components: []model.Component{model.NewValueComponent("short", model.Line, 2, make([]float64, 5))},
	}}
	osc := NewTrixMAOscillator(model.OpenFilter, DefaultTrixMAOscillatorParams(), sub)
	assert.Panics(t, func() { osc.Calculate(model.NewCloseSeries("TEST", wave(30))) })
}

func TestTrixMAOscillator_SubWithoutStages(t *testing.T) {
	sub := &stubCalc{res: &model.Result{
		Indicator:  "stub",
		FirstBar:   20,
		Components: []model.Component{model.NewValueComponent("line", model.Line, 20, wave(60))},
	}}
	res, err := NewTrixMAOscillator(model.OpenFilter, DefaultTrixMAOscillatorParams(), sub).
		Calculate(model.NewCloseSeries("TEST", wave(60)))
	require.NoError(t, err)
	// 20 + 12
	assert.Equal(t, 32, res.FirstBar)
}

func TestTrixMAOscillator_InvalidParams(t *testing.T) {
	p := DefaultTrixMAOscillatorParams()
	p.SignalPeriod = 201
	_, err := NewTrixMAOscillator(model.OpenFilter, p, NewTrix(model.OpenFilter, DefaultTrixParams())).
		Calculate(model.NewCloseSeries("TEST", wave(30)))
	assert.ErrorIs(t, err, ErrInvalidConfig)
}
