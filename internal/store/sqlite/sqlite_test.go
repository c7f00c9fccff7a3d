package sqlite

import (
	"context"
	"math"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trading-signals/internal/indicator"
	"trading-signals/internal/model"
)

func seedCandles(n int) []model.TFCandle {
	start := time.Date(2024, 3, 1, 9, 15, 0, 0, time.UTC)
	out := make([]model.TFCandle, n)
	for i := range out {
		closePaise := int64(10000 + 500*math.Sin(float64(i)/4) + 10*float64(i))
		out[i] = model.TFCandle{
			Token:    "2885",
			Exchange: "NSE",
			TF:       60,
			TS:       start.Add(time.Duration(i) * time.Minute),
			Open:     closePaise - 5,
			High:     closePaise + 20,
			Low:      closePaise - 20,
			Close:    closePaise,
			Volume:   int64(1000 + i),
			Count:    60,
		}
	}
	return out
}

func openPair(t *testing.T) (*Writer, *Reader, *int) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "candles.db")

	commits := new(int)
	w, err := New(WriterConfig{DBPath: path, OnCommit: func(time.Duration) { *commits++ }})
	require.NoError(t, err)
	t.Cleanup(func() { w.Close() })

	r, err := NewReader(path)
	require.NoError(t, err)
	t.Cleanup(func() { r.Close() })
	return w, r, commits
}

func TestReadBars_RoundTrip(t *testing.T) {
	w, r, commits := openPair(t)
	ctx := context.Background()
	candles := seedCandles(50)
	require.NoError(t, w.WriteTFCandles(ctx, candles))

	// Another instrument and TF must not leak in.
	other := seedCandles(5)
	for i := range other {
		other[i].Token = "1594"
	}
	require.NoError(t, w.WriteTFCandles(ctx, other))
	assert.Equal(t, 2, *commits)

	ds, err := r.ReadBars("NSE", "2885", 60, 0)
	require.NoError(t, err)
	require.Equal(t, 50, ds.Bars())
	assert.Equal(t, "NSE:2885:60s", ds.Symbol)
	assert.Equal(t, 60, ds.TF)
	assert.Equal(t, candles[0].TS, ds.Time(0))
	assert.InDelta(t, float64(candles[7].Close)/100, ds.Close(7), 1e-9)
	assert.InDelta(t, float64(candles[7].High)/100, ds.High(7), 1e-9)
	assert.Equal(t, float64(candles[7].Volume), ds.Volume(7))

	after, err := r.ReadBars("NSE", "2885", 60, candles[39].TS.Unix())
	require.NoError(t, err)
	assert.Equal(t, 10, after.Bars())

	empty, err := r.ReadBars("NSE", "2885", 300, 0)
	require.NoError(t, err)
	assert.Zero(t, empty.Bars())
}

func TestWriteResult_RoundTrip(t *testing.T) {
	w, r, _ := openPair(t)
	ctx := context.Background()
	require.NoError(t, w.WriteTFCandles(ctx, seedCandles(80)))

	ds, err := r.ReadBars("NSE", "2885", 60, 0)
	require.NoError(t, err)

	calc := indicator.NewTrixMAOscillator(model.OpenFilter,
		indicator.DefaultTrixMAOscillatorParams(),
		indicator.NewTrix(model.OpenFilter, indicator.DefaultTrixParams()))
	res, err := calc.Calculate(ds)
	require.NoError(t, err)

	require.NoError(t, w.WriteResult(ctx, "run-1", "entry", ds, res))
	// Rewriting replaces rather than duplicating.
	require.NoError(t, w.WriteResult(ctx, "run-1", "entry", ds, res))

	for _, c := range res.Components {
		got, err := r.ReadComponent("run-1", "entry", c.Name)
		require.NoError(t, err)
		assert.Equal(t, c.Value, got, c.Name)
	}

	_, err = r.ReadComponent("run-2", "entry", "Histogram")
	assert.Error(t, err)
}
