package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trading-signals/internal/indicator"
)

func TestLoad_Defaults(t *testing.T) {
	for _, k := range []string{"REDIS_ADDR", "SQLITE_PATH", "ENABLED_TFS", "SLOTS_FILE", "LOG_LEVEL", "EXCHANGE", "TOKEN"} {
		t.Setenv(k, "")
	}
	cfg := Load()
	assert.Equal(t, "localhost:6379", cfg.RedisAddr)
	assert.Equal(t, "data/candles.db", cfg.SQLitePath)
	assert.Equal(t, "NSE", cfg.Exchange)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, []int{60}, cfg.ParseTFs())
}

func TestLoad_FromEnv(t *testing.T) {
	t.Setenv("SQLITE_PATH", "/tmp/x.db")
	t.Setenv("ENABLED_TFS", "60, 300,abc,-5,,900")
	t.Setenv("SLOTS_FILE", "slots.yaml")
	cfg := Load()
	assert.Equal(t, "/tmp/x.db", cfg.SQLitePath)
	assert.Equal(t, "slots.yaml", cfg.SlotsFile)
	assert.Equal(t, []int{60, 300, 900}, cfg.ParseTFs())
}

func TestParseSlots(t *testing.T) {
	raw := []byte(`
slots:
  - name: entry
    indicator: trix_ma_oscillator
    slot: open
    logic: crosses_upward
    method: smoothed
    signal_method: simple
    base_price: typical
    period: 12
    signal_period: 20
    use_previous: true
  - name: rsi_exit
    indicator: rsi
    slot: close
    logic: above
    period: 14
    level: 30
`)
	slots, err := ParseSlots(raw)
	require.NoError(t, err)
	require.Len(t, slots, 2)

	assert.Equal(t, indicator.SlotConfig{
		Name:         "entry",
		Indicator:    "trix_ma_oscillator",
		Slot:         "open",
		Logic:        "crosses_upward",
		Method:       "smoothed",
		SignalMethod: "simple",
		BasePrice:    "typical",
		Period:       12,
		SignalPeriod: 20,
		UsePrevious:  true,
	}, slots[0])
	assert.Equal(t, 30.0, slots[1].Level)
}

func TestParseSlots_Rejects(t *testing.T) {
	cases := map[string]string{
		"unknown key":    "slots:\n  - name: a\n    indicator: trix\n    slot: open\n    period: 9\n    perod: 3\n",
		"zero period":    "slots:\n  - name: a\n    indicator: trix\n    slot: open\n    period: 0\n",
		"unknown method": "slots:\n  - name: a\n    indicator: trix\n    slot: open\n    period: 9\n    method: hull\n",
		"no slots":       "slots: []\n",
		"not yaml":       "slots: [\n",
	}
	for name, raw := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := ParseSlots([]byte(raw))
			assert.Error(t, err)
		})
	}

	_, err := ParseSlots([]byte("slots:\n  - name: a\n    indicator: trix\n    slot: open\n    period: 0\n"))
	assert.ErrorIs(t, err, indicator.ErrInvalidConfig)
}

func TestLoadSlots_RoundTrip(t *testing.T) {
	raw, err := MarshalSlots(DefaultSlots())
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "slots.yaml")
	require.NoError(t, os.WriteFile(path, raw, 0o644))

	slots, err := LoadSlots(path)
	require.NoError(t, err)
	assert.Equal(t, DefaultSlots(), slots)
}

func TestLoadSlots_MissingFile(t *testing.T) {
	_, err := LoadSlots(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestDefaultSlots_Valid(t *testing.T) {
	require.NoError(t, indicator.ValidateSlots(DefaultSlots()))
}
