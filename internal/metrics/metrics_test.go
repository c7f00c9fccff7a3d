package metrics

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trading-signals/internal/model"
)

func TestObserveCalculation(t *testing.T) {
	m := NewMetrics(prometheus.NewRegistry())

	m.ObserveCalculation("RSI", 2*time.Millisecond, nil)
	m.ObserveCalculation("RSI", time.Millisecond, nil)
	m.ObserveCalculation("RSI", time.Millisecond, errors.New("boom"))

	assert.Equal(t, 2.0, testutil.ToFloat64(m.CalculationsTotal.WithLabelValues("RSI", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.CalculationsTotal.WithLabelValues("RSI", "error")))
	assert.Equal(t, 1, testutil.CollectAndCount(m.ComputeDur))
}

func TestObserveRun(t *testing.T) {
	m := NewMetrics(prometheus.NewRegistry())
	at := time.Unix(1_700_000_000, 0)

	m.ObserveRun(250, at)
	m.ObserveRun(50, at)

	assert.Equal(t, 300.0, testutil.ToFloat64(m.BarsProcessed))
	assert.Equal(t, 1_700_000_000.0, testutil.ToFloat64(m.LastRunTimestamp))
}

func TestSetSignal(t *testing.T) {
	m := NewMetrics(prometheus.NewRegistry())
	m.SetSignal(model.SignalState{Slot: "entry", Long: true})

	assert.Equal(t, 1.0, testutil.ToFloat64(m.ActiveSignals.WithLabelValues("entry", "long")))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.ActiveSignals.WithLabelValues("entry", "short")))
}

func TestNewMetrics_DoubleRegisterPanics(t *testing.T) {
	reg := prometheus.NewRegistry()
	NewMetrics(reg)
	assert.Panics(t, func() { NewMetrics(reg) })
}

func TestHealthz(t *testing.T) {
	h := NewHealthStatus()
	h.SetSlots([]string{"entry", "exit"})

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	h.SetSQLiteOK(true)
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Status string   `json:"status"`
		Slots  []string `json:"slots"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "healthy", body.Status)
	assert.Equal(t, []string{"entry", "exit"}, body.Slots)
}

func TestServer_MetricsEndpoint(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)
	m.ObserveCalculation("TRIX MA Oscillator", time.Millisecond, nil)

	s := NewServer(":0", NewHealthStatus(), reg)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), `indcalc_calculations_total{indicator="TRIX MA Oscillator",status="ok"} 1`))
}
