package metrics

import (
	"context"
	"database/sql"
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	goredis "github.com/go-redis/redis/v8"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"trading-signals/internal/model"
)

// Metrics holds all Prometheus metrics for the indicator calculator.
type Metrics struct {
	// Indicator engine metrics
	CalculationsTotal *prometheus.CounterVec   // labels: indicator, status=ok|error
	ComputeDur        *prometheus.HistogramVec // labels: indicator
	BarsProcessed     prometheus.Counter
	ConfigErrors      prometheus.Counter
	LastRunTimestamp  prometheus.Gauge

	// Last-bar signal state per slot
	ActiveSignals *prometheus.GaugeVec // labels: slot, side=long|short

	// Store latency
	SQLiteCommitDur prometheus.Histogram
	RedisWriteDur   prometheus.Histogram

	// Circuit breaker metrics
	RedisCircuitBreakerState prometheus.Gauge // 0=closed, 1=open, 2=half-open
	RedisCircuitBreakerTrips prometheus.Counter
}

// NewMetrics creates all metrics and registers them with reg.
// Pass prometheus.DefaultRegisterer for the process-wide registry.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		CalculationsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "indcalc_calculations_total",
			Help: "Indicator calculations run (by indicator and outcome)",
		}, []string{"indicator", "status"}),
		ComputeDur: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "indcalc_compute_duration_seconds",
			Help:    "Indicator compute latency per slot over the whole bar series",
			Buckets: []float64{0.00001, 0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5},
		}, []string{"indicator"}),
		BarsProcessed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "indcalc_bars_processed_total",
			Help: "Bars fed through the engine",
		}),
		ConfigErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "indcalc_config_errors_total",
			Help: "Slot configurations rejected by validation",
		}),
		LastRunTimestamp: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "indcalc_last_run_timestamp_seconds",
			Help: "Unix time of the last completed engine run",
		}),
		ActiveSignals: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "indcalc_active_signal",
			Help: "Signal on the last bar per slot (1=set, 0=clear)",
		}, []string{"slot", "side"}),

		SQLiteCommitDur: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "indcalc_sqlite_commit_duration_seconds",
			Help:    "SQLite component batch commit latency",
			Buckets: prometheus.DefBuckets,
		}),
		RedisWriteDur: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "indcalc_redis_write_duration_seconds",
			Help:    "Redis signal publish latency",
			Buckets: prometheus.DefBuckets,
		}),

		// Circuit breaker
		RedisCircuitBreakerState: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "indcalc_redis_circuit_breaker_state",
			Help: "Redis circuit breaker state (0=closed, 1=open, 2=half-open)",
		}),
		RedisCircuitBreakerTrips: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "indcalc_redis_circuit_breaker_trips_total",
			Help: "Times the Redis circuit breaker tripped open",
		}),
	}

	reg.MustRegister(
		m.CalculationsTotal,
		m.ComputeDur,
		m.BarsProcessed,
		m.ConfigErrors,
		m.LastRunTimestamp,
		m.ActiveSignals,
		m.SQLiteCommitDur,
		m.RedisWriteDur,
		m.RedisCircuitBreakerState,
		m.RedisCircuitBreakerTrips,
	)

	return m
}

// ObserveCalculation records one slot calculation.
func (m *Metrics) ObserveCalculation(indicator string, d time.Duration, err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	m.CalculationsTotal.WithLabelValues(indicator, status).Inc()
	m.ComputeDur.WithLabelValues(indicator).Observe(d.Seconds())
}

// ObserveRun records a completed engine run over bars bars.
func (m *Metrics) ObserveRun(bars int, at time.Time) {
	m.BarsProcessed.Add(float64(bars))
	m.LastRunTimestamp.Set(float64(at.Unix()))
}

// SetSignal exports the last-bar signal state of a slot.
func (m *Metrics) SetSignal(st model.SignalState) {
	m.ActiveSignals.WithLabelValues(st.Slot, "long").Set(boolGauge(st.Long))
	m.ActiveSignals.WithLabelValues(st.Slot, "short").Set(boolGauge(st.Short))
}

func boolGauge(b bool) float64 {
	if b {
		return 1
	}
	return 0
}

// HealthStatus represents the calculator's dependency health.
type HealthStatus struct {
	mu sync.RWMutex

	RedisConnected bool      `json:"redis_connected"`
	SQLiteOK       bool      `json:"sqlite_ok"`
	Slots          []string  `json:"slots"`
	LastRunAt      time.Time `json:"last_run_at"`

	// Liveness probe results
	RedisLatencyMs  float64   `json:"redis_latency_ms"`
	SQLiteLatencyMs float64   `json:"sqlite_latency_ms"`
	LastCheckAt     time.Time `json:"last_check_at"`
	StartedAt       time.Time `json:"started_at"`
}

// NewHealthStatus returns a default health status.
func NewHealthStatus() *HealthStatus {
	return &HealthStatus{
		StartedAt: time.Now(),
	}
}

func (h *HealthStatus) SetRedisConnected(v bool) {
	h.mu.Lock()
	h.RedisConnected = v
	h.mu.Unlock()
}

func (h *HealthStatus) SetSQLiteOK(v bool) {
	h.mu.Lock()
	h.SQLiteOK = v
	h.mu.Unlock()
}

func (h *HealthStatus) SetSlots(names []string) {
	h.mu.Lock()
	h.Slots = names
	h.mu.Unlock()
}

func (h *HealthStatus) SetLastRunAt(t time.Time) {
	h.mu.Lock()
	h.LastRunAt = t
	h.mu.Unlock()
}

// CheckRedis pings Redis and records latency + connectivity.
func (h *HealthStatus) CheckRedis(ctx context.Context, rdb *goredis.Client) {
	start := time.Now()
	err := rdb.Ping(ctx).Err()
	latency := time.Since(start)

	h.mu.Lock()
	h.RedisConnected = err == nil
	h.RedisLatencyMs = float64(latency.Microseconds()) / 1000.0
	h.LastCheckAt = time.Now()
	h.mu.Unlock()
}

// CheckSQLite pings the database and records latency + health.
func (h *HealthStatus) CheckSQLite(ctx context.Context, db *sql.DB) {
	start := time.Now()
	err := db.PingContext(ctx)
	latency := time.Since(start)

	h.mu.Lock()
	h.SQLiteOK = err == nil
	h.SQLiteLatencyMs = float64(latency.Microseconds()) / 1000.0
	h.LastCheckAt = time.Now()
	h.mu.Unlock()
}

// StartLivenessChecker runs periodic dependency checks. Either client may be nil.
func (h *HealthStatus) StartLivenessChecker(ctx context.Context, rdb *goredis.Client, sqlDB *sql.DB, interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				probeCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
				if rdb != nil {
					h.CheckRedis(probeCtx, rdb)
				}
				if sqlDB != nil {
					h.CheckSQLite(probeCtx, sqlDB)
				}
				cancel()
			}
		}
	}()
}

// ServeHTTP handles the /healthz endpoint. Redis is optional for the
// calculator, so only SQLite decides between healthy and unhealthy.
func (h *HealthStatus) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	overallStatus := "healthy"
	httpCode := http.StatusOK
	if !h.SQLiteOK {
		overallStatus = "unhealthy"
		httpCode = http.StatusServiceUnavailable
	}

	lastRun := ""
	if !h.LastRunAt.IsZero() {
		lastRun = h.LastRunAt.Format(time.RFC3339)
	}

	status := struct {
		Status          string   `json:"status"`
		Uptime          string   `json:"uptime"`
		RedisConnected  bool     `json:"redis_connected"`
		RedisLatencyMs  float64  `json:"redis_latency_ms"`
		SQLiteOK        bool     `json:"sqlite_ok"`
		SQLiteLatencyMs float64  `json:"sqlite_latency_ms"`
		Slots           []string `json:"slots"`
		LastRunAt       string   `json:"last_run_at"`
		LastCheckAt     string   `json:"last_check_at"`
	}{
		Status:          overallStatus,
		Uptime:          time.Since(h.StartedAt).Round(time.Second).String(),
		RedisConnected:  h.RedisConnected,
		RedisLatencyMs:  h.RedisLatencyMs,
		SQLiteOK:        h.SQLiteOK,
		SQLiteLatencyMs: h.SQLiteLatencyMs,
		Slots:           h.Slots,
		LastRunAt:       lastRun,
		LastCheckAt:     h.LastCheckAt.Format(time.RFC3339),
	}

	w.Header().Set("Content-Type", "application/json")
	if httpCode != http.StatusOK {
		w.WriteHeader(httpCode)
	}
	json.NewEncoder(w).Encode(status)
}

// Server runs an HTTP server exposing /metrics and /healthz.
type Server struct {
	health *HealthStatus
	addr   string
	srv    *http.Server
}

// NewServer creates a metrics and health server over gatherer.
func NewServer(addr string, health *HealthStatus, gatherer prometheus.Gatherer) *Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	mux.HandleFunc("/healthz", health.ServeHTTP)

	return &Server{
		health: health,
		addr:   addr,
		srv: &http.Server{
			Addr:    addr,
			Handler: mux,
		},
	}
}

// Handler returns the server's mux, for tests.
func (s *Server) Handler() http.Handler { return s.srv.Handler }

// Start launches the HTTP server in a goroutine.
func (s *Server) Start() {
	go func() {
		log.Printf("[metrics] server listening on %s", s.addr)
		if err := s.srv.ListenAndServe(); err != http.ErrServerClosed {
			log.Printf("[metrics] server error: %v", err)
		}
	}()
}

// Stop gracefully shuts down the metrics server.
func (s *Server) Stop(ctx context.Context) {
	s.srv.Shutdown(ctx)
}
