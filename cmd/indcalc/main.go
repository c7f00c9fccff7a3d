// cmd/indcalc runs the configured indicator slots over candle history stored
// in SQLite and reports the signal state of every slot on the last bar.
//
// Usage:
//
//	go run ./cmd/indcalc --exchange=NSE --token=2885 --tf=60,300 --slots=slots.yaml --write --publish
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	goredis "github.com/go-redis/redis/v8"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"trading-signals/config"
	"trading-signals/internal/indicator"
	"trading-signals/internal/logger"
	"trading-signals/internal/metrics"
	"trading-signals/internal/model"
	redisstore "trading-signals/internal/store/redis"
	sqlitestore "trading-signals/internal/store/sqlite"
)

func main() {
	cfg := config.Load()

	// Flags default to the environment
	dbPath := flag.String("db", cfg.SQLitePath, "Path to SQLite database")
	exchange := flag.String("exchange", cfg.Exchange, "Exchange of the instrument")
	token := flag.String("token", cfg.Token, "Instrument token")
	tfStr := flag.String("tf", cfg.EnabledTFs, "Comma-separated TFs in seconds")
	fromTS := flag.Int64("from", 0, "Only use candles after this unix timestamp (0=all)")
	slotsPath := flag.String("slots", cfg.SlotsFile, "YAML slots file (empty = built-in TRIX MA Oscillator entry/exit)")
	publish := flag.Bool("publish", false, "Publish last-bar signals to Redis")
	redisAddr := flag.String("redis-addr", cfg.RedisAddr, "Redis address used with --publish")
	write := flag.Bool("write", false, "Store every component series in SQLite")
	metricsAddr := flag.String("metrics-addr", cfg.MetricsAddr, "Serve /metrics and /healthz here and wait for SIGINT (empty = off)")
	printSlots := flag.Bool("print-slots", false, "Print the effective slots as YAML and exit")
	logLevel := flag.String("log-level", cfg.LogLevel, "debug, info, warn or error")
	flag.Parse()

	logger.Init("indcalc", logger.ParseLevel(*logLevel))
	cfg.EnabledTFs = *tfStr

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	prom := metrics.NewMetrics(reg)

	// Slots
	slots := config.DefaultSlots()
	if *slotsPath != "" {
		var err error
		slots, err = config.LoadSlots(*slotsPath)
		if err != nil {
			prom.ConfigErrors.Inc()
			log.Fatalf("[indcalc] slots: %v", err)
		}
	}
	if *printSlots {
		out, err := config.MarshalSlots(slots)
		if err != nil {
			log.Fatalf("[indcalc] marshal slots: %v", err)
		}
		os.Stdout.Write(out)
		return
	}

	engine, err := indicator.NewEngineFromConfig(slots, prom)
	if err != nil {
		prom.ConfigErrors.Inc()
		log.Fatalf("[indcalc] %v", err)
	}

	tfs := cfg.ParseTFs()
	if len(tfs) == 0 {
		log.Fatal("[indcalc] no valid TFs specified")
	}

	// Setup context
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		cancel()
	}()

	// Stores
	reader, err := sqlitestore.NewReader(*dbPath)
	if err != nil {
		log.Fatalf("[indcalc] sqlite open failed: %v", err)
	}
	defer reader.Close()

	health := metrics.NewHealthStatus()
	health.SetSlots(engine.Slots())
	health.CheckSQLite(ctx, reader.DB())

	var sink model.ComponentWriter
	if *write {
		w, err := sqlitestore.New(sqlitestore.WriterConfig{
			DBPath:   *dbPath,
			OnCommit: func(d time.Duration) { prom.SQLiteCommitDur.Observe(d.Seconds()) },
		})
		if err != nil {
			log.Fatalf("[indcalc] sqlite writer: %v", err)
		}
		defer w.Close()
		sink = w
	}

	var pub model.SignalPublisher
	var pubClient *redisstore.Publisher
	if *publish {
		p, err := redisstore.New(redisstore.PublisherConfig{
			Addr:     *redisAddr,
			Password: cfg.RedisPassword,
			Breaker: redisstore.BreakerConfig{
				MaxFailures:  3,
				ResetTimeout: 10 * time.Second,
				OnStateChange: func(from, to redisstore.State) {
					log.Printf("[redis] circuit breaker %s -> %s", from, to)
					prom.RedisCircuitBreakerState.Set(float64(to))
					if to == redisstore.StateOpen {
						prom.RedisCircuitBreakerTrips.Inc()
					}
				},
			},
			OnPublish: func(d time.Duration) { prom.RedisWriteDur.Observe(d.Seconds()) },
		})
		if err != nil {
			log.Printf("[indcalc] redis unavailable, signals will not be published: %v", err)
		} else {
			defer p.Close()
			pub, pubClient = p, p
			health.SetRedisConnected(true)
		}
	}

	// Metrics server
	var metricsSrv *metrics.Server
	if *metricsAddr != "" {
		metricsSrv = metrics.NewServer(*metricsAddr, health, reg)
		metricsSrv.Start()
		var rdb *goredis.Client
		if pubClient != nil {
			rdb = pubClient.Client()
		}
		health.StartLivenessChecker(ctx, rdb, reader.DB(), 15*time.Second)
	}

	// Run every TF
	exitCode := 0
	for _, tf := range tfs {
		if ctx.Err() != nil {
			break
		}
		if err := runTF(ctx, engine, reader, sink, pub, prom, health, *exchange, *token, tf, *fromTS); err != nil {
			log.Printf("[indcalc] TF=%ds: %v", tf, err)
			exitCode = 1
		}
	}

	if metricsSrv != nil && ctx.Err() == nil {
		log.Printf("[indcalc] serving metrics on %s until interrupted", *metricsAddr)
		<-ctx.Done()
	}
	if metricsSrv != nil {
		stopCtx, stopCancel := context.WithTimeout(context.Background(), 5*time.Second)
		metricsSrv.Stop(stopCtx)
		stopCancel()
	}
	if exitCode != 0 {
		os.Exit(exitCode)
	}
}

// runTF computes every slot over one timeframe and hands the results to the
// configured sinks. Sink failures are logged; only read and compute errors
// are returned.
func runTF(ctx context.Context, engine *indicator.Engine, reader model.BarReader,
	sink model.ComponentWriter, pub model.SignalPublisher, prom *metrics.Metrics, health *metrics.HealthStatus,
	exchange, token string, tf int, fromTS int64) error {

	ds, err := reader.ReadBars(exchange, token, tf, fromTS)
	if err != nil {
		return err
	}
	if ds.Bars() == 0 {
		return fmt.Errorf("no candles for %s", ds.Symbol)
	}

	now := time.Now()
	runID := logger.NewRunID(ds.Symbol, now)
	ctx = logger.WithRunID(ctx, runID)

	results, err := engine.Run(ctx, ds)
	if err != nil {
		return err
	}
	prom.ObserveRun(ds.Bars(), now)
	health.SetLastRunAt(now)

	printHeader(ds, runID)
	for _, r := range results {
		st := model.LastSignalState(r.Slot, ds, r.Result)
		prom.SetSignal(st)
		printSlot(r, st)

		if sink != nil {
			if err := sink.WriteResult(ctx, runID, r.Slot, ds, r.Result); err != nil {
				log.Printf("[indcalc] store %s: %v", r.Slot, err)
			}
		}
		if pub != nil && st.Ready {
			if err := pub.PublishSignal(ctx, st); err != nil {
				log.Printf("[indcalc] publish %s: %v", r.Slot, err)
			}
		}
	}
	fmt.Println()
	return nil
}

func printHeader(ds *model.BarSeries, runID string) {
	first := ds.Bar(0)
	last, _ := ds.Last()
	fmt.Println()
	fmt.Println("╔══════════════════════════════════════════════════════════════╗")
	fmt.Printf("║  %-60s║\n", ds.Symbol)
	fmt.Println("╠══════════════════════════════════════════════════════════════╣")
	fmt.Printf("║  Bars:        %-47d║\n", ds.Bars())
	fmt.Printf("║  From:        %-47s║\n", first.Time.Format("2006-01-02 15:04:05"))
	fmt.Printf("║  To:          %-47s║\n", last.Time.Format("2006-01-02 15:04:05"))
	fmt.Printf("║  Run:         %-47s║\n", runID)
	fmt.Println("╚══════════════════════════════════════════════════════════════╝")
	fmt.Printf("  %-18s %-22s %9s %12s %-18s %-18s\n", "SLOT", "INDICATOR", "FIRST BAR", "VALUE", "LONG", "SHORT")
	fmt.Println("  " + strings.Repeat("─", 102))
}

func printSlot(r indicator.SlotResult, st model.SignalState) {
	value := fmt.Sprintf("%.6f", st.Value)
	if !st.Ready {
		value = "warm-up"
	}
	fmt.Printf("  %-18s %-22s %9d %12s %-18s %-18s\n",
		r.Slot, r.Result.Indicator, r.Result.FirstBar, value,
		signalCell(r.Result, st.LongRole, st.Long), signalCell(r.Result, st.ShortRole, st.Short))
}

// signalCell renders the last-bar flag of a role with its active-bar count.
func signalCell(res *model.Result, role model.ComponentType, on bool) string {
	c, ok := res.Component(role)
	if !ok {
		return "-"
	}
	mark := "·"
	if on {
		mark = "●"
	}
	return fmt.Sprintf("%s %d bars", mark, c.ActiveCount())
}
