package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"trading-signals/internal/model"

	goredis "github.com/go-redis/redis/v8"
)

const (
	defaultLatestTTL    = 30 * time.Minute
	defaultStreamMaxLen = 1000
)

// PublisherConfig configures the Redis signal publisher.
type PublisherConfig struct {
	Addr     string // Redis address, e.g. "localhost:6379"
	Password string
	DB       int

	LatestTTL time.Duration // TTL of the latest-state key (default 30m)
	Breaker   BreakerConfig

	// OnPublish, if set, receives the latency of every successful publish.
	OnPublish func(time.Duration)
}

// Publisher writes the last-bar signal state of each slot to Redis:
// a latest key, a capped stream and a pubsub notification, in one pipeline.
type Publisher struct {
	client    *goredis.Client
	breaker   *CircuitBreaker
	latestTTL time.Duration
	onPublish func(time.Duration)
}

// Client returns the underlying Redis client for health checks.
func (p *Publisher) Client() *goredis.Client { return p.client }

// Breaker returns the circuit breaker guarding publishes.
func (p *Publisher) Breaker() *CircuitBreaker { return p.breaker }

// New creates a Publisher and pings the server.
func New(cfg PublisherConfig) (*Publisher, error) {
	client := goredis.NewClient(&goredis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	log.Printf("[redis] connected to %s", cfg.Addr)
	return NewWithClient(client, cfg), nil
}

// NewWithClient creates a Publisher over an existing client without pinging.
func NewWithClient(client *goredis.Client, cfg PublisherConfig) *Publisher {
	ttl := cfg.LatestTTL
	if ttl <= 0 {
		ttl = defaultLatestTTL
	}
	return &Publisher{
		client:    client,
		breaker:   NewCircuitBreaker(cfg.Breaker),
		latestTTL: ttl,
		onPublish: cfg.OnPublish,
	}
}

// LatestKey is the key holding the latest state of a slot, e.g.
// "sig:entry:latest:NSE:2885:60s".
func LatestKey(slot, symbol string) string { return "sig:" + slot + ":latest:" + symbol }

// StreamKey is the stream of every published state of a slot.
func StreamKey(slot, symbol string) string { return "sig:" + slot + ":" + symbol }

// PubSubChannel is the channel notified on every publish.
func PubSubChannel(slot, symbol string) string { return "pub:sig:" + slot + ":" + symbol }

// PublishSignal writes st through the circuit breaker.
// While the breaker is open the call fails fast with ErrCircuitOpen.
func (p *Publisher) PublishSignal(ctx context.Context, st model.SignalState) error {
	data := string(st.JSON())
	start := time.Now()

	err := p.breaker.Execute(func() error {
		pipe := p.client.Pipeline()
		pipe.Set(ctx, LatestKey(st.Slot, st.Symbol), data, p.latestTTL)
		pipe.XAdd(ctx, &goredis.XAddArgs{
			Stream: StreamKey(st.Slot, st.Symbol),
			MaxLen: defaultStreamMaxLen,
			Approx: true,
			Values: map[string]interface{}{"data": data},
		})
		pipe.Publish(ctx, PubSubChannel(st.Slot, st.Symbol), data)
		_, err := pipe.Exec(ctx)
		return err
	})
	if err != nil {
		if !errors.Is(err, ErrCircuitOpen) {
			log.Printf("[redis] signal pipeline error for %s/%s: %v", st.Slot, st.Symbol, err)
		}
		return fmt.Errorf("redis publish %s: %w", st.Slot, err)
	}

	if p.onPublish != nil {
		p.onPublish(time.Since(start))
	}
	return nil
}

// LatestSignal reads back the latest state of a slot. Returns nil, nil when
// nothing has been published (or the key expired).
func (p *Publisher) LatestSignal(ctx context.Context, slot, symbol string) (*model.SignalState, error) {
	data, err := p.client.Get(ctx, LatestKey(slot, symbol)).Bytes()
	if err != nil {
		if err == goredis.Nil {
			return nil, nil
		}
		return nil, fmt.Errorf("redis GET latest signal: %w", err)
	}
	var st model.SignalState
	if err := json.Unmarshal(data, &st); err != nil {
		return nil, fmt.Errorf("unmarshal signal state: %w", err)
	}
	return &st, nil
}

// Close closes the Redis client.
func (p *Publisher) Close() error {
	return p.client.Close()
}
