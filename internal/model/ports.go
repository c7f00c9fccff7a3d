package model

import "context"

// ── Storage Port Interfaces ──
// These interfaces decouple the indicator engine's host tooling from concrete
// storage implementations (SQLite, Redis).

// BarReader loads stored price history for one instrument and timeframe.
type BarReader interface {
	// ReadTFCandles returns candles ordered by timestamp ascending.
	ReadTFCandles(exchange, token string, tf int, afterTS int64) ([]TFCandle, error)

	// ReadBars returns the same candles as a DataSet in rupees.
	ReadBars(exchange, token string, tf int, afterTS int64) (*BarSeries, error)

	// Close releases underlying resources.
	Close() error
}

// ComponentWriter persists the output components of a computation run.
type ComponentWriter interface {
	// WriteResult stores every component value of res for the given slot.
	WriteResult(ctx context.Context, runID, slot string, ds *BarSeries, res *Result) error

	// Close releases underlying resources.
	Close() error
}

// SignalPublisher publishes the latest signal state of a slot.
type SignalPublisher interface {
	PublishSignal(ctx context.Context, state SignalState) error

	// Close releases underlying resources.
	Close() error
}
