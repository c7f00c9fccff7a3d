package sqlite

import (
	"database/sql"
	"fmt"
	"log"
	"time"

	"trading-signals/internal/model"

	_ "github.com/mattn/go-sqlite3"
)

// Reader provides read-only access to stored candles and computed components.
type Reader struct {
	db *sql.DB
}

// NewReader opens a SQLite connection for reading.
func NewReader(dbPath string) (*Reader, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_synchronous=NORMAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("sqlite open reader: %w", err)
	}
	db.SetMaxOpenConns(2)
	db.SetMaxIdleConns(2)

	log.Printf("[sqlite-reader] opened %s", dbPath)
	return &Reader{db: db}, nil
}

// DB returns the underlying sql.DB for health checks.
func (r *Reader) DB() *sql.DB { return r.db }

// ReadTFCandles reads TF candles from the candles_tf table for a given exchange:token and TF.
// Results are ordered by timestamp ascending, the order indicators compute in.
func (r *Reader) ReadTFCandles(exchange, token string, tf int, afterTS int64) ([]model.TFCandle, error) {
	rows, err := r.db.Query(`
		SELECT token, exchange, tf, ts, open, high, low, close, volume, count
		FROM candles_tf
		WHERE exchange = ? AND token = ? AND tf = ? AND ts > ?
		ORDER BY ts ASC
	`, exchange, token, tf, afterTS)
	if err != nil {
		return nil, fmt.Errorf("sqlite query candles_tf: %w", err)
	}
	defer rows.Close()

	var candles []model.TFCandle
	for rows.Next() {
		var c model.TFCandle
		var tsUnix int64
		var volume sql.NullInt64
		var count sql.NullInt64
		if err := rows.Scan(&c.Token, &c.Exchange, &c.TF, &tsUnix, &c.Open, &c.High, &c.Low, &c.Close, &volume, &count); err != nil {
			return nil, fmt.Errorf("sqlite scan candles_tf: %w", err)
		}
		c.TS = time.Unix(tsUnix, 0).UTC()
		c.Volume = volume.Int64
		c.Count = int(count.Int64)
		candles = append(candles, c)
	}
	return candles, rows.Err()
}

// ReadBars loads the candles of one instrument and timeframe as a DataSet.
func (r *Reader) ReadBars(exchange, token string, tf int, afterTS int64) (*model.BarSeries, error) {
	candles, err := r.ReadTFCandles(exchange, token, tf, afterTS)
	if err != nil {
		return nil, err
	}
	key := model.TFCandle{Exchange: exchange, Token: token, TF: tf}
	return model.NewBarSeries(key.SeriesKey(), tf, model.BarsFromTFCandles(candles)), nil
}

// ReadComponent returns the stored values of one component of a run, indexed
// by bar. Bars that were not stored read as zero.
func (r *Reader) ReadComponent(runID, slot, component string) ([]float64, error) {
	var bars int
	err := r.db.QueryRow(`SELECT bars FROM indicator_runs WHERE run_id = ? AND slot = ?`, runID, slot).Scan(&bars)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("sqlite run %s/%s: %w", runID, slot, err)
		}
		return nil, fmt.Errorf("sqlite read run: %w", err)
	}

	rows, err := r.db.Query(`
		SELECT bar, value FROM indicator_components
		WHERE run_id = ? AND slot = ? AND component = ?
		ORDER BY bar ASC
	`, runID, slot, component)
	if err != nil {
		return nil, fmt.Errorf("sqlite query indicator_components: %w", err)
	}
	defer rows.Close()

	values := make([]float64, bars)
	for rows.Next() {
		var bar int
		var v float64
		if err := rows.Scan(&bar, &v); err != nil {
			return nil, fmt.Errorf("sqlite scan indicator_components: %w", err)
		}
		if bar >= 0 && bar < bars {
			values[bar] = v
		}
	}
	return values, rows.Err()
}

// Close closes the reader.
func (r *Reader) Close() error {
	return r.db.Close()
}
