package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"time"

	"trading-signals/internal/model"

	_ "github.com/mattn/go-sqlite3"
)

// WriterConfig configures the SQLite writer.
type WriterConfig struct {
	DBPath string // path to SQLite database file, e.g. "data/candles.db"

	// OnCommit, if set, receives the latency of every committed transaction.
	OnCommit func(time.Duration)
}

// Writer is a single-connection SQLite writer with one transaction per batch.
type Writer struct {
	db       *sql.DB
	onCommit func(time.Duration)
}

// New creates a new SQLite Writer, initializes the database with WAL mode and schema.
func New(cfg WriterConfig) (*Writer, error) {
	db, err := sql.Open("sqlite3", cfg.DBPath+"?_journal_mode=WAL&_synchronous=NORMAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("sqlite open: %w", err)
	}

	// Set connection pool for single-writer
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := createSchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("sqlite schema: %w", err)
	}

	log.Printf("[sqlite] opened database at %s", cfg.DBPath)
	return &Writer{db: db, onCommit: cfg.OnCommit}, nil
}

func createSchema(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS candles_tf (
			token      TEXT    NOT NULL,
			exchange   TEXT    NOT NULL,
			tf         INTEGER NOT NULL,
			ts         INTEGER NOT NULL,
			open       INTEGER NOT NULL,
			high       INTEGER NOT NULL,
			low        INTEGER NOT NULL,
			close      INTEGER NOT NULL,
			volume     INTEGER,
			count      INTEGER,
			PRIMARY KEY (exchange, token, tf, ts)
		);

		CREATE TABLE IF NOT EXISTS indicator_runs (
			run_id     TEXT    NOT NULL,
			slot       TEXT    NOT NULL,
			indicator  TEXT    NOT NULL,
			symbol     TEXT    NOT NULL,
			tf         INTEGER NOT NULL,
			bars       INTEGER NOT NULL,
			first_bar  INTEGER NOT NULL,
			created_at INTEGER NOT NULL,
			PRIMARY KEY (run_id, slot)
		);

		CREATE TABLE IF NOT EXISTS indicator_components (
			run_id     TEXT    NOT NULL,
			slot       TEXT    NOT NULL,
			component  TEXT    NOT NULL,
			role       TEXT    NOT NULL,
			bar        INTEGER NOT NULL,
			ts         INTEGER NOT NULL,
			value      REAL    NOT NULL,
			PRIMARY KEY (run_id, slot, component, bar)
		);
	`)
	return err
}

// WriteTFCandles inserts a batch of TF candles in a single transaction.
func (w *Writer) WriteTFCandles(ctx context.Context, candles []model.TFCandle) error {
	start := time.Now()
	tx, err := w.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT OR REPLACE INTO candles_tf (token, exchange, tf, ts, open, high, low, close, volume, count)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		tx.Rollback()
		return err
	}
	defer stmt.Close()

	for _, c := range candles {
		_, err := stmt.ExecContext(ctx, c.Token, c.Exchange, c.TF, c.TS.Unix(), c.Open, c.High, c.Low, c.Close, c.Volume, c.Count)
		if err != nil {
			tx.Rollback()
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return err
	}
	w.observe(start)
	return nil
}

// WriteResult stores one slot's result. Only bars from each component's
// FirstBar on are written; earlier values are zero by construction.
// Rewriting the same run and slot replaces the previous rows.
func (w *Writer) WriteResult(ctx context.Context, runID, slot string, ds *model.BarSeries, res *model.Result) error {
	start := time.Now()
	tx, err := w.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("sqlite begin: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM indicator_components WHERE run_id = ? AND slot = ?`, runID, slot); err != nil {
		tx.Rollback()
		return fmt.Errorf("sqlite clear components: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `
		INSERT OR REPLACE INTO indicator_runs (run_id, slot, indicator, symbol, tf, bars, first_bar, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, runID, slot, res.Indicator, ds.Symbol, ds.TF, ds.Bars(), res.FirstBar, time.Now().Unix()); err != nil {
		tx.Rollback()
		return fmt.Errorf("sqlite insert run: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO indicator_components (run_id, slot, component, role, bar, ts, value)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		tx.Rollback()
		return err
	}
	defer stmt.Close()

	rows := 0
	for _, c := range res.Components {
		role := c.Type.String()
		for bar := max(c.FirstBar, 0); bar < len(c.Value) && bar < ds.Bars(); bar++ {
			if _, err := stmt.ExecContext(ctx, runID, slot, c.Name, role, bar, ds.Time(bar).Unix(), c.Value[bar]); err != nil {
				tx.Rollback()
				return fmt.Errorf("sqlite insert component %s bar %d: %w", c.Name, bar, err)
			}
			rows++
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("sqlite commit: %w", err)
	}
	w.observe(start)
	log.Printf("[sqlite] run=%s slot=%s: committed %d component rows in %v", runID, slot, rows, time.Since(start))
	return nil
}

func (w *Writer) observe(start time.Time) {
	if w.onCommit != nil {
		w.onCommit(time.Since(start))
	}
}

// Close closes the database.
func (w *Writer) Close() error {
	return w.db.Close()
}
