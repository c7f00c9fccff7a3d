package indicator

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"trading-signals/internal/logger"
	"trading-signals/internal/model"
)

// Recorder receives per-slot timing. *metrics.Metrics implements it.
type Recorder interface {
	ObserveCalculation(indicator string, d time.Duration, err error)
}

// Slot is a named, ready-to-run calculator.
type Slot struct {
	Name string
	Calc Calculator
}

// SlotResult is the output of one slot in an engine run.
type SlotResult struct {
	Slot   string
	Result *model.Result
}

// Engine computes every configured slot over one DataSet.
// Designed for single-goroutine usage; slots run one after another.
type Engine struct {
	slots []Slot
	rec   Recorder
}

// NewEngine creates an engine over already-built slots. rec may be nil.
func NewEngine(slots []Slot, rec Recorder) *Engine {
	return &Engine{slots: slots, rec: rec}
}

// NewEngineFromConfig validates cfgs and builds one slot per config.
func NewEngineFromConfig(cfgs []SlotConfig, rec Recorder) (*Engine, error) {
	if err := ValidateSlots(cfgs); err != nil {
		return nil, err
	}
	slots := make([]Slot, 0, len(cfgs))
	for _, c := range cfgs {
		calc, err := Build(c)
		if err != nil {
			return nil, fmt.Errorf("slot %q: %w", c.Name, err)
		}
		slots = append(slots, Slot{Name: c.Name, Calc: calc})
	}
	return NewEngine(slots, rec), nil
}

// Slots returns the configured slot names in run order.
func (e *Engine) Slots() []string {
	names := make([]string, len(e.slots))
	for i, s := range e.slots {
		names[i] = s.Name
	}
	return names
}

// Run computes every slot over ds and returns the results in slot order.
// Each result is checked against the component invariants before it is
// returned. ctx is only consulted between slots.
func (e *Engine) Run(ctx context.Context, ds model.DataSet) ([]SlotResult, error) {
	bars := ds.Bars()
	out := make([]SlotResult, 0, len(e.slots))

	for _, s := range e.slots {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		start := time.Now()
		res, err := s.Calc.Calculate(ds)
		if err == nil {
			err = res.Validate(bars)
		}
		elapsed := time.Since(start)
		if e.rec != nil {
			e.rec.ObserveCalculation(s.Calc.Name(), elapsed, err)
		}
		if err != nil {
			return nil, fmt.Errorf("slot %q: %w", s.Name, err)
		}

		attrs := append([]any{
			slog.String("slot", s.Name),
			slog.String("indicator", res.Indicator),
			slog.Int("bars", bars),
			slog.Int("first_bar", res.FirstBar),
			slog.Duration("elapsed", elapsed),
		}, logger.LogWithRun(ctx)...)
		if bars <= res.FirstBar {
			slog.Warn("not enough bars for a valid value", attrs...)
		} else {
			slog.Debug("slot computed", attrs...)
		}

		out = append(out, SlotResult{Slot: s.Name, Result: res})
	}
	return out, nil
}
