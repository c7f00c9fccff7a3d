package config

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"trading-signals/internal/indicator"
)

// SlotsFile is the on-disk layout of a slots file:
//
//	slots:
//	  - name: entry
//	    indicator: trix_ma_oscillator
//	    slot: open
//	    logic: rises
//	    period: 9
//	    signal_period: 13
type SlotsFile struct {
	Slots []indicator.SlotConfig `yaml:"slots"`
}

// LoadSlots reads and validates a YAML slots file. Unknown keys are rejected
// so a misspelt parameter cannot silently fall back to its default.
func LoadSlots(path string) ([]indicator.SlotConfig, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read slots file: %w", err)
	}
	return ParseSlots(raw)
}

// ParseSlots decodes and validates slot definitions from YAML.
func ParseSlots(raw []byte) ([]indicator.SlotConfig, error) {
	dec := yaml.NewDecoder(bytes.NewReader(raw))
	dec.KnownFields(true)

	var f SlotsFile
	if err := dec.Decode(&f); err != nil {
		return nil, fmt.Errorf("decode slots: %w", err)
	}
	if err := indicator.ValidateSlots(f.Slots); err != nil {
		return nil, err
	}
	return f.Slots, nil
}

// DefaultSlots returns a TRIX MA Oscillator entry filter and exit filter
// with stock parameters.
func DefaultSlots() []indicator.SlotConfig {
	base := indicator.SlotConfig{
		Indicator:    indicator.KindTrixMAOscillator,
		Method:       "exponential",
		SignalMethod: "exponential",
		BasePrice:    "close",
		Period:       9,
		SignalPeriod: 13,
	}
	entry, exit := base, base
	entry.Name, entry.Slot, entry.Logic = "trix_osc_entry", "open", "rises"
	exit.Name, exit.Slot, exit.Logic = "trix_osc_exit", "close", "changes_direction_downward"
	return []indicator.SlotConfig{entry, exit}
}

// MarshalSlots renders slots in the slots-file layout.
func MarshalSlots(slots []indicator.SlotConfig) ([]byte, error) {
	return yaml.Marshal(SlotsFile{Slots: slots})
}
