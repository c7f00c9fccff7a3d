package indicator

import (
	"fmt"
	"strings"

	"trading-signals/internal/model"
)

// Indicator kinds accepted in SlotConfig.Indicator.
const (
	KindTrixMAOscillator = "trix_ma_oscillator"
	KindTrix             = "trix"
	KindRSI              = "rsi"
)

// SlotConfig is one configured strategy slot as read from the slots file.
// Empty enumerated fields take the indicator's default; periods are required.
type SlotConfig struct {
	Name         string  `yaml:"name" json:"name"`
	Indicator    string  `yaml:"indicator" json:"indicator"`
	Slot         string  `yaml:"slot" json:"slot"` // open | close
	Logic        string  `yaml:"logic" json:"logic"`
	Method       string  `yaml:"method" json:"method"`
	SignalMethod string  `yaml:"signal_method,omitempty" json:"signal_method,omitempty"`
	BasePrice    string  `yaml:"base_price" json:"base_price"`
	Period       int     `yaml:"period" json:"period"`
	SignalPeriod int     `yaml:"signal_period,omitempty" json:"signal_period,omitempty"`
	Level        float64 `yaml:"level,omitempty" json:"level,omitempty"`
	UsePrevious  bool    `yaml:"use_previous" json:"use_previous"`
}

// ParseSlot maps "open" / "close" to a slot type.
func ParseSlot(s string) (model.SlotType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "open", "open_filter":
		return model.OpenFilter, nil
	case "close", "close_filter":
		return model.CloseFilter, nil
	}
	return 0, fmt.Errorf("%w: unknown slot %q", ErrInvalidConfig, s)
}

// ValidateSlots checks a set of SlotConfigs for errors. Every slot must build.
func ValidateSlots(cfgs []SlotConfig) error {
	if len(cfgs) == 0 {
		return fmt.Errorf("%w: no slots configured", ErrInvalidConfig)
	}
	seen := make(map[string]bool, len(cfgs))
	for i, c := range cfgs {
		if strings.TrimSpace(c.Name) == "" {
			return fmt.Errorf("%w: slot #%d has no name", ErrInvalidConfig, i)
		}
		if seen[c.Name] {
			return fmt.Errorf("%w: duplicate slot %q", ErrInvalidConfig, c.Name)
		}
		seen[c.Name] = true

		if _, err := Build(c); err != nil {
			return fmt.Errorf("slot %q: %w", c.Name, err)
		}
	}
	return nil
}

// Build constructs a ready-to-run Calculator from c. For the TRIX MA
// Oscillator it first builds the TRIX sub-indicator and injects it.
func Build(c SlotConfig) (Calculator, error) {
	slot, err := ParseSlot(c.Slot)
	if err != nil {
		return nil, err
	}
	bp, err := parseBasePrice(c.BasePrice)
	if err != nil {
		return nil, err
	}

	switch strings.ToLower(strings.TrimSpace(c.Indicator)) {
	case KindTrixMAOscillator:
		p := DefaultTrixMAOscillatorParams()
		if p.Rule, err = parseRuleOr(c.Logic, p.Rule); err != nil {
			return nil, err
		}
		if p.SignalMethod, err = parseMethodOr(c.SignalMethod, p.SignalMethod); err != nil {
			return nil, err
		}
		p.SignalPeriod = c.SignalPeriod
		p.UsePrevious = c.UsePrevious

		tp := DefaultTrixParams()
		tp.Rule = NoFilter
		tp.BasePrice = bp
		tp.Period = c.Period
		tp.UsePrevious = c.UsePrevious
		if tp.Method, err = parseMethodOr(c.Method, tp.Method); err != nil {
			return nil, err
		}
		if err := tp.Validate(); err != nil {
			return nil, err
		}
		if err := p.Validate(); err != nil {
			return nil, err
		}
		return NewTrixMAOscillator(slot, p, NewTrix(slot, tp)), nil

	case KindTrix:
		p := DefaultTrixParams()
		p.BasePrice = bp
		p.Period = c.Period
		p.UsePrevious = c.UsePrevious
		if p.Rule, p.SignalLine, err = parseTrixLogic(c.Logic); err != nil {
			return nil, err
		}
		if p.Method, err = parseMethodOr(c.Method, p.Method); err != nil {
			return nil, err
		}
		if err := p.Validate(); err != nil {
			return nil, err
		}
		return NewTrix(slot, p), nil

	case KindRSI:
		p := DefaultRSIParams()
		p.BasePrice = bp
		p.Period = c.Period
		p.Level = c.Level
		p.UsePrevious = c.UsePrevious
		if p.Rule, err = parseRuleOr(c.Logic, p.Rule); err != nil {
			return nil, err
		}
		if p.Method, err = parseMethodOr(c.Method, p.Method); err != nil {
			return nil, err
		}
		if err := p.Validate(); err != nil {
			return nil, err
		}
		return NewRSI(slot, p), nil
	}
	return nil, fmt.Errorf("%w: unknown indicator %q", ErrInvalidConfig, c.Indicator)
}

func parseBasePrice(s string) (model.BasePrice, error) {
	if strings.TrimSpace(s) == "" {
		return model.PriceClose, nil
	}
	bp, err := model.ParseBasePrice(s)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	return bp, nil
}

func parseRuleOr(s string, def Rule) (Rule, error) {
	if strings.TrimSpace(s) == "" {
		return def, nil
	}
	return ParseRule(s)
}

func parseMethodOr(s string, def Method) (Method, error) {
	if strings.TrimSpace(s) == "" {
		return def, nil
	}
	return ParseMethod(s)
}

// parseTrixLogic accepts every Rule key plus the signal-line variants
// ("crosses_signal_upward", "above_signal", ...).
func parseTrixLogic(s string) (Rule, bool, error) {
	key := strings.ToLower(strings.TrimSpace(s))
	switch key {
	case "":
		return Rises, false, nil
	case "crosses_signal_upward":
		return CrossesUpward, true, nil
	case "crosses_signal_downward":
		return CrossesDownward, true, nil
	case "above_signal":
		return AboveLevel, true, nil
	case "below_signal":
		return BelowLevel, true, nil
	}
	r, err := ParseRule(key)
	return r, false, err
}
